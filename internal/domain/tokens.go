package domain

import "fmt"

// TokenStats is the usage reported by one completion call. Values are taken
// as reported by the service; TotalTokens is not independently verified.
type TokenStats struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Add returns the element-wise sum of two usage reports.
func (t TokenStats) Add(other TokenStats) TokenStats {
	return TokenStats{
		PromptTokens:     t.PromptTokens + other.PromptTokens,
		CompletionTokens: t.CompletionTokens + other.CompletionTokens,
		TotalTokens:      t.TotalTokens + other.TotalTokens,
	}
}

// Pricing holds per-thousand-token rates for the configured model. Rates are
// configuration, not discovered from the service, and go stale if upstream
// pricing changes.
type Pricing struct {
	PromptPer1K     float64
	CompletionPer1K float64
}

// Cost converts token usage into currency units.
func (p Pricing) Cost(stats TokenStats) float64 {
	return (float64(stats.PromptTokens)*p.PromptPer1K +
		float64(stats.CompletionTokens)*p.CompletionPer1K) / 1000
}

// FormatCost renders a cost with the currency prefix, 5 decimal places.
func FormatCost(cost float64) string {
	return fmt.Sprintf("$%.5f", cost)
}
