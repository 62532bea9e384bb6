package domain

import (
	"fmt"
	"strings"
	"time"
)

// AnswerRecord is the final pipeline output for one query. It is assembled
// once per call and never persisted.
type AnswerRecord struct {
	Answer               string
	ModelUsed            string
	ResponseTime         time.Duration
	Relevance            Verdict
	RelevanceExplanation string
	Generation           TokenStats
	Evaluation           TokenStats
	Cost                 string
}

// Render formats the record as an aligned key/value block for CLI output.
func (r AnswerRecord) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "answer: %s\n", r.Answer)
	fmt.Fprintf(&b, "model_used: %s\n", r.ModelUsed)
	fmt.Fprintf(&b, "response_time: %.3fs\n", r.ResponseTime.Seconds())
	fmt.Fprintf(&b, "relevance: %s\n", r.Relevance)
	fmt.Fprintf(&b, "relevance_explanation: %s\n", r.RelevanceExplanation)
	fmt.Fprintf(&b, "prompt_tokens: %d\n", r.Generation.PromptTokens)
	fmt.Fprintf(&b, "completion_tokens: %d\n", r.Generation.CompletionTokens)
	fmt.Fprintf(&b, "total_tokens: %d\n", r.Generation.TotalTokens)
	fmt.Fprintf(&b, "eval_prompt_tokens: %d\n", r.Evaluation.PromptTokens)
	fmt.Fprintf(&b, "eval_completion_tokens: %d\n", r.Evaluation.CompletionTokens)
	fmt.Fprintf(&b, "eval_total_tokens: %d\n", r.Evaluation.TotalTokens)
	fmt.Fprintf(&b, "cost: %s", r.Cost)
	return b.String()
}
