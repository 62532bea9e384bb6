package domain

import (
	"encoding/json"
	"strings"
)

// Verdict classifies how well a generated answer addresses its question.
type Verdict string

// Verdict values. Unknown is produced only when the evaluator's structured
// response fails to parse.
const (
	VerdictNonRelevant    Verdict = "NON_RELEVANT"
	VerdictPartlyRelevant Verdict = "PARTLY_RELEVANT"
	VerdictRelevant       Verdict = "RELEVANT"
	VerdictUnknown        Verdict = "UNKNOWN"
)

// FallbackExplanation is returned whenever the evaluation response cannot be
// parsed or lacks an explanation.
const FallbackExplanation = "Failed to parse evaluation"

// Evaluation is the structured relevance verdict with its explanation.
type Evaluation struct {
	Relevance   Verdict
	Explanation string
}

// ParseEvaluation extracts an Evaluation from raw model output. It never
// fails: malformed JSON yields the Unknown fallback, and each missing key
// falls back individually. The cost of the call was incurred either way, so
// callers keep the token stats regardless of the outcome.
func ParseEvaluation(raw string) Evaluation {
	var payload struct {
		Relevance   string `json:"Relevance"`
		Explanation string `json:"Explanation"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return Evaluation{Relevance: VerdictUnknown, Explanation: FallbackExplanation}
	}

	ev := Evaluation{Explanation: payload.Explanation}
	switch Verdict(payload.Relevance) {
	case VerdictNonRelevant, VerdictPartlyRelevant, VerdictRelevant:
		ev.Relevance = Verdict(payload.Relevance)
	default:
		ev.Relevance = VerdictUnknown
	}
	if ev.Explanation == "" {
		ev.Explanation = FallbackExplanation
	}
	return ev
}
