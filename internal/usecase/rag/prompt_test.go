package rag

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/medrag/internal/domain"
)

func testResults() []domain.SearchResult {
	return []domain.SearchResult{
		{ID: 0, Score: 0.9, Payload: map[string]string{
			"text": "Insulin therapy.", "source": "NIH", "focus_area": "Diabetes",
		}},
		{ID: 1, Score: 0.8, Payload: map[string]string{
			"text": "Rest and fluids.", "source": "CDC", "focus_area": "Flu",
		}},
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt("How is diabetes treated?", testResults())
	if err != nil {
		t.Fatalf("BuildPrompt failed: %v", err)
	}

	if !strings.Contains(prompt, "QUESTION: How is diabetes treated?") {
		t.Error("query not embedded in prompt")
	}
	if !strings.Contains(prompt, "answer_in_db: Insulin therapy.") {
		t.Error("first document text missing")
	}
	if !strings.Contains(prompt, "source_in_db: CDC") {
		t.Error("second document source missing")
	}
	if strings.HasSuffix(prompt, "\n") {
		t.Error("prompt must be trimmed of trailing whitespace")
	}

	// Documents render in result order.
	first := strings.Index(prompt, "Insulin therapy.")
	second := strings.Index(prompt, "Rest and fluids.")
	if first < 0 || second < 0 || first > second {
		t.Error("documents out of result order")
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	a, err := BuildPrompt("q", testResults())
	if err != nil {
		t.Fatalf("BuildPrompt failed: %v", err)
	}
	b, err := BuildPrompt("q", testResults())
	if err != nil {
		t.Fatalf("BuildPrompt failed: %v", err)
	}
	if a != b {
		t.Error("same inputs must produce byte-identical prompts")
	}
}

func TestBuildPrompt_NoResults(t *testing.T) {
	prompt, err := BuildPrompt("q", nil)
	if err != nil {
		t.Fatalf("BuildPrompt failed: %v", err)
	}
	if !strings.Contains(prompt, "QUESTION: q") {
		t.Error("query missing from prompt")
	}
	if !strings.HasSuffix(prompt, "CONTEXT:") {
		t.Errorf("empty context should leave a bare CONTEXT section, got %q", prompt)
	}
}

func TestBuildPrompt_MissingPayloadField(t *testing.T) {
	for _, missing := range []string{"text", "source", "focus_area"} {
		results := testResults()
		delete(results[1].Payload, missing)

		_, err := BuildPrompt("q", results)
		if !errors.Is(err, domain.ErrMissingPayloadField) {
			t.Errorf("missing %q: expected ErrMissingPayloadField, got %v", missing, err)
		}
	}
}
