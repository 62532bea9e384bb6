package rag

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/medrag/internal/domain"
)

// Fixed grounding prompt. Rendering is deterministic: the same query and the
// same ordered results always produce byte-identical output.
const promptTemplate = `You're an assistant at the front desk of medical information. Answer the QUESTION based on the CONTEXT from the FAQ database.
Use only the facts from the CONTEXT when answering the QUESTION.

QUESTION: %s

CONTEXT:
%s`

const entryTemplate = `answer_in_db: %s
source_in_db: %s
focus_area_in_db: %s`

// requiredPayloadFields must be present on every retrieved document. Their
// presence is a contract with the indexer, which always stores all three.
var requiredPayloadFields = []string{
	domain.PayloadText,
	domain.PayloadSource,
	domain.PayloadFocusArea,
}

// BuildPrompt renders the grounding prompt from the query and the retrieved
// documents, in result order, separated by blank lines. A document missing
// any required payload field fails the build: the prompt cannot be
// constructed from a violated indexing contract.
func BuildPrompt(query string, results []domain.SearchResult) (string, error) {
	var context strings.Builder
	for _, res := range results {
		for _, field := range requiredPayloadFields {
			if _, ok := res.Payload[field]; !ok {
				return "", fmt.Errorf("document %d: payload field %q: %w",
					res.ID, field, domain.ErrMissingPayloadField)
			}
		}
		entry := fmt.Sprintf(entryTemplate,
			res.Payload[domain.PayloadText],
			res.Payload[domain.PayloadSource],
			res.Payload[domain.PayloadFocusArea],
		)
		context.WriteString(entry)
		context.WriteString("\n\n")
	}

	return strings.TrimSpace(fmt.Sprintf(promptTemplate, query, context.String())), nil
}
