package rag

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/medrag/internal/domain"
)

// Fixed evaluation prompt. The model is instructed to answer with a bare
// JSON object; ParseEvaluation absorbs anything that does not parse.
const evalPromptTemplate = `You are an expert evaluator for a RAG system.
Your task is to analyze the relevance of the generated answer to the given question.
Based on the relevance of the generated answer, you will classify it
as "NON_RELEVANT", "PARTLY_RELEVANT", or "RELEVANT".

Here is the data for evaluation:

Question: %s
Generated Answer: %s

Please analyze the content and context of the generated answer in relation to the question
and provide your evaluation in parsable JSON without using code blocks:

{
  "Relevance": "NON_RELEVANT" | "PARTLY_RELEVANT" | "RELEVANT",
  "Explanation": "[Provide a brief explanation for your evaluation]"
}`

// evaluate scores the answer's relevance to the question. A parse failure is
// not an error: it degrades to the Unknown verdict while keeping the token
// stats, since the call's cost was incurred regardless. Only a service
// failure aborts.
func (p *Pipeline) evaluate(ctx context.Context, question, answer string) (domain.Evaluation, domain.TokenStats, error) {
	prompt := fmt.Sprintf(evalPromptTemplate, question, answer)

	raw, stats, err := p.completer.Complete(ctx, p.evalModel, prompt)
	if err != nil {
		return domain.Evaluation{}, stats, err
	}

	return domain.ParseEvaluation(raw), stats, nil
}
