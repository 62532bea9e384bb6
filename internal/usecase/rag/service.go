// Package rag runs the retrieval-augmented answering pipeline:
// retrieve -> build prompt -> generate -> evaluate -> account cost.
package rag

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/medrag/internal/domain"
	"github.com/kailas-cloud/medrag/internal/metrics"
)

// Options configures the pipeline.
type Options struct {
	Model     string
	EvalModel string // defaults to Model
	TopK      int
	Pricing   domain.Pricing
}

// Pipeline orchestrates one query end to end. Stages run strictly
// sequentially; each issues a single network round trip. The pipeline keeps
// no mutable state, so one instance may serve concurrent Run calls as long
// as the injected services are concurrency-safe.
type Pipeline struct {
	retriever Retriever
	completer Completer
	model     string
	evalModel string
	topK      int
	pricing   domain.Pricing
	logger    *zap.Logger
}

// New creates a pipeline.
func New(retriever Retriever, completer Completer, opts Options, logger *zap.Logger) *Pipeline {
	evalModel := opts.EvalModel
	if evalModel == "" {
		evalModel = opts.Model
	}
	return &Pipeline{
		retriever: retriever,
		completer: completer,
		model:     opts.Model,
		evalModel: evalModel,
		topK:      opts.TopK,
		pricing:   opts.Pricing,
		logger:    logger,
	}
}

// Run answers the query. Any stage failure aborts the whole call with the
// failing stage named in the error; only an evaluation parse failure is
// absorbed into a degraded verdict. The timed interval covers retrieval
// through evaluation; cost accounting and record assembly are outside it.
func (p *Pipeline) Run(ctx context.Context, query string) (domain.AnswerRecord, error) {
	start := time.Now()

	results, err := p.timedRetrieve(ctx, query)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		return domain.AnswerRecord{}, fmt.Errorf("retrieve: %w", err)
	}

	prompt, err := BuildPrompt(query, results)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		return domain.AnswerRecord{}, fmt.Errorf("build prompt: %w", err)
	}

	answer, genStats, err := p.timedComplete(ctx, "generate", p.model, prompt)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		return domain.AnswerRecord{}, fmt.Errorf("generate: %w", err)
	}

	evalStart := time.Now()
	evaluation, evalStats, err := p.evaluate(ctx, query, answer)
	metrics.PipelineStageDuration.WithLabelValues("evaluate").Observe(time.Since(evalStart).Seconds())
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		return domain.AnswerRecord{}, fmt.Errorf("evaluate: %w", err)
	}

	took := time.Since(start)

	cost := p.pricing.Cost(genStats) + p.pricing.Cost(evalStats)

	record := domain.AnswerRecord{
		Answer:               answer,
		ModelUsed:            p.model,
		ResponseTime:         took,
		Relevance:            evaluation.Relevance,
		RelevanceExplanation: evaluation.Explanation,
		Generation:           genStats,
		Evaluation:           evalStats,
		Cost:                 domain.FormatCost(cost),
	}

	metrics.PipelineRunsTotal.WithLabelValues("success").Inc()
	p.logger.Info("query answered",
		zap.Duration("response_time", took),
		zap.String("relevance", string(record.Relevance)),
		zap.Int("total_tokens", genStats.TotalTokens+evalStats.TotalTokens),
		zap.String("cost", record.Cost),
	)
	return record, nil
}

func (p *Pipeline) timedRetrieve(ctx context.Context, query string) ([]domain.SearchResult, error) {
	start := time.Now()
	results, err := p.retriever.Search(ctx, query, p.topK)
	metrics.PipelineStageDuration.WithLabelValues("retrieve").Observe(time.Since(start).Seconds())
	return results, err
}

func (p *Pipeline) timedComplete(ctx context.Context, stage, model, prompt string) (string, domain.TokenStats, error) {
	start := time.Now()
	answer, stats, err := p.completer.Complete(ctx, model, prompt)
	metrics.PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	return answer, stats, err
}
