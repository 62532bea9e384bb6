// Package qdrant is a minimal REST repository for the vector index service.
// It covers the four operations the pipeline needs: existence check,
// collection creation, batch upsert and KNN query. The service itself is an
// external collaborator; medrag assumes it is already running.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/medrag/internal/domain"
)

// CosineDistance is the similarity metric used for all collections.
const CosineDistance = "Cosine"

// Repo talks to a Qdrant instance over REST. Safe for concurrent use: the
// underlying http.Client is shared and stateless.
type Repo struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// Config holds connection details for the index service.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// New creates a Qdrant repository.
func New(cfg Config, logger *zap.Logger) *Repo {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Repo{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// CollectionExists reports whether the named collection exists.
func (r *Repo) CollectionExists(ctx context.Context, name string) (bool, error) {
	var resp existsResponse
	err := r.doJSON(ctx, http.MethodGet, fmt.Sprintf("/collections/%s/exists", name), nil, &resp)
	if err != nil {
		return false, fmt.Errorf("check collection %s: %w", name, err)
	}
	return resp.Result.Exists, nil
}

// CreateCollection creates a collection with the given vector size and
// cosine distance. Dimensionality and metric are fixed at creation.
func (r *Repo) CreateCollection(ctx context.Context, name string, vectorSize int) error {
	req := createCollectionRequest{
		Vectors: vectorParams{Size: vectorSize, Distance: CosineDistance},
	}
	var resp statusResponse
	err := r.doJSON(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", name), req, &resp)
	if err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	return nil
}

// UpsertPoints stores the documents with their vectors and payload in a
// single batch. Vectors and documents are matched by slice position.
func (r *Repo) UpsertPoints(ctx context.Context, name string, docs []domain.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("upsert %s: %d documents for %d vectors", name, len(docs), len(vectors))
	}

	points := make([]point, len(docs))
	for i, doc := range docs {
		points[i] = point{
			ID:      doc.ID,
			Vector:  vectors[i],
			Payload: doc.Payload(),
		}
	}

	var resp statusResponse
	err := r.doJSON(ctx, http.MethodPut,
		fmt.Sprintf("/collections/%s/points?wait=true", name),
		upsertRequest{Points: points}, &resp)
	if err != nil {
		return fmt.Errorf("upsert %d points into %s: %w", len(points), name, err)
	}
	return nil
}

// Query runs a KNN search and returns up to limit hits with payload, ranked
// by descending similarity score. Single round trip, no pagination.
func (r *Repo) Query(ctx context.Context, name string, vector []float32, limit int) ([]domain.SearchResult, error) {
	req := queryRequest{Query: vector, Limit: limit, WithPayload: true}

	var resp queryResponse
	err := r.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("/collections/%s/points/query", name), req, &resp)
	if err != nil {
		return nil, fmt.Errorf("query collection %s: %w", name, err)
	}

	results := make([]domain.SearchResult, len(resp.Result.Points))
	for i, p := range resp.Result.Points {
		results[i] = domain.SearchResult{ID: p.ID, Score: p.Score, Payload: p.Payload}
	}
	return results, nil
}

// doJSON performs one request with a JSON body and decodes the JSON
// response. Network and non-2xx failures map to ErrIndexUnavailable, 404 to
// ErrCollectionNotFound.
func (r *Repo) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("api-key", r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrIndexUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrCollectionNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s: %w", resp.StatusCode, bytes.TrimSpace(detail), domain.ErrIndexUnavailable)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %v: %w", err, domain.ErrIndexUnavailable)
		}
	}
	return nil
}
