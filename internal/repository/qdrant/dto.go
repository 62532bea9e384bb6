package qdrant

// Request/response envelopes for the Qdrant REST API. Qdrant wraps every
// response body in {"result": ..., "status": "ok", "time": ...}.

type createCollectionRequest struct {
	Vectors vectorParams `json:"vectors"`
}

type vectorParams struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

type upsertRequest struct {
	Points []point `json:"points"`
}

type point struct {
	ID      uint64            `json:"id"`
	Vector  []float32         `json:"vector"`
	Payload map[string]string `json:"payload"`
}

type queryRequest struct {
	Query       []float32 `json:"query"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type existsResponse struct {
	Result struct {
		Exists bool `json:"exists"`
	} `json:"result"`
}

type queryResponse struct {
	Result struct {
		Points []scoredPoint `json:"points"`
	} `json:"result"`
}

type scoredPoint struct {
	ID      uint64            `json:"id"`
	Score   float64           `json:"score"`
	Payload map[string]string `json:"payload"`
}

type statusResponse struct {
	Status any `json:"status"`
}
