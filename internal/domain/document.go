package domain

// Payload field names stored with every indexed document. The prompt
// renderer reads these back from search results, so ingestion must always
// write all three.
const (
	PayloadText      = "text"
	PayloadSource    = "source"
	PayloadFocusArea = "focus_area"
)

// Document is one corpus entry prepared for indexing. IDs are sequential
// integers assigned in corpus order at ingestion time.
type Document struct {
	ID        uint64
	Text      string
	Source    string
	FocusArea string
}

// Complete reports whether all required fields are non-empty. Incomplete
// documents are dropped before ingestion.
func (d Document) Complete() bool {
	return d.Text != "" && d.Source != "" && d.FocusArea != ""
}

// Payload returns the metadata stored alongside the document vector.
func (d Document) Payload() map[string]string {
	return map[string]string{
		PayloadText:      d.Text,
		PayloadSource:    d.Source,
		PayloadFocusArea: d.FocusArea,
	}
}

// SearchResult is a single similarity hit with its stored payload.
type SearchResult struct {
	ID      uint64
	Score   float64
	Payload map[string]string
}
