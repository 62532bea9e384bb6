// Package corpus reads the tabular QA reference corpus. Rows missing any of
// the required answer/source/focus_area columns are dropped before ingestion.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/medrag/internal/domain"
)

// Required column names.
const (
	colAnswer    = "answer"
	colSource    = "source"
	colFocusArea = "focus_area"
)

// Reader loads corpus files, choosing the decoder by file extension.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a corpus reader.
func NewReader(logger *zap.Logger) *Reader {
	return &Reader{logger: logger}
}

// Load reads the corpus at path and returns complete documents in file
// order. Document IDs are not assigned here; the indexer numbers the
// retained working set sequentially.
func (r *Reader) Load(path string) ([]domain.Document, error) {
	var (
		docs    []domain.Document
		dropped int
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		docs, dropped, err = r.loadCSV(path)
	case ".parquet":
		docs, dropped, err = r.loadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported corpus format %q: %w", filepath.Ext(path), domain.ErrCorpusRead)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("corpus loaded",
		zap.String("path", path),
		zap.Int("documents", len(docs)),
		zap.Int("dropped_incomplete", dropped),
	)
	return docs, nil
}

func (r *Reader) loadCSV(path string) ([]domain.Document, int, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, 0, fmt.Errorf("open corpus %s: %w", path, domain.ErrCorpusRead)
	}
	defer func() { _ = f.Close() }()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read corpus header: %v: %w", err, domain.ErrCorpusRead)
	}

	cols, err := resolveCSVColumns(header)
	if err != nil {
		return nil, 0, err
	}

	var docs []domain.Document
	dropped := 0
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read corpus row: %v: %w", err, domain.ErrCorpusRead)
		}

		doc := domain.Document{
			Text:      field(row, cols.answer),
			Source:    field(row, cols.source),
			FocusArea: field(row, cols.focusArea),
		}
		if !doc.Complete() {
			dropped++
			continue
		}
		docs = append(docs, doc)
	}

	return docs, dropped, nil
}

// csvColumns holds the indexes of the required columns in the header row.
type csvColumns struct {
	answer    int
	source    int
	focusArea int
}

func resolveCSVColumns(header []string) (csvColumns, error) {
	cols := csvColumns{answer: -1, source: -1, focusArea: -1}
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case colAnswer:
			cols.answer = i
		case colSource:
			cols.source = i
		case colFocusArea:
			cols.focusArea = i
		}
	}
	if cols.answer < 0 || cols.source < 0 || cols.focusArea < 0 {
		return cols, fmt.Errorf(
			"corpus header must contain %s, %s and %s columns: %w",
			colAnswer, colSource, colFocusArea, domain.ErrCorpusRead)
	}
	return cols, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
