package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/medrag/internal/domain"
)

// loadParquet reads the corpus from a parquet file using the generic
// row-group reader with named-column resolution. Null values count as
// missing fields.
func (r *Reader) loadParquet(path string) ([]domain.Document, int, error) {
	h, err := openParquet(path)
	if err != nil {
		return nil, 0, err
	}
	defer h.Close()

	cols, err := resolveParquetColumns(h.pf)
	if err != nil {
		return nil, 0, err
	}

	var docs []domain.Document
	dropped := 0

	for _, rg := range h.pf.RowGroups() {
		rows := parquet.NewRowGroupReader(rg)
		buf := make([]parquet.Row, 256)

		for {
			n, readErr := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				doc := rowToDocument(buf[i], cols)
				if !doc.Complete() {
					dropped++
					continue
				}
				docs = append(docs, doc)
			}

			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return nil, 0, fmt.Errorf("read parquet rows: %v: %w", readErr, domain.ErrCorpusRead)
			}
		}
	}

	return docs, dropped, nil
}

// parquetColumns holds the leaf-level indexes of the required columns.
type parquetColumns struct {
	answer    int
	source    int
	focusArea int
}

func resolveParquetColumns(pf *parquet.File) (parquetColumns, error) {
	cols := parquetColumns{answer: -1, source: -1, focusArea: -1}
	for i, path := range pf.Schema().Columns() {
		if len(path) == 0 {
			continue
		}
		switch path[0] {
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
			"parquet schema must contain %s, %s and %s columns: %w",
			colAnswer, colSource, colFocusArea, domain.ErrCorpusRead)
	}
	return cols, nil
}

func rowToDocument(row parquet.Row, cols parquetColumns) domain.Document {
	var doc domain.Document
	for _, v := range row {
		if v.IsNull() {
			continue
		}
		switch v.Column() {
		case cols.answer:
			doc.Text = v.String()
		case cols.source:
			doc.Source = v.String()
		case cols.focusArea:
			doc.FocusArea = v.String()
		}
	}
	return doc
}

// parquetHandle wraps parquet.File + underlying os.File for proper cleanup.
type parquetHandle struct {
	pf   *parquet.File
	file *os.File
}

func (h *parquetHandle) Close() {
	_ = h.file.Close()
}

func openParquet(path string) (*parquetHandle, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, domain.ErrCorpusRead)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat corpus: %v: %w", err, domain.ErrCorpusRead)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open parquet: %v: %w", err, domain.ErrCorpusRead)
	}
	return &parquetHandle{pf: pf, file: f}, nil
}
