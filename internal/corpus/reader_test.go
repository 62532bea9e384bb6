package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"

	"github.com/kailas-cloud/medrag/internal/domain"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoad_CSV(t *testing.T) {
	csv := "question,answer,source,focus_area\n" +
		"q1,Insulin therapy.,NIH,Diabetes\n" +
		"q2,,NIH,Diabetes\n" + // missing answer -> dropped
		"q3,Rest and fluids.,,Flu\n" + // missing source -> dropped
		"q4,Vaccination.,CDC,\n" + // missing focus_area -> dropped
		"q5,Antibiotics.,CDC,Infections\n"

	path := writeTempFile(t, "corpus.csv", csv)

	docs, err := NewReader(zap.NewNop()).Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("expected 2 complete documents, got %d", len(docs))
	}
	if docs[0].Text != "Insulin therapy." || docs[0].Source != "NIH" || docs[0].FocusArea != "Diabetes" {
		t.Errorf("docs[0] = %+v", docs[0])
	}
	if docs[1].Text != "Antibiotics." {
		t.Errorf("docs[1] = %+v, want corpus order preserved", docs[1])
	}
}

func TestLoad_CSVMissingColumn(t *testing.T) {
	path := writeTempFile(t, "bad.csv", "answer,source\nA,B\n")

	_, err := NewReader(zap.NewNop()).Load(path)
	if !errors.Is(err, domain.ErrCorpusRead) {
		t.Fatalf("expected ErrCorpusRead, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewReader(zap.NewNop()).Load(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, domain.ErrCorpusRead) {
		t.Fatalf("expected ErrCorpusRead, got %v", err)
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := writeTempFile(t, "corpus.xlsx", "binary")

	_, err := NewReader(zap.NewNop()).Load(path)
	if !errors.Is(err, domain.ErrCorpusRead) {
		t.Fatalf("expected ErrCorpusRead, got %v", err)
	}
}

// parquetRow mirrors the corpus schema with nullable columns.
type parquetRow struct {
	Answer    *string `parquet:"answer,optional"`
	Source    *string `parquet:"source,optional"`
	FocusArea *string `parquet:"focus_area,optional"`
}

func strPtr(s string) *string { return &s }

func TestLoad_Parquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create parquet: %v", err)
	}

	w := parquet.NewGenericWriter[parquetRow](f)
	_, err = w.Write([]parquetRow{
		{Answer: strPtr("Insulin therapy."), Source: strPtr("NIH"), FocusArea: strPtr("Diabetes")},
		{Answer: nil, Source: strPtr("NIH"), FocusArea: strPtr("Diabetes")}, // null -> dropped
		{Answer: strPtr("Antibiotics."), Source: strPtr("CDC"), FocusArea: strPtr("Infections")},
	})
	if err != nil {
		t.Fatalf("write parquet rows: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close parquet writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close parquet file: %v", err)
	}

	docs, err := NewReader(zap.NewNop()).Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("expected 2 complete documents, got %d", len(docs))
	}
	if docs[0].Text != "Insulin therapy." || docs[1].Text != "Antibiotics." {
		t.Errorf("docs = %+v", docs)
	}
}
