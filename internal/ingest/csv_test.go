package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"PredEval/internal/domain/models"
	"PredEval/internal/eval"
)

const sampleLog = `wall_time_iso,mid,p_fused,p_fused_cal,p_hcqr,p_lvp,p_rrf,ofi_w,spread,realized_ret_30s,realized_up_30s
2025-06-01T10:00:00Z,1.00000,0.61,0.60,0.58,0.62,0.55,12.5,0.0005,0.001,1
2025-06-01T10:00:01Z,1.00100,0.41,0.40,0.45,0.38,0.42,-3.0,0.0010,,
2025-06-01T10:00:02Z,abc,0.50,0.50,0.50,0.50,0.50,0.0,0.0010,0.000,0
2025-06-01T10:00:03Z,1.00200,0.70,0.72,0.66,0.71,0.69,5.0,0.0008,-0.002,0
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hype_predictions.csv")
	if err := os.WriteFile(path, []byte(sampleLog), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

func TestCSVSourceRows(t *testing.T) {
	src := NewCSVSource(writeSample(t))
	rows, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 raw rows, got %d", len(rows))
	}
	if rows[0][models.ColMid] != "1.00000" {
		t.Fatalf("unexpected first mid %q", rows[0][models.ColMid])
	}
	if rows[1][models.ColRealizedRet] != "" {
		t.Fatalf("blank realized_ret must survive as empty string")
	}
}

func TestCSVSourceFeedsIngest(t *testing.T) {
	src := NewCSVSource(writeSample(t))
	rows, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	all, resolved, stats := eval.Ingest(rows)
	// Row 3 has a non-numeric mid and must be dropped entirely.
	if stats.Dropped != 1 || len(all) != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.Unresolved != 1 || stats.Resolved != 2 || len(resolved) != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"))
	if _, err := src.Rows(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
