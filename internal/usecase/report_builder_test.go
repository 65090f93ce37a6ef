package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"PredEval/internal/domain/models"
	domrepo "PredEval/internal/domain/repository"
	"PredEval/internal/eval"
	"PredEval/pkg/cache"
)

type fakeSource struct {
	rows  []models.RawRow
	err   error
	calls int
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) Rows(ctx context.Context) ([]models.RawRow, error) {
	s.calls++
	return s.rows, s.err
}

func row(ts string, p string, ret string, up string) models.RawRow {
	return models.RawRow{
		models.ColWallTime:    ts,
		models.ColMid:         "1.25000",
		models.ColPFused:      p,
		models.ColPFusedCal:   p,
		models.ColPHCQR:       p,
		models.ColPLVP:        p,
		models.ColPRRF:        p,
		models.ColOFI:         "2.0",
		models.ColSpread:      "0.001",
		models.ColRealizedRet: ret,
		models.ColRealizedUp:  up,
	}
}

func TestBuildReportSections(t *testing.T) {
	src := &fakeSource{rows: []models.RawRow{
		row("2025-06-01T10:00:00Z", "0.62", "0.002", "1"),
		row("2025-06-01T10:00:30Z", "0.35", "-0.001", "0"),
		row("2025-06-01T10:01:00Z", "0.50", "", ""),
	}}
	b := NewReportBuilder(src, nil)

	r, err := b.Build(context.Background(), DefaultEvalParams())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if r.Source != "fake" {
		t.Fatalf("source = %q", r.Source)
	}
	if r.Ingest.Resolved != 2 || r.Ingest.Unresolved != 1 || r.Ingest.Dropped != 0 {
		t.Fatalf("unexpected ingest stats %+v", r.Ingest)
	}
	if r.Market == nil || r.Returns == nil || r.Trading == nil {
		t.Fatalf("expected market, returns and trading sections")
	}
	if len(r.Components) != 4 {
		t.Fatalf("components = %d", len(r.Components))
	}
	if r.Trading.Count != 2 {
		t.Fatalf("trades = %d", r.Trading.Count)
	}
	if r.Trading.LongThreshold != eval.DefaultLongThreshold {
		t.Fatalf("long threshold = %v", r.Trading.LongThreshold)
	}
	if len(r.Calibration) == 0 || len(r.Regimes) == 0 || len(r.Buckets) == 0 {
		t.Fatalf("expected calibration, regimes and buckets sections")
	}
	if r.FirstSeen == nil || r.LastSeen == nil {
		t.Fatalf("expected first/last seen timestamps")
	}
	if !r.LastSeen.After(*r.FirstSeen) {
		t.Fatalf("last seen %v not after first seen %v", r.LastSeen, r.FirstSeen)
	}
}

func TestBuildReportEmptySource(t *testing.T) {
	src := &fakeSource{}
	b := NewReportBuilder(src, nil)

	r, err := b.Build(context.Background(), DefaultEvalParams())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if r.Market != nil || r.Returns != nil || r.Trading != nil {
		t.Fatalf("expected empty sections, got %+v", r)
	}
	if len(r.Components) != 0 || len(r.Calibration) != 0 {
		t.Fatalf("expected no component or calibration entries")
	}
}

func TestBuildReportSourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	b := NewReportBuilder(src, nil)

	if _, err := b.Build(context.Background(), DefaultEvalParams()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestBuildReportUsesCache(t *testing.T) {
	src := &fakeSource{rows: []models.RawRow{
		row("2025-06-01T10:00:00Z", "0.62", "0.002", "1"),
		row("2025-06-01T10:00:30Z", "0.35", "-0.001", "0"),
	}}
	b := NewReportBuilder(src, nil)
	b.SetCache(cache.NewMemoryCache(), time.Minute)

	fresh, err := b.Build(context.Background(), DefaultEvalParams())
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	cached, err := b.Build(context.Background(), DefaultEvalParams())
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("source called %d times, want 1", src.calls)
	}
	if !reflect.DeepEqual(fresh, cached) {
		t.Fatalf("cached report differs from fresh one:\nfresh  %+v\ncached %+v", fresh, cached)
	}

	// Different params miss the cache.
	p := DefaultEvalParams()
	p.Component = domrepo.CompHCQR
	if _, err := b.Build(context.Background(), p); err != nil {
		t.Fatalf("third build: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("source called %d times, want 2", src.calls)
	}
}

func TestSimulationRejectsNothing(t *testing.T) {
	src := &fakeSource{rows: []models.RawRow{
		row("2025-06-01T10:00:00Z", "0.50", "0.002", "1"),
	}}
	b := NewReportBuilder(src, nil)

	_, _, err := b.Simulation(context.Background(), domrepo.CompFusedCal, 0.55, 0.45)
	if !errors.Is(err, eval.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}
