package eval

import (
	"errors"
	"math"
	"testing"

	"PredEval/internal/domain/models"
	domrepo "PredEval/internal/domain/repository"
)

func row(overrides map[string]string) models.RawRow {
	r := models.RawRow{
		models.ColWallTime:    "2025-06-01T10:00:00Z",
		models.ColMid:         "1.0",
		models.ColPFused:      "0.5",
		models.ColPFusedCal:   "0.5",
		models.ColPHCQR:       "0.5",
		models.ColPLVP:        "0.5",
		models.ColPRRF:        "0.5",
		models.ColOFI:         "0",
		models.ColSpread:      "0.001",
		models.ColRealizedRet: "0.001",
		models.ColRealizedUp:  "1",
	}
	for k, v := range overrides {
		r[k] = v
	}
	return r
}

func resolvedRec(pCal, ret float64, up int) models.PredictionRecord {
	return models.PredictionRecord{
		Price:       1.0,
		PFusedCal:   pCal,
		Spread:      0.0005,
		RealizedRet: ret,
		RealizedUp:  up,
		Resolved:    true,
	}
}

func TestIngestClassification(t *testing.T) {
	rows := []models.RawRow{
		row(nil), // resolved
		row(map[string]string{models.ColRealizedRet: "", models.ColRealizedUp: ""}), // unresolved
		row(map[string]string{models.ColMid: "not-a-number"}),                       // dropped
		row(map[string]string{models.ColRealizedRet: "  "}),                         // blank ret -> unresolved
	}
	delete(rows[2], models.ColSpread) // still dropped either way

	all, resolved, stats := Ingest(rows)
	if stats.Total != 4 || stats.Dropped != 1 || stats.Unresolved != 2 || stats.Resolved != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(all) != 3 || len(resolved) != 1 {
		t.Fatalf("unexpected sizes all=%d resolved=%d", len(all), len(resolved))
	}
}

func TestIngestMalformedOutcomeLabelStaysUnresolved(t *testing.T) {
	rows := []models.RawRow{
		row(map[string]string{models.ColRealizedUp: "0.5"}),
		row(map[string]string{models.ColRealizedUp: "up"}),
	}
	all, resolved, stats := Ingest(rows)
	if len(all) != 2 || len(resolved) != 0 {
		t.Fatalf("sizes all=%d resolved=%d", len(all), len(resolved))
	}
	if stats.Unresolved != 2 || stats.Dropped != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestIngestDropsMissingMandatoryField(t *testing.T) {
	r := row(nil)
	delete(r, models.ColMid)
	all, _, stats := Ingest([]models.RawRow{r})
	if len(all) != 0 || stats.Dropped != 1 {
		t.Fatalf("row without mid must be dropped, got all=%d stats=%+v", len(all), stats)
	}
}

func TestIngestResolvedIsSubsequence(t *testing.T) {
	rows := []models.RawRow{
		row(map[string]string{models.ColMid: "1.0"}),
		row(map[string]string{models.ColMid: "2.0", models.ColRealizedRet: ""}),
		row(map[string]string{models.ColMid: "3.0"}),
		row(map[string]string{models.ColMid: "4.0", models.ColRealizedUp: ""}),
		row(map[string]string{models.ColMid: "5.0"}),
	}
	all, resolved, _ := Ingest(rows)
	if len(all) != 5 || len(resolved) != 3 {
		t.Fatalf("sizes all=%d resolved=%d", len(all), len(resolved))
	}
	j := 0
	for _, rec := range all {
		if j < len(resolved) && resolved[j].Price == rec.Price {
			j++
		}
	}
	if j != len(resolved) {
		t.Fatalf("resolved is not an order-preserving subsequence of all")
	}
}

func TestMarketMovementUsesSequenceOrder(t *testing.T) {
	all := []models.PredictionRecord{
		{Price: 2.0}, {Price: 5.0}, {Price: 1.0}, {Price: 4.0},
	}
	mv, err := MarketMovement(all)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mv.StartPrice != 2.0 || mv.EndPrice != 4.0 {
		t.Fatalf("start/end must follow sequence order, got %+v", mv)
	}
	if mv.MinPrice != 1.0 || mv.MaxPrice != 5.0 {
		t.Fatalf("unexpected range %+v", mv)
	}
	if math.Abs(mv.PctChange-1.0) > 1e-12 {
		t.Fatalf("pct change = %v, want 1.0", mv.PctChange)
	}
}

func TestMarketMovementEmpty(t *testing.T) {
	if _, err := MarketMovement(nil); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestComponentAccuracyBoundary(t *testing.T) {
	// p == 0.5 predicts down: correct iff realizedUp == 0.
	resolved := []models.PredictionRecord{
		resolvedRec(0.5, 0.001, 1),  // wrong
		resolvedRec(0.5, -0.001, 0), // correct
	}
	score, err := ComponentAccuracy(resolved, domrepo.CompFusedCal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.Accuracy != 0.5 {
		t.Fatalf("boundary accuracy = %v, want 0.5", score.Accuracy)
	}
}

func TestComponentAccuracyBrier(t *testing.T) {
	resolved := []models.PredictionRecord{
		resolvedRec(0.8, 0.001, 1),
		resolvedRec(0.3, -0.001, 0),
	}
	score, err := ComponentAccuracy(resolved, domrepo.CompFusedCal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (0.2*0.2 + 0.3*0.3) / 2
	if math.Abs(score.Brier-want) > 1e-12 {
		t.Fatalf("brier = %v, want %v", score.Brier, want)
	}
	if score.Accuracy != 1.0 {
		t.Fatalf("accuracy = %v, want 1.0", score.Accuracy)
	}
	if score.Accuracy < 0 || score.Accuracy > 1 || score.Brier < 0 || score.Brier > 1 {
		t.Fatalf("score out of range: %+v", score)
	}
}

func TestComponentAccuracyEmpty(t *testing.T) {
	if _, err := ComponentAccuracy(nil, domrepo.CompFusedCal); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestTradingSimulationLong(t *testing.T) {
	resolved := []models.PredictionRecord{{
		Price: 1.0, PFusedCal: 0.6, Spread: 0.0005,
		RealizedRet: 0.001, RealizedUp: 1, Resolved: true,
	}}
	trades := TradingSimulation(resolved, domrepo.CompFusedCal, DefaultLongThreshold, DefaultShortThreshold)
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	tr := trades[0]
	if tr.Direction != models.Long || tr.GrossReturn != 0.001 || tr.CostFraction != 0.0005 {
		t.Fatalf("unexpected trade %+v", tr)
	}
	if math.Abs(tr.NetReturn-0.0005) > 1e-12 {
		t.Fatalf("net = %v, want 0.0005", tr.NetReturn)
	}
}

func TestTradingSimulationShort(t *testing.T) {
	resolved := []models.PredictionRecord{{
		Price: 1.0, PFusedCal: 0.4, Spread: 0.001,
		RealizedRet: -0.002, RealizedUp: 0, Resolved: true,
	}}
	trades := TradingSimulation(resolved, domrepo.CompFusedCal, DefaultLongThreshold, DefaultShortThreshold)
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	tr := trades[0]
	if tr.Direction != models.Short || tr.GrossReturn != 0.002 || tr.CostFraction != 0.001 {
		t.Fatalf("unexpected trade %+v", tr)
	}
	if math.Abs(tr.NetReturn-0.001) > 1e-12 {
		t.Fatalf("net = %v, want 0.001", tr.NetReturn)
	}
	if math.Abs(tr.Confidence-0.6) > 1e-12 {
		t.Fatalf("short confidence = %v, want 0.6", tr.Confidence)
	}
}

func TestTradingSimulationNoSignal(t *testing.T) {
	resolved := []models.PredictionRecord{resolvedRec(0.5, 0.001, 1)}
	trades := TradingSimulation(resolved, domrepo.CompFusedCal, DefaultLongThreshold, DefaultShortThreshold)
	if len(trades) != 0 {
		t.Fatalf("p=0.5 must emit no trade, got %d", len(trades))
	}
}

func TestSharpeSingleTradeIsZero(t *testing.T) {
	trades := []models.Trade{{Direction: models.Long, GrossReturn: 0.001, NetReturn: 0.0005}}
	sum, err := SummarizeTrades(trades)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.SharpeRatio != 0 {
		t.Fatalf("sharpe with one trade = %v, want 0", sum.SharpeRatio)
	}
	if sum.Count != 1 || sum.WinRate != 1.0 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestSummarizeTradesEmpty(t *testing.T) {
	if _, err := SummarizeTrades(nil); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestCalibrationTablePartitionAndClamp(t *testing.T) {
	resolved := []models.PredictionRecord{
		resolvedRec(0.05, 0.001, 1),
		resolvedRec(0.55, 0.001, 1),
		resolvedRec(0.55, -0.001, 0),
		resolvedRec(1.0, 0.001, 1), // would be bin 10; clamped to 9
	}
	bins, err := CalibrationTable(resolved, domrepo.CompFusedCal, DefaultNumBins)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	total := 0
	for _, b := range bins {
		if b.Bin < 0 || b.Bin > 9 {
			t.Fatalf("bin index out of range: %+v", b)
		}
		if b.Count == 0 {
			t.Fatalf("empty bin emitted: %+v", b)
		}
		total += b.Count
	}
	if total != len(resolved) {
		t.Fatalf("bins partition %d records, want %d", total, len(resolved))
	}
	top := bins[len(bins)-1]
	if top.Bin != 9 || top.Count != 1 {
		t.Fatalf("p=1.0 must land in top bin, got %+v", top)
	}
	mid := bins[1]
	if mid.Bin != 5 || mid.Count != 2 || mid.ActualUpRate != 0.5 {
		t.Fatalf("unexpected mid bin %+v", mid)
	}
	if math.Abs(mid.ExpectedUp-0.55) > 1e-12 {
		t.Fatalf("expected midpoint = %v, want 0.55", mid.ExpectedUp)
	}
}

func TestRegimeBoundaryIsNeutral(t *testing.T) {
	rec := resolvedRec(0.6, 0.001, 1)
	rec.OFI = 10
	stats, err := RegimeAnalysis([]models.PredictionRecord{rec}, domrepo.CompFusedCal, DefaultRegimeHigh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 1 || stats[0].Regime != RegimeNeutral {
		t.Fatalf("ofi=10 must be Neutral, got %+v", stats)
	}
}

func TestRegimeSplit(t *testing.T) {
	recs := []models.PredictionRecord{}
	for _, ofi := range []float64{15, -15, 0, -10} {
		rec := resolvedRec(0.6, 0.002, 1)
		rec.OFI = ofi
		recs = append(recs, rec)
	}
	stats, err := RegimeAnalysis(recs, domrepo.CompFusedCal, DefaultRegimeHigh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := map[string]int{}
	for _, s := range stats {
		got[s.Regime] = s.Count
		if s.Accuracy != 1.0 {
			t.Fatalf("accuracy in %s = %v, want 1.0", s.Regime, s.Accuracy)
		}
		if math.Abs(s.AvgReturn-0.002) > 1e-12 {
			t.Fatalf("avg return in %s = %v", s.Regime, s.AvgReturn)
		}
	}
	if got[RegimeHighBuying] != 1 || got[RegimeHighSelling] != 1 || got[RegimeNeutral] != 2 {
		t.Fatalf("unexpected regime counts %v", got)
	}
}

func TestConfidenceBucketEdges(t *testing.T) {
	cases := []struct {
		p      float64
		bucket string
	}{
		{0.0, "Very Low"},
		{0.29, "Very Low"},
		{0.3, "Low"},
		{0.4, "Neutral"},
		{0.59, "Neutral"},
		{0.6, "High"},
		{0.7, "Very High"},
		{1.0, "Very High"},
	}
	for _, tc := range cases {
		rec := resolvedRec(tc.p, 0.001, 1)
		buckets, err := ConfidenceBucketAnalysis([]models.PredictionRecord{rec}, domrepo.CompFusedCal)
		if err != nil {
			t.Fatalf("p=%v: unexpected error: %v", tc.p, err)
		}
		if len(buckets) != 1 || buckets[0].Name != tc.bucket {
			t.Fatalf("p=%v landed in %+v, want %s", tc.p, buckets, tc.bucket)
		}
	}
}

func TestReturnsOverview(t *testing.T) {
	resolved := []models.PredictionRecord{
		resolvedRec(0.6, 0.001, 1),
		resolvedRec(0.6, -0.003, 0),
		resolvedRec(0.6, 0.002, 1),
	}
	ov, err := ReturnsOverview(resolved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(ov.Mean) > 1e-12 {
		t.Fatalf("mean = %v, want 0", ov.Mean)
	}
	if math.Abs(ov.Median-0.001) > 1e-12 {
		t.Fatalf("median = %v, want 0.001", ov.Median)
	}
	if math.Abs(ov.WinRate-2.0/3.0) > 1e-12 {
		t.Fatalf("win rate = %v", ov.WinRate)
	}
}
