package report

import (
	"strings"
	"testing"

	"PredEval/internal/domain/models"
)

func fullReport() *models.Report {
	return &models.Report{
		Source:    "csv:predictions.csv",
		Component: "p_fused_cal",
		Ingest:    models.IngestStats{Total: 10, Dropped: 1, Unresolved: 3, Resolved: 6},
		Market: &models.MarketMovement{
			StartPrice: 1.25, EndPrice: 1.30, PctChange: 0.04, MinPrice: 1.20, MaxPrice: 1.31,
		},
		Components: []models.ComponentScore{
			{Component: "p_hcqr", Accuracy: 0.5, Brier: 0.25},
			{Component: "p_fused_cal", Accuracy: 0.6667, Brier: 0.21},
		},
		Returns: &models.ReturnsOverview{Mean: 0.0001, Median: 0.0002, Stdev: 0.001, WinRate: 0.5},
		Trading: &models.TradeSummary{
			LongThreshold: 0.55, ShortThreshold: 0.45,
			Count: 4, WinRate: 0.75, AvgGross: 0.002, AvgCost: 0.0008, AvgNet: 0.0012, SharpeRatio: 1.3,
		},
		Calibration: []models.CalibrationBin{
			{Bin: 3, Count: 2, ActualUpRate: 0.5, ExpectedUp: 0.35},
			{Bin: 6, Count: 4, ActualUpRate: 0.75, ExpectedUp: 0.65},
		},
		Bins: 10,
		Regimes: []models.RegimeStats{
			{Regime: "HighBuying", Count: 2, Accuracy: 1, AvgReturn: 0.001},
			{Regime: "Neutral", Count: 4, Accuracy: 0.5, AvgReturn: -0.0002},
		},
		Buckets: []models.ConfidenceBucket{
			{Name: "Neutral", Count: 3, Accuracy: 0.3333, AvgReturn: 0.0001},
			{Name: "High", Count: 3, Accuracy: 1, AvgReturn: 0.002},
		},
	}
}

func TestRenderTextSections(t *testing.T) {
	out := RenderText(fullReport())

	for _, want := range []string{
		"=== DATA OVERVIEW ===",
		"Total predictions made: 9",
		"Predictions with outcomes: 6",
		"Rows dropped: 1",
		"=== MARKET MOVEMENT ===",
		"Start price: $1.25000",
		"Total change: 4.00%",
		"=== MODEL COMPONENT PERFORMANCE ===",
		"p_fused_cal : Accuracy=66.67%, Brier=0.2100",
		"=== RETURNS ANALYSIS ===",
		"Win rate (ret > 0): 50.00%",
		"=== SIMPLE TRADING SIMULATION ===",
		"(Assumes trade when p_fused_cal > 0.55 or < 0.45)",
		"Number of trades: 4",
		"Sharpe ratio (approx): 1.30",
		"=== CALIBRATION ANALYSIS ===",
		"30-40%",
		"60-70%",
		"=== MARKET REGIME ANALYSIS ===",
		"High Buying : n=  2",
		"=== CONFIDENCE BUCKET ANALYSIS ===",
		"High       |     3",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTextCalibrationLabelsUnevenBins(t *testing.T) {
	r := &models.Report{
		Source: "csv:predictions.csv",
		Ingest: models.IngestStats{Total: 3, Resolved: 3},
		Calibration: []models.CalibrationBin{
			{Bin: 0, Count: 1, ActualUpRate: 0, ExpectedUp: 0.17},
			{Bin: 1, Count: 1, ActualUpRate: 1, ExpectedUp: 0.5},
			{Bin: 2, Count: 1, ActualUpRate: 1, ExpectedUp: 0.83},
		},
		Bins: 3,
	}
	out := RenderText(r)

	for _, want := range []string{"00-33%", "33-67%", "67-100%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "33-66%") {
		t.Fatalf("bin edges must round consistently:\n%s", out)
	}
}

func TestRenderTextOmitsEmptySections(t *testing.T) {
	r := &models.Report{
		Source: "csv:empty.csv",
		Ingest: models.IngestStats{Total: 2, Dropped: 2},
	}
	out := RenderText(r)

	if !strings.Contains(out, "=== DATA OVERVIEW ===") {
		t.Fatalf("overview always present:\n%s", out)
	}
	for _, section := range []string{
		"MARKET MOVEMENT",
		"MODEL COMPONENT PERFORMANCE",
		"RETURNS ANALYSIS",
		"TRADING SIMULATION",
		"CALIBRATION",
		"REGIME",
		"CONFIDENCE BUCKET",
	} {
		if strings.Contains(out, section) {
			t.Fatalf("unexpected section %q:\n%s", section, out)
		}
	}
}
