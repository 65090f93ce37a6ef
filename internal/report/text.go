// Package report renders evaluation results for humans. The JSON shape
// lives on the models themselves; this package only owns the text form.
package report

import (
	"fmt"
	"strings"

	"PredEval/internal/domain/models"
)

var regimeLabels = map[string]string{
	"HighBuying":  "High Buying",
	"HighSelling": "High Selling",
	"Neutral":     "Neutral",
}

// RenderText writes the report as the fixed-width console summary.
// Sections without data are left out entirely.
func RenderText(r *models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== DATA OVERVIEW ===\n")
	fmt.Fprintf(&b, "Source: %s\n", r.Source)
	fmt.Fprintf(&b, "Total predictions made: %d\n", r.Ingest.Total-r.Ingest.Dropped)
	fmt.Fprintf(&b, "Predictions with outcomes: %d\n", r.Ingest.Resolved)
	if r.Ingest.Dropped > 0 {
		fmt.Fprintf(&b, "Rows dropped: %d\n", r.Ingest.Dropped)
	}

	if r.Market != nil {
		fmt.Fprintf(&b, "\n=== MARKET MOVEMENT ===\n")
		fmt.Fprintf(&b, "Start price: $%.5f\n", r.Market.StartPrice)
		fmt.Fprintf(&b, "End price: $%.5f\n", r.Market.EndPrice)
		fmt.Fprintf(&b, "Total change: %s\n", pct(r.Market.PctChange))
		fmt.Fprintf(&b, "Price range: $%.5f - $%.5f\n", r.Market.MinPrice, r.Market.MaxPrice)
	}

	if len(r.Components) > 0 {
		fmt.Fprintf(&b, "\n=== MODEL COMPONENT PERFORMANCE ===\n")
		for _, c := range r.Components {
			fmt.Fprintf(&b, "%-12s: Accuracy=%s, Brier=%.4f\n", c.Component, pct(c.Accuracy), c.Brier)
		}
	}

	if r.Returns != nil {
		fmt.Fprintf(&b, "\n=== RETURNS ANALYSIS ===\n")
		fmt.Fprintf(&b, "Average return: %.6f\n", r.Returns.Mean)
		fmt.Fprintf(&b, "Median return: %.6f\n", r.Returns.Median)
		fmt.Fprintf(&b, "Std dev: %.6f\n", r.Returns.Stdev)
		fmt.Fprintf(&b, "Win rate (ret > 0): %s\n", pct(r.Returns.WinRate))
	}

	if r.Trading != nil {
		fmt.Fprintf(&b, "\n=== SIMPLE TRADING SIMULATION ===\n")
		fmt.Fprintf(&b, "(Assumes trade when %s > %.2f or < %.2f)\n",
			r.Component, r.Trading.LongThreshold, r.Trading.ShortThreshold)
		fmt.Fprintf(&b, "Number of trades: %d\n", r.Trading.Count)
		fmt.Fprintf(&b, "Win rate: %s\n", pct(r.Trading.WinRate))
		fmt.Fprintf(&b, "Average gross return: %.6f\n", r.Trading.AvgGross)
		fmt.Fprintf(&b, "Average cost: %.6f\n", r.Trading.AvgCost)
		fmt.Fprintf(&b, "Average net return: %.6f\n", r.Trading.AvgNet)
		fmt.Fprintf(&b, "Sharpe ratio (approx): %.2f\n", r.Trading.SharpeRatio)
	}

	if len(r.Calibration) > 0 {
		bins := r.Bins
		if bins <= 0 {
			bins = 10
		}
		fmt.Fprintf(&b, "\n=== CALIBRATION ANALYSIS ===\n")
		fmt.Fprintf(&b, "Prob Bin | Count | Actual Up%% | Expected Up%%\n")
		fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 45))
		for _, cb := range r.Calibration {
			lo := float64(cb.Bin) * 100 / float64(bins)
			hi := float64(cb.Bin+1) * 100 / float64(bins)
			fmt.Fprintf(&b, "%02.0f-%02.0f%% | %5d | %10s | %10s\n",
				lo, hi, cb.Count, pct(cb.ActualUpRate), pct(cb.ExpectedUp))
		}
	}

	if len(r.Regimes) > 0 {
		fmt.Fprintf(&b, "\n=== MARKET REGIME ANALYSIS ===\n")
		for _, rg := range r.Regimes {
			name := rg.Regime
			if label, ok := regimeLabels[name]; ok {
				name = label
			}
			fmt.Fprintf(&b, "%-12s: n=%3d, Accuracy=%s, AvgRet=%+.6f\n",
				name, rg.Count, pct(rg.Accuracy), rg.AvgReturn)
		}
	}

	if len(r.Buckets) > 0 {
		fmt.Fprintf(&b, "\n=== CONFIDENCE BUCKET ANALYSIS ===\n")
		fmt.Fprintf(&b, "Bucket     | Count | Accuracy | Avg Return\n")
		fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 45))
		for _, bk := range r.Buckets {
			fmt.Fprintf(&b, "%-10s | %5d | %8s | %+.6f\n",
				bk.Name, bk.Count, pct(bk.Accuracy), bk.AvgReturn)
		}
	}

	return b.String()
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
