package models

import "time"

// IngestStats counts the three-way row classification at ingest.
type IngestStats struct {
	Total      int `json:"total"`
	Dropped    int `json:"dropped"`
	Unresolved int `json:"unresolved"`
	Resolved   int `json:"resolved"`
}

// MarketMovement summarizes price action over the whole log, first record
// to last in sequence order.
type MarketMovement struct {
	StartPrice float64 `json:"start_price"`
	EndPrice   float64 `json:"end_price"`
	PctChange  float64 `json:"pct_change"`
	MinPrice   float64 `json:"min_price"`
	MaxPrice   float64 `json:"max_price"`
}

// ComponentScore holds directional accuracy and Brier score for one model
// component over the resolved set.
type ComponentScore struct {
	Component string  `json:"component"`
	Accuracy  float64 `json:"accuracy"`
	Brier     float64 `json:"brier"`
}

// ReturnsOverview describes the distribution of realized returns over the
// resolved set, independent of any prediction.
type ReturnsOverview struct {
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	Stdev   float64 `json:"stdev"`
	WinRate float64 `json:"win_rate"`
}

// TradeSummary aggregates the simulated trades.
type TradeSummary struct {
	LongThreshold  float64 `json:"long_threshold"`
	ShortThreshold float64 `json:"short_threshold"`

	Count       int     `json:"count"`
	WinRate     float64 `json:"win_rate"`
	AvgGross    float64 `json:"avg_gross"`
	AvgCost     float64 `json:"avg_cost"`
	AvgNet      float64 `json:"avg_net"`
	SharpeRatio float64 `json:"sharpe_ratio"`
}

// CalibrationBin is one non-empty probability bin of the calibration table.
type CalibrationBin struct {
	Bin          int     `json:"bin"`
	Count        int     `json:"count"`
	ActualUpRate float64 `json:"actual_up_rate"`
	ExpectedUp   float64 `json:"expected_up"`
}

// RegimeStats holds accuracy and mean return conditioned on an order-flow
// regime.
type RegimeStats struct {
	Regime    string  `json:"regime"`
	Count     int     `json:"count"`
	Accuracy  float64 `json:"accuracy"`
	AvgReturn float64 `json:"avg_return"`
}

// ConfidenceBucket holds accuracy and mean return for one fixed confidence
// range of the calibrated probability.
type ConfidenceBucket struct {
	Name      string  `json:"name"`
	Count     int     `json:"count"`
	Accuracy  float64 `json:"accuracy"`
	AvgReturn float64 `json:"avg_return"`
}

// Report is the full evaluation result. Sections that lacked data are nil
// or empty and are omitted by renderers.
type Report struct {
	Source      string             `json:"source"`
	Component   string             `json:"component"`
	GeneratedAt time.Time          `json:"generated_at"`
	Ingest      IngestStats        `json:"ingest"`
	FirstSeen   *time.Time         `json:"first_seen,omitempty"`
	LastSeen    *time.Time         `json:"last_seen,omitempty"`
	Market      *MarketMovement    `json:"market,omitempty"`
	Components  []ComponentScore   `json:"components,omitempty"`
	Returns     *ReturnsOverview   `json:"returns,omitempty"`
	Trading     *TradeSummary      `json:"trading,omitempty"`
	Calibration []CalibrationBin   `json:"calibration,omitempty"`
	Bins        int                `json:"calibration_bins,omitempty"`
	Regimes     []RegimeStats      `json:"regimes,omitempty"`
	Buckets     []ConfidenceBucket `json:"buckets,omitempty"`
}
