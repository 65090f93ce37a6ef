package models

// RawRow is one row of the prediction log as read from the source, keyed by
// column name. All values are strings; parsing happens once, at ingest.
type RawRow map[string]string

// Prediction log column names as written by the model.
const (
	ColWallTime    = "wall_time_iso"
	ColMid         = "mid"
	ColPFused      = "p_fused"
	ColPFusedCal   = "p_fused_cal"
	ColPHCQR       = "p_hcqr"
	ColPLVP        = "p_lvp"
	ColPRRF        = "p_rrf"
	ColOFI         = "ofi_w"
	ColSpread      = "spread"
	ColRealizedRet = "realized_ret_30s"
	ColRealizedUp  = "realized_up_30s"
)

// PredictionRecord is one validated observation from the prediction log.
// Built once at ingest and never mutated afterwards.
type PredictionRecord struct {
	Timestamp string // ISO-8601 wall-clock time, carried opaque
	Price     float64
	PFused    float64
	PFusedCal float64
	PHCQR     float64
	PLVP      float64
	PRRF      float64
	OFI       float64
	Spread    float64

	// Outcome pair, present only on resolved records.
	RealizedRet float64
	RealizedUp  int
	Resolved    bool
}

// TradeDirection is the side taken by the trading simulation.
type TradeDirection string

const (
	Long  TradeDirection = "long"
	Short TradeDirection = "short"
)

// Trade is one simulated position emitted by the trading simulation.
type Trade struct {
	Direction    TradeDirection
	Confidence   float64
	GrossReturn  float64
	CostFraction float64
	NetReturn    float64
}
