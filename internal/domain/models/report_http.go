package models

// Requests for the report HTTP endpoints. Defined in domain for consistency and reuse.

type ReportRequest struct {
	Format string `query:"format" json:"format" default:"json" validate:"oneof=json text"`
}

type AccuracyRequest struct {
	Component string `query:"component" json:"component" default:"p_fused_cal" validate:"oneof=p_fused p_fused_cal p_hcqr p_lvp p_rrf"`
}

type CalibrationRequest struct {
	Component string `query:"component" json:"component" default:"p_fused_cal" validate:"oneof=p_fused p_fused_cal p_hcqr p_lvp p_rrf"`
	Bins      int    `query:"bins" json:"bins" default:"10" validate:"gte=2,lte=100"`
}

type SimulationRequest struct {
	Component      string  `query:"component" json:"component" default:"p_fused_cal" validate:"oneof=p_fused p_fused_cal p_hcqr p_lvp p_rrf"`
	LongThreshold  float64 `query:"long" json:"long" default:"0.55" validate:"gt=0,lt=1"`
	ShortThreshold float64 `query:"short" json:"short" default:"0.45" validate:"gt=0,lt=1"`
}

type RegimeRequest struct {
	Component     string  `query:"component" json:"component" default:"p_fused_cal" validate:"oneof=p_fused p_fused_cal p_hcqr p_lvp p_rrf"`
	HighThreshold float64 `query:"high" json:"high" default:"10" validate:"gt=0"`
}

type BucketsRequest struct {
	Component string `query:"component" json:"component" default:"p_fused_cal" validate:"oneof=p_fused p_fused_cal p_hcqr p_lvp p_rrf"`
}
