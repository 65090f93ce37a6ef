package repository

// Component names a probability column of the prediction log.
type Component string

const (
	CompFused    Component = "p_fused"
	CompFusedCal Component = "p_fused_cal"
	CompHCQR     Component = "p_hcqr"
	CompLVP      Component = "p_lvp"
	CompRRF      Component = "p_rrf"
)

// IsValidComponent returns true if c is a known probability column.
func IsValidComponent(c Component) bool {
	switch c {
	case CompFused, CompFusedCal, CompHCQR, CompLVP, CompRRF:
		return true
	default:
		return false
	}
}

// DefaultComponent returns the component used for trading, calibration and
// regime analysis when none is requested.
func DefaultComponent() Component { return CompFusedCal }

// NormalizeComponent converts raw string to a valid component (or default).
func NormalizeComponent(s string) Component {
	if s == "" {
		return DefaultComponent()
	}
	c := Component(s)
	if IsValidComponent(c) {
		return c
	}
	return DefaultComponent()
}

// ScoredComponents lists the components of the accuracy/Brier table, in
// report order.
func ScoredComponents() []Component {
	return []Component{CompHCQR, CompLVP, CompRRF, CompFusedCal}
}
