package eval

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"PredEval/internal/domain/models"
	domrepo "PredEval/internal/domain/repository"
)

// ErrInsufficientData is returned by report sections whose population is
// empty. Callers omit the section; the run as a whole continues.
var ErrInsufficientData = errors.New("eval: insufficient data")

// Default thresholds of the trading simulation and regime split.
const (
	DefaultLongThreshold  = 0.55
	DefaultShortThreshold = 0.45
	DefaultRegimeHigh     = 10.0
	DefaultNumBins        = 10
)

// Regime names by order-flow imbalance.
const (
	RegimeHighBuying  = "HighBuying"
	RegimeHighSelling = "HighSelling"
	RegimeNeutral     = "Neutral"
)

// Ingest parses raw rows into typed records. Rows missing any mandatory
// numeric field, or where one fails to parse, are dropped silently; rows
// whose realized_ret/realized_up pair is absent or blank are kept as
// unresolved. resolved is always an order-preserving subsequence of all.
func Ingest(rows []models.RawRow) (all, resolved []models.PredictionRecord, stats models.IngestStats) {
	stats.Total = len(rows)
	all = make([]models.PredictionRecord, 0, len(rows))
	for _, row := range rows {
		rec, ok := parseRecord(row)
		if !ok {
			stats.Dropped++
			continue
		}
		if ret, up, ok := parseOutcome(row); ok {
			rec.RealizedRet = ret
			rec.RealizedUp = up
			rec.Resolved = true
			all = append(all, rec)
			resolved = append(resolved, rec)
			stats.Resolved++
			continue
		}
		all = append(all, rec)
		stats.Unresolved++
	}
	return all, resolved, stats
}

func parseRecord(row models.RawRow) (models.PredictionRecord, bool) {
	var rec models.PredictionRecord
	rec.Timestamp = row[models.ColWallTime]

	fields := []struct {
		col string
		dst *float64
	}{
		{models.ColMid, &rec.Price},
		{models.ColPFused, &rec.PFused},
		{models.ColPFusedCal, &rec.PFusedCal},
		{models.ColPHCQR, &rec.PHCQR},
		{models.ColPLVP, &rec.PLVP},
		{models.ColPRRF, &rec.PRRF},
		{models.ColOFI, &rec.OFI},
		{models.ColSpread, &rec.Spread},
	}
	for _, f := range fields {
		s, ok := row[f.col]
		if !ok {
			return rec, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return rec, false
		}
		*f.dst = v
	}
	return rec, true
}

// parseOutcome parses the optional realized pair. Both must be present and
// non-blank, otherwise the record stays unresolved.
func parseOutcome(row models.RawRow) (ret float64, up int, ok bool) {
	rs := strings.TrimSpace(row[models.ColRealizedRet])
	us := strings.TrimSpace(row[models.ColRealizedUp])
	if rs == "" || us == "" {
		return 0, 0, false
	}
	ret, err := strconv.ParseFloat(rs, 64)
	if err != nil {
		return 0, 0, false
	}
	up, err = strconv.Atoi(us)
	if err != nil {
		return 0, 0, false
	}
	return ret, up, true
}

// ComponentValue returns the probability column c of rec.
func ComponentValue(rec models.PredictionRecord, c domrepo.Component) float64 {
	switch c {
	case domrepo.CompFused:
		return rec.PFused
	case domrepo.CompFusedCal:
		return rec.PFusedCal
	case domrepo.CompHCQR:
		return rec.PHCQR
	case domrepo.CompLVP:
		return rec.PLVP
	case domrepo.CompRRF:
		return rec.PRRF
	default:
		return rec.PFusedCal
	}
}

// correct applies the directional rule: predicted up iff p > 0.5, with the
// boundary value 0.5 counting as a down prediction. The asymmetry matches
// the recorded model outputs and must not be "fixed".
func correct(p float64, realizedUp int) bool {
	return (p > 0.5 && realizedUp == 1) || (p <= 0.5 && realizedUp == 0)
}

// MarketMovement summarizes price action of the whole log in sequence
// order. Fails with ErrInsufficientData on an empty log.
func MarketMovement(all []models.PredictionRecord) (models.MarketMovement, error) {
	if len(all) == 0 {
		return models.MarketMovement{}, ErrInsufficientData
	}
	mv := models.MarketMovement{
		StartPrice: all[0].Price,
		EndPrice:   all[len(all)-1].Price,
		MinPrice:   all[0].Price,
		MaxPrice:   all[0].Price,
	}
	for _, rec := range all {
		if rec.Price < mv.MinPrice {
			mv.MinPrice = rec.Price
		}
		if rec.Price > mv.MaxPrice {
			mv.MaxPrice = rec.Price
		}
	}
	mv.PctChange = (mv.EndPrice - mv.StartPrice) / mv.StartPrice
	return mv, nil
}

// ComponentAccuracy computes directional accuracy and Brier score of one
// component over the resolved set.
func ComponentAccuracy(resolved []models.PredictionRecord, c domrepo.Component) (models.ComponentScore, error) {
	if len(resolved) == 0 {
		return models.ComponentScore{}, ErrInsufficientData
	}
	score := models.ComponentScore{Component: string(c)}
	hits := 0
	brier := 0.0
	for _, rec := range resolved {
		p := ComponentValue(rec, c)
		if correct(p, rec.RealizedUp) {
			hits++
		}
		d := p - float64(rec.RealizedUp)
		brier += d * d
	}
	n := float64(len(resolved))
	score.Accuracy = float64(hits) / n
	score.Brier = brier / n
	return score, nil
}

// ReturnsOverview describes realized returns over the resolved set.
func ReturnsOverview(resolved []models.PredictionRecord) (models.ReturnsOverview, error) {
	if len(resolved) == 0 {
		return models.ReturnsOverview{}, ErrInsufficientData
	}
	rets := make([]float64, len(resolved))
	wins := 0
	for i, rec := range resolved {
		rets[i] = rec.RealizedRet
		if rec.RealizedRet > 0 {
			wins++
		}
	}
	ov := models.ReturnsOverview{
		Mean:    mean(rets),
		Median:  median(rets),
		Stdev:   stdev(rets),
		WinRate: float64(wins) / float64(len(rets)),
	}
	return ov, nil
}

// TradingSimulation emits one trade per resolved record whose calibrated
// probability crosses a threshold: long above longTh, short below shortTh,
// nothing in between. Cost is the quoted spread as a fraction of price.
// An empty trade list is a valid result, not an error.
func TradingSimulation(resolved []models.PredictionRecord, c domrepo.Component, longTh, shortTh float64) []models.Trade {
	trades := make([]models.Trade, 0, len(resolved))
	for _, rec := range resolved {
		p := ComponentValue(rec, c)
		var t models.Trade
		switch {
		case p > longTh:
			t = models.Trade{
				Direction:   models.Long,
				Confidence:  p,
				GrossReturn: rec.RealizedRet,
			}
		case p < shortTh:
			t = models.Trade{
				Direction:   models.Short,
				Confidence:  1 - p,
				GrossReturn: -rec.RealizedRet,
			}
		default:
			continue
		}
		t.CostFraction = rec.Spread / rec.Price
		t.NetReturn = t.GrossReturn - t.CostFraction
		trades = append(trades, t)
	}
	return trades
}

// SummarizeTrades aggregates the emitted trades. Sharpe is mean over
// sample stdev of net returns and defined as 0 below 2 trades.
func SummarizeTrades(trades []models.Trade) (models.TradeSummary, error) {
	if len(trades) == 0 {
		return models.TradeSummary{}, ErrInsufficientData
	}
	sum := models.TradeSummary{Count: len(trades)}
	nets := make([]float64, len(trades))
	wins := 0
	gross, cost := 0.0, 0.0
	for i, t := range trades {
		nets[i] = t.NetReturn
		gross += t.GrossReturn
		cost += t.CostFraction
		if t.GrossReturn > 0 {
			wins++
		}
	}
	n := float64(len(trades))
	sum.WinRate = float64(wins) / n
	sum.AvgGross = gross / n
	sum.AvgCost = cost / n
	sum.AvgNet = mean(nets)
	if sd := stdev(nets); sd > 0 {
		sum.SharpeRatio = sum.AvgNet / sd
	}
	return sum, nil
}

// CalibrationTable bins the resolved set by probability and reports the
// observed up-rate per bin. The bin for a probability of exactly 1.0 is
// clamped to the top bin. Empty bins are omitted.
func CalibrationTable(resolved []models.PredictionRecord, c domrepo.Component, numBins int) ([]models.CalibrationBin, error) {
	if len(resolved) == 0 {
		return nil, ErrInsufficientData
	}
	if numBins <= 0 {
		numBins = DefaultNumBins
	}
	counts := make(map[int]int)
	ups := make(map[int]int)
	for _, rec := range resolved {
		bin := int(math.Floor(ComponentValue(rec, c) * float64(numBins)))
		if bin >= numBins {
			bin = numBins - 1
		}
		if bin < 0 {
			bin = 0
		}
		counts[bin]++
		if rec.RealizedUp == 1 {
			ups[bin]++
		}
	}
	bins := make([]int, 0, len(counts))
	for b := range counts {
		bins = append(bins, b)
	}
	sort.Ints(bins)
	out := make([]models.CalibrationBin, 0, len(bins))
	for _, b := range bins {
		out = append(out, models.CalibrationBin{
			Bin:          b,
			Count:        counts[b],
			ActualUpRate: float64(ups[b]) / float64(counts[b]),
			ExpectedUp:   float64(b)/float64(numBins) + 1/(2*float64(numBins)),
		})
	}
	return out, nil
}

// RegimeAnalysis splits the resolved set by order-flow imbalance and
// reports accuracy of c plus mean realized return per regime. Both
// boundary values are Neutral. Empty regimes are omitted.
func RegimeAnalysis(resolved []models.PredictionRecord, c domrepo.Component, highTh float64) ([]models.RegimeStats, error) {
	if len(resolved) == 0 {
		return nil, ErrInsufficientData
	}
	groups := map[string][]models.PredictionRecord{}
	for _, rec := range resolved {
		name := RegimeNeutral
		if rec.OFI > highTh {
			name = RegimeHighBuying
		} else if rec.OFI < -highTh {
			name = RegimeHighSelling
		}
		groups[name] = append(groups[name], rec)
	}
	out := make([]models.RegimeStats, 0, 3)
	for _, name := range []string{RegimeHighBuying, RegimeHighSelling, RegimeNeutral} {
		recs := groups[name]
		if len(recs) == 0 {
			continue
		}
		hits := 0
		ret := 0.0
		for _, rec := range recs {
			if correct(ComponentValue(rec, c), rec.RealizedUp) {
				hits++
			}
			ret += rec.RealizedRet
		}
		n := float64(len(recs))
		out = append(out, models.RegimeStats{
			Regime:    name,
			Count:     len(recs),
			Accuracy:  float64(hits) / n,
			AvgReturn: ret / n,
		})
	}
	return out, nil
}

// bucketDef is one fixed confidence range, half-open except the top one.
type bucketDef struct {
	name     string
	lo, hi   float64
	inclHigh bool
}

var confidenceBuckets = []bucketDef{
	{"Very Low", 0, 0.3, false},
	{"Low", 0.3, 0.4, false},
	{"Neutral", 0.4, 0.6, false},
	{"High", 0.6, 0.7, false},
	{"Very High", 0.7, 1.0, true},
}

// ConfidenceBucketAnalysis reports accuracy and mean return per fixed
// confidence range of c. Empty buckets are omitted.
func ConfidenceBucketAnalysis(resolved []models.PredictionRecord, c domrepo.Component) ([]models.ConfidenceBucket, error) {
	if len(resolved) == 0 {
		return nil, ErrInsufficientData
	}
	out := make([]models.ConfidenceBucket, 0, len(confidenceBuckets))
	for _, b := range confidenceBuckets {
		hits, count := 0, 0
		ret := 0.0
		for _, rec := range resolved {
			p := ComponentValue(rec, c)
			if p < b.lo || p > b.hi || (p == b.hi && !b.inclHigh) {
				continue
			}
			count++
			ret += rec.RealizedRet
			if correct(p, rec.RealizedUp) {
				hits++
			}
		}
		if count == 0 {
			continue
		}
		out = append(out, models.ConfidenceBucket{
			Name:      b.name,
			Count:     count,
			Accuracy:  float64(hits) / float64(count),
			AvgReturn: ret / float64(count),
		})
	}
	return out, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// stdev is the sample (n-1) standard deviation; 0 below 2 samples.
func stdev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum2 := 0.0
	for _, x := range xs {
		d := x - m
		sum2 += d * d
	}
	return math.Sqrt(sum2 / float64(len(xs)-1))
}
