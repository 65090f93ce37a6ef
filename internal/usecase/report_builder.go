package usecase

import (
	"context"
	"fmt"
	"time"

	"PredEval/internal/domain/models"
	domrepo "PredEval/internal/domain/repository"
	"PredEval/internal/eval"
	"PredEval/pkg/cache"
	applogger "PredEval/pkg/logger"
	"PredEval/pkg/util"
)

// EvalParams selects the component and thresholds of one evaluation run.
type EvalParams struct {
	Component      domrepo.Component
	LongThreshold  float64
	ShortThreshold float64
	RegimeHigh     float64
	Bins           int
}

// DefaultEvalParams returns the stock parameter set.
func DefaultEvalParams() EvalParams {
	return EvalParams{
		Component:      domrepo.DefaultComponent(),
		LongThreshold:  eval.DefaultLongThreshold,
		ShortThreshold: eval.DefaultShortThreshold,
		RegimeHigh:     eval.DefaultRegimeHigh,
		Bins:           eval.DefaultNumBins,
	}
}

func (p EvalParams) withDefaults() EvalParams {
	if !domrepo.IsValidComponent(p.Component) {
		p.Component = domrepo.DefaultComponent()
	}
	if p.LongThreshold == 0 {
		p.LongThreshold = eval.DefaultLongThreshold
	}
	if p.ShortThreshold == 0 {
		p.ShortThreshold = eval.DefaultShortThreshold
	}
	if p.RegimeHigh == 0 {
		p.RegimeHigh = eval.DefaultRegimeHigh
	}
	if p.Bins <= 0 {
		p.Bins = eval.DefaultNumBins
	}
	return p
}

// ReportBuilder loads the prediction log from its source and assembles the
// full evaluation report. Sections whose population is empty are omitted,
// never an error for the run as a whole.
type ReportBuilder struct {
	source   domrepo.RecordSource
	metrics  domrepo.Metrics
	cache    cache.Service
	cacheTTL time.Duration
	l        *applogger.Logger
}

func NewReportBuilder(source domrepo.RecordSource, metrics domrepo.Metrics) *ReportBuilder {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &ReportBuilder{source: source, metrics: metrics}
}

// SetLogger injects a structured logger.
func (b *ReportBuilder) SetLogger(l *applogger.Logger) { b.l = l }

// SetCache enables caching of built reports.
func (b *ReportBuilder) SetCache(c cache.Service, ttl time.Duration) {
	b.cache = c
	b.cacheTTL = ttl
}

// Build runs the full evaluation. A cached report for the same source and
// parameters is returned as is.
func (b *ReportBuilder) Build(ctx context.Context, p EvalParams) (*models.Report, error) {
	p = p.withDefaults()

	key := b.cacheKey(p)
	if b.cache != nil {
		var cached models.Report
		if err := b.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	start := time.Now()
	all, resolved, stats, err := b.load(ctx)
	if err != nil {
		return nil, err
	}

	r := &models.Report{
		Source:      b.source.Name(),
		Component:   string(p.Component),
		GeneratedAt: time.Now().UTC(),
		Ingest:      stats,
		Bins:        p.Bins,
	}
	if len(all) > 0 {
		if t, ok := util.ParseTime(all[0].Timestamp); ok {
			r.FirstSeen = &t
		}
		if t, ok := util.ParseTime(all[len(all)-1].Timestamp); ok {
			r.LastSeen = &t
		}
	}

	if mv, err := eval.MarketMovement(all); err == nil {
		r.Market = &mv
	}
	for _, c := range domrepo.ScoredComponents() {
		if s, err := eval.ComponentAccuracy(resolved, c); err == nil {
			r.Components = append(r.Components, s)
			b.metrics.RecordAccuracy(string(c), s.Accuracy)
		}
	}
	if ov, err := eval.ReturnsOverview(resolved); err == nil {
		r.Returns = &ov
	}
	trades := eval.TradingSimulation(resolved, p.Component, p.LongThreshold, p.ShortThreshold)
	if sum, err := eval.SummarizeTrades(trades); err == nil {
		sum.LongThreshold = p.LongThreshold
		sum.ShortThreshold = p.ShortThreshold
		r.Trading = &sum
	}
	if bins, err := eval.CalibrationTable(resolved, p.Component, p.Bins); err == nil {
		r.Calibration = bins
	}
	if regimes, err := eval.RegimeAnalysis(resolved, p.Component, p.RegimeHigh); err == nil {
		r.Regimes = regimes
	}
	if buckets, err := eval.ConfidenceBucketAnalysis(resolved, p.Component); err == nil {
		r.Buckets = buckets
	}

	b.metrics.RecordLatency("build_report", time.Since(start).Seconds())
	b.metrics.RecordReportBuilt(b.source.Name())
	if b.l != nil {
		b.l.Info("report built",
			applogger.String("source", b.source.Name()),
			applogger.String("component", string(p.Component)),
			applogger.Int("resolved", stats.Resolved),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}

	if b.cache != nil {
		_ = b.cache.Set(ctx, key, r, b.cacheTTL)
	}
	return r, nil
}

// Accuracy scores one component over the resolved set.
func (b *ReportBuilder) Accuracy(ctx context.Context, c domrepo.Component) (models.ComponentScore, error) {
	_, resolved, _, err := b.load(ctx)
	if err != nil {
		return models.ComponentScore{}, err
	}
	return eval.ComponentAccuracy(resolved, c)
}

// Calibration bins the resolved set for one component.
func (b *ReportBuilder) Calibration(ctx context.Context, c domrepo.Component, bins int) ([]models.CalibrationBin, error) {
	_, resolved, _, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	return eval.CalibrationTable(resolved, c, bins)
}

// Simulation runs the threshold trading simulation and returns both the
// summary and the individual trades.
func (b *ReportBuilder) Simulation(ctx context.Context, c domrepo.Component, longTh, shortTh float64) (models.TradeSummary, []models.Trade, error) {
	_, resolved, _, err := b.load(ctx)
	if err != nil {
		return models.TradeSummary{}, nil, err
	}
	trades := eval.TradingSimulation(resolved, c, longTh, shortTh)
	sum, err := eval.SummarizeTrades(trades)
	if err != nil {
		return models.TradeSummary{}, nil, err
	}
	sum.LongThreshold = longTh
	sum.ShortThreshold = shortTh
	return sum, trades, nil
}

// Regimes splits the resolved set by order-flow imbalance.
func (b *ReportBuilder) Regimes(ctx context.Context, c domrepo.Component, highTh float64) ([]models.RegimeStats, error) {
	_, resolved, _, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	return eval.RegimeAnalysis(resolved, c, highTh)
}

// Buckets reports per confidence range of one component.
func (b *ReportBuilder) Buckets(ctx context.Context, c domrepo.Component) ([]models.ConfidenceBucket, error) {
	_, resolved, _, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	return eval.ConfidenceBucketAnalysis(resolved, c)
}

func (b *ReportBuilder) load(ctx context.Context) (all, resolved []models.PredictionRecord, stats models.IngestStats, err error) {
	start := time.Now()
	rows, err := b.source.Rows(ctx)
	if err != nil {
		b.metrics.RecordError("source")
		if b.l != nil {
			b.l.Error("record source failed",
				applogger.String("source", b.source.Name()),
				applogger.Error(err),
			)
		}
		return nil, nil, models.IngestStats{}, fmt.Errorf("load records: %w", err)
	}
	all, resolved, stats = eval.Ingest(rows)
	b.metrics.RecordRows(stats)
	b.metrics.RecordLatency("ingest", time.Since(start).Seconds())
	return all, resolved, stats, nil
}

func (b *ReportBuilder) cacheKey(p EvalParams) string {
	raw := cache.GenerateKeyWithParams("report", b.source.Name(),
		p.Component, p.LongThreshold, p.ShortThreshold, p.RegimeHigh, p.Bins)
	return cache.GenerateKey("report", cache.HashKey(raw))
}

type noopMetrics struct{}

func (noopMetrics) RecordRows(models.IngestStats) {}
func (noopMetrics) RecordReportBuilt(string) {}
func (noopMetrics) RecordError(string) {}
func (noopMetrics) RecordLatency(string, float64) {}
func (noopMetrics) RecordAccuracy(string, float64) {}
