package repository

import (
	"context"

	"PredEval/internal/domain/models"
)

// RecordSource provides read-only access to the prediction log as ordered
// raw rows. PredEval never writes records anywhere.
type RecordSource interface {
	// Name identifies the source (file path, table name) for report
	// headers and cache keys.
	Name() string
	Rows(ctx context.Context) ([]models.RawRow, error)
}

type Metrics interface {
	RecordRows(stats models.IngestStats)
	RecordReportBuilt(source string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordAccuracy(component string, accuracy float64)
}
