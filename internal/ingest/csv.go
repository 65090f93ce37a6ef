package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"PredEval/internal/domain/models"
	domrepo "PredEval/internal/domain/repository"
	applogger "PredEval/pkg/logger"
)

// CSVSource reads the prediction log from a CSV file with a header row.
// Rows are returned as raw string maps; all field validation happens at
// the evaluator's ingest boundary, not here.
type CSVSource struct {
	path string
	l    *applogger.Logger
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// SetLogger injects a structured logger.
func (s *CSVSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CSVSource) Name() string { return s.path }

func (s *CSVSource) Rows(ctx context.Context) ([]models.RawRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open prediction log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows surface as missing keys, dropped at ingest

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	rows := make([]models.RawRow, 0, 1024)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed lines are expected; skip and continue.
			if s.l != nil {
				s.l.Debug("csv row skipped", applogger.Error(err))
			}
			continue
		}
		row := make(models.RawRow, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	if s.l != nil {
		s.l.Info("prediction log loaded",
			applogger.String("path", s.path),
			applogger.Int("rows", len(rows)),
		)
	}
	return rows, nil
}

var _ domrepo.RecordSource = (*CSVSource)(nil)
