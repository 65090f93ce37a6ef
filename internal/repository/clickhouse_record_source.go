package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"PredEval/internal/domain/models"
	domrepo "PredEval/internal/domain/repository"
	pkgch "PredEval/pkg/clickhouse"
	applogger "PredEval/pkg/logger"
)

// CHRecordSource reads prediction log rows from a ClickHouse table.
// Every column is selected as a string so the evaluator applies the
// same parse-or-drop rules it applies to CSV input.
type CHRecordSource struct {
	ch    *pkgch.Client
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHRecordSource(ch *pkgch.Client, table string) *CHRecordSource {
	return &CHRecordSource{ch: ch, db: ch.DB(), table: table}
}

// Close releases the underlying connection pool.
func (s *CHRecordSource) Close() error { return s.ch.Close() }

// SetLogger injects a structured logger.
func (s *CHRecordSource) SetLogger(l *applogger.Logger) { s.l = l }

// Name identifies the source in reports and cache keys.
func (s *CHRecordSource) Name() string {
	return fmt.Sprintf("clickhouse:%s", s.table)
}

var sourceColumns = []string{
	models.ColWallTime,
	models.ColMid,
	models.ColPFused,
	models.ColPFusedCal,
	models.ColPHCQR,
	models.ColPLVP,
	models.ColPRRF,
	models.ColOFI,
	models.ColSpread,
	models.ColRealizedRet,
	models.ColRealizedUp,
}

// Rows fetches all rows in log order.
func (s *CHRecordSource) Rows(ctx context.Context) ([]models.RawRow, error) {
	start := time.Now()

	q := "SELECT "
	for i, col := range sourceColumns {
		if i > 0 {
			q += ", "
		}
		q += fmt.Sprintf("toString(%s)", col)
	}
	q += fmt.Sprintf(" FROM %s ORDER BY %s ASC", s.table, models.ColWallTime)

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse records query error",
				applogger.String("table", s.table),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get records: %w", err)
	}
	defer rows.Close()

	out := make([]models.RawRow, 0, 1024)
	vals := make([]string, len(sourceColumns))
	ptrs := make([]interface{}, len(sourceColumns))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse records scan error",
					applogger.String("table", s.table),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan record: %w", err)
		}
		row := make(models.RawRow, len(sourceColumns))
		for i, col := range sourceColumns {
			row[col] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse records rows error",
				applogger.String("table", s.table),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse records ok",
			applogger.String("table", s.table),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

var _ domrepo.RecordSource = (*CHRecordSource)(nil)
