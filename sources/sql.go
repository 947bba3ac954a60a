package sources

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/onnwee/rankpipe/pipeline"
)

// SQL source errors.
var (
	ErrNilDB     = errors.New("database handle cannot be nil")
	ErrNilMapper = errors.New("row mapper cannot be nil")
	ErrEmptyQuery = errors.New("query cannot be empty")
)

// RowMapper converts one result row into a candidate. The mapper must call
// rows.Scan itself; the source handles iteration and error checking.
type RowMapper[T any] func(rows *sql.Rows) (pipeline.Candidate[T], error)

// SQLSource fetches candidates from a SQL database. The query receives the
// requester ID as $1 and the fetch cap as $2, and the mapper turns each row
// into a candidate. Rows the mapper rejects are skipped, not fatal.
type SQLSource[T any] struct {
	db     *sql.DB
	name   string
	query  string
	mapper RowMapper[T]
	logger *slog.Logger
}

// NewSQLSource creates a SQL-backed source.
func NewSQLSource[T any](db *sql.DB, name, query string, mapper RowMapper[T], logger *slog.Logger) (*SQLSource[T], error) {
	if db == nil {
		return nil, ErrNilDB
	}
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if mapper == nil {
		return nil, ErrNilMapper
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLSource[T]{db: db, name: name, query: query, mapper: mapper, logger: logger}, nil
}

// Name identifies the source in logs, metrics and candidate origins.
func (s *SQLSource[T]) Name() string { return s.name }

// Fetch runs the query and maps each row into a candidate.
func (s *SQLSource[T]) Fetch(ctx context.Context, rc *pipeline.RunContext, max int) ([]pipeline.Candidate[T], error) {
	rows, err := s.db.QueryContext(ctx, s.query, rc.UserID, max)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var cands []pipeline.Candidate[T]
	var skipped int
	for rows.Next() {
		c, err := s.mapper(rows)
		if err != nil {
			skipped++
			s.logger.Warn("skipping unmappable row",
				slog.String("source", s.name),
				slog.String("error", err.Error()))
			continue
		}
		if c.Origin == "" {
			c.Origin = s.name
		}
		cands = append(cands, c)
		if len(cands) >= max {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	if skipped > 0 {
		s.logger.Warn("fetch completed with skipped rows",
			slog.String("source", s.name),
			slog.Int("skipped", skipped),
			slog.Int("returned", len(cands)))
	}
	return cands, nil
}
