package sources

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/onnwee/rankpipe/pipeline"
)

func TestNewSQLSource_Validation(t *testing.T) {
	db := &sql.DB{}
	mapper := func(rows *sql.Rows) (pipeline.Candidate[testPayload], error) {
		return pipeline.Candidate[testPayload]{}, nil
	}

	if _, err := NewSQLSource[testPayload](nil, "db", "SELECT 1", mapper, nil); err != ErrNilDB {
		t.Errorf("NewSQLSource(nil db) error = %v, want %v", err, ErrNilDB)
	}
	if _, err := NewSQLSource[testPayload](db, "db", "", mapper, nil); err != ErrEmptyQuery {
		t.Errorf("NewSQLSource(empty query) error = %v, want %v", err, ErrEmptyQuery)
	}
	if _, err := NewSQLSource[testPayload](db, "db", "SELECT 1", nil, nil); err != ErrNilMapper {
		t.Errorf("NewSQLSource(nil mapper) error = %v, want %v", err, ErrNilMapper)
	}

	s, err := NewSQLSource[testPayload](db, "db", "SELECT 1", mapper, nil)
	if err != nil {
		t.Fatalf("NewSQLSource() error = %v", err)
	}
	if s.Name() != "db" {
		t.Errorf("Name() = %s, want db", s.Name())
	}
}

// TestSQLSource_Integration exercises the SQL source against a disposable
// Postgres container. Requires Docker; skipped in -short mode or when a
// container cannot be started.
func TestSQLSource_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("rankpipe_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("could not start postgres container (docker unavailable?): %v", err)
	}
	defer func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("ConnectionString() error = %v", err)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer db.Close()

	schema := `
		CREATE TABLE articles (
			id      TEXT PRIMARY KEY,
			title   TEXT NOT NULL,
			user_id TEXT NOT NULL,
			rank    DOUBLE PRECISION NOT NULL
		);
		INSERT INTO articles (id, title, user_id, rank) VALUES
			('a1', 'first',  'u1', 0.9),
			('a2', 'second', 'u1', 0.5),
			('a3', 'other',  'u2', 0.8);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		t.Fatalf("schema setup failed: %v", err)
	}

	mapper := func(rows *sql.Rows) (pipeline.Candidate[testPayload], error) {
		var id string
		var p testPayload
		if err := rows.Scan(&id, &p.Title, &p.Rank); err != nil {
			return pipeline.Candidate[testPayload]{}, err
		}
		return pipeline.NewCandidate(id, p, ""), nil
	}

	query := `SELECT id, title, rank FROM articles WHERE user_id = $1 ORDER BY rank DESC LIMIT $2`
	src, err := NewSQLSource[testPayload](db, "articles", query, mapper, discardLogger())
	if err != nil {
		t.Fatalf("NewSQLSource() error = %v", err)
	}

	got, err := src.Fetch(ctx, &pipeline.RunContext{UserID: "u1"}, 10)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Fetch() returned %d candidates, want 2", len(got))
	}
	if got[0].ID != "a1" || got[1].ID != "a2" {
		t.Errorf("Fetch() order = [%s %s], want [a1 a2]", got[0].ID, got[1].ID)
	}
	if got[0].Origin != "articles" {
		t.Errorf("Origin = %s, want articles (filled by source)", got[0].Origin)
	}
	if got[0].Payload.Title != "first" {
		t.Errorf("Payload.Title = %s, want first", got[0].Payload.Title)
	}

	// The cap is enforced both in SQL and in the source.
	got, err = src.Fetch(ctx, &pipeline.RunContext{UserID: "u1"}, 1)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Fetch() with max 1 returned %d candidates", len(got))
	}
}
