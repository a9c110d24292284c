package persistence

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"staffing/internal/domain"
	"staffing/internal/ports"
)

// SQLiteRepository stores the snapshot in a local sqlite database.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.SnapshotStore = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (and migrates) the database at path. Use
// ":memory:" for a throwaway database.
func NewSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite database: %w", err)
	}
	return repo, nil
}

func (r *SQLiteRepository) migrate(ctx context.Context) error {
	for _, statement := range schemaStatements {
		if _, err := r.db.ExecContext(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) ListPeople(ctx context.Context, filter ports.PeopleFilter) ([]domain.Person, error) {
	assembler := newSnapshotAssembler()
	steps := []struct {
		query sqlQuery
		scan  func(rowScanner) error
	}{
		{query: peopleQuery(filter, questionPlaceholder), scan: assembler.scanPeople},
		{query: sqlQuery{text: practicesQuery}, scan: assembler.scanPractices},
		{query: sqlQuery{text: skillsQuery}, scan: assembler.scanSkills},
		{query: allocationsQuery(filter, questionPlaceholder), scan: assembler.scanAllocations},
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, step := range steps {
		if err := r.scanQuery(ctx, tx, step.query, step.scan); err != nil {
			return nil, err
		}
	}
	return assembler.people(), nil
}

func (r *SQLiteRepository) scanQuery(ctx context.Context, tx *sql.Tx, query sqlQuery, scan func(rowScanner) error) error {
	rows, err := tx.QueryContext(ctx, query.text, query.args...)
	if err != nil {
		return fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()
	if err := scan(rows); err != nil {
		return fmt.Errorf("scan snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	people, err := r.ListPeople(ctx, ports.PeopleFilter{})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{People: people}, nil
}

// ReplaceSnapshot rewrites all tables inside one transaction.
func (r *SQLiteRepository) ReplaceSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, statement := range clearStatements {
		if _, err := tx.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
	}
	for _, statement := range insertStatements(snapshot, questionPlaceholder) {
		if _, err := tx.ExecContext(ctx, statement.text, statement.args...); err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
