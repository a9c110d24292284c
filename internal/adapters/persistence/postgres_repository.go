package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffing/internal/domain"
	"staffing/internal/ports"
)

type PostgresConfig struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

// PostgresRepository stores the snapshot in postgres through a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ ports.SnapshotStore = (*PostgresRepository)(nil)

// NewPostgresRepository connects, pings and migrates the schema.
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	} else {
		poolCfg.MaxConns = 10
	}

	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	} else {
		poolCfg.MinConns = 2
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	repo := &PostgresRepository{pool: pool}
	if err := repo.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return repo, nil
}

func (r *PostgresRepository) migrate(ctx context.Context) error {
	for _, statement := range schemaStatements {
		if _, err := r.pool.Exec(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// withTx runs fn in a transaction; any error rolls it back.
func (r *PostgresRepository) withTx(ctx context.Context, opts pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	// Rollback is a no-op once committed.
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListPeople(ctx context.Context, filter ports.PeopleFilter) ([]domain.Person, error) {
	assembler := newSnapshotAssembler()
	steps := []struct {
		query sqlQuery
		scan  func(rowScanner) error
	}{
		{query: peopleQuery(filter, dollarPlaceholder), scan: assembler.scanPeople},
		{query: sqlQuery{text: practicesQuery}, scan: assembler.scanPractices},
		{query: sqlQuery{text: skillsQuery}, scan: assembler.scanSkills},
		{query: allocationsQuery(filter, dollarPlaceholder), scan: assembler.scanAllocations},
	}

	// Repeatable read gives all four queries the same snapshot.
	err := r.withTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		for _, step := range steps {
			rows, err := tx.Query(ctx, step.query.text, step.query.args...)
			if err != nil {
				return fmt.Errorf("query snapshot: %w", err)
			}
			scanErr := step.scan(rows)
			rows.Close()
			if scanErr != nil {
				return fmt.Errorf("scan snapshot: %w", scanErr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assembler.people(), nil
}

func (r *PostgresRepository) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	people, err := r.ListPeople(ctx, ports.PeopleFilter{})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{People: people}, nil
}

func (r *PostgresRepository) ReplaceSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	return r.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, statement := range clearStatements {
			batch.Queue(statement)
		}
		for _, statement := range insertStatements(snapshot, dollarPlaceholder) {
			batch.Queue(statement.text, statement.args...)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("replace snapshot: %w", err)
		}
		return nil
	})
}
