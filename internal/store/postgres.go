package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medifront/frontdesk-backend/internal/pkg/apperror"
)

// PgxStore persists snapshots in Postgres, one jsonb row per record.
// See scripts/schema.sql for the backing table. SaveAll replaces the kind's
// rows inside a single transaction, which gives the whole-collection
// atomicity the domain services rely on.
type PgxStore struct {
	pool *pgxpool.Pool
}

// NewPgxStore creates a Postgres-backed snapshot store.
func NewPgxStore(pool *pgxpool.Pool) *PgxStore {
	return &PgxStore{pool: pool}
}

func (s *PgxStore) LoadAll(ctx context.Context, kind Kind) ([]json.RawMessage, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("doc").
		From("public.snapshot_records").
		Where(squirrel.Eq{"kind": string(kind)}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load %s query failed: %w", kind, err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load %s failed: %w", kind, err)
	}
	defer rows.Close()

	records := []json.RawMessage{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan %s record failed: %w", kind, err)
		}
		records = append(records, json.RawMessage(doc))
	}
	return records, rows.Err()
}

func (s *PgxStore) SaveAll(ctx context.Context, kind Kind, records []json.RawMessage) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save %s failed: %w", kind, err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("public.snapshot_records").
		Where(squirrel.Eq{"kind": string(kind)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build clear %s query failed: %w", kind, err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("clear %s failed: %w", kind, err)
	}

	if len(records) > 0 {
		insert := psql.Insert("public.snapshot_records").
			Columns("kind", "position", "doc")
		for i, record := range records {
			insert = insert.Values(string(kind), i, []byte(record))
		}
		query, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("build save %s query failed: %w", kind, err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return mapPgError(err, kind)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return mapPgError(err, kind)
	}
	return nil
}

// mapPgError surfaces integrity and serialization failures as conflicts:
// they mean another writer raced this snapshot and the caller should retry
// against fresh state rather than treat the store as broken.
func mapPgError(err error, kind Kind) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) ||
			pgErr.Code == pgerrcode.SerializationFailure {
			return apperror.Conflict(fmt.Sprintf("concurrent write on %s snapshot", kind))
		}
	}
	return fmt.Errorf("save %s failed: %w", kind, err)
}
