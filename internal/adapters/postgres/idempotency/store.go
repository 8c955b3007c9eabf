package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tourvisto/trip-admin-api/internal/ports/out/clock"
	"github.com/tourvisto/trip-admin-api/internal/ports/out/idempotency"
)

// Store is a Postgres implementation of idempotency.Store.
// Records older than the retention window, measured on clk, are ignored on read; zero keeps them forever.
type Store struct {
	pool      *pgxpool.Pool
	clk       clock.Clock
	retention time.Duration
}

func NewStore(pool *pgxpool.Pool, clk clock.Clock, retention time.Duration) *Store {
	return &Store{pool: pool, clk: clk, retention: retention}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	const op = "postgres.idempotency.Get"

	if s.pool == nil {
		return idempotency.Record{}, false, errors.New("nil postgres pool")
	}
	var notBefore time.Time
	if s.retention > 0 {
		notBefore = s.clk.Now().UTC().Add(-s.retention)
	}
	row := s.pool.QueryRow(ctx, `
		SELECT status_code, content_type, body, created_at
		FROM idempotency_keys
		WHERE idempotency_key = $1
		  AND subject_sub = $2
		  AND method = $3
		  AND route = $4
		  AND body_hash = $5
		  AND created_at >= $6
	`,
		string(fp.Key),
		string(fp.Subject),
		fp.Method,
		fp.Route,
		fp.BodyHash,
		notBefore,
	)
	var rec idempotency.Record
	if err := row.Scan(&rec.StatusCode, &rec.ContentType, &rec.Body, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return idempotency.Record{}, false, nil
		}
		return idempotency.Record{}, false, fmt.Errorf("%s: %w", op, err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	const op = "postgres.idempotency.Put"

	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.clk.Now().UTC()
	}
	body := rec.Body
	if body == nil {
		body = []byte{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO idempotency_keys (
			idempotency_key,
			subject_sub,
			method,
			route,
			body_hash,
			status_code,
			content_type,
			body,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (idempotency_key, subject_sub, method, route, body_hash)
		DO UPDATE SET
			status_code = EXCLUDED.status_code,
			content_type = EXCLUDED.content_type,
			body = EXCLUDED.body,
			created_at = EXCLUDED.created_at
	`,
		string(fp.Key),
		string(fp.Subject),
		fp.Method,
		fp.Route,
		fp.BodyHash,
		rec.StatusCode,
		rec.ContentType,
		body,
		createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
