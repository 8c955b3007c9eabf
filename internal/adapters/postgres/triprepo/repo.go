package triprepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/tourvisto/trip-admin-api/internal/adapters/postgres"
	"github.com/tourvisto/trip-admin-api/internal/domain"
	"github.com/tourvisto/trip-admin-api/internal/ports/out/triprepo"
)

// Repo is a Postgres implementation of triprepo.Repository.
// The draft is stored as a JSONB document; name and country are copied out for querying.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, t domain.Trip) error {
	const op = "postgres.triprepo.Create"

	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	if t.ID == "" {
		return triprepo.ErrAlreadyExists
	}
	tripUUID, err := uuid.Parse(string(t.ID))
	if err != nil {
		return fmt.Errorf("%s: invalid trip id: %w", op, err)
	}
	doc, err := json.Marshal(t.TripDraft)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO trips (id, name, country, document, created_at)
			VALUES ($1,$2,$3,$4,$5)
		`,
			tripUUID,
			t.Name,
			t.Country,
			doc,
			t.CreatedAt.UTC(),
		)
		if err != nil {
			if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
				return triprepo.ErrAlreadyExists
			}
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	const op = "postgres.triprepo.GetByID"

	if r.pool == nil {
		return domain.Trip{}, errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Trip{}, triprepo.ErrNotFound
	}

	row := r.pool.QueryRow(ctx, `
		SELECT id, document, created_at
		FROM trips
		WHERE id = $1
	`, tripUUID)
	t, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, triprepo.ErrNotFound
		}
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

func (r *Repo) List(ctx context.Context, limit, offset int) ([]domain.Trip, int, error) {
	const op = "postgres.triprepo.List"

	if r.pool == nil {
		return nil, 0, errors.New("nil postgres pool")
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM trips`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}
	out := make([]domain.Trip, 0)
	if limit <= 0 {
		return out, total, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, document, created_at
		FROM trips
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return out, total, nil
}

func scanTrip(row pgx.Row) (domain.Trip, error) {
	var (
		id  uuid.UUID
		doc []byte
		t   domain.Trip
	)
	if err := row.Scan(&id, &doc, &t.CreatedAt); err != nil {
		return domain.Trip{}, err
	}
	if err := json.Unmarshal(doc, &t.TripDraft); err != nil {
		return domain.Trip{}, fmt.Errorf("decode trip document: %w", err)
	}
	t.ID = domain.TripID(id.String())
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}
