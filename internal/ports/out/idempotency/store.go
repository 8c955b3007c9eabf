package idempotency

import (
	"context"
	"time"

	"github.com/tourvisto/trip-admin-api/internal/domain"
)

// Key is the caller-provided idempotency key (Idempotency-Key header).
type Key string

// Fingerprint identifies a request uniquely for idempotency purposes:
// key + route + subject + request body hash.
// Route is HTTP method + path template (e.g. "POST /drafts/{transitionId}/save").
type Fingerprint struct {
	Key      Key
	Subject  domain.SubjectID
	Method   string
	Route    string
	BodyHash string
}

// Record is the stored response we can replay for a duplicate request.
type Record struct {
	StatusCode  int
	ContentType string
	Body        []byte
	// CreatedAt is stamped by the store from its clock when left zero.
	CreatedAt time.Time
}

// Store persists idempotency records for replaying responses on retries.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
}
