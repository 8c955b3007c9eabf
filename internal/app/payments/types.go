package payments

import (
	"time"

	"github.com/tourvisto/trip-admin-api/internal/domain"
)

type State string

const (
	StateLoading    State = "Loading"
	StateNoTrip     State = "NoTrip"
	StateReady      State = "Ready"
	StateProcessing State = "Processing"
	StateSucceeded  State = "Succeeded"
)

// Source names the trip a payment is for: a transition carrying a draft or trip, or a persisted trip id.
// TransitionID wins when both are set.
type Source struct {
	TransitionID domain.TransitionID
	TripID       domain.TripID
}

// Session is one simulated checkout.
type Session struct {
	ID     domain.PaymentID
	State  State
	Draft  *domain.TripDraft
	Trip   *domain.Trip
	Amount string

	// SuccessTransitionID carries the success view payload once State is Succeeded.
	SuccessTransitionID domain.TransitionID
	CreatedAt           time.Time
	UpdatedAt           time.Time
	ExpiresAt           time.Time
}

// TripDraft returns the trip content being paid for.
func (s Session) TripDraft() (domain.TripDraft, bool) {
	switch {
	case s.Trip != nil:
		return s.Trip.TripDraft, true
	case s.Draft != nil:
		return *s.Draft, true
	default:
		return domain.TripDraft{}, false
	}
}

// CardDetails is shape-checked and then discarded.
type CardDetails struct {
	CardNumber     string `json:"cardNumber" validate:"required,numeric,min=12,max=19"`
	ExpiryDate     string `json:"expiryDate" validate:"required,expiry"`
	CVV            string `json:"cvv" validate:"required,numeric,min=3,max=4"`
	CardholderName string `json:"cardholderName" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Country        string `json:"country" validate:"required"`
	Zip            string `json:"zip" validate:"required,max=10"`
}

// SuccessView is what the confirmation page shows. Found is false when the payload expired or never existed.
type SuccessView struct {
	Title         string
	Found         bool
	Draft         *domain.TripDraft
	PaymentAmount string
}

const SuccessTitle = "Payment Successful!"
