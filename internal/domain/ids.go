package domain

// SubjectID is the authenticated subject extracted from token claims (typically "sub").
// We model it as an opaque identifier: its format is controlled by the token issuer.
type SubjectID string

// TripID is the store-assigned identifier of a persisted trip.
type TripID string

// TransitionID keys a navigation-state payload handed from one view to the next.
type TransitionID string

// PaymentID identifies a simulated payment session.
type PaymentID string
