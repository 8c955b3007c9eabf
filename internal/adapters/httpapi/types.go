package httpapi

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tourvisto/trip-admin-api/internal/app/drafts"
	"github.com/tourvisto/trip-admin-api/internal/app/payments"
	"github.com/tourvisto/trip-admin-api/internal/domain"
)

type CountriesResponse struct {
	Countries []domain.Country `json:"countries"`
}

type DraftCreatedResponse struct {
	TransitionId string           `json:"transitionId"`
	Draft        domain.TripDraft `json:"draft"`
}

type DraftView struct {
	TransitionId string           `json:"transitionId"`
	Draft        domain.TripDraft `json:"draft"`
	IsNewTrip    bool             `json:"isNewTrip"`
	IsEditing    bool             `json:"isEditing"`
}

type DraftFormView struct {
	TransitionId string             `json:"transitionId"`
	IsEditing    bool               `json:"isEditing"`
	Form         domain.FormFields  `json:"form"`
	Options      drafts.FormOptions `json:"options"`
}

type SaveDraftResponse struct {
	Entry     domain.RegistryEntry `json:"entry"`
	Trip      *domain.Trip         `json:"trip,omitempty"`
	Persisted bool                 `json:"persisted"`
	Message   string               `json:"message"`
}

type TripsPageResponse struct {
	Trips  []domain.Trip `json:"trips"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type TripResponse struct {
	Trip domain.Trip `json:"trip"`
}

type DashboardResponse struct {
	Greeting string                 `json:"greeting"`
	Trips    []domain.RegistryEntry `json:"trips"`
}

type BeginPaymentRequest struct {
	TransitionId string `json:"transitionId,omitempty"`
	TripId       string `json:"tripId,omitempty"`
}

type PaymentView struct {
	PaymentId           string            `json:"paymentId"`
	State               payments.State    `json:"state"`
	Amount              string            `json:"amount,omitempty"`
	Draft               *domain.TripDraft `json:"tripData,omitempty"`
	TripId              string            `json:"tripId,omitempty"`
	SuccessTransitionId string            `json:"successTransitionId,omitempty"`
}

type SubmitPaymentRequest struct {
	CardNumber     string              `json:"cardNumber"`
	ExpiryDate     string              `json:"expiryDate"`
	CVV            string              `json:"cvv"`
	CardholderName string              `json:"cardholderName"`
	Email          openapi_types.Email `json:"email"`
	Country        string              `json:"country"`
	Zip            string              `json:"zip"`
}

type PaymentSuccessView struct {
	Title         string            `json:"title"`
	Found         bool              `json:"found"`
	Draft         *domain.TripDraft `json:"tripData,omitempty"`
	PaymentAmount string            `json:"paymentAmount,omitempty"`
}

func paymentViewFromSession(s payments.Session) PaymentView {
	v := PaymentView{
		PaymentId:           string(s.ID),
		State:               s.State,
		Amount:              s.Amount,
		SuccessTransitionId: string(s.SuccessTransitionID),
	}
	if d, ok := s.TripDraft(); ok {
		v.Draft = &d
	}
	if s.Trip != nil {
		v.TripId = string(s.Trip.ID)
	}
	return v
}

func (r SubmitPaymentRequest) cardDetails() payments.CardDetails {
	return payments.CardDetails{
		CardNumber:     r.CardNumber,
		ExpiryDate:     r.ExpiryDate,
		CVV:            r.CVV,
		CardholderName: r.CardholderName,
		Email:          string(r.Email),
		Country:        r.Country,
		Zip:            r.Zip,
	}
}
