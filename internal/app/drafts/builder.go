// Package drafts derives a TripDraft from the trip form.
package drafts

import (
	"fmt"
	"math/rand/v2"

	"github.com/tourvisto/trip-admin-api/internal/domain"
)

// SampleImages is the pool a draft's cover image is drawn from.
var SampleImages = []string{
	"/assets/images/sample1.jpg",
	"/assets/images/sample2.jpg",
	"/assets/images/sample3.jpg",
	"/assets/images/sample4.jpg",
}

// Pricer produces the display price of a trip.
type Pricer interface {
	Estimate(duration int, budget domain.Budget) string
}

type Builder struct {
	pricer Pricer

	pickImage func(n int) int
}

func NewBuilder(p Pricer) *Builder {
	return &Builder{
		pricer:    p,
		pickImage: rand.IntN,
	}
}

// SetImagePickerForTest overrides the random cover-image choice.
// It should not be used in production code.
func (b *Builder) SetImagePickerForTest(fn func(n int) int) {
	if fn != nil {
		b.pickImage = fn
	}
}

// Validate reports every required form field that is empty, or a non-positive duration.
func Validate(f domain.FormFields) error {
	fields := map[string]string{}
	required := map[string]string{
		"country":     f.Country,
		"travelStyle": f.TravelStyle,
		"interest":    f.Interest,
		"budget":      string(f.Budget),
		"groupType":   f.GroupType,
	}
	for k, v := range required {
		if v == "" {
			fields[k] = "must be non-empty"
		}
	}
	if f.Duration <= 0 {
		fields["duration"] = "must be a positive number of days"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Build validates the form and derives a draft from it. countries supplies the
// coordinates and map link of the chosen country; a country missing from the
// catalog gets (0,0) and an empty link.
func (b *Builder) Build(form domain.FormFields, countries []domain.Country) (domain.TripDraft, error) {
	f := domain.NormalizeForm(form)
	if err := Validate(f); err != nil {
		return domain.TripDraft{}, err
	}

	loc := domain.Location{City: f.Country}
	if c, ok := findCountry(countries, f.Country); ok {
		loc.Coordinates = c.Coordinates
		loc.MapLink = c.MapLink
	}

	return domain.TripDraft{
		Country:     f.Country,
		TravelStyle: f.TravelStyle,
		Interests:   f.Interest,
		Budget:      f.Budget,
		Duration:    f.Duration,
		GroupType:   f.GroupType,

		Name: fmt.Sprintf("%s %s Adventure", f.Country, f.TravelStyle),
		Description: fmt.Sprintf(
			"Experience %s travel in %s with %s activities. Perfect for %s travelers on a %s budget.",
			f.TravelStyle, f.Country, f.Interest, f.GroupType, f.Budget,
		),
		EstimatedPrice:  b.pricer.Estimate(f.Duration, f.Budget),
		Tags:            domain.Tags(f.TravelStyle, f.Budget, f.GroupType),
		ImageURLs:       []string{SampleImages[b.pickImage(len(SampleImages))]},
		Itinerary:       Itinerary(f),
		BestTimeToVisit: []string{"Spring", "Fall"},
		WeatherInfo:     []string{"Mild temperatures", "Low rainfall"},
		Location:        loc,
	}, nil
}

// FormFromDraft recovers the form inputs of d so the trip can be edited and rebuilt.
func FormFromDraft(d domain.TripDraft) domain.FormFields {
	return domain.FormFields{
		Country:     d.Country,
		TravelStyle: d.TravelStyle,
		Interest:    d.Interests,
		Budget:      d.Budget,
		Duration:    d.Duration,
		GroupType:   d.GroupType,
	}
}

func findCountry(countries []domain.Country, name string) (domain.Country, bool) {
	for _, c := range countries {
		if c.Value == name || c.Name == name {
			return c, true
		}
	}
	return domain.Country{}, false
}
