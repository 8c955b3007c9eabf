package domain

import "time"

// Budget is the spending tier selected on the trip form.
// Values outside the known set are accepted and priced like BudgetMidRange.
type Budget string

const (
	BudgetBudget   Budget = "Budget"
	BudgetMidRange Budget = "Mid-range"
	BudgetLuxury   Budget = "Luxury"
	BudgetPremium  Budget = "Premium"
)

// Coordinates is a (latitude, longitude) pair.
type Coordinates [2]float64

// Country is one entry of the country catalog offered by the trip form.
type Country struct {
	// Name is the display name: flag emoji, a space, then the common name.
	Name string `json:"name"`
	// Value is the common name submitted by the form.
	Value       string      `json:"value"`
	Coordinates Coordinates `json:"coordinates"`
	MapLink     string      `json:"openStreetMap"`
}

// FormFields are the six inputs collected by the trip form.
type FormFields struct {
	Country     string `json:"country"`
	TravelStyle string `json:"travelStyle"`
	Interest    string `json:"interest"`
	Budget      Budget `json:"budget"`
	Duration    int    `json:"duration"`
	GroupType   string `json:"groupType"`
}

type Activity struct {
	Time        string `json:"time"`
	Description string `json:"description"`
}

type ItineraryDay struct {
	Day        int        `json:"day"`
	Title      string     `json:"title"`
	Location   string     `json:"location"`
	Activities []Activity `json:"activities"`
}

type Location struct {
	City        string      `json:"city"`
	Coordinates Coordinates `json:"coordinates"`
	MapLink     string      `json:"openStreetMap"`
}

// TripDraft is an in-memory trip specification derived from FormFields.
// It is not persisted until the save flow hands it to the trip repository.
type TripDraft struct {
	Country     string `json:"country"`
	TravelStyle string `json:"travelStyle"`
	Interests   string `json:"interests"`
	Budget      Budget `json:"budget"`
	Duration    int    `json:"duration"`
	GroupType   string `json:"groupType"`

	Name            string         `json:"name"`
	Description     string         `json:"description"`
	EstimatedPrice  string         `json:"estimatedPrice"`
	Tags            []string       `json:"tags"`
	ImageURLs       []string       `json:"imageUrls"`
	Itinerary       []ItineraryDay `json:"itinerary"`
	BestTimeToVisit []string       `json:"bestTimeToVisit"`
	WeatherInfo     []string       `json:"weatherInfo"`
	Location        Location       `json:"location"`
	PaymentLink     string         `json:"payment_link"`
}

// Trip is a draft accepted by the trip repository.
type Trip struct {
	ID TripID `json:"id"`
	TripDraft
	CreatedAt time.Time `json:"createdAt"`
}

// ItinerarySummary is the per-day location shown on a dashboard card.
type ItinerarySummary struct {
	Location string `json:"location"`
}

// RegistryEntry is one card of the dashboard trip registry.
type RegistryEntry struct {
	ID             int                `json:"id"`
	Name           string             `json:"name"`
	ImageURLs      []string           `json:"imageUrls"`
	Itinerary      []ItinerarySummary `json:"itinerary"`
	Tags           []string           `json:"tags"`
	TravelStyle    string             `json:"travelStyle"`
	EstimatedPrice string             `json:"estimatedPrice"`
}

// Tags returns the non-empty subset of (travelStyle, budget, groupType) in that order.
func Tags(travelStyle string, budget Budget, groupType string) []string {
	out := make([]string, 0, 3)
	for _, v := range []string{travelStyle, string(budget), groupType} {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// CloneDraft returns a deep copy of d.
func CloneDraft(d TripDraft) TripDraft {
	cp := d
	cp.Tags = cloneStrings(d.Tags)
	cp.ImageURLs = cloneStrings(d.ImageURLs)
	cp.BestTimeToVisit = cloneStrings(d.BestTimeToVisit)
	cp.WeatherInfo = cloneStrings(d.WeatherInfo)
	if d.Itinerary != nil {
		cp.Itinerary = make([]ItineraryDay, len(d.Itinerary))
		for i, day := range d.Itinerary {
			day.Activities = append([]Activity(nil), day.Activities...)
			cp.Itinerary[i] = day
		}
	}
	return cp
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
