package drafts

import "github.com/tourvisto/trip-admin-api/internal/domain"

// FormOptions are the selectable values offered by the trip form.
type FormOptions struct {
	TravelStyles []string        `json:"travelStyle"`
	Interests    []string        `json:"interest"`
	Budgets      []domain.Budget `json:"budget"`
	GroupTypes   []string        `json:"groupType"`
}

// Options returns a fresh copy of the form option lists.
func Options() FormOptions {
	return FormOptions{
		TravelStyles: []string{"Relaxed", "Luxury", "Adventure", "Cultural", "Nature & Outdoors", "City Exploration"},
		Interests: []string{
			"Food & Culinary",
			"Historical Sites",
			"Hiking & Nature Walks",
			"Beaches & Water Activities",
			"Museums & Art",
			"Nightlife & Bars",
			"Photography Spots",
			"Shopping",
			"Local Experiences",
		},
		Budgets:    []domain.Budget{domain.BudgetBudget, domain.BudgetMidRange, domain.BudgetLuxury, domain.BudgetPremium},
		GroupTypes: []string{"Solo", "Couple", "Family", "Friends", "Business"},
	}
}
