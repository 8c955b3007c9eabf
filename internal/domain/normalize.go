package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
// It is applied to free-text form fields before validation.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeForm returns a copy of f with every text field normalized.
func NormalizeForm(f FormFields) FormFields {
	return FormFields{
		Country:     NormalizeHumanName(f.Country),
		TravelStyle: NormalizeHumanName(f.TravelStyle),
		Interest:    NormalizeHumanName(f.Interest),
		Budget:      Budget(NormalizeHumanName(string(f.Budget))),
		Duration:    f.Duration,
		GroupType:   NormalizeHumanName(f.GroupType),
	}
}
