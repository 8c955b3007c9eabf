package drafts

import (
	"fmt"

	"github.com/tourvisto/trip-admin-api/internal/domain"
)

type dayTemplate struct {
	title      func(f domain.FormFields, day int) string
	activities func(f domain.FormFields) []domain.Activity
}

// middleDays rotate for every day between arrival and departure.
var middleDays = []dayTemplate{
	{
		title: func(f domain.FormFields, day int) string { return fmt.Sprintf("Day %d: %s Adventure", day, f.TravelStyle) },
		activities: func(f domain.FormFields) []domain.Activity {
			return []domain.Activity{
				{Time: "09:00", Description: fmt.Sprintf("Morning: %s exploration", f.Interest)},
				{Time: "14:00", Description: fmt.Sprintf("Afternoon: %s activities", f.TravelStyle)},
				{Time: "19:00", Description: "Evening: Local culture experience"},
			}
		},
	},
	{
		title: func(f domain.FormFields, day int) string { return fmt.Sprintf("Day %d: %s Highlights", day, f.Country) },
		activities: func(domain.FormFields) []domain.Activity {
			return []domain.Activity{
				{Time: "09:00", Description: "Visit main attractions"},
				{Time: "13:00", Description: "Local food tasting"},
				{Time: "16:00", Description: "Cultural activities"},
			}
		},
	},
	{
		title: func(f domain.FormFields, day int) string { return fmt.Sprintf("Day %d: %s Exploration", day, f.Country) },
		activities: func(domain.FormFields) []domain.Activity {
			return []domain.Activity{
				{Time: "09:00", Description: "Explore hidden gems"},
				{Time: "14:00", Description: "Adventure activities"},
				{Time: "20:00", Description: "Evening entertainment"},
			}
		},
	},
}

// Itinerary builds one entry per day of f.Duration, never fewer than one.
//
// Day 1 is the arrival day (09:00 check-in, 14:00 an interest-named activity).
// A multi-day trip ends on a departure day; the days in between rotate through
// the adventure, highlights and exploration templates.
func Itinerary(f domain.FormFields) []domain.ItineraryDay {
	days := f.Duration
	if days < 1 {
		days = 1
	}
	out := make([]domain.ItineraryDay, 0, days)
	out = append(out, domain.ItineraryDay{
		Day:      1,
		Title:    fmt.Sprintf("Day 1: Arrival in %s", f.Country),
		Location: f.Country,
		Activities: []domain.Activity{
			{Time: "09:00", Description: "Arrival and check-in"},
			{Time: "14:00", Description: fmt.Sprintf("%s activity", f.Interest)},
		},
	})
	for day := 2; day < days; day++ {
		tpl := middleDays[(day-2)%len(middleDays)]
		out = append(out, domain.ItineraryDay{
			Day:        day,
			Title:      tpl.title(f, day),
			Location:   f.Country,
			Activities: tpl.activities(f),
		})
	}
	if days > 1 {
		out = append(out, domain.ItineraryDay{
			Day:      days,
			Title:    fmt.Sprintf("Day %d: Shopping & Departure", days),
			Location: f.Country,
			Activities: []domain.Activity{
				{Time: "09:00", Description: "Last-minute shopping"},
				{Time: "12:00", Description: "Farewell activities"},
				{Time: "15:00", Description: "Head to airport for departure"},
			},
		})
	}
	return out
}
