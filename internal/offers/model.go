package offers

import "slices"

// Offer is a promotional offer attached to a restaurant.
// Offers have no identity key; they are replaced or appended as whole lists.
type Offer struct {
	Title   string `json:"title"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`

	// Inclusive ISO dates, "YYYY-MM-DD". Empty means unbounded.
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`

	// "HH:MM", 24h clock.
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`

	// 0=Sunday..6=Saturday. Empty means every day.
	DaysOfWeek []int `json:"daysOfWeek,omitempty"`
}

func Clone(in []Offer) []Offer {
	if in == nil {
		return nil
	}
	out := make([]Offer, len(in))
	for i, o := range in {
		out[i] = o
		out[i].DaysOfWeek = slices.Clone(o.DaysOfWeek)
	}
	return out
}
