package models

import "github.com/google/uuid"

// Reservation books one cabin for one client over an inclusive date range.
//
// StartDate <= EndDate is expected but not enforced; an inverted range
// simply never matches a calendar day.
type Reservation struct {
	ID         string  `json:"id"`
	CabinID    int     `json:"cabinId"`
	ClientName string  `json:"clientName"`
	Deposit    float64 `json:"deposit"`
	StartDate  Date    `json:"startDate"`
	EndDate    Date    `json:"endDate"`
	Notes      string  `json:"notes,omitempty"`
}

// NewReservationID returns a fresh opaque reservation identifier.
func NewReservationID() string {
	return uuid.NewString()
}

// Covers reports whether day lies inside [StartDate, EndDate], both ends included.
func (r Reservation) Covers(day Date) bool {
	return !day.Before(r.StartDate) && !day.After(r.EndDate)
}

// Nights returns the number of nights between start and end, 0 for inverted ranges.
func (r Reservation) Nights() int {
	n := r.StartDate.DaysUntil(r.EndDate)
	if n < 0 {
		return 0
	}
	return n
}
