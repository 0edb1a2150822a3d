// Package stats computes booking figures shown by the stats command.
package stats

import (
	"slices"

	"github.com/dmitrijs2005/cabinkeeper/internal/models"
)

type Totals struct {
	Count    int
	Deposits float64
}

func Summarize(reservations []models.Reservation) Totals {
	t := Totals{Count: len(reservations)}
	for _, r := range reservations {
		t.Deposits += r.Deposit
	}
	return t
}

type CabinOccupancy struct {
	CabinID      int
	Name         string
	Nights       int
	Reservations int
}

// Occupancy counts booked nights per cabin inside [from, to). A reservation
// is counted for its cabin whenever any of its days falls in the window, so a
// same-day stay adds to Reservations with 0 nights. Every known cabin is
// listed, booked or not; reservations for unknown cabins are grouped under
// their id with models.UnknownCabinName. The result is sorted by nights
// (descending) then cabin id.
func Occupancy(cabins []models.Cabin, reservations []models.Reservation, from, to models.Date) []CabinOccupancy {
	byID := make(map[int]*CabinOccupancy, len(cabins))
	for _, c := range cabins {
		byID[c.ID] = &CabinOccupancy{CabinID: c.ID, Name: c.Name}
	}

	for _, r := range reservations {
		if !overlaps(r, from, to) {
			continue
		}
		occ, ok := byID[r.CabinID]
		if !ok {
			occ = &CabinOccupancy{CabinID: r.CabinID, Name: models.UnknownCabinName}
			byID[r.CabinID] = occ
		}
		occ.Nights += overlapNights(r, from, to)
		occ.Reservations++
	}

	out := make([]CabinOccupancy, 0, len(byID))
	for _, occ := range byID {
		out = append(out, *occ)
	}
	slices.SortFunc(out, func(a, b CabinOccupancy) int {
		if a.Nights != b.Nights {
			return b.Nights - a.Nights
		}
		return a.CabinID - b.CabinID
	})
	return out
}

// overlaps reports whether the closed range of r shares a day with [from, to).
func overlaps(r models.Reservation, from, to models.Date) bool {
	if r.EndDate.Before(r.StartDate) {
		return false
	}
	return !r.EndDate.Before(from) && r.StartDate.Before(to)
}

// overlapNights is the number of nights of r that fall in [from, to). A night
// is identified by the date it starts on.
func overlapNights(r models.Reservation, from, to models.Date) int {
	start, end := r.StartDate, r.EndDate
	if end.Before(start) {
		return 0
	}
	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}
	if n := start.DaysUntil(end); n > 0 {
		return n
	}
	return 0
}
