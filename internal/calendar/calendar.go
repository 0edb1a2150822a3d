// Package calendar answers "who is booked on this day" and lays reservations
// out on a month grid. Everything here is pure.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/cabinkeeper/internal/models"
)

// DefaultVisible is how many reservations a grid cell shows before "+N".
const DefaultVisible = 4

type WeekStart time.Weekday

const (
	WeekStartSunday = WeekStart(time.Sunday)
	WeekStartMonday = WeekStart(time.Monday)
)

// ParseWeekStart accepts "sunday", "monday" and the empty string (sunday).
func ParseWeekStart(s string) (WeekStart, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sunday", "sun":
		return WeekStartSunday, nil
	case "monday", "mon":
		return WeekStartMonday, nil
	default:
		return 0, fmt.Errorf("unknown week start %q", s)
	}
}

// ReservationsOn returns, in input order, the reservations whose inclusive
// [StartDate, EndDate] range contains day.
func ReservationsOn(day models.Date, reservations []models.Reservation) []models.Reservation {
	var out []models.Reservation
	for _, r := range reservations {
		if r.Covers(day) {
			out = append(out, r)
		}
	}
	return out
}

type Cell struct {
	Date         models.Date
	InMonth      bool
	Reservations []models.Reservation
}

// Visible returns at most n of the cell's reservations.
func (c Cell) Visible(n int) []models.Reservation {
	if n < 0 {
		n = 0
	}
	if len(c.Reservations) <= n {
		return c.Reservations
	}
	return c.Reservations[:n]
}

// Overflow is the number of reservations hidden when n are visible.
func (c Cell) Overflow(n int) int {
	if n < 0 {
		n = 0
	}
	if extra := len(c.Reservations) - n; extra > 0 {
		return extra
	}
	return 0
}

type Month struct {
	Year      int
	Month     time.Month
	WeekStart WeekStart
	Weeks     [][7]Cell
}

func (m Month) Title() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// Weekdays returns the column headers, starting at the grid's first weekday.
func (m Month) Weekdays() [7]time.Weekday {
	var out [7]time.Weekday
	for i := range out {
		out[i] = time.Weekday((int(m.WeekStart) + i) % 7)
	}
	return out
}

// Days returns the in-month cells in date order.
func (m Month) Days() []Cell {
	var out []Cell
	for _, w := range m.Weeks {
		for _, c := range w {
			if c.InMonth {
				out = append(out, c)
			}
		}
	}
	return out
}

// BuildMonth lays the month out in weeks of seven cells. Padding cells before
// the first and after the last day have InMonth false and no reservations.
func BuildMonth(year int, month time.Month, ws WeekStart, reservations []models.Reservation) Month {
	first := models.Date{Year: year, Month: month, Day: 1}
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	lead := (int(first.Weekday()) - int(ws) + 7) % 7
	start := first.AddDays(-lead)

	m := Month{Year: year, Month: month, WeekStart: ws}
	total := lead + daysInMonth
	weeks := (total + 6) / 7
	for w := 0; w < weeks; w++ {
		var week [7]Cell
		for i := range week {
			d := start.AddDays(w*7 + i)
			cell := Cell{Date: d, InMonth: d.Year == year && d.Month == month}
			if cell.InMonth {
				cell.Reservations = ReservationsOn(d, reservations)
			}
			week[i] = cell
		}
		m.Weeks = append(m.Weeks, week)
	}
	return m
}

// Next returns the month after (year, month).
func Next(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// Prev returns the month before (year, month).
func Prev(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}
