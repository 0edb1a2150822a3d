package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/cabinkeeper/internal/calendar"
	"github.com/dmitrijs2005/cabinkeeper/internal/models"
)

const shortIDLen = 8

func formatMoney(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func (a *App) describe(r models.Reservation) string {
	line := fmt.Sprintf("%-8s  %-20s  %-16s  %s to %s  deposit %s",
		shortID(r.ID), r.ClientName, a.store.CabinName(r.CabinID),
		r.StartDate.Format("02/01/2006"), r.EndDate.Format("02/01/2006"), formatMoney(r.Deposit))
	if r.Notes != "" {
		line += "  (" + r.Notes + ")"
	}
	return line
}

// renderMonth draws the grid: one column per weekday, each day followed by a
// mark per visible reservation and "+N" for the rest.
func renderMonth(w io.Writer, m calendar.Month) {
	fmt.Fprintln(w, m.Title())

	var header []string
	for _, wd := range m.Weekdays() {
		header = append(header, fmt.Sprintf("%-10s", wd.String()[:2]))
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(header, ""), " "))

	for _, week := range m.Weeks {
		var b strings.Builder
		for _, cell := range week {
			if !cell.InMonth {
				b.WriteString(strings.Repeat(" ", 10))
				continue
			}
			marks := strings.Repeat("*", len(cell.Visible(calendar.DefaultVisible)))
			if n := cell.Overflow(calendar.DefaultVisible); n > 0 {
				marks += fmt.Sprintf("+%d", n)
			}
			fmt.Fprintf(&b, "%2d %-7s", cell.Date.Day, marks)
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}
