// Package ics exports reservations as an iCalendar feed so they can be
// subscribed to from ordinary calendar apps.
package ics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/dmitrijs2005/cabinkeeper/internal/filex"
	"github.com/dmitrijs2005/cabinkeeper/internal/models"
)

const productID = "-//cabinkeeper//reservations//EN"

var now = time.Now

// Build renders one all-day event per reservation. DTEND is exclusive, so it
// is the day after the last booked day. Reservations with an inverted range
// are left out.
func Build(property string, cabins []models.Cabin, reservations []models.Reservation) string {
	names := make(map[int]string, len(cabins))
	for _, c := range cabins {
		names[c.ID] = c.Name
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(property)

	stamp := now().UTC()
	for _, r := range reservations {
		if r.EndDate.Before(r.StartDate) {
			continue
		}
		cabin, ok := names[r.CabinID]
		if !ok {
			cabin = models.UnknownCabinName
		}

		ev := cal.AddEvent(r.ID + "@cabinkeeper")
		ev.SetDtStampTime(stamp)
		ev.SetAllDayStartAt(r.StartDate.Time())
		ev.SetAllDayEndAt(r.EndDate.AddDays(1).Time())
		ev.SetSummary(fmt.Sprintf("%s: %s", cabin, r.ClientName))
		ev.SetLocation(property)
		ev.SetDescription(description(r))
	}
	return cal.Serialize()
}

func description(r models.Reservation) string {
	var b strings.Builder
	b.WriteString("Deposit: ")
	b.WriteString(strconv.FormatFloat(r.Deposit, 'f', -1, 64))
	if r.Notes != "" {
		b.WriteString("\n")
		b.WriteString(r.Notes)
	}
	return b.String()
}

// Export writes the feed to path, replacing any previous file atomically.
func Export(path, property string, cabins []models.Cabin, reservations []models.Reservation) error {
	data := Build(property, cabins, reservations)
	if err := filex.WriteFileAtomic(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("export ics: %w", err)
	}
	return nil
}
