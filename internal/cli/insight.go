package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cabinkeeper/internal/calendar"
	"github.com/dmitrijs2005/cabinkeeper/internal/ics"
	"github.com/dmitrijs2005/cabinkeeper/internal/models"
	"github.com/dmitrijs2005/cabinkeeper/internal/services"
	"github.com/dmitrijs2005/cabinkeeper/internal/stats"
)

// Stats prints the overall totals and the occupancy of the shown month.
func (a *App) Stats(ctx context.Context, _ []string) error {
	totals := stats.Summarize(a.store.Reservations())
	fmt.Fprintf(a.out, "Total reservations: %d\n", totals.Count)
	fmt.Fprintf(a.out, "Total deposits:     %s\n", formatMoney(totals.Deposits))

	from := models.Date{Year: a.year, Month: a.month, Day: 1}
	ny, nm := calendar.Next(a.year, a.month)
	to := models.Date{Year: ny, Month: nm, Day: 1}

	fmt.Fprintf(a.out, "\nOccupancy, %s %d (nights):\n", a.month, a.year)
	for _, o := range stats.Occupancy(a.store.Cabins(), a.store.Reservations(), from, to) {
		fmt.Fprintf(a.out, "  %-20s %3d\n", o.Name, o.Nights)
	}
	return nil
}

func (a *App) Insight(ctx context.Context, _ []string) error {
	fmt.Fprintln(a.out, "Analyzing reservations...")

	in, err := a.insight.Request(ctx, a.store.Cabins(), a.store.Reservations())
	if errors.Is(err, services.ErrInsightBusy) {
		fmt.Fprintln(a.out, "An analysis is already running, please wait.")
		return err
	}

	for _, p := range in.Paragraphs() {
		fmt.Fprintln(a.out, p)
		fmt.Fprintln(a.out)
	}
	return nil
}

// APIKey replaces the AI credential for this session. An empty answer
// clears it.
func (a *App) APIKey(ctx context.Context, _ []string) error {
	key, err := GetSecret(a.reader, "API key (empty to clear)", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}
	key = strings.TrimSpace(key)
	a.insight.SetCredential(key)

	if key == "" {
		fmt.Fprintln(a.out, "API key cleared.")
	} else {
		fmt.Fprintln(a.out, "API key set for this session.")
	}
	a.log.Info(ctx, "api key changed", "configured", key != "")
	return nil
}

// Export writes the reservations as an iCalendar file: export [path].
func (a *App) Export(ctx context.Context, args []string) error {
	path := a.config.ExportPath
	if len(args) > 0 {
		path = strings.Join(args, " ")
	}

	rs := a.store.Reservations()
	if err := ics.Export(path, a.config.PropertyName, a.store.Cabins(), rs); err != nil {
		return a.fail(ctx, err)
	}
	fmt.Fprintf(a.out, "Exported %d reservation(s) to %s\n", len(rs), path)
	return nil
}
