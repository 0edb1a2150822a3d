package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cabinkeeper/internal/calendar"
	"github.com/dmitrijs2005/cabinkeeper/internal/models"
)

// Month shows the calendar, optionally jumping to "month YYYY-MM".
func (a *App) Month(ctx context.Context, args []string) error {
	if len(args) > 0 {
		t, err := time.Parse("2006-01", args[0])
		if err != nil {
			return a.fail(ctx, fmt.Errorf("invalid month %q, expected YYYY-MM", args[0]))
		}
		a.year, a.month = t.Year(), t.Month()
	}

	m := calendar.BuildMonth(a.year, a.month, a.weekStart, a.store.Reservations())
	renderMonth(a.out, m)
	return nil
}

func (a *App) Next(ctx context.Context, _ []string) error {
	a.year, a.month = calendar.Next(a.year, a.month)
	return a.Month(ctx, nil)
}

func (a *App) Prev(ctx context.Context, _ []string) error {
	a.year, a.month = calendar.Prev(a.year, a.month)
	return a.Month(ctx, nil)
}

func (a *App) Today(ctx context.Context, _ []string) error {
	today := models.Today()
	a.year, a.month = today.Year, today.Month
	return a.Month(ctx, nil)
}

// Day lists the reservations covering a date (default today).
func (a *App) Day(ctx context.Context, args []string) error {
	day := models.Today()
	if len(args) > 0 {
		d, err := ParseDateInput(args[0])
		if err != nil {
			return a.fail(ctx, err)
		}
		day = d
	}

	rs := calendar.ReservationsOn(day, a.store.Reservations())
	fmt.Fprintf(a.out, "%s: %d reservation(s)\n", day.Format("Monday, 02 January 2006"), len(rs))
	for _, r := range rs {
		fmt.Fprintln(a.out, "  "+a.describe(r))
	}
	return nil
}
