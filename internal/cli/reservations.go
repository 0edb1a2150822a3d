package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cabinkeeper/internal/common"
	"github.com/dmitrijs2005/cabinkeeper/internal/models"
)

var errAmbiguousID = errors.New("id prefix matches more than one reservation")

func (a *App) List(ctx context.Context, _ []string) error {
	upcoming := a.store.Upcoming()
	if len(upcoming) == 0 {
		fmt.Fprintln(a.out, "No reservations yet.")
		return nil
	}
	for _, r := range upcoming {
		fmt.Fprintln(a.out, a.describe(r))
	}
	return nil
}

// findReservation resolves a full id or a unique id prefix.
func (a *App) findReservation(ref string) (models.Reservation, error) {
	if r, err := a.store.Reservation(ref); err == nil {
		return r, nil
	}

	var found []models.Reservation
	for _, r := range a.store.Reservations() {
		if strings.HasPrefix(r.ID, ref) {
			found = append(found, r)
		}
	}
	switch len(found) {
	case 0:
		return models.Reservation{}, fmt.Errorf("reservation %s: %w", ref, common.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return models.Reservation{}, fmt.Errorf("%q: %w", ref, errAmbiguousID)
	}
}

func (a *App) reservationArg(args []string) (models.Reservation, error) {
	ref := ""
	if len(args) > 0 {
		ref = args[0]
	} else {
		v, err := GetSimpleText(a.reader, "Reservation id", a.out)
		if err != nil {
			return models.Reservation{}, err
		}
		ref = v
	}
	if ref == "" {
		return models.Reservation{}, errors.New("no reservation id given")
	}
	return a.findReservation(ref)
}

func (a *App) Add(ctx context.Context, _ []string) error {
	_ = a.Cabins(ctx, nil)

	r := models.Reservation{ID: models.NewReservationID()}
	if err := a.fillReservation(&r, false); err != nil {
		return a.fail(ctx, err)
	}
	return a.save(ctx, r, "created")
}

func (a *App) Edit(ctx context.Context, args []string) error {
	r, err := a.reservationArg(args)
	if err != nil {
		return a.fail(ctx, err)
	}
	fmt.Fprintln(a.out, "Editing:", a.describe(r))
	fmt.Fprintln(a.out, "Press Enter to keep the value in brackets.")

	if err := a.fillReservation(&r, true); err != nil {
		return a.fail(ctx, err)
	}
	return a.save(ctx, r, "updated")
}

func (a *App) save(ctx context.Context, r models.Reservation, verb string) error {
	if r.EndDate.Before(r.StartDate) {
		fmt.Fprintln(a.out, "Note: the end date is before the start date; this reservation will not show on the calendar.")
	}
	if err := a.store.UpsertReservation(ctx, r); err != nil {
		if errors.Is(err, common.ErrInvalid) {
			return a.fail(ctx, err)
		}
		return a.reportPersist(ctx, err)
	}
	fmt.Fprintf(a.out, "Reservation %s %s\n", shortID(r.ID), verb)
	return nil
}

// fillReservation prompts for every editable field. With keep set the
// current values are offered as defaults.
func (a *App) fillReservation(r *models.Reservation, keep bool) error {
	ask := func(prompt, current string) (string, error) {
		if keep {
			return GetWithDefault(a.reader, prompt, current, a.out)
		}
		return GetSimpleText(a.reader, prompt, a.out)
	}

	raw, err := ask("Cabin id", fmt.Sprint(r.CabinID))
	if err != nil {
		return err
	}
	if r.CabinID, err = parseCabinID(raw); err != nil {
		return err
	}
	if _, err := a.store.Cabin(r.CabinID); err != nil {
		fmt.Fprintf(a.out, "Note: cabin %d does not exist; it will be listed as %q.\n", r.CabinID, models.UnknownCabinName)
	}

	if raw, err = ask("Client name", r.ClientName); err != nil {
		return err
	}
	if r.ClientName = strings.TrimSpace(raw); r.ClientName == "" {
		return errors.New("client name is required")
	}

	if raw, err = ask("Deposit", fmt.Sprint(r.Deposit)); err != nil {
		return err
	}
	if r.Deposit, err = ParseDeposit(raw); err != nil {
		return err
	}

	if raw, err = ask("Start date (YYYY-MM-DD)", r.StartDate.String()); err != nil {
		return err
	}
	if r.StartDate, err = ParseDateInput(raw); err != nil {
		return err
	}

	endDefault := r.EndDate.String()
	if !keep {
		endDefault = r.StartDate.String()
	}
	if raw, err = GetWithDefault(a.reader, "End date (YYYY-MM-DD)", endDefault, a.out); err != nil {
		return err
	}
	if r.EndDate, err = ParseDateInput(raw); err != nil {
		return err
	}

	notesPrompt := "Notes (optional)"
	if keep {
		notesPrompt = "Notes (\"-\" clears)"
	}
	notes, err := ask(notesPrompt, r.Notes)
	if err != nil {
		return err
	}
	if notes == "-" {
		notes = ""
	}
	r.Notes = notes
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	r, err := a.reservationArg(args)
	if err != nil {
		return a.fail(ctx, err)
	}

	fmt.Fprintln(a.out, a.describe(r))
	ok, err := Confirm(a.reader, "Are you sure you want to delete this reservation?", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}
	if !ok {
		fmt.Fprintln(a.out, "Kept.")
		return nil
	}

	if err := a.store.DeleteReservation(ctx, r.ID); err != nil {
		return a.reportPersist(ctx, err)
	}
	fmt.Fprintf(a.out, "Reservation %s deleted\n", shortID(r.ID))
	return nil
}
