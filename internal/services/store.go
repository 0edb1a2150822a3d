// Package services holds the application services of the reservation manager:
// the entity store that owns cabins and reservations, and the insight service
// that asks a text-generation backend to summarize them.
package services

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/dmitrijs2005/cabinkeeper/internal/common"
	"github.com/dmitrijs2005/cabinkeeper/internal/logging"
	"github.com/dmitrijs2005/cabinkeeper/internal/models"
	"github.com/dmitrijs2005/cabinkeeper/internal/repositories/blobs"
)

const (
	DefaultKeyPrefix  = "rli_"
	DefaultSeedCabins = 8

	cabinsSlot       = "cabins"
	reservationsSlot = "reservations"
)

type StoreOptions struct {
	KeyPrefix  string
	SeedCabins int
}

// Warning describes a slot that could not be used at load time; the store
// fell back to defaults for it.
type Warning struct {
	Slot string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v (defaults used)", w.Slot, w.Err)
}

// EntityStore is the authoritative in-memory copy of all cabins and
// reservations. Every mutation writes both collections back to the blob store.
type EntityStore struct {
	repo blobs.Store
	log  logging.Logger
	opts StoreOptions

	mu           sync.RWMutex
	cabins       []models.Cabin
	reservations []models.Reservation
}

func NewEntityStore(repo blobs.Store, log logging.Logger, opts StoreOptions) *EntityStore {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	if opts.SeedCabins <= 0 {
		opts.SeedCabins = DefaultSeedCabins
	}
	return &EntityStore{
		repo:         repo,
		log:          log.With("component", "store"),
		opts:         opts,
		cabins:       models.SeedCabins(opts.SeedCabins),
		reservations: []models.Reservation{},
	}
}

func (s *EntityStore) CabinsKey() string       { return s.opts.KeyPrefix + cabinsSlot }
func (s *EntityStore) ReservationsKey() string { return s.opts.KeyPrefix + reservationsSlot }

// Load replaces the in-memory state with the persisted one. It never fails:
// an absent slot yields the defaults silently, an unreadable or malformed one
// yields the defaults plus a Warning. Defaults are not written back.
func (s *EntityStore) Load(ctx context.Context) []Warning {
	var warnings []Warning
	warn := func(slot string, err error) {
		s.log.Warn(ctx, "slot unusable, using defaults", "slot", slot, "error", err)
		warnings = append(warnings, Warning{Slot: slot, Err: err})
	}

	cabins := models.SeedCabins(s.opts.SeedCabins)
	if data, err := s.repo.Get(ctx, s.CabinsKey()); err != nil {
		warn(s.CabinsKey(), err)
	} else if data != nil {
		decoded, err := models.DecodeCabins(data)
		switch {
		case err != nil:
			warn(s.CabinsKey(), err)
		case len(decoded) == 0:
			warn(s.CabinsKey(), fmt.Errorf("%w: empty cabin list", models.ErrMalformed))
		default:
			cabins = decoded
		}
	}

	reservations := []models.Reservation{}
	if data, err := s.repo.Get(ctx, s.ReservationsKey()); err != nil {
		warn(s.ReservationsKey(), err)
	} else if data != nil {
		decoded, err := models.DecodeReservations(data)
		if err != nil {
			warn(s.ReservationsKey(), err)
		} else {
			reservations = decoded
		}
	}

	s.mu.Lock()
	s.cabins = cabins
	s.reservations = reservations
	s.mu.Unlock()

	s.log.Debug(ctx, "store loaded", "cabins", len(cabins), "reservations", len(reservations))
	return warnings
}

// Persist writes both collections in a single SetAll call.
func (s *EntityStore) Persist(ctx context.Context) error {
	s.mu.RLock()
	cabinsData, err := models.EncodeCabins(s.cabins)
	if err != nil {
		s.mu.RUnlock()
		return fmt.Errorf("%w: encode cabins: %w", common.ErrPersist, err)
	}
	reservationsData, err := models.EncodeReservations(s.reservations)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("%w: encode reservations: %w", common.ErrPersist, err)
	}

	err = s.repo.SetAll(ctx, map[string][]byte{
		s.CabinsKey():       cabinsData,
		s.ReservationsKey(): reservationsData,
	})
	if err != nil {
		s.log.Error(ctx, "persist failed", "error", err)
		return fmt.Errorf("%w: %w", common.ErrPersist, err)
	}
	return nil
}

// UpsertReservation replaces the reservation with the same id, or appends it.
// A reservation without an id gets a fresh one. A non-finite deposit is
// rejected with common.ErrInvalid and leaves the store untouched.
func (s *EntityStore) UpsertReservation(ctx context.Context, r models.Reservation) error {
	if math.IsNaN(r.Deposit) || math.IsInf(r.Deposit, 0) {
		return fmt.Errorf("%w: deposit %v is not a finite number", common.ErrInvalid, r.Deposit)
	}
	if r.ID == "" {
		r.ID = models.NewReservationID()
	}

	s.mu.Lock()
	if i := s.indexOf(r.ID); i >= 0 {
		s.reservations[i] = r
	} else {
		s.reservations = append(s.reservations, r)
	}
	s.mu.Unlock()

	s.log.Info(ctx, "reservation saved", "id", r.ID, "cabin", r.CabinID)
	return s.Persist(ctx)
}

// DeleteReservation removes the reservation with id. An unknown id changes
// nothing and writes nothing.
func (s *EntityStore) DeleteReservation(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.reservations = slices.Delete(s.reservations, i, i+1)
	s.mu.Unlock()

	s.log.Info(ctx, "reservation deleted", "id", id)
	return s.Persist(ctx)
}

// UpdateCabin merges patch into the cabin with id. Unknown ids are ignored.
func (s *EntityStore) UpdateCabin(ctx context.Context, id int, patch models.CabinPatch) error {
	s.mu.Lock()
	i := slices.IndexFunc(s.cabins, func(c models.Cabin) bool { return c.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.cabins[i] = patch.Apply(s.cabins[i])
	s.mu.Unlock()

	s.log.Info(ctx, "cabin updated", "id", id)
	return s.Persist(ctx)
}

func (s *EntityStore) indexOf(id string) int {
	return slices.IndexFunc(s.reservations, func(r models.Reservation) bool { return r.ID == id })
}

func (s *EntityStore) Cabins() []models.Cabin {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Cabin, len(s.cabins))
	for i, c := range s.cabins {
		out[i] = copyCabin(c)
	}
	return out
}

func (s *EntityStore) Cabin(id int) (models.Cabin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.cabins {
		if c.ID == id {
			return copyCabin(c), nil
		}
	}
	return models.Cabin{}, fmt.Errorf("cabin %d: %w", id, common.ErrNotFound)
}

// CabinName returns the cabin's display name or models.UnknownCabinName.
func (s *EntityStore) CabinName(id int) string {
	c, err := s.Cabin(id)
	if err != nil {
		return models.UnknownCabinName
	}
	return c.Name
}

func (s *EntityStore) Reservations() []models.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.reservations)
}

func (s *EntityStore) Reservation(id string) (models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.reservations[i], nil
	}
	return models.Reservation{}, fmt.Errorf("reservation %s: %w", id, common.ErrNotFound)
}

// Upcoming returns all reservations ordered by start date; equal start dates
// keep their insertion order.
func (s *EntityStore) Upcoming() []models.Reservation {
	out := s.Reservations()
	slices.SortStableFunc(out, func(a, b models.Reservation) int {
		return a.StartDate.Compare(b.StartDate)
	})
	return out
}

func copyCabin(c models.Cabin) models.Cabin {
	if c.Image != nil {
		img := *c.Image
		c.Image = &img
	}
	return c
}
