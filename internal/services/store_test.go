package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/dmitrijs2005/cabinkeeper/internal/common"
	"github.com/dmitrijs2005/cabinkeeper/internal/logging"
	"github.com/dmitrijs2005/cabinkeeper/internal/models"
	"github.com/dmitrijs2005/cabinkeeper/internal/repositories/blobs"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBlobs wraps the memory backend with error injection and call counts.
type fakeBlobs struct {
	*blobs.MemoryRepository
	getErr    map[string]error
	setAllErr error
	setAlls   int
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{MemoryRepository: blobs.NewMemoryRepository(), getErr: map[string]error{}}
}

func (f *fakeBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	if err := f.getErr[key]; err != nil {
		return nil, err
	}
	return f.MemoryRepository.Get(ctx, key)
}

func (f *fakeBlobs) SetAll(ctx context.Context, items map[string][]byte) error {
	f.setAlls++
	if f.setAllErr != nil {
		return f.setAllErr
	}
	return f.MemoryRepository.SetAll(ctx, items)
}

func newTestStore(t *testing.T, repo blobs.Store) *EntityStore {
	t.Helper()
	return NewEntityStore(repo, logging.Discard(), StoreOptions{})
}

func gomez() models.Reservation {
	return models.Reservation{
		ID:         "r-1",
		CabinID:    1,
		ClientName: "A. Gomez",
		Deposit:    5000,
		StartDate:  models.MustParseDate("2024-03-10"),
		EndDate:    models.MustParseDate("2024-03-12"),
	}
}

func TestLoad_AbsentSlots_SeedsWithoutWarnings(t *testing.T) {
	repo := newFakeBlobs()
	s := newTestStore(t, repo)

	warnings := s.Load(context.Background())
	require.Empty(t, warnings)

	cabins := s.Cabins()
	require.Len(t, cabins, DefaultSeedCabins)
	assert.Equal(t, "Cabin 1", cabins[0].Name)
	assert.Equal(t, 8, cabins[7].ID)
	assert.Empty(t, s.Reservations())
	assert.Equal(t, 0, repo.setAlls, "seed must not be written back on load")
}

func TestLoad_ReadsPersistedState(t *testing.T) {
	repo := newFakeBlobs()
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, "rli_cabins", []byte(`[{"id":3,"name":"Lakeside","image":null}]`)))
	require.NoError(t, repo.Set(ctx, "rli_reservations", []byte(
		`[{"id":"r-1","cabinId":3,"clientName":"B","deposit":10,"startDate":"2024-01-01","endDate":"2024-01-02"}]`)))

	s := newTestStore(t, repo)
	require.Empty(t, s.Load(ctx))

	require.Equal(t, []models.Cabin{{ID: 3, Name: "Lakeside"}}, s.Cabins())
	require.Len(t, s.Reservations(), 1)
	assert.Equal(t, "Lakeside", s.CabinName(3))
}

func TestLoad_FallbacksProduceWarnings(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fakeBlobs)
		slots []string
	}{
		{
			name: "malformed cabins",
			setup: func(f *fakeBlobs) {
				_ = f.Set(context.Background(), "rli_cabins", []byte(`{"id":1}`))
			},
			slots: []string{"rli_cabins"},
		},
		{
			name: "empty cabin list",
			setup: func(f *fakeBlobs) {
				_ = f.Set(context.Background(), "rli_cabins", []byte(`[]`))
			},
			slots: []string{"rli_cabins"},
		},
		{
			name: "malformed reservations",
			setup: func(f *fakeBlobs) {
				_ = f.Set(context.Background(), "rli_reservations", []byte(`not json`))
			},
			slots: []string{"rli_reservations"},
		},
		{
			name: "read errors",
			setup: func(f *fakeBlobs) {
				f.getErr["rli_cabins"] = errors.New("io")
				f.getErr["rli_reservations"] = errors.New("io")
			},
			slots: []string{"rli_cabins", "rli_reservations"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeBlobs()
			tt.setup(repo)
			s := newTestStore(t, repo)

			warnings := s.Load(context.Background())
			var slots []string
			for _, w := range warnings {
				slots = append(slots, w.Slot)
				assert.Contains(t, w.String(), "defaults used")
			}
			require.Equal(t, tt.slots, slots)
			require.Len(t, s.Cabins(), DefaultSeedCabins)
			require.Empty(t, s.Reservations())
		})
	}
}

func TestLoad_CustomPrefixAndSeed(t *testing.T) {
	repo := newFakeBlobs()
	s := NewEntityStore(repo, logging.Discard(), StoreOptions{KeyPrefix: "test_", SeedCabins: 3})
	s.Load(context.Background())

	require.Len(t, s.Cabins(), 3)
	require.NoError(t, s.Persist(context.Background()))

	v, err := repo.Get(context.Background(), "test_cabins")
	require.NoError(t, err)
	require.NotNil(t, v)
}

func TestScenario_SeedAddQueryTotals(t *testing.T) {
	repo := newFakeBlobs()
	s := newTestStore(t, repo)
	ctx := context.Background()
	s.Load(ctx)

	require.NoError(t, s.UpsertReservation(ctx, gomez()))
	require.Equal(t, 1, repo.setAlls)

	got := s.Reservations()
	require.Len(t, got, 1)
	assert.Equal(t, 5000.0, got[0].Deposit)

	// a fresh store over the same slots sees the reservation
	reloaded := newTestStore(t, repo)
	require.Empty(t, reloaded.Load(ctx))
	if diff := cmp.Diff(s.Reservations(), reloaded.Reservations()); diff != "" {
		t.Fatalf("reloaded reservations mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, reloaded.Cabins(), 8)
}

func TestUpsertReservation_ReplacesByIDAndIsIdempotent(t *testing.T) {
	s := newTestStore(t, newFakeBlobs())
	ctx := context.Background()

	r := gomez()
	require.NoError(t, s.UpsertReservation(ctx, r))
	require.NoError(t, s.UpsertReservation(ctx, r))
	require.Len(t, s.Reservations(), 1)

	r.ClientName = "A. Gómez"
	require.NoError(t, s.UpsertReservation(ctx, r))
	got, err := s.Reservation("r-1")
	require.NoError(t, err)
	assert.Equal(t, "A. Gómez", got.ClientName)
	require.Len(t, s.Reservations(), 1)
}

func TestUpsertReservation_AssignsMissingID(t *testing.T) {
	s := newTestStore(t, newFakeBlobs())

	r := gomez()
	r.ID = ""
	require.NoError(t, s.UpsertReservation(context.Background(), r))

	got := s.Reservations()
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
}

func TestUpsertReservation_AllowsOverlapAndInvertedRange(t *testing.T) {
	s := newTestStore(t, newFakeBlobs())
	ctx := context.Background()

	a := gomez()
	b := gomez()
	b.ID = "r-2"
	c := gomez()
	c.ID = "r-3"
	c.StartDate, c.EndDate = c.EndDate, c.StartDate

	for _, r := range []models.Reservation{a, b, c} {
		require.NoError(t, s.UpsertReservation(ctx, r))
	}
	require.Len(t, s.Reservations(), 3)
}

func TestDeleteReservation(t *testing.T) {
	repo := newFakeBlobs()
	s := newTestStore(t, repo)
	ctx := context.Background()
	require.NoError(t, s.UpsertReservation(ctx, gomez()))
	writes := repo.setAlls

	require.NoError(t, s.DeleteReservation(ctx, "unknown"))
	require.Len(t, s.Reservations(), 1)
	require.Equal(t, writes, repo.setAlls, "no-op delete must not persist")

	require.NoError(t, s.DeleteReservation(ctx, "r-1"))
	require.Empty(t, s.Reservations())
	require.Equal(t, writes+1, repo.setAlls)

	_, err := s.Reservation("r-1")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateCabin(t *testing.T) {
	repo := newFakeBlobs()
	s := newTestStore(t, repo)
	ctx := context.Background()

	name := "Lakeside"
	img := "data:image/png;base64,iVBORw0KGgo="
	require.NoError(t, s.UpdateCabin(ctx, 2, models.CabinPatch{Name: &name, Image: &img}))

	c, err := s.Cabin(2)
	require.NoError(t, err)
	assert.Equal(t, "Lakeside", c.Name)
	require.True(t, c.HasImage())

	require.NoError(t, s.UpdateCabin(ctx, 2, models.CabinPatch{RemoveImage: true}))
	c, _ = s.Cabin(2)
	assert.False(t, c.HasImage())
	assert.Equal(t, "Lakeside", c.Name)

	writes := repo.setAlls
	require.NoError(t, s.UpdateCabin(ctx, 99, models.CabinPatch{Name: &name}))
	require.Equal(t, writes, repo.setAlls)
	require.Len(t, s.Cabins(), DefaultSeedCabins)
}

func TestAccessors_ReturnCopies(t *testing.T) {
	s := newTestStore(t, newFakeBlobs())
	ctx := context.Background()
	img := "data:image/png;base64,AAAA"
	require.NoError(t, s.UpdateCabin(ctx, 1, models.CabinPatch{Image: &img}))
	require.NoError(t, s.UpsertReservation(ctx, gomez()))

	cabins := s.Cabins()
	cabins[0].Name = "changed"
	*cabins[0].Image = "changed"
	rs := s.Reservations()
	rs[0].ClientName = "changed"

	c, _ := s.Cabin(1)
	assert.Equal(t, "Cabin 1", c.Name)
	assert.Equal(t, img, *c.Image)
	r, _ := s.Reservation("r-1")
	assert.Equal(t, "A. Gomez", r.ClientName)
}

func TestCabinName_Unknown(t *testing.T) {
	s := newTestStore(t, newFakeBlobs())
	assert.Equal(t, models.UnknownCabinName, s.CabinName(42))

	_, err := s.Cabin(42)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpcoming_SortedStable(t *testing.T) {
	s := newTestStore(t, newFakeBlobs())
	ctx := context.Background()

	mk := func(id, start string) models.Reservation {
		d := models.MustParseDate(start)
		return models.Reservation{ID: id, CabinID: 1, StartDate: d, EndDate: d.AddDays(1)}
	}
	for _, r := range []models.Reservation{
		mk("c", "2024-05-01"), mk("a", "2024-03-01"), mk("b", "2024-05-01"), mk("d", "2024-01-15"),
	} {
		require.NoError(t, s.UpsertReservation(ctx, r))
	}

	var ids []string
	for _, r := range s.Upcoming() {
		ids = append(ids, r.ID)
	}
	require.Equal(t, []string{"d", "a", "c", "b"}, ids)
	require.Equal(t, "c", s.Reservations()[0].ID, "Upcoming must not reorder the store")
}

func TestMutation_PersistFailureKeepsChange(t *testing.T) {
	repo := newFakeBlobs()
	repo.setAllErr = errors.New("disk full")
	s := newTestStore(t, repo)

	err := s.UpsertReservation(context.Background(), gomez())
	require.ErrorIs(t, err, common.ErrPersist)
	require.ErrorContains(t, err, "disk full")
	require.Len(t, s.Reservations(), 1)
}

func TestUpsertReservation_RejectsNonFiniteDeposit(t *testing.T) {
	for _, dep := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		repo := newFakeBlobs()
		s := newTestStore(t, repo)

		r := gomez()
		r.Deposit = dep
		err := s.UpsertReservation(context.Background(), r)
		require.ErrorIs(t, err, common.ErrInvalid)
		assert.Empty(t, s.Reservations())
		assert.Equal(t, 0, repo.setAlls)

		name := "Lakeside"
		require.NoError(t, s.UpdateCabin(context.Background(), 1, models.CabinPatch{Name: &name}))
		assert.Equal(t, 1, repo.setAlls)
	}
}
