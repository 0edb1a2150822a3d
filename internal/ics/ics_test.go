package ics

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/dmitrijs2005/cabinkeeper/internal/logging"
	"github.com/dmitrijs2005/cabinkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(t *testing.T) {
	t.Helper()
	orig := now
	now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })
}

func fixture() ([]models.Cabin, []models.Reservation) {
	cabins := models.SeedCabins(2)
	rs := []models.Reservation{
		{
			ID: "r-1", CabinID: 1, ClientName: "A. Gomez", Deposit: 5000,
			StartDate: models.MustParseDate("2024-03-10"), EndDate: models.MustParseDate("2024-03-12"),
			Notes: "late arrival",
		},
		{
			ID: "r-2", CabinID: 7, ClientName: "B. Ruiz",
			StartDate: models.MustParseDate("2024-03-31"), EndDate: models.MustParseDate("2024-03-31"),
		},
		{
			ID: "inverted", CabinID: 2, ClientName: "C",
			StartDate: models.MustParseDate("2024-03-20"), EndDate: models.MustParseDate("2024-03-18"),
		},
	}
	return cabins, rs
}

func prop(t *testing.T, ev *ical.VEvent, p ical.ComponentProperty) string {
	t.Helper()
	ip := ev.GetProperty(p)
	require.NotNil(t, ip, "missing %s", p)
	return ip.Value
}

func TestBuild_EventsAreAllDayWithExclusiveEnd(t *testing.T) {
	fixedNow(t)
	cabins, rs := fixture()

	out := Build("Rancho Laguna Ita", cabins, rs)
	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2, "inverted ranges are skipped")

	first := events[0]
	assert.Equal(t, "r-1@cabinkeeper", first.Id())
	assert.Equal(t, "20240310", prop(t, first, ical.ComponentPropertyDtStart))
	assert.Equal(t, "20240313", prop(t, first, ical.ComponentPropertyDtEnd))
	assert.Equal(t, "Cabin 1: A. Gomez", prop(t, first, ical.ComponentPropertySummary))
	assert.Contains(t, prop(t, first, ical.ComponentPropertyDescription), "Deposit: 5000")

	second := events[1]
	assert.Equal(t, "20240331", prop(t, second, ical.ComponentPropertyDtStart))
	assert.Equal(t, "20240401", prop(t, second, ical.ComponentPropertyDtEnd))
	assert.Equal(t, "Unknown cabin: B. Ruiz", prop(t, second, ical.ComponentPropertySummary))

	assert.Contains(t, out, "X-WR-CALNAME:Rancho Laguna Ita")
}

func TestBuild_Empty(t *testing.T) {
	fixedNow(t)
	out := Build("P", nil, nil)
	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	assert.Empty(t, cal.Events())
}

func TestExport_WritesFile(t *testing.T) {
	fixedNow(t)
	cabins, rs := fixture()
	path := filepath.Join(t.TempDir(), "reservations.ics")

	require.NoError(t, Export(path, "P", cabins, rs))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "BEGIN:VCALENDAR")

	// second export replaces the first
	require.NoError(t, Export(path, "P", cabins, nil))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "BEGIN:VEVENT")
}

func TestExport_CreatesMissingDir(t *testing.T) {
	fixedNow(t)
	path := filepath.Join(t.TempDir(), "nested", "dir", "x.ics")
	require.NoError(t, Export(path, "P", nil, nil))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestExport_ParentIsFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := Export(filepath.Join(blocker, "x.ics"), "P", nil, nil)
	require.ErrorContains(t, err, "export ics")
}

type staticSource struct {
	cabins []models.Cabin
	rs     []models.Reservation
}

func (s staticSource) Cabins() []models.Cabin             { return s.cabins }
func (s staticSource) Reservations() []models.Reservation { return s.rs }

func TestScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler("every now and then", "x.ics", "P", staticSource{}, logging.Discard())
	require.ErrorContains(t, err, "invalid export schedule")
}

func TestScheduler_RunOnceAndStop(t *testing.T) {
	cabins, rs := fixture()
	path := filepath.Join(t.TempDir(), "feed.ics")

	s, err := NewScheduler("@every 1h", path, "P", staticSource{cabins, rs}, logging.Discard())
	require.NoError(t, err)
	require.NoError(t, s.RunOnce(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "A. Gomez")

	ctx, cancel := context.WithCancel(context.Background())
	done := s.Start(ctx)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
