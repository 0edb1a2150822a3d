package ics

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cabinkeeper/internal/logging"
	"github.com/dmitrijs2005/cabinkeeper/internal/models"
	"github.com/robfig/cron/v3"
)

// Source provides the data to export. *services.EntityStore satisfies it.
type Source interface {
	Cabins() []models.Cabin
	Reservations() []models.Reservation
}

// Scheduler re-exports the feed on a cron schedule ("*/15 * * * *",
// "@every 10m", ...).
type Scheduler struct {
	cron     *cron.Cron
	path     string
	property string
	src      Source
	log      logging.Logger
}

func NewScheduler(spec, path, property string, src Source, log logging.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		path:     path,
		property: property,
		src:      src,
		log:      log.With("component", "ics-scheduler"),
	}
	if _, err := s.cron.AddFunc(spec, func() { _ = s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid export schedule %q: %w", spec, err)
	}
	return s, nil
}

// RunOnce exports immediately.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	rs := s.src.Reservations()
	if err := Export(s.path, s.property, s.src.Cabins(), rs); err != nil {
		s.log.Error(ctx, "scheduled export failed", "path", s.path, "error", err)
		return err
	}
	s.log.Debug(ctx, "calendar exported", "path", s.path, "reservations", len(rs))
	return nil
}

// Start runs the schedule until ctx is done. The returned channel is closed
// once the scheduler has stopped and any running export has finished.
func (s *Scheduler) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	s.cron.Start()
	s.log.Info(ctx, "export scheduler started", "path", s.path)

	go func() {
		defer close(done)
		<-ctx.Done()
		<-s.cron.Stop().Done()
		s.log.Info(context.Background(), "export scheduler stopped")
	}()
	return done
}
