package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/cabinkeeper/internal/aiclient"
	"github.com/dmitrijs2005/cabinkeeper/internal/calendar"
	"github.com/dmitrijs2005/cabinkeeper/internal/config"
	"github.com/dmitrijs2005/cabinkeeper/internal/filex"
	"github.com/dmitrijs2005/cabinkeeper/internal/ics"
	"github.com/dmitrijs2005/cabinkeeper/internal/logging"
	"github.com/dmitrijs2005/cabinkeeper/internal/models"
	"github.com/dmitrijs2005/cabinkeeper/internal/repositories/blobs"
	"github.com/dmitrijs2005/cabinkeeper/internal/services"
)

type App struct {
	config    *config.Config
	store     *services.EntityStore
	insight   *services.InsightService
	repo      blobs.Store
	log       logging.Logger
	reader    *bufio.Reader
	out       io.Writer
	weekStart calendar.WeekStart

	year  int
	month time.Month
}

// NewApp opens the configured blob store, loads the entity store and prepares
// the insight service. Load warnings are printed to out.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer, log logging.Logger) (*App, error) {
	ws, err := calendar.ParseWeekStart(c.WeekStart)
	if err != nil {
		return nil, err
	}

	if c.StoreDriver == blobs.DriverSQLite && c.SQLitePath != ":memory:" {
		if _, err := filex.EnsureDir(filepath.Dir(c.SQLitePath)); err != nil {
			return nil, fmt.Errorf("database dir: %w", err)
		}
	}

	repo, err := blobs.Open(ctx, c.StoreOptions())
	if err != nil {
		log.Error(ctx, "error initializing blob store", "driver", c.StoreDriver, "error", err)
		return nil, err
	}

	store := services.NewEntityStore(repo, log, services.StoreOptions{
		KeyPrefix:  c.KeyPrefix,
		SeedCabins: c.SeedCabins,
	})
	for _, w := range store.Load(ctx) {
		fmt.Fprintf(out, "Warning: %s\n", w)
	}

	insight := services.NewInsightService(aiclient.Factory, c.APIKey, log, services.InsightOptions{
		PropertyName: c.PropertyName,
		Model:        c.Model,
		Timeout:      c.InsightTimeout,
	})

	a := newApp(c, store, insight, bufio.NewReader(in), out, log)
	a.repo = repo
	a.weekStart = ws
	return a, nil
}

func newApp(c *config.Config, store *services.EntityStore, insight *services.InsightService, reader *bufio.Reader, out io.Writer, log logging.Logger) *App {
	today := models.Today()
	return &App{
		config:  c,
		store:   store,
		insight: insight,
		log:     log,
		reader:  reader,
		out:     out,
		year:    today.Year,
		month:   today.Month,
	}
}

// Run starts the optional export scheduler and blocks in the REPL until the
// user exits. The blob store is closed on return.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.config.ExportCron != "" {
		s, err := ics.NewScheduler(a.config.ExportCron, a.config.ExportPath, a.config.PropertyName, a.store, a.log)
		if err != nil {
			return err
		}
		done := s.Start(ctx)
		defer func() {
			cancel()
			<-done
		}()
	}

	fmt.Fprintf(a.out, "%s reservations (type 'help' for commands)\n", a.config.PropertyName)
	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	err := a.repo.Close()
	a.repo = nil
	return err
}

func (a *App) status() string {
	s := fmt.Sprintf("%s %d", a.month, a.year)
	if !a.insight.Configured() {
		s += ", no AI key"
	}
	return "(" + s + ")"
}

// reportPersist prints a warning when a mutation could not be saved. The
// change stays in memory and is written with the next successful save.
func (a *App) reportPersist(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	a.log.Warn(ctx, "change kept in memory only", "error", err)
	fmt.Fprintf(a.out, "Warning: the change could not be saved: %v\n", err)
	return err
}

func (a *App) fail(ctx context.Context, err error) error {
	a.log.Debug(ctx, "command failed", "error", err)
	fmt.Fprintf(a.out, "Error: %v\n", err)
	return err
}
