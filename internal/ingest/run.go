package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/placesync/internal/config"
	"github.com/yungbote/placesync/internal/data/db"
	"github.com/yungbote/placesync/internal/data/repos"
	"github.com/yungbote/placesync/internal/platform/dbctx"
	"github.com/yungbote/placesync/internal/platform/logger"
)

// Runner sequences a full destructive reload: clear, places, people, counts.
// Each phase commits on its own; any error aborts the run. Not safe against a
// concurrent Runner on the same store — there is no cross-run locking.
type Runner struct {
	db      *gorm.DB
	rs      repos.Repos
	cfg     config.Config
	places  *PlaceLoader
	people  *PersonLoader
	baseLog *logger.Logger
}

func NewRunner(gdb *gorm.DB, rs repos.Repos, cfg config.Config, baseLog *logger.Logger) *Runner {
	return &Runner{
		db:      gdb,
		rs:      rs,
		cfg:     cfg,
		places:  NewPlaceLoader(rs.Place, cfg.Encoding, baseLog),
		people:  NewPersonLoader(rs.Person, cfg.Encoding, baseLog),
		baseLog: baseLog,
	}
}

func (r *Runner) Run(ctx context.Context) error {
	log := r.baseLog.With("component", "IngestRunner", "run_id", uuid.New().String())
	log.Info("starting data ingest",
		"places_source", r.cfg.PlacesPath(),
		"people_source", r.cfg.PeoplePath())

	log.Info("clearing existing data")
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return db.TruncateIngestTables(ctx, tx)
	}); err != nil {
		return fmt.Errorf("clear existing data: %w", err)
	}

	var lookup map[string]int64
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		lookup, err = r.places.Load(dbctx.Context{Ctx: ctx, Tx: tx}, r.cfg.PlacesPath())
		return err
	}); err != nil {
		return fmt.Errorf("load places: %w", err)
	}

	var result Result
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = r.people.Load(dbctx.Context{Ctx: ctx, Tx: tx}, r.cfg.PeoplePath(), lookup)
		return err
	}); err != nil {
		return fmt.Errorf("load people: %w", err)
	}

	dbc := dbctx.Context{Ctx: ctx}
	placeCount, err := r.rs.Place.CountAll(dbc)
	if err != nil {
		return fmt.Errorf("count places: %w", err)
	}
	peopleCount, err := r.rs.Person.CountAll(dbc)
	if err != nil {
		return fmt.Errorf("count people: %w", err)
	}

	log.Info("data ingest completed",
		"places_total", placeCount,
		"people_total", peopleCount,
		"people_inserted", result.Inserted,
		"people_failed", result.Failed())
	return nil
}
