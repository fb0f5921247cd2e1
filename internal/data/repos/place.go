package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/placesync/internal/domain"
	"github.com/yungbote/placesync/internal/platform/dbctx"
	"github.com/yungbote/placesync/internal/platform/logger"
)

type PlaceRepo interface {
	// Upsert inserts the place or, on a natural-key collision, returns the
	// existing row's surrogate key. The row's ID field is filled either way.
	Upsert(dbc dbctx.Context, row *domain.Place) (int64, error)
	CountAll(dbc dbctx.Context) (int64, error)
}

type placeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlaceRepo(db *gorm.DB, baseLog *logger.Logger) PlaceRepo {
	return &placeRepo{db: db, log: baseLog.With("repo", "PlaceRepo")}
}

// The self-assignment in DO UPDATE is a no-op that forces RETURNING to yield
// the surviving id on conflict; DO NOTHING would return no row, and assigning
// EXCLUDED values would let a later row rewrite the first writer's casing. The
// conflict target must match the uq_places_natural_key expressions exactly.
const upsertPlaceSQL = `
INSERT INTO places (city, county, country)
VALUES (?, ?, ?)
ON CONFLICT (LOWER(city), LOWER(COALESCE(county, '')), LOWER(country))
DO UPDATE SET city = places.city
RETURNING id`

func (r *placeRepo) Upsert(dbc dbctx.Context, row *domain.Place) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}

	var id int64
	if err := t.WithContext(dbc.Ctx).
		Raw(upsertPlaceSQL, row.City, row.County, row.Country).
		Scan(&id).Error; err != nil {
		return 0, err
	}
	row.ID = id
	return id, nil
}

func (r *placeRepo) CountAll(dbc dbctx.Context) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}

	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&domain.Place{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
