package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/placesync/internal/platform/dbctx"
	"github.com/yungbote/placesync/internal/platform/logger"
)

// CountryCount is one row of the per-country aggregate. Order matters to the
// caller, so results stay a slice rather than a map.
type CountryCount struct {
	Country string `gorm:"column:country"`
	People  int64  `gorm:"column:people_count"`
}

type SummaryRepo interface {
	CountryCounts(dbc dbctx.Context) ([]CountryCount, error)
}

type summaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSummaryRepo(db *gorm.DB, baseLog *logger.Logger) SummaryRepo {
	return &summaryRepo{db: db, log: baseLog.With("repo", "SummaryRepo")}
}

// Left join so countries nobody was born in still show up with a zero count.
const countryCountsSQL = `
SELECT
    pl.country AS country,
    COUNT(p.id) AS people_count
FROM places pl
LEFT JOIN people p ON pl.id = p.place_of_birth_id
GROUP BY pl.country
ORDER BY people_count DESC, pl.country ASC`

func (r *summaryRepo) CountryCounts(dbc dbctx.Context) ([]CountryCount, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}

	var rows []CountryCount
	if err := t.WithContext(dbc.Ctx).
		Raw(countryCountsSQL).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
