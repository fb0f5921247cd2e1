package ingest

import (
	"fmt"
	"strings"

	"github.com/yungbote/placesync/internal/data/repos"
	"github.com/yungbote/placesync/internal/domain"
	"github.com/yungbote/placesync/internal/platform/dbctx"
	"github.com/yungbote/placesync/internal/platform/logger"
)

// PlaceLoader upserts place rows and builds the transient city→surrogate-key
// lookup the person phase resolves against.
type PlaceLoader struct {
	repo     repos.PlaceRepo
	encoding string
	log      *logger.Logger
}

func NewPlaceLoader(repo repos.PlaceRepo, encoding string, baseLog *logger.Logger) *PlaceLoader {
	return &PlaceLoader{
		repo:     repo,
		encoding: encoding,
		log:      baseLog.With("component", "PlaceLoader"),
	}
}

// Load issues one upsert per source row, no batching. When two rows normalize
// to the same city key the later surrogate key overwrites the earlier one;
// distinct places sharing a city name collapse silently. That ambiguity comes
// with keying on city alone and is kept as-is.
func (l *PlaceLoader) Load(dbc dbctx.Context, sourcePath string) (map[string]int64, error) {
	records, err := ReadPlaces(sourcePath, l.encoding)
	if err != nil {
		return nil, err
	}
	l.log.Info("loading places", "rows", len(records))

	lookup := make(map[string]int64, len(records))
	for _, rec := range records {
		row := &domain.Place{City: rec.City, County: rec.County, Country: rec.Country}
		id, err := l.repo.Upsert(dbc, row)
		if err != nil {
			return nil, fmt.Errorf("upsert place %q: %w", rec.City, err)
		}
		lookup[CityKey(rec.City)] = id
	}

	l.log.Info("loaded places", "unique_cities", len(lookup))
	return lookup, nil
}

// CityKey normalizes a free-text city reference to its lookup form.
func CityKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
