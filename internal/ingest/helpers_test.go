package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/placesync/internal/domain"
	"github.com/yungbote/placesync/internal/platform/dbctx"
	"github.com/yungbote/placesync/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// fakePlaceRepo mimics the store's upsert contract: case-insensitive natural
// key, surrogate keys handed out in insert order.
type fakePlaceRepo struct {
	nextID  int64
	ids     map[string]int64
	upserts int
	failAll bool
}

func (f *fakePlaceRepo) Upsert(dbc dbctx.Context, row *domain.Place) (int64, error) {
	f.upserts++
	if f.failAll {
		return 0, errors.New("store down")
	}
	county := ""
	if row.County != nil {
		county = *row.County
	}
	key := strings.ToLower(row.City) + "|" + strings.ToLower(county) + "|" + strings.ToLower(row.Country)
	if f.ids == nil {
		f.ids = make(map[string]int64)
	}
	if id, ok := f.ids[key]; ok {
		row.ID = id
		return id, nil
	}
	f.nextID++
	f.ids[key] = f.nextID
	row.ID = f.nextID
	return f.nextID, nil
}

func (f *fakePlaceRepo) CountAll(dbc dbctx.Context) (int64, error) {
	return int64(len(f.ids)), nil
}

type fakePersonRepo struct {
	created []*domain.Person
	reject  func(row *domain.Person) error
}

func (f *fakePersonRepo) Create(dbc dbctx.Context, row *domain.Person) error {
	if f.reject != nil {
		if err := f.reject(row); err != nil {
			return err
		}
	}
	f.created = append(f.created, row)
	return nil
}

func (f *fakePersonRepo) CountAll(dbc dbctx.Context) (int64, error) {
	return int64(len(f.created)), nil
}
