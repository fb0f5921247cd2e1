package repos

import (
	"context"
	"testing"

	"github.com/yungbote/placesync/internal/data/repos/testutil"
	"github.com/yungbote/placesync/internal/domain"
	"github.com/yungbote/placesync/internal/platform/dbctx"
)

func placeRowCount(t *testing.T, dbc dbctx.Context, city string) int64 {
	t.Helper()
	var count int64
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Model(&domain.Place{}).
		Where("LOWER(city) = LOWER(?)", city).
		Count(&count).Error; err != nil {
		t.Fatalf("count %s rows: %v", city, err)
	}
	return count
}

func TestPlaceRepoUpsertReturnsExistingKey(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewPlaceRepo(gdb, testutil.Logger(t))

	county := "Somerset"
	first := &domain.Place{City: "Bath", County: &county, Country: "England"}
	id1, err := repo.Upsert(dbc, first)
	if err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	if id1 == 0 || first.ID != id1 {
		t.Fatalf("id1 = %d, row.ID = %d", id1, first.ID)
	}

	second := &domain.Place{City: "Bath", County: &county, Country: "England"}
	id2, err := repo.Upsert(dbc, second)
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if id2 != id1 {
		t.Fatalf("id2 = %d, want existing key %d", id2, id1)
	}
	if got := placeRowCount(t, dbc, "Bath"); got != 1 {
		t.Fatalf("stored Bath rows = %d, want 1", got)
	}
}

func TestPlaceRepoUpsertIsCaseInsensitive(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewPlaceRepo(gdb, testutil.Logger(t))

	id1, err := repo.Upsert(dbc, &domain.Place{City: "Llanfairpwll", Country: "Wales"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	id2, err := repo.Upsert(dbc, &domain.Place{City: "LLANFAIRPWLL", Country: "wales"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if id2 != id1 {
		t.Fatalf("id2 = %d, want %d for case-variant natural key", id2, id1)
	}
	if got := placeRowCount(t, dbc, "Llanfairpwll"); got != 1 {
		t.Fatalf("stored rows = %d, want 1; first writer's casing survives", got)
	}
}

func TestPlaceRepoUpsertTreatsNilCountyAsOne(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewPlaceRepo(gdb, testutil.Logger(t))

	id1, err := repo.Upsert(dbc, &domain.Place{City: "Reykjanesbaer", Country: "Iceland"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	id2, err := repo.Upsert(dbc, &domain.Place{City: "Reykjanesbaer", Country: "Iceland"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if id2 != id1 {
		t.Fatalf("nil-county duplicates produced two rows: %d vs %d", id1, id2)
	}

	county := "Sudurnes"
	id3, err := repo.Upsert(dbc, &domain.Place{City: "Reykjanesbaer", County: &county, Country: "Iceland"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if id3 == id1 {
		t.Fatalf("distinct county collapsed into id %d", id1)
	}
}
