package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/placesync/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	// Place before Person so the place_of_birth_id foreign key has a target.
	return db.AutoMigrate(
		&domain.Place{},
		&domain.Person{},
	)
}

// EnsureIngestIndexes creates the natural-key uniqueness constraint for places.
// county is nullable and NULLs are distinct under a plain unique index, so the
// index goes through COALESCE; LOWER keeps the dedup case-insensitive the way
// the source data expects it. Upserts must name the same expressions.
func EnsureIngestIndexes(db *gorm.DB) error {
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_places_natural_key ON places (LOWER(city), LOWER(COALESCE(county, '')), LOWER(country));`,
	).Error; err != nil {
		return fmt.Errorf("create uq_places_natural_key: %w", err)
	}
	return nil
}

// TruncateIngestTables wipes people and places in one statement. Listing both
// tables satisfies the foreign key without CASCADE; people comes first to keep
// the dependency order readable. RESTART IDENTITY resets the surrogate keys so
// repeated reloads produce identical rows.
func TruncateIngestTables(ctx context.Context, tx *gorm.DB) error {
	if err := tx.WithContext(ctx).Exec(
		`TRUNCATE TABLE people, places RESTART IDENTITY;`,
	).Error; err != nil {
		return fmt.Errorf("truncate people/places: %w", err)
	}
	return nil
}
