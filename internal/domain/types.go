package domain

import (
	"gorm.io/datatypes"
)

// Place is a city/county/country row. The surrogate key is store-assigned;
// uniqueness on the natural key is enforced by a partial-expression index
// created in data/db (county is nullable, so a plain composite unique index
// would let duplicate NULL-county rows through).
type Place struct {
	ID      int64   `gorm:"column:id;primaryKey;autoIncrement"`
	City    string  `gorm:"column:city;type:varchar(128);not null"`
	County  *string `gorm:"column:county;type:varchar(128)"`
	Country string  `gorm:"column:country;type:varchar(128);not null"`
}

// Person references its place of birth by surrogate key. Rows whose place
// cannot be resolved are never inserted, so the reference is not nullable.
type Person struct {
	ID             int64          `gorm:"column:id;primaryKey;autoIncrement"`
	FirstName      string         `gorm:"column:first_name;type:varchar(128);not null"`
	LastName       string         `gorm:"column:last_name;type:varchar(128);not null"`
	DateOfBirth    datatypes.Date `gorm:"column:date_of_birth;type:date;not null"`
	PlaceOfBirthID int64          `gorm:"column:place_of_birth_id;type:bigint;not null;index"`

	PlaceOfBirth *Place `gorm:"foreignKey:PlaceOfBirthID"`
}

func (Place) TableName() string  { return "places" }
func (Person) TableName() string { return "people" }
