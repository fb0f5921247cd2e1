package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/placesync/internal/platform/logger"
)

type Repos struct {
	Place   PlaceRepo
	Person  PersonRepo
	Summary SummaryRepo
}

func New(db *gorm.DB, baseLog *logger.Logger) Repos {
	return Repos{
		Place:   NewPlaceRepo(db, baseLog),
		Person:  NewPersonRepo(db, baseLog),
		Summary: NewSummaryRepo(db, baseLog),
	}
}
