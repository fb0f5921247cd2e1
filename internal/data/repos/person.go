package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/placesync/internal/domain"
	"github.com/yungbote/placesync/internal/platform/dbctx"
	"github.com/yungbote/placesync/internal/platform/logger"
)

type PersonRepo interface {
	Create(dbc dbctx.Context, row *domain.Person) error
	CountAll(dbc dbctx.Context) (int64, error)
}

type personRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPersonRepo(db *gorm.DB, baseLog *logger.Logger) PersonRepo {
	return &personRepo{db: db, log: baseLog.With("repo", "PersonRepo")}
}

func (r *personRepo) Create(dbc dbctx.Context, row *domain.Person) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}

	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return err
	}
	return nil
}

func (r *personRepo) CountAll(dbc dbctx.Context) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}

	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&domain.Person{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
