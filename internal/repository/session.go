package repository

import (
	"context"

	"commerce-console/internal/model"

	"gorm.io/gorm"
)

// SessionRepository persists the console's single session so a restart does
// not force a re-login while the refresh credential is still good.
type SessionRepository interface {
	Save(ctx context.Context, s *model.Session) error
	Load(ctx context.Context) (*model.Session, error)
	Clear(ctx context.Context) error
}

type sessionRepoImpl struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepoImpl{
		db: db,
	}
}

func (r *sessionRepoImpl) Save(ctx context.Context, s *model.Session) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Replaced wholesale: one session row at a time.
		if err := tx.Where("1 = 1").Delete(&model.Session{}).Error; err != nil {
			return err
		}
		stored := *s
		stored.ID = 0
		return tx.Create(&stored).Error
	})
}

func (r *sessionRepoImpl) Load(ctx context.Context) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepoImpl) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Session{}).Error
}
