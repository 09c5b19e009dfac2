package repository

import (
	"context"
	"errors"

	"commerce-console/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepository holds the last-fetched catalog entries. Entries are
// refreshed by catalog reads and may be stale relative to the server.
type SnapshotRepository interface {
	Upsert(ctx context.Context, entry *model.CatalogEntry) error
	Get(ctx context.Context, productID string) (*model.CatalogEntry, error)
	GetMany(ctx context.Context, productIDs []string) ([]*model.CatalogEntry, error)
}

type snapshotRepoImpl struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepoImpl{
		db: db,
	}
}

func (r *snapshotRepoImpl) Upsert(ctx context.Context, entry *model.CatalogEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(entry).Error
}

// Get returns nil without error when the product has never been fetched.
func (r *snapshotRepoImpl) Get(ctx context.Context, productID string) (*model.CatalogEntry, error) {
	var entry model.CatalogEntry
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&entry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *snapshotRepoImpl) GetMany(ctx context.Context, productIDs []string) ([]*model.CatalogEntry, error) {
	var entries []*model.CatalogEntry
	err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Find(&entries).Error

	if err != nil {
		return nil, err
	}
	return entries, nil
}
