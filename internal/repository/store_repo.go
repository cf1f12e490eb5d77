package repository

import (
	"ayaat-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type storeRepo struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) StoreRepository {
	return &storeRepo{db}
}

func (r *storeRepo) Create(store *model.Store) error {
	return translate(r.db.Create(store).Error)
}

func (r *storeRepo) FindAll() ([]model.Store, error) {
	var stores []model.Store
	err := r.db.Order("code ASC").Find(&stores).Error
	return stores, err
}

func (r *storeRepo) FindByID(id uuid.UUID) (*model.Store, error) {
	var store model.Store
	if err := r.db.First(&store, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &store, nil
}

func (r *storeRepo) Update(store *model.Store) error {
	return translate(r.db.Save(store).Error)
}

func (r *storeRepo) Delete(id uuid.UUID, deletedBy string) error {
	res := r.db.Model(&model.Store{}).Where("id = ?", id).Updates(map[string]interface{}{
		"deleted_at": gorm.Expr("NOW()"),
		"deleted_by": deletedBy,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
