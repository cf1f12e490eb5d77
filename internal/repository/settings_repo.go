package repository

import (
	"errors"

	"ayaat-pos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db}
}

// loadRow reads the singleton row or leaves dst at its defaults.
func loadRow(db *gorm.DB, dst interface{}) error {
	err := db.Take(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func (r *settingsRepo) StoreSettings() (*model.StoreSettings, error) {
	s := model.DefaultStoreSettings()
	if err := loadRow(r.db, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepo) SaveStoreSettings(s *model.StoreSettings) error {
	s.ID = model.DefaultStoreSettings().ID
	return r.db.Save(s).Error
}

func (r *settingsRepo) EmployeeSettings() (*model.EmployeeSettings, error) {
	s := model.DefaultEmployeeSettings()
	if err := loadRow(r.db, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepo) SaveEmployeeSettings(s *model.EmployeeSettings) error {
	s.ID = model.DefaultEmployeeSettings().ID
	return r.db.Save(s).Error
}

func (r *settingsRepo) Storefront() (*model.StorefrontConfig, error) {
	s := model.DefaultStorefrontConfig()
	if err := loadRow(r.db, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepo) SaveStorefront(s *model.StorefrontConfig) error {
	s.ID = model.DefaultStorefrontConfig().ID
	return r.db.Save(s).Error
}

func (r *settingsRepo) Permissions() ([]model.RolePermissions, error) {
	var rows []model.RolePermissions
	err := r.db.Order("role ASC").Find(&rows).Error
	return rows, err
}

func (r *settingsRepo) SavePermissions(p *model.RolePermissions) error {
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(p).Error
}
