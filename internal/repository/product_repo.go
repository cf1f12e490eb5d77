package repository

import (
	"fmt"
	"strings"

	"ayaat-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return translate(r.db.Create(product).Error)
}

func (r *productRepo) FindAll(filter ProductFilter) ([]model.Product, error) {
	var products []model.Product
	q := r.db.Model(&model.Product{})
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.OnlineOnly {
		q = q.Where("is_visible_online = ?", true)
	}
	err := q.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// FindBySKU is an exact, case-sensitive match.
func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "sku = ?", sku).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepo) FindLowStock() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("stock <= min_stock").Order("stock ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Categories() ([]string, error) {
	var cats []string
	err := r.db.Model(&model.Product{}).Distinct().Order("category ASC").Pluck("category", &cats).Error
	return cats, err
}

func (r *productRepo) Update(product *model.Product) error {
	return translate(r.db.Save(product).Error)
}

func (r *productRepo) Delete(id uuid.UUID, deletedBy string) error {
	res := r.db.Model(&model.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
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

func (r *productRepo) ImportBatch(create, update []model.Product) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range update {
			// lock the row so a concurrent checkout cannot interleave with the overwrite
			var existing model.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&existing, "id = ?", update[i].ID).Error; err != nil {
				return fmt.Errorf("import %s: %w", update[i].SKU, translate(err))
			}
			if err := tx.Save(&update[i]).Error; err != nil {
				return fmt.Errorf("import %s: %w", update[i].SKU, translate(err))
			}
		}
		if len(create) > 0 {
			if err := tx.CreateInBatches(&create, 100).Error; err != nil {
				return fmt.Errorf("import: %w", translate(err))
			}
		}
		return nil
	})
}
