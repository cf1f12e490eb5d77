package repository

import (
	"fmt"

	"ayaat-pos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Checkout(sale *model.Sale, opts CheckoutOptions) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, it := range sale.Items {
			var p model.Product
			// Pessimistic lock so two terminals cannot both sell the last unit
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", it.ProductID).Error; err != nil {
				return fmt.Errorf("product %s: %w", it.SKU, translate(err))
			}
			if !opts.AllowNegativeStock && p.Stock < it.Quantity {
				return fmt.Errorf("%w: %s has %d, need %d", ErrInsufficientStock, p.SKU, p.Stock, it.Quantity)
			}
			if err := tx.Model(&model.Product{}).Where("id = ?", p.ID).
				Update("stock", gorm.Expr("stock - ?", it.Quantity)).Error; err != nil {
				return err
			}
		}

		if sale.CustomerID != nil {
			res := tx.Model(&model.Customer{}).Where("id = ?", *sale.CustomerID).Updates(map[string]interface{}{
				"total_spent":    gorm.Expr("total_spent + ?", sale.AmountDue),
				"loyalty_points": gorm.Expr("loyalty_points + ?", sale.PointsEarned),
			})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("customer %s: %w", *sale.CustomerID, ErrNotFound)
			}
		}

		return translate(tx.Create(sale).Error)
	})
}

func (r *saleRepo) FindByID(id string) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.Preload("Items").First(&sale, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &sale, nil
}

func (r *saleRepo) FindAll(filter SaleFilter) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.Preload("Items")
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.CashierID != nil {
		q = q.Where("cashier_id = ?", *filter.CashierID)
	}
	if !filter.From.IsZero() {
		q = q.Where("timestamp >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("timestamp < ?", filter.To)
	}
	err := q.Order("timestamp DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) Void(v *model.SaleVoid) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var sale model.Sale
		if err := tx.Preload("Items").Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sale, "id = ?", v.SaleID).Error; err != nil {
			return translate(err)
		}

		var count int64
		if err := tx.Model(&model.SaleVoid{}).Where("sale_id = ?", v.SaleID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyVoided
		}

		for _, it := range sale.Items {
			if err := tx.Model(&model.Product{}).Where("id = ?", it.ProductID).
				Update("stock", gorm.Expr("stock + ?", it.Quantity)).Error; err != nil {
				return err
			}
		}

		if sale.CustomerID != nil {
			if err := tx.Model(&model.Customer{}).Where("id = ?", *sale.CustomerID).Updates(map[string]interface{}{
				"total_spent":    gorm.Expr("GREATEST(total_spent - ?, 0)", sale.AmountDue),
				"loyalty_points": gorm.Expr("GREATEST(loyalty_points - ?, 0)", sale.PointsEarned),
			}).Error; err != nil {
				return err
			}
		}

		return translate(tx.Create(v).Error)
	})
}

func (r *saleRepo) FindVoids(saleIDs []string) (map[string]model.SaleVoid, error) {
	out := make(map[string]model.SaleVoid)
	if len(saleIDs) == 0 {
		return out, nil
	}
	var voids []model.SaleVoid
	if err := r.db.Where("sale_id IN ?", saleIDs).Find(&voids).Error; err != nil {
		return nil, err
	}
	for _, v := range voids {
		out[v.SaleID] = v
	}
	return out, nil
}

