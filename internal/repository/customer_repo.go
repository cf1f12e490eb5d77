package repository

import (
	"strings"

	"ayaat-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return translate(r.db.Create(customer).Error)
}

// FindAll matches search against name, phone, email and membership code.
func (r *customerRepo) FindAll(search string) ([]model.Customer, error) {
	var customers []model.Customer
	q := r.db.Model(&model.Customer{})
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ? OR LOWER(membership_id) LIKE ?",
			like, "%"+s+"%", like, like)
	}
	err := q.Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (r *customerRepo) FindByMembershipID(code string) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, "membership_id = ?", code).Error; err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (r *customerRepo) Update(customer *model.Customer) error {
	return translate(r.db.Save(customer).Error)
}
