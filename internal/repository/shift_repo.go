package repository

import (
	"ayaat-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type shiftRepo struct {
	db *gorm.DB
}

func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db}
}

func (r *shiftRepo) ClockIn(shift *model.Shift) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// serialize clock-ins for this user on the user row
		var u model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, "id = ?", shift.UserID).Error; err != nil {
			return translate(err)
		}
		var count int64
		if err := tx.Model(&model.Shift{}).
			Where("user_id = ? AND status = ?", shift.UserID, model.ShiftOngoing).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}
		return tx.Create(shift).Error
	})
}

func (r *shiftRepo) Update(shift *model.Shift) error {
	return translate(r.db.Save(shift).Error)
}

func (r *shiftRepo) FindByID(id uuid.UUID) (*model.Shift, error) {
	var shift model.Shift
	if err := r.db.First(&shift, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &shift, nil
}

func (r *shiftRepo) FindOngoing(userID uuid.UUID) (*model.Shift, error) {
	var shift model.Shift
	if err := r.db.Where("user_id = ? AND status = ?", userID, model.ShiftOngoing).
		Order("start_time DESC").First(&shift).Error; err != nil {
		return nil, translate(err)
	}
	return &shift, nil
}

// FindAll lists shifts newest first. An empty status lists every shift.
func (r *shiftRepo) FindAll(status model.ShiftStatus) ([]model.Shift, error) {
	var shifts []model.Shift
	q := r.db.Model(&model.Shift{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("start_time DESC").Find(&shifts).Error
	return shifts, err
}
