package repository

import (
	"errors"

	"gorm.io/gorm"
)

// translate maps gorm errors onto the package sentinels.
// Duplicate detection relies on gorm.Config.TranslateError.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
