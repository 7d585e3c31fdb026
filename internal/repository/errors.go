package repository

import (
	"errors"
	"fmt"

	"hibro/internal/domain"

	"gorm.io/gorm"
)

// translate maps gorm errors onto the domain taxonomy so callers never
// switch on driver errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrConflict
	default:
		return fmt.Errorf("%w: %v", domain.ErrTxFailed, err)
	}
}
