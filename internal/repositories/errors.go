package repositories

import (
	"errors"

	"IndoHomz/internal/utils"

	"gorm.io/gorm"
)

// notFound maps gorm's missing-row error onto the shared sentinel.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrNotFound
	}
	return err
}
