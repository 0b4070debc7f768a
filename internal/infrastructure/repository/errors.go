package repository

import (
	"errors"
	"fmt"

	domainRepo "github.com/sangkips/landedcost-api/internal/domain/repository"
	"gorm.io/gorm"
)

// translateError maps driver errors the services act on to domain errors.
// It relies on gorm.Config.TranslateError being set.
func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", domainRepo.ErrDuplicate, err)
	}
	return err
}
