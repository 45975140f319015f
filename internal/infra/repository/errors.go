package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
)

// notFound turns gorm.ErrRecordNotFound into the given business code and
// passes every other error through.
func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness(code)
	}
	return err
}
