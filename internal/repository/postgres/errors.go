package postgres

import (
	"errors"
	"fmt"

	"pokePortMarket/domain"

	"gorm.io/gorm"
)

// translate maps gorm errors onto domain errors. It relies on the connection
// being opened with TranslateError so unique violations arrive as
// gorm.ErrDuplicatedKey.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s not found", domain.ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s already exists", domain.ErrConflict, what)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
