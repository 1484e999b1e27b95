package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is the normalized not-found error all repositories return
var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err means the record does not exist,
// regardless of which layer produced it
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
