package storage

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound the referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict a conditional write lost against the current state of the record.
	ErrConflict = errors.New("conflict")
	// ErrInvalidCursor the pagination cursor does not reference a known appeal.
	ErrInvalidCursor = errors.New("invalid cursor")
)

func convertError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return err
	}
}
