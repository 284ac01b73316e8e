// Package repository implements the data store contract on top of gorm.
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrEmailTaken is returned when a write collides with another merchant's email
	ErrEmailTaken = errors.New("email already in use")
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isDuplicate(err):
		return ErrDuplicateKey
	default:
		return err
	}
}

// isDuplicate relies on gorm's TranslateError and falls back to driver messages for
// dialects that do not translate.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrDuplicateKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
