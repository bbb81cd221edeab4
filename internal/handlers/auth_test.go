package handlers

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestDuplicateEmail(t *testing.T) {
	t.Run("matches the translated unique violation", func(t *testing.T) {
		if !duplicateEmail(gorm.ErrDuplicatedKey) {
			t.Fatal("expected a duplicated-key error to be recognized")
		}
	})

	t.Run("matches a wrapped unique violation", func(t *testing.T) {
		err := fmt.Errorf("create user: %w", gorm.ErrDuplicatedKey)
		if !duplicateEmail(err) {
			t.Fatal("expected a wrapped duplicated-key error to be recognized")
		}
	})

	t.Run("ignores other store errors", func(t *testing.T) {
		if duplicateEmail(gorm.ErrRecordNotFound) {
			t.Fatal("record-not-found must not read as a duplicate")
		}
		if duplicateEmail(errors.New("connection reset")) {
			t.Fatal("arbitrary errors must not read as a duplicate")
		}
	})
}
