package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey, which the handlers match on.
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}
