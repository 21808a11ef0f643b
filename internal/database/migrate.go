package database

import (
	"gorm.io/gorm"

	"github.com/immobarok/mailbox-backend/internal/domain"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Post{},
		&domain.PostImage{},
	)
}
