package common

import (
	"context"
	"errors"
	"eventspark/src/models"
	"eventspark/src/types"
	"eventspark/src/utils"
	"log"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Bootstrap ensures the default roles and the bootstrap admin exist. Running it again changes nothing.
func Bootstrap(ctx context.Context, db *gorm.DB, adminEmail, adminPassword string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range types.DefaultRoles {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Role{Name: name}).Error; err != nil {
				return err
			}
		}

		email := strings.ToLower(strings.TrimSpace(adminEmail))
		if email == "" {
			return nil
		}
		var admin models.User
		err := tx.Preload("Roles").Where("email = ?", email).First(&admin).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hash, err := utils.HashPassword(adminPassword)
			if err != nil {
				return err
			}
			admin = models.User{Email: email, Name: "Administrator", PasswordHash: hash}
			if err := tx.Create(&admin).Error; err != nil {
				return err
			}
			log.Printf("Bootstrap admin created: %s\n", email)
		} else if err != nil {
			return err
		}
		for _, r := range admin.Roles {
			if r.Name == types.ROLE_ADMIN {
				return nil
			}
		}
		return tx.Model(&admin).Association("Roles").Append(&models.Role{Name: types.ROLE_ADMIN})
	})
}
