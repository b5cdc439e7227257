package database

import (
	"log"

	"udoy/config"
	"udoy/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EnsureSeedAdmin creates the bootstrap admin account when no admin exists yet
func EnsureSeedAdmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPassword), cfg.SaltRound)
	if err != nil {
		return err
	}

	admin := models.User{
		FullName: "Platform Admin",
		Email:    cfg.SeedAdminEmail,
		Password: string(hashed),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin account %s", admin.Email)
	return nil
}
