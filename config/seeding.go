package config

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/shekar007/greenscore2/models"
)

// SeedAdminUser creates the platform admin account on first boot. The
// password comes from ADMIN_PASSWORD so deployments never ship a default
// credential silently; without it seeding is skipped.
func SeedAdminUser() {
	var count int64
	if err := DB.Model(&models.User{}).Where("user_type = ?", models.UserTypeAdmin).Count(&count).Error; err != nil {
		log.Printf("⚠️  Admin seed check failed: %v", err)
		return
	}
	if count > 0 {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("⚠️  ADMIN_PASSWORD not set, skipping admin user seed")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("⚠️  Admin seed failed to hash password: %v", err)
		return
	}

	admin := models.User{
		Email:              "admin@greenscore.com",
		PasswordHash:       string(hash),
		Name:               "System Admin",
		CompanyName:        "GreenScore System",
		UserType:           models.UserTypeAdmin,
		VerificationStatus: models.VerificationVerified,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("⚠️  Admin seed failed: %v", err)
		return
	}
	log.Println("✅ Default admin user created: admin@greenscore.com")
}
