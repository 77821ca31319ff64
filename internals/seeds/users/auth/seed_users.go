package user

import (
	"encoding/json"
	"log"
	"os"
	"strings"

	"schooladmin_backend/internals/constants"
	authHelper "schooladmin_backend/internals/features/users/auth/helper"
	"schooladmin_backend/internals/features/users/user/model"

	"gorm.io/gorm"
)

type UserSeed struct {
	UserName string `json:"user_name"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SeedAdminFromEnv creates the first admin from SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD.
// Existing accounts are left untouched.
func SeedAdminFromEnv(db *gorm.DB) {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL")))
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("[SEED] SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD not set, admin seed skipped")
		return
	}
	userName := os.Getenv("SEED_ADMIN_USERNAME")
	if userName == "" {
		userName = "admin"
	}
	seedUsers(db, []UserSeed{{
		UserName: userName,
		FullName: "Administrator",
		Email:    email,
		Password: password,
		Role:     constants.RoleAdmin,
	}})
}

func SeedUsersFromJSON(db *gorm.DB, filePath string) {
	log.Println("[SEED] reading users file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("[SEED] read %s: %v", filePath, err)
	}

	var inputs []UserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		log.Fatalf("[SEED] decode %s: %v", filePath, err)
	}
	seedUsers(db, inputs)
}

func seedUsers(db *gorm.DB, inputs []UserSeed) {
	for _, data := range inputs {
		email := strings.ToLower(strings.TrimSpace(data.Email))
		if !constants.IsValidRole(data.Role) {
			log.Printf("[SEED] user '%s' has unknown role %q, skipped", email, data.Role)
			continue
		}

		var n int64
		if err := db.Model(&model.UserModel{}).
			Where("lower(email) = ? OR user_name = ?", email, data.UserName).
			Count(&n).Error; err != nil {
			log.Printf("[SEED] lookup '%s': %v", email, err)
			continue
		}
		if n > 0 {
			log.Printf("[SEED] user '%s' already exists, skipped", email)
			continue
		}

		hashedPassword, err := authHelper.HashPassword(data.Password)
		if err != nil {
			log.Printf("[SEED] hash password for '%s': %v", email, err)
			continue
		}

		newUser := model.UserModel{
			UserName: strings.ToLower(data.UserName),
			FullName: data.FullName,
			Email:    email,
			Password: hashedPassword,
			Role:     data.Role,
			IsActive: true,
			// seeded admins choose their own password on first login
			IsFirstLogin: true,
		}
		if err := db.Create(&newUser).Error; err != nil {
			log.Printf("[SEED] insert user '%s': %v", email, err)
		} else {
			log.Printf("[SEED] user '%s' inserted", email)
		}
	}
}
