package service

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	authHelper "schooladmin_backend/internals/features/users/auth/helper"
	userModel "schooladmin_backend/internals/features/users/user/model"
	helper "schooladmin_backend/internals/helpers"
)

type NewAccount struct {
	UserName string
	FullName string
	Email    string
	Role     string
}

// CreateAccount inserts a login for a student or teacher with a generated
// password. The plain password is returned once so it can be handed over.
func CreateAccount(tx *gorm.DB, in NewAccount) (*userModel.UserModel, string, error) {
	userName := strings.ToLower(strings.TrimSpace(in.UserName))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		email = userName + "@" + in.Role + "s.local"
	}

	var n int64
	if err := tx.Model(&userModel.UserModel{}).
		Where("user_name = ? OR lower(email) = ?", userName, email).
		Count(&n).Error; err != nil {
		return nil, "", err
	}
	if n > 0 {
		return nil, "", fiber.NewError(fiber.StatusConflict, "Username or email already in use")
	}

	plain, err := helper.RandomPassword(10)
	if err != nil {
		return nil, "", err
	}
	hashed, err := authHelper.HashPassword(plain)
	if err != nil {
		return nil, "", err
	}
	u := &userModel.UserModel{
		UserName:     userName,
		FullName:     strings.TrimSpace(in.FullName),
		Email:        email,
		Password:     hashed,
		Role:         in.Role,
		IsActive:     true,
		IsFirstLogin: true,
	}
	if err := tx.Create(u).Error; err != nil {
		return nil, "", err
	}
	return u, plain, nil
}

func SetAccountActive(tx *gorm.DB, userID *uuid.UUID, active bool) error {
	if userID == nil {
		return nil
	}
	return tx.Model(&userModel.UserModel{}).Where("id = ?", *userID).Update("is_active", active).Error
}
