package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authHelper "schooladmin_backend/internals/features/users/auth/helper"
	authRepo "schooladmin_backend/internals/features/users/auth/repository"
	helpers "schooladmin_backend/internals/helpers"
)

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Role       string `json:"role"`
}

// ========================== LOGIN ==========================
func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input LoginRequest
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	input.Identifier = strings.TrimSpace(input.Identifier)
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))

	if err := authHelper.ValidateLoginInput(input.Identifier, input.Password); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := authRepo.FindUserByIdentifier(db, input.Identifier)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[ERROR] login lookup: %v", err)
		}
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Invalid identifier or password")
	}
	if err := authHelper.CheckPasswordHash(user.Password, input.Password); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Invalid identifier or password")
	}
	if input.Role != "" && input.Role != user.Role {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Invalid identifier or password")
	}
	if !user.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated. Contact the administrator.")
	}

	secret, err := getJWTSecret()
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	now := time.Now().UTC()
	studentID, teacherID := authRepo.ProfileIDs(db, user.ID)
	ttl := accessTTL()
	token, err := SignToken(BuildAccessClaims(*user, studentID, teacherID, now, ttl), secret)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}
	if err := authRepo.TouchLastLogin(db, user.ID, now); err != nil {
		log.Printf("[WARN] last_login_at not updated for %s: %v", user.ID, err)
	}

	return helpers.JsonOK(c, "Login successful", fiber.Map{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(ttl.Seconds()),
		"user": fiber.Map{
			"id":             user.ID,
			"user_name":      user.UserName,
			"full_name":      user.FullName,
			"email":          user.Email,
			"role":           user.Role,
			"is_first_login": user.IsFirstLogin,
			"student_id":     studentID,
			"teacher_id":     teacherID,
		},
	})
}

// ========================== ME ==========================
func Me(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helpers.GetUserIDFromLocals(c)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	user, err := authRepo.FindUserByID(db, userID)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusNotFound, "User not found")
	}
	studentID, teacherID := authRepo.ProfileIDs(db, user.ID)
	return helpers.JsonOK(c, "ok", fiber.Map{
		"user":       user,
		"student_id": studentID,
		"teacher_id": teacherID,
	})
}

// ========================== CHANGE PASSWORD ==========================
func ChangePassword(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}

	userID, err := helpers.GetUserIDFromLocals(c)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	if err := authHelper.ValidatePasswordStrength(input.NewPassword); err != nil {
		return helpers.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	user, err := authRepo.FindUserByID(db, userID)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusNotFound, "User not found")
	}
	if err := authHelper.CheckPasswordHash(user.Password, input.CurrentPassword); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Current password is incorrect")
	}
	if input.CurrentPassword == input.NewPassword {
		return helpers.JsonError(c, fiber.StatusBadRequest, "New password must differ from the current one")
	}

	hashed, err := authHelper.HashPassword(input.NewPassword)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
	}
	if err := authRepo.UpdateUserPassword(db, userID, hashed); err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Failed to update password")
	}
	return helpers.JsonUpdated(c, "Password changed successfully", nil)
}

// ========================== LOGOUT ==========================
func Logout(db *gorm.DB, c *fiber.Ctx) error {
	token := helpers.GetRawAccessToken(c)
	if token == "" {
		return helpers.JsonOK(c, "Logout successful", nil)
	}
	secret, _ := getJWTSecret()
	if err := authRepo.BlacklistToken(db, token, remainingTTL(token, secret)); err != nil {
		log.Printf("[WARN] Failed to blacklist token: %v", err)
	}
	return helpers.JsonOK(c, "Logout successful", nil)
}
