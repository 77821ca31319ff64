package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys written by the auth middleware.
const (
	LocalUserID    = "user_id"
	LocalUserRole  = "userRole"
	LocalUserName  = "user_name"
	LocalStudentID = "student_id"
	LocalTeacherID = "teacher_id"
)

func localUUID(c *fiber.Ctx, key string) (uuid.UUID, bool) {
	switch t := c.Locals(key).(type) {
	case uuid.UUID:
		return t, t != uuid.Nil
	case string:
		id, err := uuid.Parse(strings.TrimSpace(t))
		return id, err == nil && id != uuid.Nil
	default:
		return uuid.Nil, false
	}
}

// GetUserIDFromLocals: 401 when the request is not authenticated.
func GetUserIDFromLocals(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := localUUID(c, LocalUserID)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Not logged in")
	}
	return id, nil
}

func GetUserIDPtr(c *fiber.Ctx) *uuid.UUID {
	id, ok := localUUID(c, LocalUserID)
	if !ok {
		return nil
	}
	return &id
}

func GetRole(c *fiber.Ctx) string {
	r, _ := c.Locals(LocalUserRole).(string)
	return r
}

// GetStudentIDFromLocals: 403 when the caller is not linked to a student record.
func GetStudentIDFromLocals(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := localUUID(c, LocalStudentID)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "No student profile linked to this account")
	}
	return id, nil
}

func GetTeacherIDFromLocals(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := localUUID(c, LocalTeacherID)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "No teacher profile linked to this account")
	}
	return id, nil
}

// GetRawAccessToken: Bearer header first, access_token cookie as fallback.
func GetRawAccessToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if fields := strings.Fields(auth); len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		return strings.Trim(fields[1], "\"'")
	}
	return strings.TrimSpace(c.Cookies("access_token"))
}

// ParseUUIDParam reads a uuid path param or returns 400.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// EnsureStudentScope lets staff through and restricts students to their own record.
func EnsureStudentScope(c *fiber.Ctx, studentID uuid.UUID) error {
	if GetRole(c) != "student" {
		return nil
	}
	own, err := GetStudentIDFromLocals(c)
	if err != nil {
		return err
	}
	if own != studentID {
		return fiber.NewError(fiber.StatusForbidden, "Students can only access their own records")
	}
	return nil
}

// StudentScope returns the caller's student id for the student role and nil for staff.
func StudentScope(c *fiber.Ctx) (*uuid.UUID, error) {
	if GetRole(c) != "student" {
		return nil, nil
	}
	id, err := GetStudentIDFromLocals(c)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseUUIDQuery parses a uuid query value or returns 400 naming the parameter.
func ParseUUIDQuery(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
