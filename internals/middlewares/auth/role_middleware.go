package auth

import (
	"schooladmin_backend/internals/constants"

	"github.com/gofiber/fiber/v2"
)

// RoleMiddlewareWithCustomError checks c.Locals("userRole") against allowedRoles.
func RoleMiddlewareWithCustomError(allowedRoles []string, customForbiddenMessage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("userRole").(string)
		if !ok || role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized: missing role information",
			})
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}

		if customForbiddenMessage == "" {
			customForbiddenMessage = "Forbidden: you are not authorized to access this resource"
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": customForbiddenMessage,
		})
	}
}

func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	return RoleMiddlewareWithCustomError(roles, customMessage)
}

// RequireAdmin: admin only.
func RequireAdmin(feature string) fiber.Handler {
	return OnlyRoles(constants.RoleErrorAdmin(feature), constants.AdminOnly...)
}

// RequireTeacher: teacher or admin.
func RequireTeacher(feature string) fiber.Handler {
	return OnlyRoles(constants.RoleErrorTeacher(feature), constants.TeacherAndAbove...)
}

func RequireStudent(feature string) fiber.Handler {
	return OnlyRoles(constants.RoleErrorStudent(feature), constants.StudentOnly...)
}
