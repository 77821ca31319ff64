package auth

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schooladmin_backend/internals/configs"
	authRepo "schooladmin_backend/internals/features/users/auth/repository"
)

type AuthJWTOpts struct {
	Secret string
	// Skew tolerated on exp.
	Skew          time.Duration
	IsBlacklisted func(token string) (bool, error)
	EnsureActive  func(userID uuid.UUID) error
}

// AuthMiddleware wires AuthJWT to the database (blacklist + active user).
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return AuthJWT(AuthJWTOpts{
		Secret: configs.JWTSecret,
		Skew:   30 * time.Second,
		IsBlacklisted: func(token string) (bool, error) {
			return authRepo.IsTokenBlacklisted(db, token)
		},
		EnsureActive: func(userID uuid.UUID) error {
			return ensureUserActive(db, userID)
		},
	})
}

func AuthJWT(opts AuthJWTOpts) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		if opts.IsBlacklisted != nil {
			blacklisted, err := opts.IsBlacklisted(tokenString)
			if err != nil {
				log.Println("[ERROR] blacklist lookup:", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
			}
			if blacklisted {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token is blacklisted")
			}
		}

		secret := opts.Secret
		if secret == "" {
			secret = configs.GetEnv("JWT_SECRET")
		}
		if secret == "" {
			log.Println("[ERROR] JWT_SECRET is empty")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		}); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		if err := validateTokenExpiry(claims, opts.Skew); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		userID, err := extractUserID(claims)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}

		if opts.EnsureActive != nil {
			if err := opts.EnsureActive(userID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - User not found")
				}
				return fiber.NewError(fiber.StatusForbidden, "Your account has been deactivated")
			}
		}

		c.Locals("user_id", userID.String())
		storeClaimsToLocals(c, claims)
		return c.Next()
	}
}
