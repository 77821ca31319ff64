package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"schooladmin_backend/internals/configs"
	userModel "schooladmin_backend/internals/features/users/user/model"
)

const accessTTLDefault = time.Hour

func getJWTSecret() (string, error) {
	s := strings.TrimSpace(configs.JWTSecret)
	if s == "" {
		s = strings.TrimSpace(configs.GetEnv("JWT_SECRET"))
	}
	if s == "" {
		return "", errors.New("JWT_SECRET is not configured")
	}
	return s, nil
}

func accessTTL() time.Duration {
	if configs.JWTTTL > 0 {
		return configs.JWTTTL
	}
	return accessTTLDefault
}

// BuildAccessClaims: the claim set read back by the auth middleware.
func BuildAccessClaims(user userModel.UserModel, studentID, teacherID *uuid.UUID, now time.Time, ttl time.Duration) jwt.MapClaims {
	claims := jwt.MapClaims{
		"typ":       "access",
		"sub":       user.ID.String(),
		"id":        user.ID.String(),
		"user_name": user.UserName,
		"role":      user.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}
	if studentID != nil {
		claims["student_id"] = studentID.String()
	}
	if teacherID != nil {
		claims["teacher_id"] = teacherID.String()
	}
	return claims
}

func SignToken(claims jwt.MapClaims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// remainingTTL is how long a token still needs to stay blacklisted.
func remainingTTL(token, secret string) time.Duration {
	ttl := 2 * time.Minute
	if token == "" || secret == "" {
		return ttl
	}
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}); err != nil {
		return ttl
	}
	if exp, ok := claims["exp"].(float64); ok {
		if until := time.Until(time.Unix(int64(exp), 0)); until > 0 {
			return until + time.Minute
		}
		return time.Minute
	}
	return ttl
}
