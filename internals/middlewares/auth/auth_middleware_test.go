package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func studentClaims(userID, studentID uuid.UUID, exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"id":         userID.String(),
		"role":       "student",
		"user_name":  "ana",
		"student_id": studentID.String(),
		"exp":        exp.Unix(),
	}
}

func newApp(opts AuthJWTOpts, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{AuthJWT(opts)}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    c.Locals("user_id"),
			"role":       c.Locals("userRole"),
			"student_id": c.Locals("student_id"),
		})
	})
	app.Get("/", handlers...)
	return app
}

func call(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthJWT(t *testing.T) {
	userID, studentID := uuid.New(), uuid.New()
	valid := sign(t, studentClaims(userID, studentID, time.Now().Add(time.Hour)))
	expired := sign(t, studentClaims(userID, studentID, time.Now().Add(-time.Hour)))
	noID := sign(t, jwt.MapClaims{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()})
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, studentClaims(userID, studentID, time.Now().Add(time.Hour))).
		SignedString([]byte("other-secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		opts   AuthJWTOpts
		status int
	}{
		{"valid token", valid, AuthJWTOpts{Secret: testSecret}, fiber.StatusOK},
		{"missing token", "", AuthJWTOpts{Secret: testSecret}, fiber.StatusUnauthorized},
		{"wrong signature", forged, AuthJWTOpts{Secret: testSecret}, fiber.StatusUnauthorized},
		{"expired", expired, AuthJWTOpts{Secret: testSecret}, fiber.StatusUnauthorized},
		{"no user id", noID, AuthJWTOpts{Secret: testSecret}, fiber.StatusUnauthorized},
		{
			"blacklisted",
			valid,
			AuthJWTOpts{Secret: testSecret, IsBlacklisted: func(string) (bool, error) { return true, nil }},
			fiber.StatusUnauthorized,
		},
		{
			"blacklist lookup fails",
			valid,
			AuthJWTOpts{Secret: testSecret, IsBlacklisted: func(string) (bool, error) { return false, errors.New("db down") }},
			fiber.StatusInternalServerError,
		},
		{
			"deactivated user",
			valid,
			AuthJWTOpts{Secret: testSecret, EnsureActive: func(uuid.UUID) error { return errors.New("user inactive") }},
			fiber.StatusForbidden,
		},
		{
			"deleted user",
			valid,
			AuthJWTOpts{Secret: testSecret, EnsureActive: func(uuid.UUID) error { return gorm.ErrRecordNotFound }},
			fiber.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, call(t, newApp(tt.opts), tt.token))
		})
	}
}

func TestAuthJWTExpirySkew(t *testing.T) {
	tok := sign(t, studentClaims(uuid.New(), uuid.New(), time.Now().Add(-10*time.Second)))
	assert.Equal(t, fiber.StatusOK, call(t, newApp(AuthJWTOpts{Secret: testSecret, Skew: 30 * time.Second}), tok))
}

func TestAuthJWTReadsCookie(t *testing.T) {
	tok := sign(t, studentClaims(uuid.New(), uuid.New(), time.Now().Add(time.Hour)))
	app := newApp(AuthJWTOpts{Secret: testSecret})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Cookie", "access_token="+tok)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRoleMiddleware(t *testing.T) {
	studentTok := sign(t, studentClaims(uuid.New(), uuid.New(), time.Now().Add(time.Hour)))
	teacherTok := sign(t, jwt.MapClaims{
		"id":   uuid.NewString(),
		"role": "teacher",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	opts := AuthJWTOpts{Secret: testSecret}

	assert.Equal(t, fiber.StatusForbidden, call(t, newApp(opts, RequireAdmin("fees")), teacherTok))
	assert.Equal(t, fiber.StatusOK, call(t, newApp(opts, RequireTeacher("attendance")), teacherTok))
	assert.Equal(t, fiber.StatusForbidden, call(t, newApp(opts, RequireTeacher("attendance")), studentTok))
	assert.Equal(t, fiber.StatusOK, call(t, newApp(opts, RequireStudent("my results")), studentTok))
	assert.Equal(t, fiber.StatusForbidden, call(t, newApp(opts, RequireStudent("my results")), teacherTok))
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer \"abc\"", "abc", true},
		{"Token abc", "", false},
		{"Bearer", "", false},
	}
	for _, tt := range tests {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			tok, err := extractBearerToken(c)
			if tt.ok {
				assert.NoError(t, err, tt.header)
				assert.Equal(t, tt.want, tok)
			} else {
				assert.Error(t, err, tt.header)
			}
			return nil
		})
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", tt.header)
		_, err := app.Test(req)
		require.NoError(t, err)
	}
}
