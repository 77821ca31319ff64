package helper

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runFromError(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return FromError(c, err) })

	resp, e := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, e)
	defer resp.Body.Close()

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"fiber error", fiber.NewError(fiber.StatusNotFound, "Student not found"), 404, "NOT_FOUND"},
		{"wrapped fiber error", pkgerrors.Wrap(fiber.NewError(fiber.StatusConflict, "taken"), "create"), 409, "CONFLICT"},
		{"field errors", NewFieldError("end_time", "must be after start_time"), 422, "VALIDATION_ERROR"},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "uq_students_scholar_no"}, 409, "CONFLICT"},
		{"fk violation", &pgconn.PgError{Code: "23503"}, 400, "BAD_REQUEST"},
		{"plain error", errors.New("boom"), 500, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := runFromError(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.ErrorCode)
			assert.False(t, body.Success)
		})
	}
}

func TestFromErrorCarriesFieldMessages(t *testing.T) {
	_, body := runFromError(t, NewFieldError("end_time", "must be after start_time"))
	assert.Equal(t, []string{"must be after start_time"}, body.Errors["end_time"])
}

func TestJsonListCountsItems(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return JsonList(c, "", []int{1, 2, 3}, BuildPagination(3, Paging{Page: 1, PerPage: 10}))
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Success    bool       `json:"success"`
		Pagination Pagination `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, 3, body.Pagination.Count)
	assert.Equal(t, defaultPerPageOptions, body.Pagination.PerPageOptions)
}
