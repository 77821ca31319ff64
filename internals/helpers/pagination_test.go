package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, query string, def, max int) Paging {
	t.Helper()
	var got Paging
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = ResolvePaging(c, def, max)
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/"+query, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return got
}

func TestResolvePaging(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Paging
	}{
		{"defaults", "", Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20}},
		{"page and per_page", "?page=3&per_page=10", Paging{Page: 3, PerPage: 10, Offset: 20, Limit: 10}},
		{"limit alias", "?limit=5", Paging{Page: 1, PerPage: 5, Offset: 0, Limit: 5}},
		{"capped", "?per_page=1000", Paging{Page: 1, PerPage: 100, Offset: 0, Limit: 100}},
		{"garbage falls back", "?page=-2&per_page=abc", Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolve(t, tt.query, 20, 100))
		})
	}
}

func TestBuildPagination(t *testing.T) {
	p := BuildPagination(45, Paging{Page: 2, PerPage: 20})
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	empty := BuildPagination(0, Paging{Page: 1, PerPage: 20})
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
