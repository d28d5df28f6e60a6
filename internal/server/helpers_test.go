package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- humanizeParam (pure function, no HTTP) ---

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param    string
		expected string
	}{
		{"id", "ID"},
		{"reportId", "report ID"},
		{"commentId", "comment ID"},
		{"something", "something"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.expected, humanizeParam(tt.param))
		})
	}
}

// --- parseAnsweredTo ---

func TestParseAnsweredTo(t *testing.T) {
	app := fiber.New()
	var got *uint
	app.Get("/c", func(c *fiber.Ctx) error {
		got = parseAnsweredTo(c)
		return c.SendStatus(fiber.StatusOK)
	})

	for _, tt := range []struct {
		query string
		want  *uint
	}{
		{"", nil},
		{"?answered_to=0", nil},
		{"?answered_to=-3", nil},
		{"?answered_to=junk", nil},
		{"?answered_to=12", uintPtr(12)},
	} {
		req := httptest.NewRequest(http.MethodGet, "/c"+tt.query, nil)
		_, err := app.Test(req)
		require.NoError(t, err)
		if tt.want == nil {
			assert.Nil(t, got, "query %q", tt.query)
		} else {
			require.NotNil(t, got, "query %q", tt.query)
			assert.Equal(t, *tt.want, *got)
		}
	}
}

func uintPtr(v uint) *uint { return &v }

// --- parseID ---

func TestParseID(t *testing.T) {
	s := &Server{}
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/7", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	for _, bad := range []string{"0", "-1", "abc"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/"+bad, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "param %q", bad)
	}
}
