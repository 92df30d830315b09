package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, query string, maxLimit int) ListQuery {
	t.Helper()
	var got ListQuery
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = ResolveListQuery(c, DefaultLimit, maxLimit)
		return c.SendStatus(fiber.StatusOK)
	})
	_, err := app.Test(httptest.NewRequest("GET", "/"+query, nil), -1)
	require.NoError(t, err)
	return got
}

func TestResolveListQuery_Defaults(t *testing.T) {
	q := resolve(t, "", MaxLimit)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, 0, q.Offset)
}

func TestResolveListQuery_ClampsHugePage(t *testing.T) {
	q := resolve(t, "?page=9223372036854775807&limit=100", MaxLimit)
	assert.Equal(t, MaxPage, q.Page)
	assert.Equal(t, (MaxPage-1)*100, q.Offset)
	assert.GreaterOrEqual(t, q.Offset, 0)
}

func TestResolveListQuery_ZeroMaxFallsBackToCap(t *testing.T) {
	q := resolve(t, "?per_page=5000&q=ana", 0)
	assert.Equal(t, MaxLimit, q.Limit)
	assert.Equal(t, "ana", q.Search)
}
