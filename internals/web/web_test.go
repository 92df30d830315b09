package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_LoadsAllViews(t *testing.T) {
	e := Engine()
	require.NoError(t, e.Load())

	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf, "pages/error", map[string]any{
		"Title": "Error", "Code": 404, "Message": "Not here",
	}, "layouts/main"))
	assert.Contains(t, buf.String(), "Not here")
	assert.Contains(t, buf.String(), "<title>Error | SchoolHub</title>")
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "5 Mar 2024", formatDate(d))
	assert.Equal(t, "5 Mar 2024", formatDate(&d))
	var none *time.Time
	assert.Equal(t, "", formatDate(none))
	assert.Equal(t, "", formatDate(time.Time{}))
	assert.Equal(t, "", formatDate("x"))
}
