package configs

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogger_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := rootLogger
	rootLogger = zerolog.New(&buf)
	t.Cleanup(func() { rootLogger = prev })

	Logger("home").Warn().Msg("contact mail failed")

	assert.Contains(t, buf.String(), `"component":"home"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
