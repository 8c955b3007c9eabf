package sl_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tourvisto/trip-admin-api/internal/platform/sl"
)

func TestErr_ReturnsErrorAttr(t *testing.T) {
	attr := sl.Err(errors.New("something went wrong"))

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("something went wrong"), attr.Value)
}

func TestNew_LocalUsesDebugLevel(t *testing.T) {
	log := sl.New("local")
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))

	log = sl.New("prod")
	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
}
