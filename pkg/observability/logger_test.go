package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFields(t *testing.T) {
	assert.Equal(t, "", formatFields(nil))
	assert.Equal(t, "", formatFields(map[string]interface{}{}))

	out := formatFields(map[string]interface{}{
		"domain_id": "code",
		"count":     3,
	})
	assert.Equal(t, " count=3 domain_id=code", out)
}

func TestStandardLogger_LevelFiltering(t *testing.T) {
	logger := NewStandardLogger("test").(*StandardLogger)
	assert.Equal(t, LogLevelInfo, logger.level)

	debug := logger.WithLevel(LogLevelDebug)
	assert.Equal(t, LogLevelDebug, debug.level)
	assert.Equal(t, "test", debug.prefix)
}

func TestStandardLogger_WithPrefix(t *testing.T) {
	logger := NewStandardLogger("storage")
	scoped := logger.WithPrefix("storage.pool")
	assert.Equal(t, "storage.pool", scoped.(*StandardLogger).prefix)
}
