package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewLogger_ReplacesGlobal(t *testing.T) {
	for _, production := range []bool{false, true} {
		logger, err := NewLogger(production)
		assert.NoError(t, err)
		assert.NotNil(t, logger)
		assert.Same(t, logger, zap.L())
	}
	zap.ReplaceGlobals(zap.NewNop())
}
