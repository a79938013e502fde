package visitors

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	t.Run("defaults to a no-op logger", func(t *testing.T) {
		require.NotNil(t, Logger())
	})

	t.Run("a set logger is returned", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := zap.New(core)
		SetLogger(l)
		require.Same(t, l, Logger())
		Logger().Debug("hello")
		require.Equal(t, 1, logs.FilterMessage("hello").Len())
	})

	t.Run("nil restores a no-op logger", func(t *testing.T) {
		SetLogger(zap.NewExample())
		SetLogger(nil)
		require.NotNil(t, Logger())
		require.False(t, Logger().Core().Enabled(zap.DebugLevel))
	})
}
