package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func Test_New(t *testing.T) {
	t.Parallel()

	lggr, err := New()
	require.NoError(t, err)
	require.NotNil(t, lggr)
	require.NoError(t, lggr.Sync())
}

func Test_TestObserved(t *testing.T) {
	t.Parallel()

	lggr, logs := TestObserved(t, zapcore.InfoLevel)

	lggr.Infow("loaded chains", "count", 3)
	lggr.Debug("not captured at info level")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "loaded chains", entry.Message)
	assert.Equal(t, int64(3), entry.ContextMap()["count"])
}

func Test_Named(t *testing.T) {
	t.Parallel()

	lggr := Test(t)
	named := Named(lggr, "binder")

	assert.Equal(t, "binder", named.Name())
	// The original logger keeps its empty name.
	assert.Empty(t, lggr.Name())
}

func Test_Nop(t *testing.T) {
	t.Parallel()

	lggr := Nop()
	require.NotNil(t, lggr)
	lggr.Info("discarded")
	require.NoError(t, lggr.Sync())
}
