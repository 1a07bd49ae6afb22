// SPDX-License-Identifier: MIT
package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		l, err := New(Config{Level: "debug", Format: format, OutputPaths: []string{"stderr"}})
		require.NoError(t, err, format)
		assert.NotNil(t, l)
	}
}

func TestNew_BadOutputPath(t *testing.T) {
	_, err := New(Config{OutputPaths: []string{"/nonexistent-dir/x/y.log"}})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" warning "))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestFieldsReachCore(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromCore(core).Named("sat").With(String("source", "a.csv"))

	l.Warn("flow not in satellite table",
		String("flow", "air/unspecified/co2/kg"),
		Int("row", 3),
		Float64("value", 1.5),
		Strings("keys", []string{"a", "b"}),
		Err(errors.New("boom")))

	entries := logs.FilterMessage("flow not in satellite table").All()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, zapcore.WarnLevel, e.Level)
	assert.Equal(t, "sat", e.LoggerName)
	ctx := e.ContextMap()
	assert.Equal(t, "a.csv", ctx["source"])
	assert.Equal(t, "air/unspecified/co2/kg", ctx["flow"])
	assert.EqualValues(t, 3, ctx["row"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestNopAndDefault(t *testing.T) {
	n := NewNopLogger()
	n.Debug("x")
	n.With(String("a", "b")).Named("c").Info("y")
	assert.NoError(t, n.Sync())

	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	core, logs := observer.New(zapcore.InfoLevel)
	SetDefault(NewFromCore(core))
	SetDefault(nil) // ignored
	OrDefault(nil).Info("via default")
	assert.Equal(t, 1, logs.Len())

	assert.Equal(t, n, OrDefault(n))
}
