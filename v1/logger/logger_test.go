package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(tracing bool) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Logger{
		Zap:            zap.New(core),
		tracingEnabled: tracing,
	}, logs
}

func TestLoggerFieldsAndError(t *testing.T) {
	log, logs := newObservedLogger(false)

	log.Info("connected", nil, map[string]interface{}{"dialect": "postgresql"})
	log.Error("query failed", errors.New("boom"), map[string]interface{}{"table": "projects"})

	entries := logs.All()
	require.Len(t, entries, 2)

	infoFields := entries[0].ContextMap()
	assert.Equal(t, "postgresql", infoFields["dialect"])
	_, hasErr := infoFields["error"]
	assert.False(t, hasErr)

	errFields := entries[1].ContextMap()
	assert.Equal(t, "projects", errFields["table"])
	assert.Equal(t, "boom", errFields["error"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := &Logger{Zap: zap.New(core)}

	log.Debug("hidden", nil)
	log.Info("hidden", nil)
	log.Warn("visible", nil)

	require.Len(t, logs.All(), 1)
	assert.Equal(t, "visible", logs.All()[0].Message)
}

func TestLoggerWithContextNoSpan(t *testing.T) {
	log, logs := newObservedLogger(true)

	log.InfoWithContext(context.Background(), "no span", nil)

	require.Len(t, logs.All(), 1)
	fields := logs.All()[0].ContextMap()
	_, hasTrace := fields["trace_id"]
	assert.False(t, hasTrace)
}

func TestNewLoggerClientLevels(t *testing.T) {
	for _, level := range []Level{Debug, Info, Warning, Error} {
		log := NewLoggerClient(Config{Level: level, ServiceName: "rdb-test"})
		require.NotNil(t, log.Zap, "level %q", level)
	}
}
