package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDBCoreForwardsEntries(t *testing.T) {
	base, observed := observer.New(zapcore.InfoLevel)
	writer := &DBLogWriter{logChan: make(chan LogEntry, 10)}

	log := zap.New(NewDBCore(base, writer), zap.AddCaller())
	log.Info("process updated", zap.String("userID", "u-1"))
	log.Debug("below level")

	require.Equal(t, 1, observed.Len())
	require.Len(t, writer.logChan, 1)

	entry := <-writer.logChan
	assert.Equal(t, "process updated", entry.Message)
	assert.Equal(t, "u-1", entry.UserID)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
}

func TestDBCoreWithKeepsWriter(t *testing.T) {
	base, _ := observer.New(zapcore.InfoLevel)
	writer := &DBLogWriter{logChan: make(chan LogEntry, 10)}

	log := zap.New(NewDBCore(base, writer)).With(zap.String("component", "scheduler"))
	log.Warn("tick overran")

	require.Len(t, writer.logChan, 1)
	assert.Equal(t, "tick overran", (<-writer.logChan).Message)
}

func TestAddLogDropsWhenFull(t *testing.T) {
	writer := &DBLogWriter{logChan: make(chan LogEntry, 1)}
	writer.AddLog(LogEntry{Message: "first"})
	writer.AddLog(LogEntry{Message: "second"})

	require.Len(t, writer.logChan, 1)
	assert.Equal(t, "first", (<-writer.logChan).Message)
}

func TestMapLevelToInt(t *testing.T) {
	assert.Equal(t, 10, mapLevelToInt(zapcore.DebugLevel))
	assert.Equal(t, 40, mapLevelToInt(zapcore.ErrorLevel))
	assert.Equal(t, 20, mapLevelToInt(zapcore.DPanicLevel))
}
