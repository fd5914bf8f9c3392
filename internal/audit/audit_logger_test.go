package audit

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := NewAuditLogger(zap.New(core))

	a.LogTransfer("tx_1", "acc_1", "acc_2", decimal.RequireFromString("100.25"), "CLEARED")
	a.LogError("tx_2", "acc_1", errors.New("insufficient funds"))
	a.LogOperation("tx_3", "msg_1", "LINK_SWIFT_MESSAGE", "linked")

	entries := logs.All()
	require.Len(t, entries, 3)

	transfer := entries[0].ContextMap()
	assert.Equal(t, EventTransfer, transfer["event_type"])
	assert.Equal(t, "100.25", transfer["amount"])
	assert.Equal(t, "audit", entries[0].LoggerName)

	failure := entries[1]
	assert.Equal(t, zapcore.WarnLevel, failure.Level)
	assert.Equal(t, "insufficient funds", failure.ContextMap()["error"])

	assert.Equal(t, "LINK_SWIFT_MESSAGE", entries[2].ContextMap()["event_type"])
}

func TestNewAuditLogger_NilLogger(t *testing.T) {
	a := NewAuditLogger(nil)
	assert.NotPanics(t, func() {
		a.LogOperation("tx", "acc", "NOOP", "")
	})
}
