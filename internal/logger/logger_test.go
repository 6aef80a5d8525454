package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetJSON()
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		Setup("info", "production")
	})
	return &buf
}

func TestFromContext_CarriesIDs(t *testing.T) {
	buf := capture(t)

	ctx := WithCycleID(WithTraceID(context.Background(), "trace-9"), "cycle-3")
	InfoCtxf(ctx, "cycle %d", 1)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "trace-9", line["trace_id"])
	assert.Equal(t, "cycle-3", line["cycle_id"])
	assert.Equal(t, "cycle 1", line["msg"])
}

func TestFromContext_WithoutIDs(t *testing.T) {
	buf := capture(t)

	FromContext(context.Background()).Info("plain")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.NotContains(t, line, "trace_id")
	assert.NotContains(t, line, "cycle_id")
}

func TestSetup_Level(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
	}{
		{"debug", true},
		{"warn", false},
		{"nonsense", false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := capture(t)
			Setup(tt.level, "production")
			Debug("probe")
			assert.Equal(t, tt.wantDebug, buf.Len() > 0)
		})
	}
}
