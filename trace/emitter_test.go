package trace

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/vaultqa/core"
)

func TestNewRecord(t *testing.T) {
	record := NewRecord("t1", "u1", "s1")
	assert.NotEmpty(t, record.TraceID)
	assert.False(t, record.Timestamp.IsZero())
	assert.Equal(t, "t1", record.TenantID)
	assert.Equal(t, "u1", record.UserID)
	assert.Equal(t, "s1", record.SessionID)

	// Trace ids are unique per record.
	other := NewRecord("t1", "u1", "s1")
	assert.NotEqual(t, record.TraceID, other.TraceID)
}

func TestLogEmitter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	emitter := NewLogEmitter(logger)

	record := NewRecord("t1", "u1", "s1")
	record.Route = core.RouteKnowledgeQA
	record.LatencyMs = 42
	record.Refusal = ""
	record.TokenUsage = core.TokenUsage{Prompt: 10, Completion: 5, Total: 15}

	require.NoError(t, emitter.Emit(context.Background(), record))

	out := buf.String()
	assert.Contains(t, out, record.TraceID)
	assert.Contains(t, out, "t1")
	assert.Contains(t, out, "KNOWLEDGE_QA")
}

func TestNopEmitter(t *testing.T) {
	emitter := &NopEmitter{}
	assert.NoError(t, emitter.Emit(context.Background(), NewRecord("t", "u", "s")))
}
