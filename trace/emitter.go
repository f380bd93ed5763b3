// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package trace

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/poiesic/vaultqa/core"
)

// Record is the audit event for one completed request.
type Record struct {
	TraceID     string
	Timestamp   time.Time
	TenantID    string
	UserID      string
	SessionID   string
	Route       core.Route
	LatencyMs   int64
	NodeTimings map[string]int64
	ChunkIDs    []string
	Citations   []core.Citation
	ToolCalls   []core.ToolCall
	Refusal     string
	TokenUsage  core.TokenUsage
}

// NewRecord creates a record with a fresh trace id and timestamp.
func NewRecord(tenantID, userID, sessionID string) *Record {
	return &Record{
		TraceID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		TenantID:  tenantID,
		UserID:    userID,
		SessionID: sessionID,
	}
}

// Emitter receives one Record per request.
type Emitter interface {
	Emit(ctx context.Context, record *Record) error
}

// LogEmitter writes records to structured logs.
type LogEmitter struct {
	logger *slog.Logger
}

var _ Emitter = (*LogEmitter)(nil)

// NewLogEmitter creates an emitter writing to the given logger.
// A nil logger falls back to slog.Default().
func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEmitter{logger: logger.With("component", "trace")}
}

// Emit logs the record. Never returns an error.
func (e *LogEmitter) Emit(ctx context.Context, record *Record) error {
	e.logger.InfoContext(ctx, "request trace",
		"traceID", record.TraceID,
		"tenantID", record.TenantID,
		"userID", record.UserID,
		"sessionID", record.SessionID,
		"route", record.Route.String(),
		"latencyMs", record.LatencyMs,
		"nodeTimings", record.NodeTimings,
		"chunkIDs", record.ChunkIDs,
		"citations", len(record.Citations),
		"toolCalls", len(record.ToolCalls),
		"refusal", record.Refusal,
		"promptTokens", record.TokenUsage.Prompt,
		"completionTokens", record.TokenUsage.Completion,
	)
	return nil
}

// NopEmitter discards every record.
type NopEmitter struct{}

var _ Emitter = (*NopEmitter)(nil)

// Emit discards the record.
func (e *NopEmitter) Emit(_ context.Context, _ *Record) error {
	return nil
}
