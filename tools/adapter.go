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

package tools

import (
	"context"

	"github.com/poiesic/vaultqa/core"
)

// ToolQuery is the input for one adapter invocation.
type ToolQuery struct {
	Route  core.Route
	Query  string
	Locale string
}

// ToolItem is one evidence item produced by an adapter. Ref is the
// source reference surfaced in citations.
type ToolItem struct {
	Title      string
	Ref        string
	Confidence float32
}

// ToolResult is the structured output of a successful adapter call.
type ToolResult struct {
	Summary string
	Items   []ToolItem
}

// Adapter is an external evidence source for agentic routes.
type Adapter interface {
	// Name returns the stable tool name used in policy and citations.
	Name() string

	// Call executes the tool. Failures are reported as *ToolError so
	// callers can classify them.
	Call(ctx context.Context, query ToolQuery) (*ToolResult, error)
}

// notImplemented is an Adapter stub for tools without a backing
// integration. Calls always fail with KindNotImplemented, which the
// pipeline turns into an explicit user-visible refusal instead of a
// fabricated answer.
type notImplemented struct {
	name string
}

// NotImplemented returns an adapter that rejects every call.
func NotImplemented(name string) Adapter {
	return &notImplemented{name: name}
}

func (a *notImplemented) Name() string {
	return a.name
}

func (a *notImplemented) Call(_ context.Context, _ ToolQuery) (*ToolResult, error) {
	return nil, &ToolError{Tool: a.name, Kind: KindNotImplemented}
}
