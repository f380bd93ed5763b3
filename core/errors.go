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


package core

import "errors"

// Error taxonomy for the request pipeline. Only ErrValidation aborts a
// request; every other kind is recorded into the conversation state and the
// pipeline continues to produce a well-formed response.
var (
	// ErrValidation indicates a malformed request. Fatal to the request.
	ErrValidation = errors.New("invalid request")

	// ErrPolicyDenied indicates a guardrail or RBAC denial. Terminal refusal,
	// not a system fault.
	ErrPolicyDenied = errors.New("policy denied")

	// ErrRateLimited indicates a tenant exceeded a rate window. Terminal
	// refusal, not a system fault.
	ErrRateLimited = errors.New("rate limited")

	// ErrRetrieval indicates the vault index is missing or empty for the
	// requested scope. Degrades to empty evidence.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrTool indicates a tool adapter failure. Degrades to an explicit
	// refusal for that route.
	ErrTool = errors.New("tool failed")

	// ErrGeneration indicates the external completion call failed. Degrades
	// to a fallback answer.
	ErrGeneration = errors.New("generation failed")

	// ErrInternal indicates an invariant violation, such as an isolation
	// mismatch detected after filtering. Logged at high severity; the request
	// continues with reduced evidence.
	ErrInternal = errors.New("internal invariant violation")
)

// Request field validation errors.
var (
	// ErrEmptyTenant indicates the tenant identifier is missing.
	ErrEmptyTenant = errors.New("tenant id cannot be empty")

	// ErrEmptyUser indicates the user identifier is missing.
	ErrEmptyUser = errors.New("user id cannot be empty")

	// ErrEmptySession indicates the session identifier is missing.
	ErrEmptySession = errors.New("session id cannot be empty")

	// ErrEmptyQuery indicates the query text is missing.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrQueryTooLong indicates the query exceeds the accepted length.
	ErrQueryTooLong = errors.New("query too long")
)
