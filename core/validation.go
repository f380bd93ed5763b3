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

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxQueryLength caps the accepted query size in runes.
const MaxQueryLength = 4096

// ValidateRequest validates a Request according to domain rules.
//
// Validation rules:
//   - TenantID, UserID, SessionID must not be empty
//   - Query must not be empty after trimming whitespace
//   - Query must not exceed MaxQueryLength runes
//
// NOT validated here:
//   - Tenant existence (resolved by the policy gatekeeper)
//   - Locale (optional; downstream components apply defaults)
func ValidateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrValidation)
	}

	if req.TenantID == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyTenant)
	}

	if req.UserID == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyUser)
	}

	if req.SessionID == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptySession)
	}

	if strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyQuery)
	}

	if utf8.RuneCountInString(req.Query) > MaxQueryLength {
		return fmt.Errorf("%w: %w", ErrValidation, ErrQueryTooLong)
	}

	return nil
}

// ValidateChunk validates a VaultChunk before it enters the index.
//
// Validation rules:
//   - TenantID and UserID must not be empty (isolation keys)
//   - Text must not be empty
//
// The Vector is not validated here; it is populated by the ingest pipeline.
func ValidateChunk(chunk *VaultChunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrValidation)
	}

	if chunk.TenantID == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyTenant)
	}

	if chunk.UserID == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyUser)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: chunk text cannot be empty", ErrValidation)
	}

	return nil
}
