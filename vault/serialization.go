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

package vault

import (
	"github.com/poiesic/vaultqa/core"
)

// MarshalChunk serializes a VaultChunk to bytes.
func MarshalChunk(chunk *core.VaultChunk) []byte {
	buf := make([]byte, core.VaultChunkMUS.Size(*chunk))
	core.VaultChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a VaultChunk from bytes.
func UnmarshalChunk(data []byte) (*core.VaultChunk, error) {
	chunk, _, err := core.VaultChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}
