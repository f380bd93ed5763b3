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
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the types persisted by the vault store.
// Hand-written; the domain surface is small enough that generated code
// would not pay for itself.

// IDMUS serializes core.ID values.
var IDMUS = idMUS{}

type idMUS struct{}

// Marshal writes id to bs and returns the number of bytes written.
func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

// Unmarshal reads an ID from bs.
func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	uv, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return 0, n, err
	}
	return ID(uv), n, nil
}

// Size returns the serialized size of id.
func (s idMUS) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

// VaultChunkMUS serializes VaultChunk values.
var VaultChunkMUS = vaultChunkMUS{}

type vaultChunkMUS struct{}

// Marshal writes chunk to bs and returns the number of bytes written.
// bs must be at least Size(chunk) bytes long.
func (s vaultChunkMUS) Marshal(v VaultChunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.TenantID, bs[n:])
	n += ord.String.Marshal(v.UserID, bs[n:])
	n += ord.String.Marshal(v.ChunkID, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += varint.PositiveInt.Marshal(len(v.Vector), bs[n:])
	for _, e := range v.Vector {
		n += raw.Float32.Marshal(e, bs[n:])
	}
	n += ord.String.Marshal(v.Source, bs[n:])
	return n
}

// Unmarshal reads a VaultChunk from bs.
func (s vaultChunkMUS) Unmarshal(bs []byte) (v VaultChunk, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	v.TenantID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.UserID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.ChunkID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	var length int
	length, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	if length > 0 {
		v.Vector = make([]float32, length)
		for i := 0; i < length; i++ {
			v.Vector[i], n1, err = raw.Float32.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return v, n, err
			}
		}
	}
	v.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return v, n, err
}

// Size returns the serialized size of chunk.
func (s vaultChunkMUS) Size(v VaultChunk) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.TenantID)
	size += ord.String.Size(v.UserID)
	size += ord.String.Size(v.ChunkID)
	size += ord.String.Size(v.Text)
	size += varint.PositiveInt.Size(len(v.Vector))
	for _, e := range v.Vector {
		size += raw.Float32.Size(e)
	}
	size += ord.String.Size(v.Source)
	return size
}
