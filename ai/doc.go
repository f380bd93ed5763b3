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


// Package ai provides abstractions for the external AI services used by
// vaultqa.
//
// The request pipeline treats every model call as an opaque collaborator
// behind one of four interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - IntentClassifier: maps a query to one of a fixed set of route labels
//   - Generator: produces the final natural-language answer
//   - RelevanceScorer: scores query/passage pairs for the re-ranking pass
//
// Provider aggregates the four for convenient initialization and lifecycle
// management.
//
// Two implementation sub-packages exist:
//
//   - ai/openai: production implementation on OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles
//
// Production constructors return interface types to enforce abstraction;
// mock constructors return concrete types so tests can inject behavior and
// assert call counts.
package ai
