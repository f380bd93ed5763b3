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


// Package vault implements the tenant-scoped retrieval engine.
//
// The Retriever runs a staged pipeline over the snapshot Index:
//
//   - embed the query
//   - fetch nearest neighbors from the (tenant, user) scope only
//   - optional maximal-marginal-relevance diversity selection
//   - optional re-ranking via an external relevance scorer
//   - confidence normalization and filtering
//   - a final defense-in-depth isolation re-check
//
// Tenant isolation is enforced twice: candidates are drawn from the scoped
// partition of the index, and every surviving chunk's tenant and user ids
// are re-verified before the result is returned. A mismatch at the second
// check is an internal invariant violation: the chunk is dropped and the
// violation logged, never silently returned.
package vault
