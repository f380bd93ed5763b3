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


// Package policy enforces per-tenant admission rules.
//
// The Gatekeeper applies three layers of checks:
//
//   - tenant resolution and prompt-pattern guardrails, independent of route
//   - fixed-window rate limits (per minute and per hour)
//   - route RBAC, once the route is known after classification
//
// Tenant policies are read-only during a request. The only persistent state
// this package mutates is the rate window counters.
package policy
