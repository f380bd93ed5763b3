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


// Package flow runs each request through a linear node pipeline:
//
//	INTAKE -> CLASSIFY -> GUARD -> EVIDENCE -> GENERATE -> TRACE
//
// Only intake failures abort the request. A gatekeeper denial skips
// evidence and generation but still reaches the trace stage. Evidence
// and generation failures are recorded into the request state and the
// pipeline continues with a degraded answer. The trace stage never
// fails the request.
package flow
