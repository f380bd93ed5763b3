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


package policy

import (
	"log/slog"

	"github.com/poiesic/vaultqa/core"
)

// Decision is the outcome of a gatekeeper check.
type Decision struct {
	Allowed bool
	Reason  string
}

// allow is the zero-reason positive decision.
func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// ToolForRoute maps a route to the adapter name used in blocked_tools
// policies. Routes without a tool map to the empty string.
func ToolForRoute(route core.Route) string {
	switch route {
	case core.RoutePriceCompare:
		return "price_compare"
	case core.RouteFinanceInfo:
		return "finance_info"
	default:
		return ""
	}
}

// Gatekeeper applies tenant policy to requests.
type Gatekeeper struct {
	registry *Registry
	limiter  *Limiter
	logger   *slog.Logger
}

// Option configures a Gatekeeper.
type Option func(*Gatekeeper) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gatekeeper) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// WithLimiter sets a custom rate limiter, e.g. one with an injected clock.
func WithLimiter(limiter *Limiter) Option {
	return func(g *Gatekeeper) error {
		if limiter != nil {
			g.limiter = limiter
		}
		return nil
	}
}

// NewGatekeeper creates a gatekeeper over the given tenant registry.
func NewGatekeeper(registry *Registry, opts ...Option) (*Gatekeeper, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}

	g := &Gatekeeper{
		registry: registry,
		limiter:  NewLimiter(),
		logger:   slog.Default().With("component", "gatekeeper"),
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Admit applies the route-independent checks: tenant resolution, sensitive
// prompt guardrails in declared order, then rate limiting. A denied request
// never increments the rate counters.
func (g *Gatekeeper) Admit(req *core.Request) Decision {
	pol, ok := g.registry.Lookup(req.TenantID)
	if !ok {
		g.logger.Warn("unknown tenant", "tenant", req.TenantID)
		return deny(ReasonUnknownTenant)
	}

	if rule := pol.MatchSensitive(req.Query); rule != nil {
		g.logger.Info("guardrail denial",
			"tenant", req.TenantID,
			"pattern", rule.Pattern,
			"reason", rule.Reason)
		return deny(rule.Reason)
	}

	if !g.limiter.Allow(req.TenantID, pol.RateLimitPerMin, pol.RateLimitPerHour) {
		g.logger.Info("rate limited", "tenant", req.TenantID)
		return deny(ReasonRateLimited)
	}

	return allow()
}

// CheckRoute applies route RBAC once the route is known after
// classification. A route outside allowed_routes, or whose adapter is in
// blocked_tools, is denied.
func (g *Gatekeeper) CheckRoute(tenantID string, route core.Route) Decision {
	pol, ok := g.registry.Lookup(tenantID)
	if !ok {
		return deny(ReasonUnknownTenant)
	}

	if !pol.RouteAllowed(route) {
		g.logger.Info("route not allowed", "tenant", tenantID, "route", route.String())
		return deny(ReasonRouteNotAllowed)
	}

	if tool := ToolForRoute(route); tool != "" && pol.ToolBlocked(tool) {
		g.logger.Info("tool blocked for route", "tenant", tenantID, "route", route.String(), "tool", tool)
		return deny(ReasonRouteNotAllowed)
	}

	return allow()
}

// Policy exposes the read-only policy for a tenant.
func (g *Gatekeeper) Policy(tenantID string) (*TenantPolicy, bool) {
	return g.registry.Lookup(tenantID)
}
