package policy

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/poiesic/vaultqa/core"
	"gopkg.in/yaml.v3"
)

// PatternRule is one guardrail match rule. Rules are evaluated in declared
// order; the first match denies the request with the rule's reason.
type PatternRule struct {
	// Pattern is a case-insensitive substring, or a regular expression when
	// Regex is true.
	Pattern string `yaml:"pattern"`
	Regex   bool   `yaml:"regex"`
	Reason  string `yaml:"reason"`

	compiled *regexp.Regexp
}

// compile prepares the rule for matching. Regex rules are compiled with the
// case-insensitive flag; substring rules are lowered once.
func (r *PatternRule) compile() error {
	if r.Pattern == "" {
		return fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}
	if r.Reason == "" {
		r.Reason = "sensitive_prompt"
	}
	if r.Regex {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidPattern, r.Pattern, err)
		}
		r.compiled = re
	}
	return nil
}

// matches reports whether the query trips this rule.
func (r *PatternRule) matches(query string) bool {
	if r.compiled != nil {
		return r.compiled.MatchString(query)
	}
	return strings.Contains(strings.ToLower(query), strings.ToLower(r.Pattern))
}

// TenantPolicy is the per-tenant rule set. It is loaded once and treated as
// read-only during a request.
type TenantPolicy struct {
	TenantID          string        `yaml:"tenant_id"`
	BlockedTools      []string      `yaml:"blocked_tools"`
	AllowedRoutes     []string      `yaml:"allowed_routes"`
	SensitivePatterns []PatternRule `yaml:"sensitive_prompt_patterns"`
	RateLimitPerMin   int           `yaml:"rate_limit_per_minute"`
	RateLimitPerHour  int           `yaml:"rate_limit_per_hour"`

	allowed map[core.Route]bool
	blocked map[string]bool
}

// compile validates the policy and prepares lookup sets.
func (p *TenantPolicy) compile() error {
	if p.TenantID == "" {
		return fmt.Errorf("%w: tenant_id is required", ErrInvalidPolicy)
	}
	if p.RateLimitPerMin < 0 || p.RateLimitPerHour < 0 {
		return fmt.Errorf("%w: rate limits cannot be negative", ErrInvalidPolicy)
	}

	p.allowed = make(map[core.Route]bool, len(p.AllowedRoutes))
	for _, name := range p.AllowedRoutes {
		route := core.ParseRoute(name)
		if route.String() != name {
			return fmt.Errorf("%w: unknown route %q", ErrInvalidPolicy, name)
		}
		p.allowed[route] = true
	}

	p.blocked = make(map[string]bool, len(p.BlockedTools))
	for _, tool := range p.BlockedTools {
		p.blocked[tool] = true
	}

	for i := range p.SensitivePatterns {
		if err := p.SensitivePatterns[i].compile(); err != nil {
			return err
		}
	}
	return nil
}

// RouteAllowed reports whether the route is a member of the tenant's
// allowed_routes set.
func (p *TenantPolicy) RouteAllowed(route core.Route) bool {
	return p.allowed[route]
}

// ToolBlocked reports whether the named tool is blocked for this tenant.
func (p *TenantPolicy) ToolBlocked(tool string) bool {
	return p.blocked[tool]
}

// MatchSensitive returns the first sensitive pattern rule the query trips,
// or nil. Rules are evaluated in declared order; first match wins.
func (p *TenantPolicy) MatchSensitive(query string) *PatternRule {
	for i := range p.SensitivePatterns {
		if p.SensitivePatterns[i].matches(query) {
			return &p.SensitivePatterns[i]
		}
	}
	return nil
}

// Registry holds the known tenant policies.
type Registry struct {
	tenants map[string]*TenantPolicy
}

// NewRegistry builds a registry from the given policies.
// Every policy is compiled; duplicate tenant ids are rejected.
func NewRegistry(policies ...*TenantPolicy) (*Registry, error) {
	r := &Registry{tenants: make(map[string]*TenantPolicy, len(policies))}
	for _, p := range policies {
		if err := p.compile(); err != nil {
			return nil, err
		}
		if _, exists := r.tenants[p.TenantID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTenant, p.TenantID)
		}
		r.tenants[p.TenantID] = p
	}
	return r, nil
}

// registryFile is the on-disk YAML shape.
type registryFile struct {
	Tenants []*TenantPolicy `yaml:"tenants"`
}

// LoadRegistry reads tenant policies from a YAML file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRegistry(data)
}

// ParseRegistry builds a registry from YAML bytes.
func ParseRegistry(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse tenant policies: %w", err)
	}
	return NewRegistry(file.Tenants...)
}

// Lookup returns the policy for a tenant id.
func (r *Registry) Lookup(tenantID string) (*TenantPolicy, bool) {
	p, ok := r.tenants[tenantID]
	return p, ok
}

// Tenants returns the registered tenant ids.
func (r *Registry) Tenants() []string {
	ids := make([]string, 0, len(r.tenants))
	for id := range r.tenants {
		ids = append(ids, id)
	}
	return ids
}
