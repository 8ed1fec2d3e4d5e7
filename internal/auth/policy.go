// ABOUTME: Declarative route-to-role access rules evaluated before dispatch
// ABOUTME: Longest-literal-prefix matching with explicit allow/deny decisions

package auth

import (
	"strings"
)

// Decision is the outcome of a policy check. Allow hands control to the
// handler; the two deny variants are terminal for the request and are
// rendered by the failure translator.
type Decision int

const (
	// Allow permits the request.
	Allow Decision = iota
	// DenyUnauthenticated rejects a request with no principal.
	DenyUnauthenticated
	// DenyForbidden rejects an authenticated request lacking the required role.
	DenyForbidden
)

// String returns the decision name used in logs and metrics labels.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	case DenyForbidden:
		return "deny_forbidden"
	default:
		return "unknown"
	}
}

type requirementKind int

const (
	requirePublic requirementKind = iota
	requireAuthenticated
	requireRole
)

// Requirement describes what a route demands from the caller.
type Requirement struct {
	kind requirementKind
	role string
}

// Public allows every caller, authenticated or not.
func Public() Requirement {
	return Requirement{kind: requirePublic}
}

// Authenticated requires any resolved principal.
func Authenticated() Requirement {
	return Requirement{kind: requireAuthenticated}
}

// Role requires a principal holding the exact role name.
func Role(name string) Requirement {
	return Requirement{kind: requireRole, role: name}
}

// Rule maps a path pattern and optional HTTP method to a requirement.
// Patterns are segment based: "*" matches exactly one segment, "**" matches
// the rest of the path (including nothing).
type Rule struct {
	Pattern string
	Method  string // empty matches any method
	Require Requirement
}

// Policy is an access rule table with a default requirement for unmatched
// requests. It is immutable after construction and safe for concurrent use.
type Policy struct {
	rules      []Rule
	defaultReq Requirement
}

// NewPolicy builds a policy from the given rules. Requests matching no rule
// fall through to the default requirement.
func NewPolicy(defaultReq Requirement, rules ...Rule) *Policy {
	return &Policy{rules: rules, defaultReq: defaultReq}
}

// Evaluate finds the best matching rule for the request and checks it
// against the current principal (nil = anonymous). Rule selection: the rule
// pinning down the longest literal prefix wins; at equal prefix a
// method-specific rule beats a path-only one; remaining ties go to the rule
// declared first.
func (p *Policy) Evaluate(method, path string, principal *Principal) Decision {
	req := p.defaultReq
	bestPrefix := -1
	bestHasMethod := false

	for _, r := range p.rules {
		if r.Method != "" && r.Method != method {
			continue
		}
		ok, prefix := matchPattern(r.Pattern, path)
		if !ok {
			continue
		}
		hasMethod := r.Method != ""
		if prefix > bestPrefix || (prefix == bestPrefix && hasMethod && !bestHasMethod) {
			bestPrefix = prefix
			bestHasMethod = hasMethod
			req = r.Require
		}
	}

	return check(req, principal)
}

func check(req Requirement, principal *Principal) Decision {
	switch req.kind {
	case requirePublic:
		return Allow
	case requireAuthenticated:
		if principal == nil {
			return DenyUnauthenticated
		}
		return Allow
	default:
		if principal == nil {
			return DenyUnauthenticated
		}
		if principal.HasRole(req.role) {
			return Allow
		}
		return DenyForbidden
	}
}

// matchPattern reports whether path matches the pattern and, on a match, how
// many leading literal characters the pattern pins down. The count is what
// ranks competing rules: a fully literal pattern always outranks a wildcard
// one over the same path.
func matchPattern(pattern, path string) (bool, int) {
	patSegs := splitPath(pattern)
	pathSegs := splitPath(path)

	specificity := 0
	literalPrefix := true

	i := 0
	for ; i < len(patSegs); i++ {
		seg := patSegs[i]
		if seg == "**" {
			// Matches the remainder, including nothing
			return true, specificity
		}
		if i >= len(pathSegs) {
			return false, 0
		}
		if seg == "*" {
			literalPrefix = false
			continue
		}
		if seg != pathSegs[i] {
			return false, 0
		}
		if literalPrefix {
			specificity += len(seg) + 1
		}
	}

	if i != len(pathSegs) {
		return false, 0
	}
	return true, specificity
}

func splitPath(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
