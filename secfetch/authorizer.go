package secfetch

import "net/http"

// AuthorizationDecision is the verdict of an Authorizer.
type AuthorizationDecision int

const (
	// AuthContinue defers to the evaluation policy.
	AuthContinue AuthorizationDecision = iota
	// AuthAllow passes the request to the downstream handler, short-circuiting
	// the evaluation policy.
	AuthAllow
	// AuthDeny rejects the request, short-circuiting the evaluation policy.
	AuthDeny
)

// Authorizer lets callers short-circuit the evaluation policy for specific
// requests, e.g. to exempt webhook endpoints that legitimately receive
// cross-site POSTs.
type Authorizer interface {
	Authorize(r *http.Request) AuthorizationDecision
}

// PathAuthorizer allows requests whose URL path matches one of a fixed set
// of paths, deferring everything else to the policy.
type PathAuthorizer struct {
	paths map[string]struct{}
}

func NewPathAuthorizer(paths ...string) *PathAuthorizer {
	m := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		m[p] = struct{}{}
	}
	return &PathAuthorizer{paths: m}
}

func (a *PathAuthorizer) Authorize(r *http.Request) AuthorizationDecision {
	if _, ok := a.paths[r.URL.Path]; ok {
		return AuthAllow
	}
	return AuthContinue
}
