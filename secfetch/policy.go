package secfetch

import "net/http"

// Action is what the middleware does with a request.
type Action int

const (
	// ActionAllow forwards the request to the downstream handler unchanged.
	ActionAllow Action = iota
	// ActionDeny short-circuits the request with the rejection response.
	ActionDeny
	// ActionReport forwards the request but emits a violation event first.
	ActionReport
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionDeny:
		return "deny"
	case ActionReport:
		return "report"
	}
	return "unknown"
}

// Reason identifies the policy rule behind a Deny or Report decision.
// It is a closed set so callers can match on it exactly.
type Reason string

const (
	ReasonMissingMetadataRejected Reason = "missing_metadata_rejected"
	ReasonCrossSiteEmbedding      Reason = "cross_site_embedding"
	ReasonCrossSiteNonNavigation  Reason = "cross_site_non_navigation"
	ReasonAuthorizerDenied        Reason = "authorizer_denied"
)

// Decision is the verdict for a single request. Reason is empty on Allow.
type Decision struct {
	Action Action
	Reason Reason
}

func allow() Decision        { return Decision{Action: ActionAllow} }
func deny(r Reason) Decision { return Decision{Action: ActionDeny, Reason: r} }

// Policy holds the evaluation flags. The zero value enforces the strict
// resource isolation policy: missing metadata is allowed through, every
// cross-site request except a plain GET navigation is denied.
type Policy struct {
	// RejectMissingMetadata denies requests that carry no Sec-Fetch-Site
	// header. Off by default: non-browser clients and pre-2023 browsers
	// never send Fetch Metadata, and rejecting them unconditionally breaks
	// legitimate traffic.
	RejectMissingMetadata bool

	// AllowSafeMethods admits GET, HEAD and OPTIONS requests before any
	// metadata is evaluated.
	AllowSafeMethods bool

	// AllowNoCORSNavigation extends the cross-site navigation exception to
	// Sec-Fetch-Mode: no-cors GET requests, which some older browsers
	// emitted for top-level navigations.
	AllowNoCORSNavigation bool

	// ReportOnly downgrades every Deny to Report; the request is never
	// blocked, but the verdict is still computed and emitted. Used for
	// safe rollout.
	ReportOnly bool
}

// Decide evaluates the resource isolation policy against the snapshot.
// Implemented following https://web.dev/articles/fetch-metadata.
//
// Rules are tried in order and the first match wins; the ordering is part of
// the contract. In particular the embedding guard runs before the navigation
// exception, so a cross-site <iframe> or <object> load of a navigate-mode
// GET request is still denied. Decide is a total pure function: every input
// yields exactly one Decision and the policy is never mutated.
func (p Policy) Decide(s Snapshot) Decision {
	d := p.decide(s)
	if p.ReportOnly && d.Action == ActionDeny {
		return Decision{Action: ActionReport, Reason: d.Reason}
	}
	return d
}

func (p Policy) decide(s Snapshot) Decision {
	if p.AllowSafeMethods && safeMethod(s.Method) {
		return allow()
	}

	// Either the request doesn't come from a browser, or the browser is
	// too old to send Fetch Metadata.
	if s.Site == "" {
		if p.RejectMissingMetadata {
			return deny(ReasonMissingMetadataRejected)
		}
		return allow()
	}

	switch s.Relationship() {
	case RelationSameOrigin, RelationSameSite, RelationNone:
		return allow()
	}

	// Cross-site from here on (unknown is handled like cross-site: an
	// unclassifiable request gets no trust).
	if s.Dest.embeddable() {
		return deny(ReasonCrossSiteEmbedding)
	}

	if s.Method == http.MethodGet && (s.Mode.navigational() || (p.AllowNoCORSNavigation && s.Mode == ModeNoCORS)) {
		return allow()
	}

	return deny(ReasonCrossSiteNonNavigation)
}

func safeMethod(m string) bool {
	return m == http.MethodGet || m == http.MethodHead || m == http.MethodOptions
}
