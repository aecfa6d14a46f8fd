package secfetch

import "net/http"

// Protect wraps the given next http.Handler and enforces the Fetch Metadata
// resource isolation policy.
//
// Behavior per request:
//   - Captures the Sec-Fetch-* and Origin headers into a Snapshot, runs the
//     evaluation policy, and stores the resulting Decision in the request
//     context for downstream handlers.
//   - Allow: calls next unchanged.
//   - Report: emits a violation event on the configured Sink, then calls
//     next exactly as Allow (report-only mode never blocks).
//   - Deny: emits a violation event and writes the rejection response; next
//     is not invoked.
//
// A configured Authorizer runs before the policy and may short-circuit it in
// either direction.
//
// Params:
// - next: downstream handler to be executed when the request is not denied.
//
// Returns:
// - An http.Handler that performs the policy evaluation before delegating to next.
func (p *Protector) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg := p.cfg

		// 1) explicit exemptions win over the policy
		if cfg.Authorizer != nil {
			switch cfg.Authorizer.Authorize(r) {
			case AuthAllow:
				next.ServeHTTP(w, r)
				return
			case AuthDeny:
				snap := FromRequest(r)
				d := deny(ReasonAuthorizerDenied)
				cfg.Sink.Emit(r.Context(), eventFor(d, snap, r))
				p.reject(w, r)
				return
			}
		}

		// 2) evaluate the policy on a snapshot taken once
		snap := FromRequest(r)
		d := cfg.Policy.Decide(snap)

		// inject the decision into the request context for downstream handlers
		r = r.WithContext(contextWithDecision(r.Context(), d))

		switch d.Action {
		case ActionAllow:
			next.ServeHTTP(w, r)
		case ActionReport:
			cfg.Sink.Emit(r.Context(), eventFor(d, snap, r))
			next.ServeHTTP(w, r)
		case ActionDeny:
			cfg.Sink.Emit(r.Context(), eventFor(d, snap, r))
			p.reject(w, r)
		}
	})
}

// reject writes the rejection response. The downstream handler is never
// consulted for a denied request.
func (p *Protector) reject(w http.ResponseWriter, r *http.Request) {
	if p.cfg.RejectHandler != nil {
		p.cfg.RejectHandler.ServeHTTP(w, r)
		return
	}
	http.Error(w, p.cfg.RejectBody, p.cfg.RejectStatus)
}

func eventFor(d Decision, snap Snapshot, r *http.Request) Event {
	return Event{
		Decision:     d.Action,
		Reason:       d.Reason,
		Relationship: snap.Relationship(),
		Mode:         snap.Mode,
		Dest:         snap.Dest,
		Method:       r.Method,
		Path:         r.URL.Path,
	}
}
