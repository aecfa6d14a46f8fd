// Package secfetch provides cookieless CSRF protection for Go net/http
// servers by validating the Fetch Metadata request headers. It requires no
// cookies, no tokens and no signing keys.
//
// How it works
//   - Every request is classified from its Sec-Fetch-Site header (or, when
//     that is absent, from an Origin-vs-host comparison) into a relationship:
//     same-origin, same-site, cross-site, none (user-initiated) or unknown.
//   - Same-origin, same-site and user-initiated requests are allowed.
//   - Cross-site requests that embed the response (<iframe>, <object>,
//     <embed>, fenced frames) are always denied.
//   - A plain GET navigation from another site (a user clicking a link) is
//     allowed; every other cross-site request is denied.
//   - Requests without Fetch Metadata (non-browser clients, pre-2023
//     browsers) are allowed unless Policy.RejectMissingMetadata is set.
//     Note this is not a protection against non-browser clients, which can
//     set the headers anyway.
//
// # Configuration
//
// All behavior is driven by Config. Key fields include:
//   - Policy: RejectMissingMetadata, AllowSafeMethods, AllowNoCORSNavigation, ReportOnly
//   - RejectStatus, RejectBody, RejectHandler (rejection response)
//   - AllowedPaths / Authorizer (exemptions)
//   - Sink (structured violation events)
//
// Typical usage
//
//	p := secfetch.New(secfetch.Config{})
//	// Protect an http.Handler (router, mux, etc.)
//	protected := p.Protect(appMux)
//	http.ListenAndServe(":8080", protected)
//
// For a safe rollout, run in report-only mode first and watch the sink:
//
//	p := secfetch.New(secfetch.Config{
//	    Policy: secfetch.Policy{ReportOnly: true},
//	    Sink:   secfetch.NewLogSink(os.Stderr),
//	})
//
// Handlers can inspect the verdict for the current request:
//
//	if d, ok := secfetch.DecisionFromContext(r.Context()); ok {
//	    // d.Action, d.Reason
//	}
package secfetch
