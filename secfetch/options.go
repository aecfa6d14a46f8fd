// Package secfetch provides cookieless CSRF protection built on the Fetch Metadata request headers.
package secfetch

import "net/http"

type Config struct {
	// Evaluation policy
	Policy Policy

	// Rejection response
	RejectStatus  int          // status for denied requests; default 403
	RejectBody    string       // body for denied requests; default is a short diagnostic
	RejectHandler http.Handler // full override of the rejection response when set

	// Exemptions
	AllowedPaths []string   // exact URL paths that bypass the policy entirely
	Authorizer   Authorizer // custom short-circuit logic; wins over AllowedPaths

	// Observability
	Sink Sink // receives one event per Report/Deny decision
}

type Protector struct {
	cfg Config
}

func New(cfg Config) *Protector {
	// reasonable defaults
	if cfg.RejectStatus == 0 {
		cfg.RejectStatus = http.StatusForbidden
	}
	if cfg.RejectBody == "" {
		cfg.RejectBody = "cross-site request blocked"
	}
	if cfg.Authorizer == nil && len(cfg.AllowedPaths) > 0 {
		cfg.Authorizer = NewPathAuthorizer(cfg.AllowedPaths...)
	}
	if cfg.Sink == nil {
		cfg.Sink = NoopSink{}
	}
	return &Protector{cfg: cfg}
}
