package secfetch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordingSink struct {
	events []Event
}

func (s *recordingSink) Emit(_ context.Context, e Event) {
	s.events = append(s.events, e)
}

func appHandler(p *Protector, called *bool) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		if called != nil {
			*called = true
		}
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/webhook", func(w http.ResponseWriter, r *http.Request) {
		if called != nil {
			*called = true
		}
		w.Write([]byte("hooked"))
	})
	return p.Protect(mux)
}

func crossSiteRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Dest", "empty")
	return req
}

// A request without Fetch Metadata must pass through untouched by default.
func TestMissingMetadataAllowedByDefault(t *testing.T) {
	p := New(Config{})
	called := false

	rec := httptest.NewRecorder()
	appHandler(p, &called).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/submit", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !called {
		t.Fatalf("downstream handler was not invoked")
	}
}

func TestMissingMetadataRejectedWhenConfigured(t *testing.T) {
	p := New(Config{Policy: Policy{RejectMissingMetadata: true}})
	called := false

	rec := httptest.NewRecorder()
	appHandler(p, &called).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/submit", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if called {
		t.Fatalf("downstream handler must not run on deny")
	}
}

// Deny must short-circuit: default 403 with the diagnostic body, downstream
// never invoked, exactly one event emitted.
func TestDenyShortCircuits(t *testing.T) {
	sink := &recordingSink{}
	p := New(Config{Sink: sink})
	called := false

	rec := httptest.NewRecorder()
	appHandler(p, &called).ServeHTTP(rec, crossSiteRequest(http.MethodPost, "/submit"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Result().Body)
	if !strings.Contains(string(body), "cross-site request blocked") {
		t.Fatalf("unexpected rejection body %q", body)
	}
	if called {
		t.Fatalf("downstream handler must not run on deny")
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if ev.Decision != ActionDeny || ev.Reason != ReasonCrossSiteNonNavigation {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Relationship != RelationCrossSite || ev.Mode != ModeCORS || ev.Dest != DestEmpty {
		t.Fatalf("event missing snapshot fields: %+v", ev)
	}
	if ev.Method != http.MethodPost || ev.Path != "/submit" {
		t.Fatalf("event missing request fields: %+v", ev)
	}
}

// A cross-site GET navigation (user clicking a link) must keep working.
func TestCrossSiteNavigationForwarded(t *testing.T) {
	p := New(Config{})
	called := false

	req := httptest.NewRequest(http.MethodGet, "/submit", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Dest", "document")

	rec := httptest.NewRecorder()
	appHandler(p, &called).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !called {
		t.Fatalf("expected navigation to be forwarded, got %d called=%v", rec.Code, called)
	}
}

// Report-only mode must emit the same reason enforcement would, then forward.
func TestReportOnlyForwards(t *testing.T) {
	sink := &recordingSink{}
	p := New(Config{Policy: Policy{ReportOnly: true}, Sink: sink})
	called := false

	rec := httptest.NewRecorder()
	appHandler(p, &called).ServeHTTP(rec, crossSiteRequest(http.MethodPost, "/submit"))

	if rec.Code != http.StatusOK {
		t.Fatalf("report-only must never block, got %d", rec.Code)
	}
	if !called {
		t.Fatalf("downstream handler was not invoked")
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(sink.events))
	}
	if ev := sink.events[0]; ev.Decision != ActionReport || ev.Reason != ReasonCrossSiteNonNavigation {
		t.Fatalf("unexpected event %+v", ev)
	}
}

// Downstream handlers can observe the forwarded verdict.
func TestDecisionInjectedIntoContext(t *testing.T) {
	p := New(Config{Policy: Policy{ReportOnly: true}})

	var got Decision
	var ok bool
	h := p.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = DecisionFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), crossSiteRequest(http.MethodPost, "/submit"))

	if !ok {
		t.Fatalf("decision missing from context")
	}
	if got.Action != ActionReport || got.Reason != ReasonCrossSiteNonNavigation {
		t.Fatalf("unexpected decision %+v", got)
	}
}

func TestAllowedPathsBypassPolicy(t *testing.T) {
	sink := &recordingSink{}
	p := New(Config{AllowedPaths: []string{"/webhook"}, Sink: sink})
	called := false

	rec := httptest.NewRecorder()
	appHandler(p, &called).ServeHTTP(rec, crossSiteRequest(http.MethodPost, "/webhook"))

	if rec.Code != http.StatusOK || !called {
		t.Fatalf("allowed path must bypass the policy, got %d called=%v", rec.Code, called)
	}
	if len(sink.events) != 0 {
		t.Fatalf("no event expected for an allowed path, got %+v", sink.events)
	}

	// everything else still goes through the policy
	recDenied := httptest.NewRecorder()
	appHandler(p, nil).ServeHTTP(recDenied, crossSiteRequest(http.MethodPost, "/submit"))
	if recDenied.Code != http.StatusForbidden {
		t.Fatalf("expected 403 off the allowlist, got %d", recDenied.Code)
	}
}

type denyAllAuthorizer struct{}

func (denyAllAuthorizer) Authorize(*http.Request) AuthorizationDecision { return AuthDeny }

func TestAuthorizerDenyShortCircuits(t *testing.T) {
	sink := &recordingSink{}
	p := New(Config{Authorizer: denyAllAuthorizer{}, Sink: sink})
	called := false

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/submit", nil)
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	appHandler(p, &called).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden || called {
		t.Fatalf("authorizer deny must win over the policy, got %d called=%v", rec.Code, called)
	}
	if len(sink.events) != 1 || sink.events[0].Reason != ReasonAuthorizerDenied {
		t.Fatalf("expected one authorizer_denied event, got %+v", sink.events)
	}
}

func TestCustomRejectResponse(t *testing.T) {
	p := New(Config{RejectStatus: http.StatusTeapot, RejectBody: "nope"})

	rec := httptest.NewRecorder()
	appHandler(p, nil).ServeHTTP(rec, crossSiteRequest(http.MethodPost, "/submit"))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "nope" {
		t.Fatalf("expected custom body, got %q", body)
	}
}

func TestRejectHandlerOverride(t *testing.T) {
	p := New(Config{RejectHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "never")
		w.WriteHeader(http.StatusUnavailableForLegalReasons)
	})})

	rec := httptest.NewRecorder()
	appHandler(p, nil).ServeHTTP(rec, crossSiteRequest(http.MethodPost, "/submit"))

	if rec.Code != http.StatusUnavailableForLegalReasons {
		t.Fatalf("expected 451, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "never" {
		t.Fatalf("custom headers not written")
	}
}

func TestLogSinkWritesEvent(t *testing.T) {
	var buf strings.Builder
	sink := NewLogSink(&buf)

	sink.Emit(context.Background(), Event{
		Decision:     ActionDeny,
		Reason:       ReasonCrossSiteEmbedding,
		Relationship: RelationCrossSite,
		Mode:         ModeNavigate,
		Dest:         DestObject,
		Method:       http.MethodGet,
		Path:         "/profile",
	})

	out := buf.String()
	for _, want := range []string{"fetch_metadata_violation", "cross_site_embedding", "deny", "/profile"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line missing %q: %s", want, out)
		}
	}
}
