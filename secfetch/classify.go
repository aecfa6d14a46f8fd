package secfetch

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Relationship between the requesting context and the receiving endpoint.
type Relationship string

const (
	RelationSameOrigin Relationship = "same-origin"
	RelationSameSite   Relationship = "same-site"
	RelationCrossSite  Relationship = "cross-site"
	// RelationNone means the request was user-initiated (typed URL, bookmark)
	// rather than triggered by another page.
	RelationNone Relationship = "none"
	// RelationUnknown means neither Sec-Fetch-Site nor Origin gave enough
	// information to classify the request.
	RelationUnknown Relationship = "unknown"
)

// Relationship classifies the snapshot. When Sec-Fetch-Site is present it is
// authoritative and returned verbatim: the browser computed it, and it is
// more trustworthy than any Origin-vs-host comparison we could do here.
// Otherwise the classification falls back to comparing the Origin header
// against the receiving host.
func (s Snapshot) Relationship() Relationship {
	switch s.Site {
	case SiteSameOrigin:
		return RelationSameOrigin
	case SiteSameSite:
		return RelationSameSite
	case SiteCrossSite:
		return RelationCrossSite
	case SiteNone:
		return RelationNone
	case SiteUnknown:
		return RelationUnknown
	}
	return classifyOrigin(s)
}

// classifyOrigin compares the Origin header against the receiving
// scheme/host/port: an exact match is same-origin, a shared registrable
// domain is same-site, anything else is cross-site. A missing Origin on a
// navigational request is treated like the header's own "none" value, since
// that is exactly what a typed URL or link click looks like in a browser
// that predates Fetch Metadata; on a non-navigational request it yields
// RelationUnknown.
func classifyOrigin(s Snapshot) Relationship {
	if s.Origin == "" || strings.EqualFold(s.Origin, "null") {
		if s.Mode.navigational() {
			return RelationNone
		}
		return RelationUnknown
	}

	u, err := url.Parse(s.Origin)
	if err != nil || u.Hostname() == "" {
		return RelationUnknown
	}

	scheme := "http"
	if s.Secure {
		scheme = "https"
	}

	if strings.EqualFold(u.Scheme, scheme) && hostPortEqual(u.Host, s.Host, scheme) {
		return RelationSameOrigin
	}
	if registrableDomain(u.Hostname()) == registrableDomain(hostname(s.Host)) {
		return RelationSameSite
	}
	return RelationCrossSite
}

// hostPortEqual compares host[:port] pairs, normalizing the default port of
// the given scheme so that "example.com" and "example.com:443" match on
// https.
func hostPortEqual(a, b, scheme string) bool {
	return strings.EqualFold(normalizeHostPort(a, scheme), normalizeHostPort(b, scheme))
}

func normalizeHostPort(hostport, scheme string) string {
	host, port := splitHostPort(hostport)
	if port == "" {
		if scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}
	return host + ":" + port
}

func hostname(hostport string) string {
	host, _ := splitHostPort(hostport)
	return host
}

// splitHostPort is a lenient net.SplitHostPort: a missing port is not an
// error, and IPv6 brackets are preserved in the host part.
func splitHostPort(hostport string) (host, port string) {
	i := strings.LastIndexByte(hostport, ':')
	if i < 0 || strings.IndexByte(hostport[i:], ']') >= 0 {
		return hostport, ""
	}
	return hostport[:i], hostport[i+1:]
}

// registrableDomain returns the eTLD+1 of host, falling back to the host
// itself when the public suffix list has no answer (IP literals, localhost,
// single-label hosts).
func registrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}
