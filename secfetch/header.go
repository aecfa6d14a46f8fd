package secfetch

import "net/http"

// Fetch Metadata request headers consumed by this package.
const (
	HeaderSite = "Sec-Fetch-Site"
	HeaderMode = "Sec-Fetch-Mode"
	HeaderDest = "Sec-Fetch-Dest"
	HeaderUser = "Sec-Fetch-User"
)

// Site is the value of the Sec-Fetch-Site header. The empty string means the
// header was absent; SiteUnknown means it carried a value this package does
// not recognize.
type Site string

const (
	SiteSameOrigin Site = "same-origin"
	SiteSameSite   Site = "same-site"
	SiteCrossSite  Site = "cross-site"
	SiteNone       Site = "none"
	SiteUnknown    Site = "unknown"
)

// Mode is the value of the Sec-Fetch-Mode header.
type Mode string

const (
	ModeNavigate       Mode = "navigate"
	ModeNestedNavigate Mode = "nested-navigate"
	ModeCORS           Mode = "cors"
	ModeNoCORS         Mode = "no-cors"
	ModeSameOrigin     Mode = "same-origin"
	ModeWebSocket      Mode = "websocket"
	ModeUnknown        Mode = "unknown"
)

// Dest is the value of the Sec-Fetch-Dest header. Only the embeddable
// destinations are enumerated here; every other recognized destination
// (document, script, image, ...) is carried through verbatim since the
// policy never distinguishes between them.
type Dest string

const (
	DestDocument    Dest = "document"
	DestEmpty       Dest = "empty"
	DestFrame       Dest = "frame"
	DestIframe      Dest = "iframe"
	DestObject      Dest = "object"
	DestEmbed       Dest = "embed"
	DestFencedFrame Dest = "fencedframe"
)

var knownSites = map[Site]bool{
	SiteSameOrigin: true,
	SiteSameSite:   true,
	SiteCrossSite:  true,
	SiteNone:       true,
}

var knownModes = map[Mode]bool{
	ModeNavigate:       true,
	ModeNestedNavigate: true,
	ModeCORS:           true,
	ModeNoCORS:         true,
	ModeSameOrigin:     true,
	ModeWebSocket:      true,
}

// embeddableDests are the destinations that load the response inside another
// document. Cross-site requests for these are denied before the navigation
// exception is considered.
var embeddableDests = map[Dest]bool{
	DestFrame:       true,
	DestIframe:      true,
	DestObject:      true,
	DestEmbed:       true,
	DestFencedFrame: true,
}

// Snapshot is the per-request view of everything the policy evaluates. It is
// built once by the middleware and never mutated afterwards.
type Snapshot struct {
	Site   Site
	Mode   Mode
	Dest   Dest
	User   bool   // Sec-Fetch-User: ?1 was present
	Origin string // raw Origin header, "" if absent
	Method string

	// Receiving endpoint, used only by the Origin fallback.
	Host   string
	Secure bool
}

// FromRequest captures the Fetch Metadata headers of r into a Snapshot.
// Absent headers stay zero-valued; unrecognized site/mode values degrade to
// the explicit unknown variants rather than producing an error.
func FromRequest(r *http.Request) Snapshot {
	return Snapshot{
		Site:   parseSite(r.Header.Get(HeaderSite)),
		Mode:   parseMode(r.Header.Get(HeaderMode)),
		Dest:   Dest(r.Header.Get(HeaderDest)),
		User:   r.Header.Get(HeaderUser) == "?1",
		Origin: r.Header.Get("Origin"),
		Method: r.Method,
		Host:   r.Host,
		Secure: r.TLS != nil,
	}
}

func parseSite(v string) Site {
	if v == "" {
		return ""
	}
	if s := Site(v); knownSites[s] {
		return s
	}
	return SiteUnknown
}

func parseMode(v string) Mode {
	if v == "" {
		return ""
	}
	if m := Mode(v); knownModes[m] {
		return m
	}
	return ModeUnknown
}

// navigational reports whether the request loads a browsing context rather
// than a subresource.
func (m Mode) navigational() bool {
	return m == ModeNavigate || m == ModeNestedNavigate
}

// embeddable reports whether the destination places the response inside
// another document.
func (d Dest) embeddable() bool {
	return embeddableDests[d]
}
