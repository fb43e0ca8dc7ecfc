package locale

import "strings"

// State is the position of a request in the two-state locale machine.
type State int

const (
	// StateUndecided means the request path carries no locale prefix.
	StateUndecided State = iota
	// StateResolved means the path carries a supported locale prefix, either
	// as received or after the redirect.
	StateResolved
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateUndecided:
		return "undecided"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Source names the signal that chose a locale.
type Source string

const (
	SourcePath    Source = "path"
	SourceCookie  Source = "cookie"
	SourceHeader  Source = "accept-language"
	SourceDefault Source = "default"
)

// Request is a read-only view of the parts of an inbound request the
// resolver looks at. Absent values are empty strings.
type Request struct {
	// Path is the escaped request path, as in url.URL.EscapedPath.
	Path           string
	RawQuery       string
	Cookie         string
	AcceptLanguage string
}

// Decision is the outcome of resolving one request.
type Decision struct {
	// Redirect is false for pass-through.
	Redirect bool
	// Locale is the locale in the path (pass-through) or the selected one.
	Locale string
	// Source is the signal Locale came from.
	Source Source
	// Location is the redirect target: the original path prefixed with
	// /<locale>, query string preserved. Empty on pass-through.
	Location string
	// State is the state the request was found in.
	State State
}

// Resolver applies the locale policy of a Config.
type Resolver struct {
	config Config
}

// NewResolver returns a resolver for cfg.
func NewResolver(cfg Config) *Resolver {
	if len(cfg.locales) == 0 {
		panic("locale: NewResolver called with an unvalidated Config")
	}
	return &Resolver{config: cfg}
}

// Config returns the resolver's configuration.
func (r *Resolver) Config() Config { return r.config }

// Resolve decides whether req passes through or is redirected to a
// locale-prefixed path. It never fails: unusable cookie or header values are
// ignored.
func (r *Resolver) Resolve(req Request) Decision {
	if loc, ok := r.config.HasLocalePrefix(req.Path); ok {
		return Decision{Locale: loc, Source: SourcePath, State: StateResolved}
	}

	loc, src := r.preferred(req)

	path := req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	location := "/" + loc + path
	if req.RawQuery != "" {
		location += "?" + req.RawQuery
	}

	return Decision{
		Redirect: true,
		Locale:   loc,
		Source:   src,
		Location: location,
		State:    StateUndecided,
	}
}

// PreferredLocale returns the locale a visitor would be sent to, ignoring any
// locale already present in the path.
func (r *Resolver) PreferredLocale(req Request) string {
	loc, _ := r.preferred(req)
	return loc
}

func (r *Resolver) preferred(req Request) (string, Source) {
	if loc, ok := r.config.lookup(req.Cookie); ok {
		return loc, SourceCookie
	}
	if req.AcceptLanguage != "" {
		if loc, ok := r.config.matchHeader(req.AcceptLanguage); ok {
			return loc, SourceHeader
		}
	}
	return r.config.defaultLocale, SourceDefault
}
