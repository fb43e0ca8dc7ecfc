package locale

import (
	"net/http"
	"strings"
)

// RequestFromHTTP builds the resolver's view of r. The path is taken in its
// escaped form so that a redirect reproduces it byte for byte. cookieName
// selects the locale cookie; a missing or unreadable cookie is treated as
// absent.
func RequestFromHTTP(r *http.Request, cookieName string) Request {
	req := Request{
		Path:           r.URL.EscapedPath(),
		RawQuery:       r.URL.RawQuery,
		AcceptLanguage: r.Header.Get("Accept-Language"),
	}
	if c, err := r.Cookie(cookieName); err == nil {
		req.Cookie = c.Value
	}
	return req
}

// Middleware redirects requests without a locale prefix and passes every
// other request to next unchanged. It does not consult the exclusion list;
// use Handler to attach the resolver to a pipeline.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		d := r.Resolve(RequestFromHTTP(req, r.config.cookieName))
		if !d.Redirect {
			next.ServeHTTP(w, req)
			return
		}

		h := w.Header()
		h.Set("Location", d.Location)
		h.Add("Vary", "Cookie")
		h.Add("Vary", "Accept-Language")
		h.Set("Cache-Control", "no-store")
		w.WriteHeader(r.config.redirectStatus)
	})
}

// Handler attaches the resolver to next behind the configured exclusion
// filter. This is the only form in which the resolver should be mounted.
func (r *Resolver) Handler(next http.Handler) http.Handler {
	return r.config.Exclude(r.Middleware)(next)
}

// Excluder lets requests under a set of path prefixes skip a middleware.
type Excluder struct {
	prefixes []string
}

// NewExcluder returns a filter for the given prefixes. Prefixes match raw
// path prefixes, so "/api" also covers "/api-docs".
func NewExcluder(prefixes ...string) Excluder {
	return Excluder{prefixes: append([]string(nil), prefixes...)}
}

// Excluded reports whether path falls under one of the prefixes.
func (e Excluder) Excluded(path string) bool {
	for _, p := range e.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Wrap returns mw composed with the filter: excluded requests go straight to
// the next handler, everything else goes through mw.
func (e Excluder) Wrap(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		guarded := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if e.Excluded(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			guarded.ServeHTTP(w, r)
		})
	}
}

// Exclude wraps mw with the configured exclusion filter.
func (c Config) Exclude(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return NewExcluder(c.excluded...).Wrap(mw)
}
