package server

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"time"

	"github.com/a-h/templ"
	docserrors "github.com/ayden94/caro-kann-docs/internal/errors"
	"github.com/ayden94/caro-kann-docs/internal/site"
	"github.com/ayden94/caro-kann-docs/internal/validation"
	"github.com/ayden94/caro-kann-docs/internal/version"
)

const localeCookieMaxAge = 365 * 24 * 60 * 60

func (s *DocsServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET "+site.SwitchPath, s.handleLocaleSwitch)
	mux.Handle("GET /assets/", s.handleAssets())
	mux.HandleFunc("GET "+site.FaviconPath, s.handleFavicon)
	if s.hub != nil {
		mux.Handle("GET "+site.LiveReloadPath, s.hub)
	}
	mux.HandleFunc("GET /", s.handleDocs)
	return mux
}

// HealthStatus is the body of /api/health.
type HealthStatus struct {
	Status        string   `json:"status"`
	Version       string   `json:"version"`
	UptimeSeconds int64    `json:"uptime_seconds"`
	Locales       []string `json:"locales"`
	DefaultLocale string   `json:"default_locale"`
	Pages         int      `json:"pages"`
	LiveReload    bool     `json:"live_reload"`
	Clients       int      `json:"clients"`
}

func (s *DocsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{
		Status:        "healthy",
		Version:       version.Get().Short(),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		Locales:       s.locales.Locales(),
		DefaultLocale: s.locales.Default(),
		Pages:         s.store.Count(),
		LiveReload:    s.hub != nil,
	}
	if s.hub != nil {
		health.Clients = s.hub.Clients()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(health); err != nil {
		s.logger.Warn(r.Context(), err, "Failed to encode health response")
	}
}

// handleLocaleSwitch stores the chosen locale in the cookie and sends the
// reader to the same page in that locale. Unsupported choices fall back to
// the default locale.
func (s *DocsServer) handleLocaleSwitch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	loc, ok := s.locales.Match(q.Get("lang"))
	if !ok {
		loc = s.locales.Default()
	}

	next, ok := validation.LocalRedirect(q.Get("next"))
	if !ok {
		next = "/"
	}
	if _, rest, ok := s.locales.StripLocalePrefix(next); ok {
		next = rest
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.locales.CookieName(),
		Value:    loc,
		Path:     "/",
		MaxAge:   localeCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, site.LocalePath(loc, next), http.StatusSeeOther)
}

func (s *DocsServer) handleAssets() http.Handler {
	files := http.StripPrefix("/assets/", http.FileServerFS(site.Assets()))
	cache := "public, max-age=3600"
	if s.hub != nil {
		cache = "no-cache"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cache)
		files.ServeHTTP(w, r)
	})
}

func (s *DocsServer) handleFavicon(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(site.Assets(), "favicon.svg")
	if err != nil {
		s.logger.Error(r.Context(), err, "Favicon missing from assets")
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(data)
}

// handleDocs renders /<locale>/<route>. Paths without a locale prefix only
// get here when the middleware chose not to redirect them, so they are
// answered with the not found page in the default locale.
func (s *DocsServer) handleDocs(w http.ResponseWriter, r *http.Request) {
	loc, route, ok := s.locales.StripLocalePrefix(r.URL.Path)
	if !ok {
		s.renderNotFound(w, r, s.locales.Default(), r.URL.Path)
		return
	}

	page, err := s.store.Page(loc, route)
	if err != nil {
		if docserrors.IsNotFound(err) {
			s.renderNotFound(w, r, loc, route)
			return
		}
		s.logger.Error(r.Context(), err, "Failed to load page", "locale", loc, "route", route)
		status := docserrors.HTTPStatus(err)
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Language", loc)
	templ.Handler(s.site.DocPage(loc, page), templ.WithErrorHandler(s.renderError)).ServeHTTP(w, r)
}

func (s *DocsServer) renderNotFound(w http.ResponseWriter, r *http.Request, loc, route string) {
	w.Header().Set("Content-Language", loc)
	templ.Handler(s.site.NotFound(loc, route),
		templ.WithStatus(http.StatusNotFound),
		templ.WithErrorHandler(s.renderError),
	).ServeHTTP(w, r)
}

func (s *DocsServer) renderError(r *http.Request, err error) http.Handler {
	s.logger.Error(r.Context(), err, "Failed to render page", "path", r.URL.Path)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	})
}
