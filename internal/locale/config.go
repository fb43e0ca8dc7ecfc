// Package locale decides which language a documentation page is served in.
//
// Every page of the site lives under a locale prefix (/en/..., /ko/...). A
// request that arrives without one is redirected exactly once to the prefixed
// path, choosing the locale from, in order:
//
//  1. the locale cookie, when it names a supported locale
//  2. the Accept-Language header, first tag whose language matches
//  3. the configured default locale
//
// The resolver holds no mutable state. A Config is built once at process start
// and shared by every request.
package locale

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

const (
	// DefaultCookieName is the cookie consulted for an explicit locale choice.
	// It keeps the name the site used before the Go server so returning visitors
	// keep their preference.
	DefaultCookieName = "NEXT_LOCALE"

	// DefaultRedirectStatus preserves the request method on redirect.
	DefaultRedirectStatus = http.StatusTemporaryRedirect
)

// DefaultExcludedPrefixes are request paths that never go through the
// resolver: framework and internal assets, API routes, static files and the
// favicon. "/_next" keeps asset links from the previous site out of the
// redirect.
var DefaultExcludedPrefixes = []string{"/_next", "/_docs", "/api", "/assets", "/favicon.ico"}

// Config is the immutable locale configuration. Build it with NewConfig; the
// zero value is not usable.
type Config struct {
	locales        []string
	defaultLocale  string
	cookieName     string
	excluded       []string
	redirectStatus int
}

// Option customises a Config during NewConfig.
type Option func(*Config)

// WithCookieName overrides the locale cookie name.
func WithCookieName(name string) Option {
	return func(c *Config) { c.cookieName = strings.TrimSpace(name) }
}

// WithExcludedPrefixes replaces the excluded path prefixes.
func WithExcludedPrefixes(prefixes ...string) Option {
	return func(c *Config) {
		c.excluded = make([]string, 0, len(prefixes))
		for _, p := range prefixes {
			if p = strings.TrimSpace(p); p != "" {
				c.excluded = append(c.excluded, p)
			}
		}
	}
}

// WithRedirectStatus sets the status code used for locale redirects.
func WithRedirectStatus(status int) Option {
	return func(c *Config) { c.redirectStatus = status }
}

// NewConfig validates and freezes the supported locale set. It is meant to be
// called once at startup; any error is a configuration fault and the process
// should not start.
func NewConfig(locales []string, defaultLocale string, opts ...Option) (Config, error) {
	if len(locales) == 0 {
		return Config{}, fmt.Errorf("locale: supported locale set is empty")
	}

	cfg := Config{
		locales:        make([]string, 0, len(locales)),
		defaultLocale:  normalize(defaultLocale),
		cookieName:     DefaultCookieName,
		excluded:       append([]string(nil), DefaultExcludedPrefixes...),
		redirectStatus: DefaultRedirectStatus,
	}

	seen := make(map[string]struct{}, len(locales))
	for _, raw := range locales {
		code := normalize(raw)
		if code == "" {
			return Config{}, fmt.Errorf("locale: empty locale code in %v", locales)
		}
		if strings.ContainsAny(code, "/?#; ") {
			return Config{}, fmt.Errorf("locale: %q is not usable as a path segment", raw)
		}
		if _, err := language.Parse(code); err != nil {
			return Config{}, fmt.Errorf("locale: %q is not a valid language tag: %w", raw, err)
		}
		if _, dup := seen[code]; dup {
			return Config{}, fmt.Errorf("locale: duplicate locale %q", code)
		}
		seen[code] = struct{}{}
		cfg.locales = append(cfg.locales, code)
	}

	if cfg.defaultLocale == "" {
		return Config{}, fmt.Errorf("locale: default locale is empty")
	}
	if _, ok := seen[cfg.defaultLocale]; !ok {
		return Config{}, fmt.Errorf("locale: default locale %q is not in the supported set %v",
			cfg.defaultLocale, cfg.locales)
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.cookieName == "" {
		return Config{}, fmt.Errorf("locale: cookie name is empty")
	}
	switch cfg.redirectStatus {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
	default:
		return Config{}, fmt.Errorf("locale: %d is not a redirect status", cfg.redirectStatus)
	}
	for _, p := range cfg.excluded {
		if !strings.HasPrefix(p, "/") {
			return Config{}, fmt.Errorf("locale: excluded prefix %q must start with /", p)
		}
	}

	return cfg, nil
}

// MustConfig is NewConfig for package-level fixtures; it panics on error.
func MustConfig(locales []string, defaultLocale string, opts ...Option) Config {
	cfg, err := NewConfig(locales, defaultLocale, opts...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Locales returns the supported locales in configured order.
func (c Config) Locales() []string {
	return append([]string(nil), c.locales...)
}

// Default returns the fallback locale.
func (c Config) Default() string { return c.defaultLocale }

// CookieName returns the name of the locale cookie.
func (c Config) CookieName() string { return c.cookieName }

// ExcludedPrefixes returns the path prefixes that bypass the resolver.
func (c Config) ExcludedPrefixes() []string {
	return append([]string(nil), c.excluded...)
}

// RedirectStatus returns the status code used for locale redirects.
func (c Config) RedirectStatus() int { return c.redirectStatus }

// IsSupported reports whether code names a supported locale. Matching ignores
// case and surrounding whitespace, so a cookie of "KO" or a header tag of
// "KO-KR" selects "ko". Locale codes are case-insensitive in BCP 47.
func (c Config) IsSupported(code string) bool {
	_, ok := c.lookup(code)
	return ok
}

// Match returns the supported locale that code names, in its configured
// spelling. Like IsSupported it ignores case and surrounding whitespace.
func (c Config) Match(code string) (string, bool) {
	return c.lookup(code)
}

// HasLocalePrefix reports whether path is /<locale> or starts with
// /<locale>/ for a supported locale, and returns that locale.
func (c Config) HasLocalePrefix(path string) (string, bool) {
	for _, loc := range c.locales {
		prefix := "/" + loc
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return loc, true
		}
	}
	return "", false
}

// StripLocalePrefix splits a prefixed path into its locale and the remaining
// route. The route always starts with "/".
func (c Config) StripLocalePrefix(path string) (string, string, bool) {
	loc, ok := c.HasLocalePrefix(path)
	if !ok {
		return "", path, false
	}
	rest := strings.TrimPrefix(path, "/"+loc)
	if rest == "" {
		rest = "/"
	}
	return loc, rest, true
}

func (c Config) lookup(code string) (string, bool) {
	code = normalize(code)
	if code == "" {
		return "", false
	}
	for _, loc := range c.locales {
		if loc == code {
			return loc, true
		}
	}
	return "", false
}

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
