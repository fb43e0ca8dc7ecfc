package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	cfg, err := NewConfig([]string{"en", "ko"}, "en")
	require.NoError(t, err)
	return NewResolver(cfg)
}

func TestResolve(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		name     string
		req      Request
		redirect bool
		locale   string
		source   Source
		location string
	}{
		{
			name:   "prefixed path passes through",
			req:    Request{Path: "/en/guides/intro"},
			locale: "en", source: SourcePath,
		},
		{
			name:   "bare locale passes through",
			req:    Request{Path: "/ko", Cookie: "en"},
			locale: "ko", source: SourcePath,
		},
		{
			name:     "no signals falls back to default",
			req:      Request{Path: "/guides/intro"},
			redirect: true, locale: "en", source: SourceDefault, location: "/en/guides/intro",
		},
		{
			name:     "cookie beats header",
			req:      Request{Path: "/guides/intro", Cookie: "ko", AcceptLanguage: "en-US"},
			redirect: true, locale: "ko", source: SourceCookie, location: "/ko/guides/intro",
		},
		{
			name:     "header used without cookie",
			req:      Request{Path: "/guides/intro", AcceptLanguage: "ko-KR,en;q=0.9"},
			redirect: true, locale: "ko", source: SourceHeader, location: "/ko/guides/intro",
		},
		{
			name:     "unsupported cookie ignored",
			req:      Request{Path: "/guides/intro", Cookie: "de", AcceptLanguage: "ko"},
			redirect: true, locale: "ko", source: SourceHeader, location: "/ko/guides/intro",
		},
		{
			name:     "non-korean header lands on english",
			req:      Request{Path: "/guides/intro", AcceptLanguage: "fr-FR"},
			redirect: true, locale: "en", source: SourceDefault, location: "/en/guides/intro",
		},
		{
			name:     "malformed header ignored",
			req:      Request{Path: "/x", AcceptLanguage: ";;;,,,q=1"},
			redirect: true, locale: "en", source: SourceDefault, location: "/en/x",
		},
		{
			name:     "root path",
			req:      Request{Path: "/"},
			redirect: true, locale: "en", source: SourceDefault, location: "/en/",
		},
		{
			name:     "query string preserved",
			req:      Request{Path: "/middlewares/persist", RawQuery: "tab=api&x=1", Cookie: "ko"},
			redirect: true, locale: "ko", source: SourceCookie, location: "/ko/middlewares/persist?tab=api&x=1",
		},
		{
			name:     "look-alike prefix is not a locale",
			req:      Request{Path: "/english/page"},
			redirect: true, locale: "en", source: SourceDefault, location: "/en/english/page",
		},
		{
			name:     "relative path gets a leading slash",
			req:      Request{Path: "guides"},
			redirect: true, locale: "en", source: SourceDefault, location: "/en/guides",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := r.Resolve(tt.req)

			assert.Equal(t, tt.redirect, d.Redirect)
			assert.Equal(t, tt.locale, d.Locale)
			assert.Equal(t, tt.source, d.Source)
			assert.Equal(t, tt.location, d.Location)
			if tt.redirect {
				assert.Equal(t, StateUndecided, d.State)
			} else {
				assert.Equal(t, StateResolved, d.State)
			}
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	r := newTestResolver(t)

	first := r.Resolve(Request{Path: "/guides/updating-state", AcceptLanguage: "ko"})
	require.True(t, first.Redirect)

	second := r.Resolve(Request{Path: "/ko/guides/updating-state", AcceptLanguage: "en"})
	assert.False(t, second.Redirect)
	assert.Equal(t, StateResolved, second.State)
}

func TestPreferredLocale(t *testing.T) {
	r := newTestResolver(t)

	assert.Equal(t, "ko", r.PreferredLocale(Request{Path: "/en/x", Cookie: "ko"}))
	assert.Equal(t, "en", r.PreferredLocale(Request{}))
}

func TestResolveMoreThanTwoLocales(t *testing.T) {
	cfg := MustConfig([]string{"en", "ko", "ja"}, "en")
	r := NewResolver(cfg)

	d := r.Resolve(Request{Path: "/guides", AcceptLanguage: "ja-JP,ko;q=0.5"})
	assert.Equal(t, "/ja/guides", d.Location)
}

func TestNewResolverRejectsZeroConfig(t *testing.T) {
	assert.Panics(t, func() { NewResolver(Config{}) })
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "undecided", StateUndecided.String())
	assert.Equal(t, "resolved", StateResolved.String())
	assert.Equal(t, "unknown", State(9).String())
}
