package locale

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("next:" + r.URL.Path))
	})
}

func TestRequestFromHTTP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/guides?x=1", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "ko"})
	req.Header.Set("Accept-Language", "en-US")

	got := RequestFromHTTP(req, DefaultCookieName)

	assert.Equal(t, Request{Path: "/guides", RawQuery: "x=1", Cookie: "ko", AcceptLanguage: "en-US"}, got)

	req = httptest.NewRequest(http.MethodGet, "/guides/a%2Fb", nil)
	assert.Equal(t, "/guides/a%2Fb", RequestFromHTTP(req, DefaultCookieName).Path)
}

func TestHandler(t *testing.T) {
	r := newTestResolver(t)
	h := r.Handler(okHandler())

	tests := []struct {
		name     string
		method   string
		target   string
		cookie   string
		header   string
		status   int
		location string
	}{
		{name: "prefixed", target: "/en/guides/intro", status: http.StatusOK},
		{name: "default redirect", target: "/guides/intro", status: http.StatusTemporaryRedirect, location: "/en/guides/intro"},
		{name: "cookie", target: "/guides/intro", cookie: "ko", header: "en-US", status: http.StatusTemporaryRedirect, location: "/ko/guides/intro"},
		{name: "header", target: "/guides/intro", header: "ko-KR,en;q=0.9", status: http.StatusTemporaryRedirect, location: "/ko/guides/intro"},
		{name: "query kept", target: "/?utm=x", status: http.StatusTemporaryRedirect, location: "/en/?utm=x"},
		{name: "encoded question mark stays in the path", target: "/guides/a%3Fb", status: http.StatusTemporaryRedirect, location: "/en/guides/a%3Fb"},
		{name: "encoded slash stays in the path", target: "/guides/a%2Fb?tab=1", status: http.StatusTemporaryRedirect, location: "/en/guides/a%2Fb?tab=1"},
		{name: "hangul path is escaped", target: "/가이드", header: "ko", status: http.StatusTemporaryRedirect, location: "/ko/%EA%B0%80%EC%9D%B4%EB%93%9C"},
		{name: "escaped prefixed path passes", target: "/ko/%EA%B0%80%EC%9D%B4%EB%93%9C", status: http.StatusOK},
		{name: "post keeps 307", method: http.MethodPost, target: "/feedback", status: http.StatusTemporaryRedirect, location: "/en/feedback"},
		{name: "next.js assets excluded", target: "/_next/static/chunks/main.js", header: "ko", status: http.StatusOK},
		{name: "internal assets excluded", target: "/_docs/ws", cookie: "ko", status: http.StatusOK},
		{name: "api excluded", target: "/api/health", header: "ko", status: http.StatusOK},
		{name: "static excluded", target: "/assets/site.css", status: http.StatusOK},
		{name: "favicon excluded", target: "/favicon.ico", cookie: "ko", header: "ko", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req := httptest.NewRequest(method, tt.target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
			if tt.location != "" {
				assert.Contains(t, w.Header().Values("Vary"), "Accept-Language")
				assert.Empty(t, w.Body.String())
			} else {
				assert.Equal(t, "next:"+req.URL.Path, w.Body.String())
			}
		})
	}
}

func TestHandlerFollowingRedirectTerminates(t *testing.T) {
	r := newTestResolver(t)
	h := r.Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/middlewares/zustand", nil)
	req.Header.Set("Accept-Language", "ko")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	follow := httptest.NewRequest(http.MethodGet, w.Header().Get("Location"), nil)
	follow.Header.Set("Accept-Language", "ko")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, follow)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "next:/ko/middlewares/zustand", w.Body.String())
}

func TestCustomCookieAndStatus(t *testing.T) {
	cfg := MustConfig([]string{"en", "ko"}, "en",
		WithCookieName("lang"),
		WithRedirectStatus(http.StatusFound),
		WithExcludedPrefixes("/static"),
	)
	h := NewResolver(cfg).Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/guides", nil)
	req.AddCookie(&http.Cookie{Name: "lang", Value: "ko"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/ko/guides", w.Header().Get("Location"))

	// the default exclusions were replaced
	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "/en/api/health", w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/static/app.js", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExcluder(t *testing.T) {
	e := NewExcluder("/api", "/favicon.ico")

	assert.True(t, e.Excluded("/api"))
	assert.True(t, e.Excluded("/api/health"))
	assert.True(t, e.Excluded("/apiary"))
	assert.True(t, e.Excluded("/favicon.ico"))
	assert.False(t, e.Excluded("/guides/api"))
	assert.False(t, e.Excluded("/"))

	called := false
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}
	h := e.Wrap(mw)(okHandler())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.False(t, called)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.True(t, called)
}
