package site

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/ayden94/caro-kann-docs/internal/content"
	"github.com/ayden94/caro-kann-docs/internal/i18n"
	"github.com/ayden94/caro-kann-docs/internal/metadata"
	"github.com/ayden94/caro-kann-docs/internal/pagemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSite(t *testing.T) *Site {
	t.Helper()
	tr, err := i18n.New("en")
	require.NoError(t, err)
	return &Site{
		Name:               "Caro-Kann",
		LogoText:           "Caro-Kann",
		ProjectLink:        "https://github.com/ayden94/caro-kann",
		DocsRepositoryBase: "https://github.com/ayden94/caro-kann/",
		Locales:            []string{"en", "ko"},
		Nav:                pagemap.Default(),
		Meta:               metadata.Default(),
		Translator:         tr,
	}
}

func testPage() *content.Page {
	return &content.Page{
		Locale: "en",
		Route:  "/guides/updating-state",
		Title:  "Updating state",
		HTML:   `<h1 id="updating-state">Updating state</h1><h2 id="functional-updates">Functional updates</h2><p>x</p>`,
		Headings: []content.Heading{
			{Level: 1, ID: "updating-state", Text: "Updating state"},
			{Level: 2, ID: "functional-updates", Text: "Functional updates"},
		},
	}
}

func TestLocalePath(t *testing.T) {
	assert.Equal(t, "/en", LocalePath("en", "/"))
	assert.Equal(t, "/ko", LocalePath("ko", ""))
	assert.Equal(t, "/ko/middlewares/persist", LocalePath("ko", "/middlewares/persist"))
}

func TestSwitchURL(t *testing.T) {
	assert.Equal(t, "/api/locale?lang=ko&next=%2Fguides%2Fupdating-state", SwitchURL("ko", "/guides/updating-state"))
}

func TestDisplayTitle(t *testing.T) {
	e := &pagemap.Entry{Name: "create-a-store", Route: "/guides/create-a-store"}
	assert.Equal(t, "Create A Store", DisplayTitle(e, "en"))

	e.Title = "Create a store"
	e.Titles = map[string]string{"ko": "스토어 만들기"}
	assert.Equal(t, "Create a store", DisplayTitle(e, "en"))
	assert.Equal(t, "스토어 만들기", DisplayTitle(e, "ko"))
}

func TestDocPage(t *testing.T) {
	s := testSite(t)

	var b strings.Builder
	err := s.DocPage("en", testPage()).Render(context.Background(), &b)
	require.NoError(t, err)
	got := b.String()

	assert.True(t, strings.HasPrefix(got, `<!DOCTYPE html><html lang="en" dir="ltr">`))
	assert.Contains(t, got, `<title>Updating state – Caro-Kann</title>`)
	assert.Contains(t, got, `<meta property="og:locale" content="en">`)
	assert.Contains(t, got, `<link rel="alternate" hreflang="ko" href="/ko/guides/updating-state">`)
	assert.Contains(t, got, `<a class="logo" href="/en"><b>Caro-Kann</b></a>`)
	assert.Contains(t, got, `placeholder="Search..."`)
	assert.Contains(t, got, `<li class="active"><a href="/en/guides/updating-state">Updating state</a></li>`)
	assert.Contains(t, got, `<li class="open"><a href="/en/guides/create-a-store">Guides</a>`)
	assert.Contains(t, got, `<h2 id="functional-updates">Functional updates</h2>`)
	assert.Contains(t, got, `<li class="toc-h2"><a href="#functional-updates">Functional updates</a></li>`)
	assert.NotContains(t, got, `toc-h1`)
	assert.Contains(t, got, `<a class="prev" href="/en/guides/derided-state"><span>Previous</span> Derided state</a>`)
	assert.Contains(t, got, `<a class="next" href="/en/guides/selector-functions"><span>Next</span> Selector functions</a>`)
	assert.Contains(t, got, `<li>Guides</li><li>Updating state</li>`)
	assert.NotContains(t, got, `/issues/new`)
	assert.NotContains(t, got, ReloadJSPath)
}

func TestFeedbackLink(t *testing.T) {
	s := testSite(t)
	s.Feedback = true

	var b strings.Builder
	require.NoError(t, s.DocPage("ko", testPage()).Render(context.Background(), &b))
	assert.Contains(t, b.String(), `<footer class="footer"><a href="https://github.com/ayden94/caro-kann/issues/new">`)

	s.DocsRepositoryBase = ""
	b.Reset()
	require.NoError(t, s.DocPage("ko", testPage()).Render(context.Background(), &b))
	assert.NotContains(t, b.String(), `/issues/new`)
}

func TestLanguageSwitcher(t *testing.T) {
	s := testSite(t)

	var b strings.Builder
	require.NoError(t, s.DocPage("en", testPage()).Render(context.Background(), &b))
	got := b.String()

	assert.Contains(t, got, `<li class="active"><span lang="en">English</span></li>`)
	assert.Contains(t, got, `href="/api/locale?lang=ko&amp;next=%2Fguides%2Fupdating-state"`)
	assert.Contains(t, got, `한국어</a>`)
}

func TestKoreanChrome(t *testing.T) {
	s := testSite(t)
	page := testPage()
	page.Locale = "ko"

	var b strings.Builder
	require.NoError(t, s.DocPage("ko", page).Render(context.Background(), &b))
	got := b.String()

	assert.Contains(t, got, `<html lang="ko" dir="ltr">`)
	assert.Contains(t, got, `<a href="/ko/guides/create-a-store">가이드</a>`)
	assert.Contains(t, got, `<meta property="og:locale" content="ko">`)
	assert.Contains(t, got, `<a href="/ko">caro-kann 소개</a>`)
}

func TestNotFound(t *testing.T) {
	s := testSite(t)

	var b strings.Builder
	require.NoError(t, s.NotFound("en", "/nope<script>").Render(context.Background(), &b))
	got := b.String()

	assert.Contains(t, got, `<h1>Page not found</h1>`)
	assert.Contains(t, got, `/nope&lt;script&gt;`)
	assert.NotContains(t, got, `/nope<script>`)
	assert.Contains(t, got, `<a href="/en">Back to home</a>`)
}

func TestLiveReload(t *testing.T) {
	s := testSite(t)
	s.LiveReload = true

	var b strings.Builder
	require.NoError(t, s.DocPage("en", testPage()).Render(context.Background(), &b))
	got := b.String()

	assert.Contains(t, got, `<script src="/assets/reload.js" data-ws="/_docs/ws" defer></script></body></html>`)
}

type failingWriter struct{ after int }

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, assert.AnError
	}
	f.after--
	return len(p), nil
}

func TestRenderStopsOnWriteError(t *testing.T) {
	s := testSite(t)
	err := s.DocPage("en", testPage()).Render(context.Background(), &failingWriter{after: 3})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestAssets(t *testing.T) {
	for _, name := range []string{"site.css", "reload.js", "favicon.svg"} {
		data, err := fs.ReadFile(Assets(), name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}

	js, err := fs.ReadFile(Assets(), "reload.js")
	require.NoError(t, err)
	assert.Contains(t, string(js), `msg.type === "reload"`)
}
