// Package site renders the documentation chrome around each page: the
// document head, navbar, sidebar, language switcher and footer.
package site

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/ayden94/caro-kann-docs/internal/content"
	"github.com/ayden94/caro-kann-docs/internal/i18n"
	"github.com/ayden94/caro-kann-docs/internal/metadata"
	"github.com/ayden94/caro-kann-docs/internal/pagemap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Paths the layout links to.
const (
	StylesheetPath = "/assets/site.css"
	ReloadJSPath   = "/assets/reload.js"
	FaviconPath    = "/favicon.ico"
	SwitchPath     = "/api/locale"
	LiveReloadPath = "/_docs/ws"
)

// Site holds everything the layout needs that does not change per request.
type Site struct {
	Name               string
	LogoText           string
	ProjectLink        string
	DocsRepositoryBase string
	// Feedback adds an "open an issue" link to the footer.
	Feedback   bool
	Locales    []string
	Nav        *pagemap.Map
	Meta       *metadata.Catalog
	Translator *i18n.Translator
	LiveReload bool
}

// LocalePath joins a locale and a route into a public URL path.
func LocalePath(locale, route string) string {
	if route == "" || route == "/" {
		return "/" + locale
	}
	return "/" + locale + route
}

// SwitchURL is the language switcher link that moves the reader to route in
// locale and remembers the choice.
func SwitchURL(locale, route string) string {
	q := url.Values{}
	q.Set("lang", locale)
	q.Set("next", route)
	return SwitchPath + "?" + q.Encode()
}

// DisplayTitle returns the entry title in locale. Entries without a title
// get their name in title case, "create-a-store" becoming "Create A Store".
func DisplayTitle(e *pagemap.Entry, locale string) string {
	if t := e.TitleFor(locale); t != "" {
		return t
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return cases.Title(tag).String(strings.ReplaceAll(e.Name, "-", " "))
}

// DocPage renders page inside the full layout.
func (s *Site) DocPage(locale string, page *content.Page) templ.Component {
	title := page.Title
	if e, ok := s.Nav.Lookup(page.Route); ok && title == "" {
		title = DisplayTitle(e, locale)
	}
	return s.Layout(locale, page.Route, title, page.Description, s.article(locale, page))
}

// NotFound renders the localised 404 page for route.
func (s *Site) NotFound(locale, route string) templ.Component {
	title := s.Translator.T(locale, i18n.NotFoundTitle)
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.printf(`<article class="not-found"><h1>%s</h1>`, esc(title))
		hw.printf(`<p>%s</p>`, esc(s.Translator.TData(locale, i18n.NotFoundBody, map[string]any{"Route": route})))
		hw.printf(`<p><a href="%s">%s</a></p></article>`, esc(LocalePath(locale, "/")), esc(s.Translator.T(locale, i18n.BackHome)))
		return hw.err
	})
	return s.Layout(locale, route, title, "", body)
}

// Layout renders the full HTML document around body.
func (s *Site) Layout(locale, route, pageTitle, description string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		meta := s.Meta.For(locale).WithPageTitle(pageTitle)
		if description != "" {
			meta.Description = description
		}

		hw.printf(`<!DOCTYPE html><html lang="%s" dir="%s">`, esc(locale), i18n.Direction(locale))
		hw.print(`<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		s.head(hw, locale, route, meta)
		hw.print(`</head><body>`)
		s.navbar(hw, locale, route)
		hw.print(`<div class="layout">`)
		s.sidebar(hw, locale, route)
		hw.print(`<main class="content">`)
		if hw.err == nil {
			hw.err = body.Render(ctx, w)
		}
		hw.print(`</main></div>`)
		s.footer(hw, locale)
		if s.LiveReload {
			if hw.err == nil {
				hw.err = LiveReloadScript().Render(ctx, w)
			}
		}
		hw.print(`</body></html>`)
		return hw.err
	})
}

// LiveReloadScript loads the client that reloads the page when content
// changes.
func LiveReloadScript() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<script src="%s" data-ws="%s" defer></script>`, ReloadJSPath, LiveReloadPath)
		return err
	})
}

func (s *Site) head(hw *htmlWriter, locale, route string, meta metadata.Metadata) {
	for _, tag := range meta.Tags() {
		if tag.Element == "title" {
			hw.printf(`<title>%s</title>`, esc(tag.Content))
			continue
		}
		hw.printf(`<meta %s="%s" content="%s">`, tag.Attr, esc(tag.Key), esc(tag.Content))
	}
	for _, loc := range s.Locales {
		hw.printf(`<link rel="alternate" hreflang="%s" href="%s">`, esc(loc), esc(LocalePath(loc, route)))
	}
	hw.printf(`<link rel="icon" type="image/svg+xml" href="%s"><link rel="stylesheet" href="%s">`, FaviconPath, StylesheetPath)
}

func (s *Site) navbar(hw *htmlWriter, locale, route string) {
	hw.print(`<header class="navbar">`)
	hw.printf(`<a class="logo" href="%s"><b>%s</b></a>`, esc(LocalePath(locale, "/")), esc(s.LogoText))
	hw.printf(`<input class="search" type="search" placeholder="%s" aria-label="%s">`,
		esc(s.Translator.T(locale, i18n.SearchPlaceholder)), esc(s.Translator.T(locale, i18n.SearchPlaceholder)))

	hw.printf(`<nav class="locales" aria-label="%s"><ul>`, esc(s.Translator.T(locale, i18n.Language)))
	for _, opt := range i18n.LanguageOptions(s.Locales, locale) {
		if opt.Active {
			hw.printf(`<li class="active"><span lang="%s">%s</span></li>`, esc(opt.Code), esc(opt.Name))
			continue
		}
		hw.printf(`<li><a href="%s" lang="%s" hreflang="%s">%s</a></li>`,
			esc(SwitchURL(opt.Code, route)), esc(opt.Code), esc(opt.Code), esc(opt.Name))
	}
	hw.print(`</ul></nav>`)

	if s.ProjectLink != "" {
		hw.printf(`<a class="project" href="%s" rel="noreferrer" target="_blank">%s</a>`,
			esc(s.ProjectLink), esc(s.Translator.T(locale, i18n.ProjectLink)))
	}
	hw.print(`</header>`)
}

func (s *Site) sidebar(hw *htmlWriter, locale, route string) {
	hw.printf(`<aside class="sidebar" aria-label="%s"><ul>`, esc(s.Translator.T(locale, i18n.Menu)))
	for _, e := range s.Nav.Entries() {
		s.navEntry(hw, locale, route, e)
	}
	hw.print(`</ul></aside>`)
}

func (s *Site) navEntry(hw *htmlWriter, locale, route string, e *pagemap.Entry) {
	class := ""
	switch {
	case e.Route == route && e.IsPage():
		class = "active"
	case e.IsFolder() && e.Contains(route):
		class = "open"
	}
	if class != "" {
		hw.printf(`<li class="%s">`, class)
	} else {
		hw.print(`<li>`)
	}
	hw.printf(`<a href="%s">%s</a>`, esc(LocalePath(locale, e.Route)), esc(DisplayTitle(e, locale)))
	if e.IsFolder() {
		hw.print(`<ul>`)
		for _, c := range e.Children {
			s.navEntry(hw, locale, route, c)
		}
		hw.print(`</ul>`)
	}
	hw.print(`</li>`)
}

func (s *Site) article(locale string, page *content.Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		crumbs := s.Nav.Breadcrumbs(page.Route)
		if len(crumbs) > 1 {
			hw.print(`<nav class="breadcrumbs"><ol>`)
			for _, c := range crumbs {
				hw.printf(`<li>%s</li>`, esc(DisplayTitle(c, locale)))
			}
			hw.print(`</ol></nav>`)
		}

		hw.print(`<article class="doc">`)
		hw.print(page.HTML)
		hw.print(`</article>`)

		if toc := page.TOC(); len(toc) > 0 {
			hw.printf(`<nav class="toc"><p>%s</p><ul>`, esc(s.Translator.T(locale, i18n.OnThisPage)))
			for _, h := range toc {
				hw.printf(`<li class="toc-h%d"><a href="#%s">%s</a></li>`, h.Level, esc(h.ID), esc(h.Text))
			}
			hw.print(`</ul></nav>`)
		}

		prev, next := s.Nav.Neighbors(page.Route)
		if prev != nil || next != nil {
			hw.print(`<nav class="pager">`)
			if prev != nil {
				hw.printf(`<a class="prev" href="%s"><span>%s</span> %s</a>`,
					esc(LocalePath(locale, prev.Route)), esc(s.Translator.T(locale, i18n.Previous)), esc(DisplayTitle(prev, locale)))
			}
			if next != nil {
				hw.printf(`<a class="next" href="%s"><span>%s</span> %s</a>`,
					esc(LocalePath(locale, next.Route)), esc(s.Translator.T(locale, i18n.Next)), esc(DisplayTitle(next, locale)))
			}
			hw.print(`</nav>`)
		}
		return hw.err
	})
}

func (s *Site) footer(hw *htmlWriter, locale string) {
	hw.print(`<footer class="footer">`)
	if s.Feedback && s.DocsRepositoryBase != "" {
		hw.printf(`<a href="%s">%s</a>`,
			esc(strings.TrimSuffix(s.DocsRepositoryBase, "/")+"/issues/new"), esc(s.Translator.T(locale, i18n.DocsRepository)))
	}
	hw.printf(`<span>%s</span></footer>`, esc(s.Name))
}

// htmlWriter keeps the first write error so rendering code can stay linear.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) print(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) printf(format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

func esc(s string) string {
	return templ.EscapeString(s)
}
