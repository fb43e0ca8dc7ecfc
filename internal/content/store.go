// Package content loads the markdown documentation tree and serves rendered
// pages by locale and route.
//
// Pages live at <locale>/<route>.md or <locale>/<route>/index.md inside an
// fs.FS. A store keeps the rendered pages in memory and can be reloaded
// while requests are being served.
package content

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	docserrors "github.com/ayden94/caro-kann-docs/internal/errors"
	"github.com/ayden94/caro-kann-docs/internal/logging"
)

// Page is one rendered documentation page.
type Page struct {
	Locale      string    `json:"locale"`
	Route       string    `json:"route"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	HTML        string    `json:"-"`
	Headings    []Heading `json:"headings,omitempty"`
	Source      string    `json:"source"`
}

// TOC returns the h2 and h3 headings used for the "on this page" list.
func (p *Page) TOC() []Heading {
	var toc []Heading
	for _, h := range p.Headings {
		if h.Level >= 2 && h.ID != "" {
			toc = append(toc, h)
		}
	}
	return toc
}

// Store holds the rendered pages of every locale.
type Store struct {
	fsys     fs.FS
	locales  []string
	renderer *Renderer
	logger   logging.Logger

	mu    sync.RWMutex
	pages map[string]map[string]*Page
}

// NewStore creates an empty store reading from fsys. Call Load before
// serving.
func NewStore(fsys fs.FS, locales []string, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		fsys:     fsys,
		locales:  append([]string(nil), locales...),
		renderer: NewRenderer(),
		logger:   logger.WithComponent("content"),
		pages:    make(map[string]map[string]*Page),
	}
}

// Load reads and renders every page. On error the previously loaded pages
// stay in place.
func (s *Store) Load(ctx context.Context) error {
	op := logging.StartOperation(s.logger, "content.load")

	pages, err := s.build(ctx)
	if err != nil {
		op.EndWithError(ctx, err)
		return err
	}

	s.mu.Lock()
	s.pages = pages
	s.mu.Unlock()

	op.End(ctx, "pages", countPages(pages))
	return nil
}

// Reload is Load under the name the file watcher uses.
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *Store) build(ctx context.Context) (map[string]map[string]*Page, error) {
	pages := make(map[string]map[string]*Page, len(s.locales))

	for _, loc := range s.locales {
		byRoute := make(map[string]*Page)
		pages[loc] = byRoute

		if _, err := fs.Stat(s.fsys, loc); err != nil {
			s.logger.Warn(ctx, err, "No content for locale", "locale", loc)
			continue
		}

		err := fs.WalkDir(s.fsys, loc, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			name := d.Name()
			if d.IsDir() {
				if p != loc && strings.HasPrefix(name, ".") {
					return fs.SkipDir
				}
				return nil
			}
			if strings.HasPrefix(name, ".") || path.Ext(name) != ".md" {
				return nil
			}

			route := RouteFor(strings.TrimPrefix(p, loc+"/"))
			if prev, dup := byRoute[route]; dup {
				return docserrors.NewContentError(docserrors.ErrCodeInvalidPath,
					fmt.Sprintf("route %s defined by both %s and %s", route, prev.Source, p), nil).WithLocale(loc)
			}

			page, err := s.loadPage(loc, route, p)
			if err != nil {
				return err
			}
			byRoute[route] = page
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return pages, nil
}

func (s *Store) loadPage(loc, route, file string) (*Page, error) {
	src, err := fs.ReadFile(s.fsys, file)
	if err != nil {
		return nil, docserrors.NewIOError(docserrors.ErrCodeInternalError, "reading page", err).WithLocation(file, 0)
	}

	block, body := splitFrontMatter(src)
	fm, err := parseFrontMatter(block)
	if err != nil {
		return nil, docserrors.NewContentError(docserrors.ErrCodeFrontMatter, "invalid front matter", err).
			WithLocale(loc).WithLocation(file, 0)
	}

	rendered, err := s.renderer.Render(body)
	if err != nil {
		return nil, docserrors.NewContentError(docserrors.ErrCodeRender, "rendering markdown", err).
			WithLocale(loc).WithLocation(file, 0)
	}

	headings, err := ExtractHeadings(rendered)
	if err != nil {
		return nil, docserrors.NewContentError(docserrors.ErrCodeRender, "reading headings", err).
			WithLocale(loc).WithLocation(file, 0)
	}

	title := fm.Title
	if title == "" {
		for _, h := range headings {
			if h.Level == 1 {
				title = h.Text
				break
			}
		}
	}

	return &Page{
		Locale:      loc,
		Route:       route,
		Title:       title,
		Description: fm.Description,
		HTML:        rendered,
		Headings:    headings,
		Source:      file,
	}, nil
}

// RouteFor maps a file path relative to the locale directory to its route.
// "index.md" maps to "/" and "guides/index.md" to "/guides".
func RouteFor(rel string) string {
	rel = strings.TrimSuffix(rel, ".md")
	if rel == "index" {
		return "/"
	}
	rel = strings.TrimSuffix(rel, "/index")
	return "/" + rel
}

// Page returns the page for route in locale.
func (s *Store) Page(locale, route string) (*Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byRoute, ok := s.pages[locale]
	if !ok {
		return nil, docserrors.ErrUnsupportedLocale(locale)
	}
	if route == "" {
		route = "/"
	}
	if len(route) > 1 {
		route = strings.TrimSuffix(route, "/")
	}
	p, ok := byRoute[route]
	if !ok {
		return nil, docserrors.ErrPageNotFound(locale, route)
	}
	return p, nil
}

// Routes returns the sorted routes available in locale.
func (s *Store) Routes(locale string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	routes := make([]string, 0, len(s.pages[locale]))
	for r := range s.pages[locale] {
		routes = append(routes, r)
	}
	sort.Strings(routes)
	return routes
}

// Count returns the number of pages across all locales.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return countPages(s.pages)
}

// Missing lists the routes from want that have no page in locale.
func (s *Store) Missing(locale string, want []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var missing []string
	for _, r := range want {
		if _, ok := s.pages[locale][r]; !ok {
			missing = append(missing, r)
		}
	}
	return missing
}

func countPages(pages map[string]map[string]*Page) int {
	n := 0
	for _, byRoute := range pages {
		n += len(byRoute)
	}
	return n
}
