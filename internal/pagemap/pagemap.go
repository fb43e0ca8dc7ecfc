// Package pagemap models the documentation navigation tree: which pages
// exist, in which order they are read and how they are grouped.
package pagemap

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	docserrors "github.com/ayden94/caro-kann-docs/internal/errors"
	"gopkg.in/yaml.v3"
)

//go:embed navigation.yaml
var defaultNavigation []byte

// Entry is a page or a folder of pages.
type Entry struct {
	Name     string            `yaml:"name" json:"name"`
	Route    string            `yaml:"route" json:"route"`
	Title    string            `yaml:"title,omitempty" json:"title,omitempty"`
	Titles   map[string]string `yaml:"titles,omitempty" json:"titles,omitempty"`
	Children []*Entry          `yaml:"children,omitempty" json:"children,omitempty"`

	parent *Entry
}

// IsFolder reports whether the entry groups other entries.
func (e *Entry) IsFolder() bool {
	return len(e.Children) > 0
}

// IsPage reports whether the entry has a page of its own. A folder whose
// route points at one of its children is only a link.
func (e *Entry) IsPage() bool {
	if !e.IsFolder() {
		return true
	}
	for _, c := range e.Children {
		if c.Route == e.Route {
			return false
		}
	}
	return true
}

// TitleFor returns the title in locale, falling back to the default title.
// It returns "" when the entry has no title at all.
func (e *Entry) TitleFor(locale string) string {
	if t, ok := e.Titles[locale]; ok && t != "" {
		return t
	}
	return e.Title
}

// Parent returns the folder containing e, or nil at the top level.
func (e *Entry) Parent() *Entry {
	return e.parent
}

// Map is a validated navigation tree.
type Map struct {
	entries []*Entry
	pages   []*Entry
	byRoute map[string]*Entry
}

// Default returns the embedded navigation.
func Default() *Map {
	m, err := Parse(defaultNavigation)
	if err != nil {
		panic(fmt.Sprintf("pagemap: embedded navigation: %v", err))
	}
	return m
}

// Parse decodes and validates a YAML navigation tree.
func Parse(data []byte) (*Map, error) {
	var entries []*Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, docserrors.NewContentError(docserrors.ErrCodeNavigation, "invalid navigation", err)
	}
	return New(entries)
}

// LoadFile reads a navigation tree from path, or returns the embedded one
// when path is empty.
func LoadFile(path string) (*Map, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, docserrors.NewIOError(docserrors.ErrCodeNavigation, "reading navigation file", err)
	}
	return Parse(data)
}

// New indexes entries and validates the result.
func New(entries []*Entry) (*Map, error) {
	m := &Map{entries: entries, byRoute: make(map[string]*Entry)}
	m.index(entries, nil)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Map) index(entries []*Entry, parent *Entry) {
	for _, e := range entries {
		e.parent = parent
		if e.IsPage() {
			m.pages = append(m.pages, e)
			if _, dup := m.byRoute[e.Route]; !dup {
				m.byRoute[e.Route] = e
			}
		}
		m.index(e.Children, e)
	}
}

// Validate checks that every route is absolute and that no two pages share
// a route.
func (m *Map) Validate() error {
	if len(m.pages) == 0 {
		return docserrors.NewContentError(docserrors.ErrCodeNavigation, "navigation has no pages", nil)
	}

	seen := make(map[string]string, len(m.pages))
	var check func([]*Entry) error
	check = func(entries []*Entry) error {
		for _, e := range entries {
			if e.Name == "" {
				return docserrors.NewContentError(docserrors.ErrCodeNavigation,
					fmt.Sprintf("entry with route %q has no name", e.Route), nil)
			}
			if !strings.HasPrefix(e.Route, "/") {
				return docserrors.NewContentError(docserrors.ErrCodeNavigation,
					fmt.Sprintf("route %q of %q must start with /", e.Route, e.Name), nil)
			}
			if e.IsPage() {
				if other, ok := seen[e.Route]; ok {
					return docserrors.NewContentError(docserrors.ErrCodeNavigation,
						fmt.Sprintf("route %q used by both %q and %q", e.Route, other, e.Name), nil)
				}
				seen[e.Route] = e.Name
			}
			if err := check(e.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return check(m.entries)
}

// Entries returns the top-level entries.
func (m *Map) Entries() []*Entry {
	return m.entries
}

// Flatten returns every page in reading order.
func (m *Map) Flatten() []*Entry {
	return append([]*Entry(nil), m.pages...)
}

// Lookup finds the page for route.
func (m *Map) Lookup(route string) (*Entry, bool) {
	e, ok := m.byRoute[route]
	return e, ok
}

// Neighbors returns the pages before and after route in reading order.
// Either may be nil.
func (m *Map) Neighbors(route string) (prev, next *Entry) {
	for i, p := range m.pages {
		if p.Route != route {
			continue
		}
		if i > 0 {
			prev = m.pages[i-1]
		}
		if i+1 < len(m.pages) {
			next = m.pages[i+1]
		}
		return prev, next
	}
	return nil, nil
}

// Breadcrumbs returns the chain of folders leading to route, ending with
// the page itself.
func (m *Map) Breadcrumbs(route string) []*Entry {
	e, ok := m.byRoute[route]
	if !ok {
		return nil
	}
	var chain []*Entry
	for cur := e; cur != nil; cur = cur.parent {
		chain = append([]*Entry{cur}, chain...)
	}
	return chain
}

// Contains reports whether route belongs to e or one of its descendants.
func (e *Entry) Contains(route string) bool {
	if e.Route == route {
		return true
	}
	for _, c := range e.Children {
		if c.Contains(route) {
			return true
		}
	}
	return false
}
