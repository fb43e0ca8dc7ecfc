// Package metadata holds the per-locale page metadata (title, description and
// open graph preview) rendered into the document head.
package metadata

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	docserrors "github.com/ayden94/caro-kann-docs/internal/errors"
	"gopkg.in/yaml.v3"
)

//go:embed metadata.yaml
var defaultCatalog []byte

type Image struct {
	URL    string `yaml:"url" json:"url"`
	Width  int    `yaml:"width,omitempty" json:"width,omitempty"`
	Height int    `yaml:"height,omitempty" json:"height,omitempty"`
	Alt    string `yaml:"alt,omitempty" json:"alt,omitempty"`
}

type OpenGraph struct {
	Title       string  `yaml:"title,omitempty" json:"title,omitempty"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Locale      string  `yaml:"locale,omitempty" json:"locale,omitempty"`
	Type        string  `yaml:"type,omitempty" json:"type,omitempty"`
	Images      []Image `yaml:"images,omitempty" json:"images,omitempty"`
}

type Metadata struct {
	Title       string    `yaml:"title,omitempty" json:"title,omitempty"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Images      []Image   `yaml:"images,omitempty" json:"images,omitempty"`
	OpenGraph   OpenGraph `yaml:"open_graph,omitempty" json:"openGraph"`
}

// Catalog is the full set of metadata: a common block and one entry per
// locale. Locales without an entry use Fallback.
type Catalog struct {
	Fallback string              `yaml:"fallback"`
	Common   Metadata            `yaml:"common"`
	Locales  map[string]Metadata `yaml:"locales"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("metadata: embedded catalog: %v", err))
	}
	return c
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, docserrors.NewContentError(docserrors.ErrCodeMetadata, "invalid metadata catalog", err)
	}
	if c.Fallback == "" {
		return nil, docserrors.NewContentError(docserrors.ErrCodeMetadata, "metadata catalog has no fallback locale", nil)
	}
	if _, ok := c.Locales[c.Fallback]; !ok {
		return nil, docserrors.NewContentError(docserrors.ErrCodeMetadata,
			fmt.Sprintf("fallback locale %q has no entry", c.Fallback), nil)
	}
	return &c, nil
}

// Read decodes a catalog from r.
func Read(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadFile reads a catalog from path, or returns the embedded catalog when
// path is empty.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, docserrors.NewIOError(docserrors.ErrCodeMetadata, "opening metadata file", err)
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		return nil, docserrors.Wrap(err, docserrors.ErrorTypeContent, docserrors.ErrCodeMetadata, "loading "+path)
	}
	return c, nil
}

// For returns the merged metadata for lang. Locale values override common
// ones field by field, and the open graph block is merged the same way on
// its own. An unknown lang gets the fallback entry.
func (c *Catalog) For(lang string) Metadata {
	entry, ok := c.Locales[lang]
	if !ok {
		entry = c.Locales[c.Fallback]
	}

	out := Metadata{
		Title:       pick(entry.Title, c.Common.Title),
		Description: pick(entry.Description, c.Common.Description),
		Images:      pickImages(entry.Images, c.Common.Images),
		OpenGraph: OpenGraph{
			Title:       pick(entry.OpenGraph.Title, c.Common.OpenGraph.Title),
			Description: pick(entry.OpenGraph.Description, c.Common.OpenGraph.Description),
			Locale:      pick(entry.OpenGraph.Locale, c.Common.OpenGraph.Locale),
			Type:        pick(entry.OpenGraph.Type, c.Common.OpenGraph.Type),
			Images:      pickImages(entry.OpenGraph.Images, c.Common.OpenGraph.Images),
		},
	}
	return out
}

// Validate reports the supported locales that have no entry of their own.
func (c *Catalog) Validate(locales []string) error {
	var missing []string
	for _, l := range locales {
		if _, ok := c.Locales[l]; !ok {
			missing = append(missing, l)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return docserrors.NewContentError(docserrors.ErrCodeMetadata,
		fmt.Sprintf("no metadata for locales %v", missing), nil)
}

// WithPageTitle returns a copy whose title reads "<page> – <site title>".
func (m Metadata) WithPageTitle(page string) Metadata {
	if page == "" || page == m.Title {
		return m
	}
	m.Title = page + " – " + m.Title
	return m
}

// Tag is one element of the document head.
type Tag struct {
	Element string // "title" or "meta"
	Attr    string // "name" or "property" for meta tags
	Key     string
	Content string
}

// Tags lists the head elements for m in render order.
func (m Metadata) Tags() []Tag {
	var tags []Tag
	add := func(attr, key, content string) {
		if content != "" {
			tags = append(tags, Tag{Element: "meta", Attr: attr, Key: key, Content: content})
		}
	}

	if m.Title != "" {
		tags = append(tags, Tag{Element: "title", Content: m.Title})
	}
	add("name", "description", m.Description)

	og := m.OpenGraph
	add("property", "og:title", og.Title)
	add("property", "og:description", og.Description)
	add("property", "og:locale", og.Locale)
	add("property", "og:type", og.Type)
	for _, img := range og.Images {
		add("property", "og:image", img.URL)
		if img.Width > 0 {
			add("property", "og:image:width", strconv.Itoa(img.Width))
		}
		if img.Height > 0 {
			add("property", "og:image:height", strconv.Itoa(img.Height))
		}
		add("property", "og:image:alt", img.Alt)
	}

	for _, img := range m.Images {
		add("name", "twitter:image", img.URL)
		add("name", "twitter:image:alt", img.Alt)
	}
	return tags
}

func pick(override, base string) string {
	if override != "" {
		return override
	}
	return base
}

func pickImages(override, base []Image) []Image {
	src := base
	if len(override) > 0 {
		src = override
	}
	if len(src) == 0 {
		return nil
	}
	return append([]Image(nil), src...)
}
