// Package i18n translates the user interface strings around the
// documentation pages: navigation labels, the search box and error pages.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

//go:embed locales/*.toml
var messageFiles embed.FS

// Message ids used by the layout.
const (
	SearchPlaceholder = "search_placeholder"
	OnThisPage        = "on_this_page"
	Previous          = "previous"
	Next              = "next"
	Language          = "language"
	Menu              = "menu"
	ProjectLink       = "project_link"
	DocsRepository    = "docs_repository"
	NotFoundTitle     = "not_found_title"
	NotFoundBody      = "not_found_body"
	BackHome          = "back_home"
	PageCount         = "page_count"
)

// Translator looks up UI strings by locale.
type Translator struct {
	bundle   *goi18n.Bundle
	fallback string

	mu         sync.Mutex
	localizers map[string]*goi18n.Localizer
}

// New loads the bundled message files. Strings missing in a locale come
// from fallback.
func New(fallback string) (*Translator, error) {
	return NewFromFS(messageFiles, "locales", fallback)
}

// NewFromFS loads every active.<lang>.toml file in dir of fsys.
func NewFromFS(fsys fs.FS, dir, fallback string) (*Translator, error) {
	tag, err := language.Parse(fallback)
	if err != nil {
		return nil, fmt.Errorf("fallback locale %q: %w", fallback, err)
	}

	bundle := goi18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading message files: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(fsys, path.Join(dir, e.Name())); err != nil {
			return nil, fmt.Errorf("loading %s: %w", e.Name(), err)
		}
	}

	return &Translator{
		bundle:     bundle,
		fallback:   fallback,
		localizers: make(map[string]*goi18n.Localizer),
	}, nil
}

func (t *Translator) localizer(lang string) *goi18n.Localizer {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.localizers[lang]
	if !ok {
		l = goi18n.NewLocalizer(t.bundle, lang, t.fallback)
		t.localizers[lang] = l
	}
	return l
}

// T returns the message id in lang. Unknown ids come back unchanged.
func (t *Translator) T(lang, id string) string {
	return t.TData(lang, id, nil)
}

// TData is T with template data.
func (t *Translator) TData(lang, id string, data map[string]any) string {
	msg, err := t.localizer(lang).Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return id
	}
	return msg
}

// TCount renders a plural message for count.
func (t *Translator) TCount(lang, id string, count int) string {
	msg, err := t.localizer(lang).Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
	if err != nil || msg == "" {
		return id
	}
	return msg
}

// Languages returns the locales that have message files.
func (t *Translator) Languages() []string {
	tags := t.bundle.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.String())
	}
	return out
}

// LanguageName returns the name of code in its own language, for example
// "한국어" for "ko". Codes that do not parse are returned unchanged.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.Self.Name(tag)
	if name == "" {
		return code
	}
	return name
}

// Direction returns "rtl" for right-to-left scripts and "ltr" otherwise.
func Direction(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return "ltr"
	}
	script, _ := tag.Script()
	switch script.String() {
	case "Arab", "Hebr", "Thaa", "Syrc", "Nkoo", "Adlm":
		return "rtl"
	}
	return "ltr"
}

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// LanguageOptions lists locales in order with active marked.
func LanguageOptions(locales []string, active string) []LanguageOption {
	options := make([]LanguageOption, 0, len(locales))
	for _, code := range locales {
		options = append(options, LanguageOption{
			Code:   code,
			Name:   LanguageName(code),
			Active: code == active,
		})
	}
	return options
}
