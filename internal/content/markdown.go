package content

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	yaml "gopkg.in/yaml.v2"
)

// FrontMatter is the YAML block at the top of a page.
type FrontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Heading is one entry of a page's table of contents.
type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// splitFrontMatter separates a leading "---" delimited block from the body.
// Sources without a complete block are returned unchanged with a nil block.
func splitFrontMatter(src []byte) (block, body []byte) {
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	if !bytes.HasPrefix(src, []byte("---\n")) && !bytes.HasPrefix(src, []byte("---\r\n")) {
		return nil, src
	}
	rest := src[bytes.IndexByte(src, '\n')+1:]

	for off := 0; off < len(rest); {
		line, next := rest[off:], len(rest)
		if end := bytes.IndexByte(rest[off:], '\n'); end >= 0 {
			line, next = rest[off:off+end], off+end+1
		}
		if string(bytes.TrimRight(line, " \t\r")) == "---" {
			return rest[:off], rest[next:]
		}
		off = next
	}
	return nil, src
}

func parseFrontMatter(block []byte) (FrontMatter, error) {
	var fm FrontMatter
	if len(block) == 0 {
		return fm, nil
	}
	err := yaml.Unmarshal(block, &fm)
	return fm, err
}

// Renderer turns markdown into HTML.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a renderer with GitHub flavoured markdown and
// generated heading ids. Raw HTML in sources is not passed through.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithXHTML()),
		),
	}
}

// Render converts body to HTML.
func (r *Renderer) Render(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ExtractHeadings walks rendered HTML and returns its h1-h3 headings in
// document order.
func ExtractHeadings(rendered string) ([]Heading, error) {
	nodes, err := html.ParseFragment(strings.NewReader(rendered), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return nil, err
	}

	var headings []Heading
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			level := 0
			switch n.DataAtom {
			case atom.H1:
				level = 1
			case atom.H2:
				level = 2
			case atom.H3:
				level = 3
			}
			if level > 0 {
				headings = append(headings, Heading{
					Level: level,
					ID:    attr(n, "id"),
					Text:  strings.Join(strings.Fields(textContent(n)), " "),
				})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return headings, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
