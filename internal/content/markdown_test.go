package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		block string
		body  string
	}{
		{
			name:  "with block",
			src:   "---\ntitle: A\n---\n# Body\n",
			block: "title: A\n",
			body:  "# Body\n",
		},
		{
			name:  "crlf",
			src:   "---\r\ntitle: A\r\n---\r\nbody",
			block: "title: A\r\n",
			body:  "body",
		},
		{
			name:  "empty block",
			src:   "---\n---\nbody",
			block: "",
			body:  "body",
		},
		{
			name: "no block",
			src:  "# Title\n---\n",
			body: "# Title\n---\n",
		},
		{
			name: "unterminated",
			src:  "---\ntitle: A\n",
			body: "---\ntitle: A\n",
		},
		{
			name: "horizontal rule is not front matter",
			src:  "----\nx",
			body: "----\nx",
		},
		{
			name:  "byte order mark",
			src:   "\ufeff---\ntitle: A\n---\nbody",
			block: "title: A\n",
			body:  "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, body := splitFrontMatter([]byte(tt.src))
			assert.Equal(t, tt.block, string(block))
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestParseFrontMatter(t *testing.T) {
	fm, err := parseFrontMatter([]byte("title: Create a store\ndescription: How to\nextra: ignored\n"))
	require.NoError(t, err)
	assert.Equal(t, FrontMatter{Title: "Create a store", Description: "How to"}, fm)

	fm, err = parseFrontMatter(nil)
	require.NoError(t, err)
	assert.Equal(t, FrontMatter{}, fm)

	_, err = parseFrontMatter([]byte("title: [unclosed\n"))
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render([]byte("# Title\n\n## Getting started\n\n| a | b |\n| - | - |\n| 1 | 2 |\n\n~~old~~\n\n<script>alert(1)</script>\n"))
	require.NoError(t, err)

	assert.Contains(t, out, `<h1 id="title">Title</h1>`)
	assert.Contains(t, out, `<h2 id="getting-started">Getting started</h2>`)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<del>old</del>")
	assert.NotContains(t, out, "<script>")
}

func TestExtractHeadings(t *testing.T) {
	headings, err := ExtractHeadings(`<h1 id="top">Top</h1><p>x</p><h2 id="a">Section <code>A</code></h2><div><h3 id="b">Nested
  B</h3></div><h4 id="c">Too deep</h4>`)
	require.NoError(t, err)

	assert.Equal(t, []Heading{
		{Level: 1, ID: "top", Text: "Top"},
		{Level: 2, ID: "a", Text: "Section A"},
		{Level: 3, ID: "b", Text: "Nested B"},
	}, headings)
}
