package pagemap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func routes(entries []*Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Route)
	}
	return out
}

func TestDefaultFlatten(t *testing.T) {
	m := Default()

	assert.Equal(t, []string{
		"/",
		"/guides/create-a-store",
		"/guides/derided-state",
		"/guides/updating-state",
		"/guides/selector-functions",
		"/middlewares",
		"/middlewares/persist",
		"/middlewares/reducer",
		"/middlewares/zustand",
		"/middlewares/devtools",
		"/middlewares/composition",
	}, routes(m.Flatten()))
	assert.Len(t, m.Entries(), 3)
}

func TestFolderPages(t *testing.T) {
	m := Default()
	entries := m.Entries()

	guides, middlewares := entries[1], entries[2]
	assert.True(t, guides.IsFolder())
	assert.False(t, guides.IsPage())
	assert.True(t, middlewares.IsFolder())
	assert.True(t, middlewares.IsPage())
	assert.False(t, entries[0].IsFolder())
	assert.True(t, entries[0].IsPage())
}

func TestLookup(t *testing.T) {
	m := Default()

	e, ok := m.Lookup("/guides/create-a-store")
	require.True(t, ok)
	assert.Equal(t, "create-a-store", e.Name)
	assert.Equal(t, "guides", e.Parent().Name)

	e, ok = m.Lookup("/middlewares")
	require.True(t, ok)
	assert.Equal(t, "middlewares", e.Name)
	assert.Nil(t, e.Parent())

	_, ok = m.Lookup("/guides")
	assert.False(t, ok)
}

func TestNeighbors(t *testing.T) {
	m := Default()

	tests := []struct {
		route string
		prev  string
		next  string
	}{
		{"/", "", "/guides/create-a-store"},
		{"/guides/selector-functions", "/guides/updating-state", "/middlewares"},
		{"/middlewares", "/guides/selector-functions", "/middlewares/persist"},
		{"/middlewares/composition", "/middlewares/devtools", ""},
		{"/nope", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			prev, next := m.Neighbors(tt.route)
			if tt.prev == "" {
				assert.Nil(t, prev)
			} else {
				require.NotNil(t, prev)
				assert.Equal(t, tt.prev, prev.Route)
			}
			if tt.next == "" {
				assert.Nil(t, next)
			} else {
				require.NotNil(t, next)
				assert.Equal(t, tt.next, next.Route)
			}
		})
	}
}

func TestBreadcrumbs(t *testing.T) {
	m := Default()

	crumbs := m.Breadcrumbs("/middlewares/zustand")
	require.Len(t, crumbs, 2)
	assert.Equal(t, "middlewares", crumbs[0].Name)
	assert.Equal(t, "zustand", crumbs[1].Name)

	assert.Len(t, m.Breadcrumbs("/"), 1)
	assert.Nil(t, m.Breadcrumbs("/missing"))
}

func TestTitleFor(t *testing.T) {
	m := Default()

	guides := m.Entries()[1]
	assert.Equal(t, "Guides", guides.TitleFor("en"))
	assert.Equal(t, "가이드", guides.TitleFor("ko"))
	assert.Equal(t, "Guides", guides.TitleFor("ja"))

	e, _ := m.Lookup("/middlewares/composition")
	assert.Equal(t, "Middleware Composition", e.TitleFor("ko"))

	assert.Equal(t, "", (&Entry{Name: "x"}).TitleFor("en"))
}

func TestContains(t *testing.T) {
	m := Default()
	middlewares := m.Entries()[2]

	assert.True(t, middlewares.Contains("/middlewares/devtools"))
	assert.True(t, middlewares.Contains("/middlewares"))
	assert.False(t, middlewares.Contains("/guides/derided-state"))
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid yaml", "- name: [\n"},
		{"empty", "[]"},
		{"relative route", "- name: a\n  route: a\n"},
		{"missing name", "- route: /a\n"},
		{"duplicate route", "- name: a\n  route: /a\n- name: b\n  route: /a\n"},
		{"duplicate nested route", "- name: g\n  route: /g\n  children:\n    - name: a\n      route: /x\n- name: b\n  route: /x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	m, err := LoadFile("")
	require.NoError(t, err)
	assert.Len(t, m.Flatten(), 11)

	path := filepath.Join(t.TempDir(), "nav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: home\n  route: /\n  title: Home\n"), 0o644))
	m, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/"}, routes(m.Flatten()))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFlattenReturnsCopy(t *testing.T) {
	m := Default()
	pages := m.Flatten()
	pages[0] = nil
	assert.NotNil(t, m.Flatten()[0])
}
