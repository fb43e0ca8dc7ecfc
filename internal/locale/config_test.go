package locale

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name        string
		locales     []string
		def         string
		opts        []Option
		expectError string
	}{
		{name: "two locales", locales: []string{"en", "ko"}, def: "en"},
		{name: "case and space are normalised", locales: []string{" EN ", "Ko"}, def: "en"},
		{name: "empty set", locales: nil, def: "en", expectError: "empty"},
		{name: "empty code", locales: []string{"en", ""}, def: "en", expectError: "empty locale code"},
		{name: "duplicate code", locales: []string{"en", "EN"}, def: "en", expectError: "duplicate"},
		{name: "default not supported", locales: []string{"en", "ko"}, def: "fr", expectError: "not in the supported set"},
		{name: "default empty", locales: []string{"en"}, def: "", expectError: "default locale is empty"},
		{name: "slash in code", locales: []string{"en/us"}, def: "en/us", expectError: "path segment"},
		{name: "ill-formed tag", locales: []string{"thisisnotalanguage"}, def: "thisisnotalanguage", expectError: "valid language tag"},
		{
			name:        "non redirect status",
			locales:     []string{"en"},
			def:         "en",
			opts:        []Option{WithRedirectStatus(http.StatusOK)},
			expectError: "not a redirect status",
		},
		{
			name:        "relative excluded prefix",
			locales:     []string{"en"},
			def:         "en",
			opts:        []Option{WithExcludedPrefixes("api")},
			expectError: "must start with /",
		},
		{
			name:        "blank cookie name",
			locales:     []string{"en"},
			def:         "en",
			opts:        []Option{WithCookieName("  ")},
			expectError: "cookie name is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(tt.locales, tt.def, tt.opts...)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "en", cfg.Default())
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := MustConfig([]string{"en", "ko"}, "en")

	assert.Equal(t, []string{"en", "ko"}, cfg.Locales())
	assert.Equal(t, DefaultCookieName, cfg.CookieName())
	assert.Equal(t, DefaultExcludedPrefixes, cfg.ExcludedPrefixes())
	assert.Equal(t, http.StatusTemporaryRedirect, cfg.RedirectStatus())
}

func TestConfigAccessorsReturnCopies(t *testing.T) {
	cfg := MustConfig([]string{"en", "ko"}, "en")

	locales := cfg.Locales()
	locales[0] = "xx"
	excluded := cfg.ExcludedPrefixes()
	excluded[0] = "/changed"

	assert.Equal(t, []string{"en", "ko"}, cfg.Locales())
	assert.Equal(t, "/_docs", cfg.ExcludedPrefixes()[0])
}

func TestMustConfigPanics(t *testing.T) {
	assert.Panics(t, func() { MustConfig(nil, "en") })
}

func TestHasLocalePrefix(t *testing.T) {
	cfg := MustConfig([]string{"en", "ko"}, "en")

	tests := []struct {
		path   string
		locale string
		ok     bool
	}{
		{"/en", "en", true},
		{"/en/", "en", true},
		{"/ko/guides/create-a-store", "ko", true},
		{"/", "", false},
		{"/english", "", false},
		{"/kor/guides", "", false},
		{"/guides/en", "", false},
		{"en/guides", "", false},
		{"/EN/guides", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			loc, ok := cfg.HasLocalePrefix(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.locale, loc)
		})
	}
}

func TestStripLocalePrefix(t *testing.T) {
	cfg := MustConfig([]string{"en", "ko"}, "en")

	loc, rest, ok := cfg.StripLocalePrefix("/ko/middlewares/persist")
	require.True(t, ok)
	assert.Equal(t, "ko", loc)
	assert.Equal(t, "/middlewares/persist", rest)

	loc, rest, ok = cfg.StripLocalePrefix("/en")
	require.True(t, ok)
	assert.Equal(t, "en", loc)
	assert.Equal(t, "/", rest)

	_, rest, ok = cfg.StripLocalePrefix("/guides")
	assert.False(t, ok)
	assert.Equal(t, "/guides", rest)
}

func TestIsSupported(t *testing.T) {
	cfg := MustConfig([]string{"en", "ko"}, "en")

	assert.True(t, cfg.IsSupported("ko"))
	assert.True(t, cfg.IsSupported(" KO "))
	assert.False(t, cfg.IsSupported(""))
	assert.False(t, cfg.IsSupported("ko-KR"))
	assert.False(t, cfg.IsSupported("fr"))
}
