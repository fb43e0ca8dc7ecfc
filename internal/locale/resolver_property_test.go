package locale

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genPath() gopter.Gen {
	return gen.OneGenOf(
		gen.RegexMatch(`^/[a-zA-Z0-9_./-]{0,24}$`),
		gen.OneConstOf("/", "/en", "/ko", "/en/", "/ko/guides", "/english", "/kor", "//x", "/_docs/ws"),
	)
}

func genCookie() gopter.Gen {
	return gen.OneConstOf("", "en", "ko", "KO", "fr", "ko-KR", " en ", "garbage;;")
}

func genHeader() gopter.Gen {
	return gen.OneGenOf(
		gen.OneConstOf("", "ko-KR,en;q=0.9", "en-US", "fr-FR", "*", ",,;", "de;q=1,ko;q=0.1"),
		gen.RegexMatch(`^[a-zA-Z,;=. -]{0,20}$`),
	)
}

// TestResolverProperties checks the invariants of the redirect policy over
// generated requests.
func TestResolverProperties(t *testing.T) {
	cfg := MustConfig([]string{"en", "ko"}, "en")
	r := NewResolver(cfg)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("selected locale is always supported", prop.ForAll(
		func(path, cookie, header string) bool {
			d := r.Resolve(Request{Path: path, Cookie: cookie, AcceptLanguage: header})
			return cfg.IsSupported(d.Locale)
		},
		genPath(), genCookie(), genHeader(),
	))

	properties.Property("redirect target resolves to pass-through", prop.ForAll(
		func(path, cookie, header string) bool {
			d := r.Resolve(Request{Path: path, Cookie: cookie, AcceptLanguage: header})
			if !d.Redirect {
				return true
			}
			again := r.Resolve(Request{Path: d.Location, Cookie: cookie, AcceptLanguage: header})
			return !again.Redirect && again.Locale == d.Locale
		},
		genPath(), genCookie(), genHeader(),
	))

	properties.Property("redirect only prefixes the original path", prop.ForAll(
		func(path, cookie, header string) bool {
			d := r.Resolve(Request{Path: path, Cookie: cookie, AcceptLanguage: header})
			if !d.Redirect {
				_, ok := cfg.HasLocalePrefix(path)
				return ok && d.Location == ""
			}
			return d.Location == "/"+d.Locale+path
		},
		genPath(), genCookie(), genHeader(),
	))

	properties.Property("supported cookie always wins", prop.ForAll(
		func(path, cookie, header string) bool {
			if _, ok := cfg.HasLocalePrefix(path); ok || !cfg.IsSupported(cookie) {
				return true
			}
			d := r.Resolve(Request{Path: path, Cookie: cookie, AcceptLanguage: header})
			return d.Source == SourceCookie && d.Locale == strings.ToLower(strings.TrimSpace(cookie))
		},
		genPath(), genCookie(), genHeader(),
	))

	properties.TestingRun(t)
}
