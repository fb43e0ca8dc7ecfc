package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL checks a link rendered into pages, such as the project link.
// Only absolute http and https URLs with a host are accepted.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %q (only http/https allowed)", parsed.Scheme)
	}

	// Characters that break out of an HTML attribute
	for _, char := range []string{"\"", "'", "<", ">", "`", "\\", "\n", "\r", " "} {
		if strings.Contains(rawURL, char) {
			return fmt.Errorf("URL contains forbidden character %q", char)
		}
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}

	return nil
}

// LocalRedirect returns the escaped path of next when it is safe to redirect
// to: a path on this site, not a protocol-relative or absolute URL. The query
// and fragment are dropped.
func LocalRedirect(next string) (string, bool) {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "", false
	}
	for _, r := range next {
		if r < 0x20 || r == 0x7f {
			return "", false
		}
	}

	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return "", false
	}
	if strings.HasPrefix(u.Path, "//") {
		return "", false
	}
	return u.EscapedPath(), true
}
