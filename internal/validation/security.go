// Package validation checks values that come from outside the server:
// request paths typed on the command line, redirect targets taken from query
// strings and links read from configuration.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	docserrors "github.com/ayden94/caro-kann-docs/internal/errors"
)

// ValidateRequestPath checks a request path given on the command line. It
// may carry a query string.
func ValidateRequestPath(arg string) error {
	if !strings.HasPrefix(arg, "/") {
		return docserrors.ErrInvalidPath(arg, "path must start with /")
	}

	for _, r := range arg {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return docserrors.ErrInvalidPath(arg, fmt.Sprintf("contains whitespace or control character %q", r))
		}
	}

	path, _, _ := strings.Cut(arg, "?")
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return docserrors.ErrPathTraversal(arg)
		}
	}

	return nil
}
