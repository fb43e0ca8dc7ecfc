package locale

import (
	"iter"
	"strings"
)

// AcceptLanguageTags yields the language tags of an Accept-Language header in
// the order they appear. Quality weights are dropped rather than used for
// ranking, and empty entries are skipped. The sequence can be ranged over any
// number of times.
func AcceptLanguageTags(header string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := header
		for rest != "" {
			var part string
			if i := strings.IndexByte(rest, ','); i >= 0 {
				part, rest = rest[:i], rest[i+1:]
			} else {
				part, rest = rest, ""
			}

			if i := strings.IndexByte(part, ';'); i >= 0 {
				part = part[:i]
			}
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if !yield(part) {
				return
			}
		}
	}
}

// primarySubtag returns the language part of a tag: "ko" for "ko-KR".
func primarySubtag(tag string) string {
	if i := strings.IndexByte(tag, '-'); i >= 0 {
		return tag[:i]
	}
	return tag
}

// matchHeader returns the first supported locale matched by the header,
// either exactly or through the tag's primary subtag. Tags compare
// case-insensitively, as in IsSupported.
func (c Config) matchHeader(header string) (string, bool) {
	for tag := range AcceptLanguageTags(header) {
		if loc, ok := c.lookup(tag); ok {
			return loc, true
		}
		if loc, ok := c.lookup(primarySubtag(tag)); ok {
			return loc, true
		}
	}
	return "", false
}
