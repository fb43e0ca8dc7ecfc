// Package content bundles the Caro-Kann documentation pages so the server
// works without a content directory on disk.
package content

import (
	"embed"
	"io/fs"
)

//go:embed en ko
var files embed.FS

// FS is the bundled documentation tree, rooted at the locale directories.
var FS fs.FS = files
