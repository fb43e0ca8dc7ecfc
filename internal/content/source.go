package content

import (
	"io/fs"
	"os"

	embedded "github.com/ayden94/caro-kann-docs/content"
)

// Source returns the file system pages are read from: dir when it exists,
// the bundled documentation otherwise. The second result reports whether
// dir was used.
func Source(dir string) (fs.FS, bool) {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir), true
		}
	}
	return embedded.FS, false
}
