package site

import (
	"embed"
	"io/fs"
)

//go:embed assets
var assetFiles embed.FS

// Assets returns the stylesheet, live reload client and favicon served
// under /assets/.
func Assets() fs.FS {
	sub, err := fs.Sub(assetFiles, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
