// Package migrations embeds the schema for each supported database dialect.
package migrations

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed sqlite/*.sql postgres/*.sql mysql/*.sql
var FS embed.FS

// Source returns the migrations directory at path when it exists on disk,
// and the embedded copy otherwise.
func Source(path string) fs.FS {
	if path != "" {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return os.DirFS(path)
		}
	}
	return FS
}
