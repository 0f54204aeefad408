// Package assets holds the engine's built-in shaders, meshes and textures.
package assets

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed shaders meshes textures
var embedded embed.FS

// Embedded returns the built-in assets.
func Embedded() fs.FS {
	return embedded
}

// Open returns root on disk when it is set, the built-in assets otherwise.
func Open(root string) fs.FS {
	if root == "" {
		return embedded
	}
	return os.DirFS(root)
}

// Clean turns a path from a scene file or the OS into an assets-relative
// slash path.
func Clean(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if filepath.IsAbs(path) {
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	return strings.TrimPrefix(s, "assets/")
}
