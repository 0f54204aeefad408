package prefabs

import (
	"strings"

	"github.com/milk9111/alphaengine/asset"
)

// NewWatcher reports scene and script edits under Dir.
func NewWatcher() (*asset.Watcher, error) {
	return asset.NewWatcher(Dir, ".yaml", ".yml", ".tengo")
}

// IsScene reports whether a path reported by the watcher is a scene file.
func IsScene(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}
