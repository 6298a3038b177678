package sysfs

import "path/filepath"

const DefaultRoot = "/"

// Paths resolves the fixed kernel locations below a configurable root,
// so a synthetic tree can stand in for /sys in tests
type Paths struct {
	Root string
}

func NewPaths(root string) Paths {
	if len(root) <= 0 {
		root = DefaultRoot
	}
	return Paths{Root: root}
}

// Drm is the directory listing the DRM cards, usually /sys/class/drm
func (p Paths) Drm() string {
	return filepath.Join(p.Root, "sys", "class", "drm")
}
