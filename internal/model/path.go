package model

import (
	"path"
	"strings"
)

// Path represents a file system path.
type Path string

// Lower returns the path lowered and slash-normalized. Level packages move
// between case-sensitive and case-insensitive file systems, so every lookup
// key goes through this form.
func (p Path) Lower() string {
	return strings.ToLower(strings.ReplaceAll(string(p), "\\", "/"))
}

// Base returns the last element of the path.
func (p Path) Base() string {
	return path.Base(strings.ReplaceAll(string(p), "\\", "/"))
}

// Dir returns the directory portion of the path.
func (p Path) Dir() Path {
	return Path(path.Dir(strings.ReplaceAll(string(p), "\\", "/")))
}
