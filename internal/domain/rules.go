// Package domain provides the core engine for level analysis, cleanup and
// coordinate shifting.
package domain

import (
	"fmt"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/mapforge/levelsweep/internal/adapter"
	m "github.com/mapforge/levelsweep/internal/model"
)

// RulesFileName is the optional per-level rules file read from the level root.
const RulesFileName = "levelsweep.rules.yaml"

// KeepRules configures which paths are forced referenced and which
// directories are never scanned.
type KeepRules struct {
	// Keep lists glob patterns (matched against the relative path and
	// against the base name) that are always treated as referenced. Core
	// descriptors and this tool's own log output live here so a cleanup can
	// never propose deleting them.
	Keep []string `yaml:"keep"`
	// Exclude lists directory names that are never scanned.
	Exclude []string `yaml:"exclude"`
}

// DefaultKeepRules returns the built-in rule set.
func DefaultKeepRules() KeepRules {
	return KeepRules{
		Keep:    []string{"info.json", "*.level.json", "levelsweep_*.log"},
		Exclude: []string{".git"},
	}
}

// LoadKeepRules merges the defaults, the configured extras, and the optional
// per-level rules file at the level root.
func LoadKeepRules(fs adapter.LevelFSAdapter, root m.Path, extraKeep, extraExclude []string) (KeepRules, error) {
	rules := DefaultKeepRules()
	rules.Keep = append(rules.Keep, extraKeep...)
	rules.Exclude = append(rules.Exclude, extraExclude...)

	rulesPath := m.Path(string(root) + "/" + RulesFileName)
	if !fs.Exists(rulesPath) {
		return rules, nil
	}

	raw, err := fs.ReadFile(rulesPath)
	if err != nil {
		return rules, fmt.Errorf("read %s: %w", RulesFileName, err)
	}

	var fileRules KeepRules
	if err := yaml.Unmarshal(raw, &fileRules); err != nil {
		return rules, fmt.Errorf("parse %s: %w", RulesFileName, err)
	}

	rules.Keep = append(rules.Keep, fileRules.Keep...)
	rules.Exclude = append(rules.Exclude, fileRules.Exclude...)

	return rules, nil
}

// Keeps reports whether the relative path matches a keep pattern.
func (r KeepRules) Keeps(rel m.Path) bool {
	lower := rel.Lower()
	base := path.Base(lower)

	for _, pattern := range r.Keep {
		if ok, _ := path.Match(pattern, lower); ok {
			return true
		}

		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}

	return false
}

// Excludes reports whether a directory name is never scanned.
func (r KeepRules) Excludes(dirName string) bool {
	for _, name := range r.Exclude {
		if name == dirName {
			return true
		}
	}

	return false
}
