package domain

import (
	"sort"
	"strings"

	m "github.com/mapforge/levelsweep/internal/model"
)

// ResolveOrphans produces the ordered delete-candidate list: every physical
// file that is neither referenced by an edge nor kept by convention. A
// candidate that also appears in the missing-files log stays listed but is
// not pre-selected: the game itself failed to find it, so removing it cannot
// be told apart from breaking a real reference further.
func ResolveOrphans(tree *m.LevelTree, graph *m.DependencyGraph, missing []string, diag *m.DiagnosticLog) []m.DeleteCandidate {
	reportDuplicateMaterials(graph, diag)
	reportUndefinedMaterials(graph, diag)

	missingSet := normalizeMissing(tree, missing)

	var candidates []m.DeleteCandidate

	for _, file := range graph.Files {
		lower := file.Rel.Lower()
		if graph.IsReferenced(lower) {
			continue
		}

		_, broken := missingSet[lower]

		candidates = append(candidates, m.DeleteCandidate{
			Rel:         file.Rel,
			SizeMB:      file.SizeMB(),
			PreSelected: !broken,
		})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Rel < candidates[j].Rel })

	return candidates
}

// reportDuplicateMaterials warns about material names defined in more than
// one file. The ambiguity creates no delete candidate by itself, but deleting
// either definition can silently change what renders.
func reportDuplicateMaterials(graph *m.DependencyGraph, diag *m.DiagnosticLog) {
	names := make([]string, 0, len(graph.MaterialDefs))
	for name := range graph.MaterialDefs {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		defs := graph.MaterialDefs[name]
		if len(defs) < 2 {
			continue
		}

		defStrs := make([]string, len(defs))
		for i, def := range defs {
			defStrs[i] = string(def)
		}

		diag.Appendf(m.SeverityWarning,
			"material %q defined in %d files: %s", name, len(defs), strings.Join(defStrs, ", "))
	}
}

// reportUndefinedMaterials warns about material names placed objects refer to
// that no material library defines. The objects render untextured in game, so
// a cleanup run is the right moment to surface them.
func reportUndefinedMaterials(graph *m.DependencyGraph, diag *m.DiagnosticLog) {
	names := make([]string, 0, len(graph.MaterialUses))
	for name := range graph.MaterialUses {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if _, ok := graph.MaterialDefs[name]; ok {
			continue
		}

		uses := graph.MaterialUses[name]

		useStrs := make([]string, len(uses))
		for i, use := range uses {
			useStrs[i] = string(use)
		}

		diag.Appendf(m.SeverityWarning,
			"material %q used in %s but defined nowhere", name, strings.Join(useStrs, ", "))
	}
}

// normalizeMissing maps missing-log entries onto lowered level-relative
// paths. Entries may be absolute (containing the level root or a
// "/levels/<name>/" segment) or already level-relative.
func normalizeMissing(tree *m.LevelTree, missing []string) map[string]struct{} {
	rootLower := tree.Root.Lower()
	set := make(map[string]struct{}, len(missing))

	for _, entry := range missing {
		lower := m.Path(entry).Lower()

		if rest, ok := strings.CutPrefix(lower, rootLower); ok {
			lower = strings.TrimPrefix(rest, "/")
		} else if idx := strings.Index(lower, "/levels/"); idx >= 0 {
			rest := lower[idx+len("/levels/"):]
			if _, tail, found := strings.Cut(rest, "/"); found {
				lower = tail
			}
		}

		set[strings.TrimPrefix(lower, "/")] = struct{}{}
	}

	return set
}
