package model

import "sort"

// FileReference is one edge from a referencing document to a physical file.
type FileReference struct {
	// From is the referencing document, relative to the level root.
	From Path
	// Field is the structural field the reference was found under.
	Field string
	// Raw is the reference text as written in the document.
	Raw string
	// Target is the resolved level-relative path of the referenced file.
	Target Path
}

// DependencyGraph aggregates every file reference across the level against
// the full physical listing. It is a pure function of the document set and
// listing: rebuilding from the same inputs yields an identical graph.
type DependencyGraph struct {
	// Files is the physical listing the graph was built against.
	Files []FileRecord
	// Referenced maps the lowered relative path of each referenced file to
	// the sorted set of documents referencing it.
	Referenced map[string][]Path
	// Forced holds lowered relative paths marked referenced by convention
	// (parsed documents, descriptor, keep patterns) rather than by edge.
	Forced map[string]struct{}
	// MaterialDefs maps each material name to the sorted set of documents
	// defining it. More than one entry per name is an ambiguity worth a
	// warning even though it creates no delete candidate.
	MaterialDefs map[string][]Path
	// MaterialUses maps each material name to the sorted set of mission-group
	// documents referring to it by name.
	MaterialUses map[string][]Path
}

// IsReferenced reports whether the lowered relative path is kept by an edge
// or by convention.
func (g *DependencyGraph) IsReferenced(lower string) bool {
	if _, ok := g.Forced[lower]; ok {
		return true
	}

	_, ok := g.Referenced[lower]

	return ok
}

// AddEdge records a reference edge, deduplicating the referencing document.
func (g *DependencyGraph) AddEdge(target Path, from Path) {
	key := target.Lower()

	for _, existing := range g.Referenced[key] {
		if existing == from {
			return
		}
	}

	g.Referenced[key] = append(g.Referenced[key], from)
	sort.Slice(g.Referenced[key], func(i, j int) bool {
		return g.Referenced[key][i] < g.Referenced[key][j]
	})
}

// DeleteCandidate is an unreferenced physical file proposed for removal.
type DeleteCandidate struct {
	// Rel is the candidate path relative to the level root.
	Rel Path
	// SizeMB is the file size in megabytes.
	SizeMB float64
	// PreSelected is false when the candidate also appears in the
	// missing-files log: the game failed to load it, so deleting it cannot
	// be told apart from breaking a real reference further.
	PreSelected bool
}

// PositionField is one located 3-component position occurrence eligible for
// the coordinate offset, referencing the numeric scalars of the parsed
// document it was discovered in.
type PositionField struct {
	// Doc is the owning document, relative to the level root.
	Doc Path
	// Field names the structural field ("position", "nodes[3]").
	Field string
	// Components are the numeric scalars to offset, in x, y, z order.
	Components []*Num
}
