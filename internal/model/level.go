package model

// FileRecord is one physical file discovered under the level root.
type FileRecord struct {
	// Rel is the path relative to the level root, slash-separated.
	Rel Path
	// Size is the file size in bytes at scan time.
	Size int64
}

// SizeMB returns the file size in megabytes.
func (f FileRecord) SizeMB() float64 {
	return float64(f.Size) / (1024 * 1024)
}

// LevelTree is the root entity for all operations: the physical file listing
// of an unpacked level plus everything parsed out of it. It is built once per
// read and never mutated in place; deletions mark it stale so callers re-read
// before the next operation.
type LevelTree struct {
	// Root is the absolute path of the unpacked level directory.
	Root Path
	// Name is the level name from the descriptor, or the root directory name.
	Name string
	// Files is the full physical listing, ordered by relative path.
	Files []FileRecord
	// Documents are the parsed recognized files, ordered by relative path.
	Documents []*ParsedDocument

	graph *DependencyGraph
	stale bool
}

// Graph returns the cached dependency graph, or nil when none was attached
// or the tree went stale.
func (t *LevelTree) Graph() *DependencyGraph {
	if t.stale {
		return nil
	}

	return t.graph
}

// SetGraph attaches the graph built for the current document set.
func (t *LevelTree) SetGraph(g *DependencyGraph) {
	t.graph = g
}

// Invalidate marks the tree stale after a physical mutation. Any cached graph
// is dropped; operations on a stale tree must fail until the level is re-read.
func (t *LevelTree) Invalidate() {
	t.stale = true
	t.graph = nil
}

// Stale reports whether the physical tree changed since it was read.
func (t *LevelTree) Stale() bool {
	return t.stale
}

// Abs joins a level-relative path onto the root.
func (t *LevelTree) Abs(rel Path) Path {
	return Path(string(t.Root) + "/" + string(rel))
}
