package domain

import (
	"path"
	"sort"
	"strings"

	"github.com/mapforge/levelsweep/internal/extract"
	m "github.com/mapforge/levelsweep/internal/model"
)

// Extensions probed when a texture reference omits its own, in order.
var textureExtensions = []string{".png", ".dds", ".jpg"}

// BuildGraph aggregates every reference of the parsed documents against the
// physical listing. It is a pure function of its inputs: files and documents
// arrive sorted, edges and indexes are sorted on insert, so the same tree
// always yields the same graph regardless of enumeration order.
func BuildGraph(tree *m.LevelTree, rules KeepRules, diag *m.DiagnosticLog) *m.DependencyGraph {
	g := &m.DependencyGraph{
		Files:        tree.Files,
		Referenced:   make(map[string][]m.Path),
		Forced:       make(map[string]struct{}),
		MaterialDefs: make(map[string][]m.Path),
		MaterialUses: make(map[string][]m.Path),
	}

	index := make(map[string]m.Path, len(tree.Files))
	for _, file := range tree.Files {
		index[file.Rel.Lower()] = file.Rel
	}

	// Parsed documents are structure, not assets: they are kept by
	// convention, as are the keep-rule matches.
	for _, doc := range tree.Documents {
		g.Forced[doc.Path.Lower()] = struct{}{}
	}

	for _, file := range tree.Files {
		if rules.Keeps(file.Rel) {
			g.Forced[file.Rel.Lower()] = struct{}{}
		}
	}

	for _, doc := range tree.Documents {
		for _, ref := range extract.References(doc) {
			target, ok := resolveReference(index, doc.Path, ref)
			if !ok {
				diag.Appendf(m.SeverityWarning,
					"%s: unresolved reference %q in field %q", doc.Path, ref.Value, ref.Field)

				continue
			}

			g.AddEdge(target, doc.Path)
		}

		for _, name := range extract.MaterialDefs(doc) {
			g.MaterialDefs[name] = appendPathOnce(g.MaterialDefs[name], doc.Path)
		}

		for _, name := range extract.MaterialUses(doc) {
			g.MaterialUses[name] = appendPathOnce(g.MaterialUses[name], doc.Path)
		}
	}

	return g
}

func appendPathOnce(paths []m.Path, p m.Path) []m.Path {
	for _, existing := range paths {
		if existing == p {
			return paths
		}
	}

	paths = append(paths, p)
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	return paths
}

// resolveReference maps a raw reference onto a physical file, trying the
// document's own directory first, then the level root. Leading slashes and
// "/levels/<name>/" prefixes are treated as level-root-relative, matching how
// the game resolves them. Comparison is case-insensitive throughout.
func resolveReference(index map[string]m.Path, docPath m.Path, ref extract.RawRef) (m.Path, bool) {
	value := strings.ToLower(strings.ReplaceAll(ref.Value, "\\", "/"))
	value = strings.TrimPrefix(value, "/")

	// "/levels/<name>/art/x.dds" addresses the level root.
	if rest, ok := strings.CutPrefix(value, "levels/"); ok {
		if _, tail, found := strings.Cut(rest, "/"); found {
			value = tail
		}
	}

	candidates := []string{
		path.Join(docPath.Dir().Lower(), value),
		value,
	}

	for _, candidate := range candidates {
		candidate = path.Clean(candidate)

		if target, ok := index[candidate]; ok {
			return target, true
		}

		// Texture fields commonly omit the extension.
		if isTextureField(ref.Field) && path.Ext(candidate) == "" {
			for _, ext := range textureExtensions {
				if target, ok := index[candidate+ext]; ok {
					return target, true
				}
			}
		}
	}

	return "", false
}

func isTextureField(field string) bool {
	return field == "texture" || field == "cubemap" || strings.HasSuffix(field, "Map")
}
