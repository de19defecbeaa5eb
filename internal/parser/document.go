package parser

import (
	"strings"

	m "github.com/mapforge/levelsweep/internal/model"
)

// DetectKind classifies a level file by name. Unknown files are skipped by
// the pipeline: they stay in the physical listing but are never parsed.
func DetectKind(rel m.Path) m.DocKind {
	lower := rel.Lower()
	base := m.Path(lower).Base()

	switch {
	case lower == "info.json":
		return m.KindDescriptor
	case base == "materials.json" || strings.HasSuffix(base, ".materials.json"):
		return m.KindMaterial
	case strings.HasSuffix(base, ".level.json"):
		return m.KindMissionGroup
	case strings.HasSuffix(base, ".forest4.json") || strings.HasSuffix(base, ".shapes.json"):
		return m.KindMeshRef
	default:
		return m.KindUnknown
	}
}

// Parse turns raw file bytes into a ParsedDocument, appending one diagnostic
// per tolerance event. A nil document with a FormatError means the file
// claimed a recognized format but could not be read at all.
func Parse(rel m.Path, src []byte, diag *m.DiagnosticLog) (*m.ParsedDocument, error) {
	kind := DetectKind(rel)
	if kind == m.KindUnknown {
		return nil, nil
	}

	roots, events, err := ParseAll(src)

	for _, event := range events {
		switch event.Kind {
		case EventComment:
			diag.Appendf(m.SeverityInfo, "%s: stripped comment at line %d", rel, event.Line)
		case EventDuplicateKey:
			diag.Appendf(m.SeverityWarning,
				"%s: duplicate key %q at line %d, using the last occurrence", rel, event.Key, event.Line)
		}
	}

	if err != nil {
		return nil, &m.FormatError{Path: rel, Err: err}
	}

	return &m.ParsedDocument{Path: rel, Kind: kind, Roots: roots}, nil
}

// LevelName extracts the level name from a descriptor document, falling back
// to empty when the descriptor carries no title.
func LevelName(doc *m.ParsedDocument) string {
	if doc == nil || doc.Kind != m.KindDescriptor || len(doc.Roots) == 0 {
		return ""
	}

	obj, ok := doc.Roots[0].(*m.Object)
	if !ok {
		return ""
	}

	if title, ok := obj.Last("title").(*m.Str); ok {
		return title.Val
	}

	return ""
}
