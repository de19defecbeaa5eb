// Package extract pulls file references out of parsed level documents.
//
// Extraction is deliberately closed: only a fixed set of fields per document
// kind is treated as path-bearing. Matching arbitrary values that happen to
// look like paths would produce false edges from labels and object names.
package extract

import (
	"github.com/ohler55/ojg/jp"

	m "github.com/mapforge/levelsweep/internal/model"
)

// RawRef is one path-shaped value found in a document, before resolution
// against the physical file set.
type RawRef struct {
	// Field is the structural field the value was found under.
	Field string
	// Value is the reference text as written.
	Value string
}

type pattern struct {
	field string
	expr  jp.Expr
}

func compile(fields ...string) []pattern {
	patterns := make([]pattern, 0, len(fields))
	for _, field := range fields {
		patterns = append(patterns, pattern{field: field, expr: jp.MustParseString("$.." + field)})
	}

	return patterns
}

// Path-bearing fields per document kind. Material maps cover the slot names
// of both the legacy and the PBR material pipeline.
var refPatterns = map[m.DocKind][]pattern{
	m.KindDescriptor: {
		{field: "previews", expr: jp.MustParseString("$..previews[*]")},
		{field: "spawnPointPreviews", expr: jp.MustParseString("$..spawnPointPreviews[*]")},
	},
	m.KindMaterial: compile(
		"colorMap", "normalMap", "specularMap", "opacityMap", "emissiveMap",
		"detailMap", "baseColorMap", "roughnessMap", "aoMap", "cubemap",
	),
	m.KindMissionGroup: compile("shapeName", "texture", "globalEnviromentMap"),
	m.KindMeshRef:      compile("shapeFile", "texture"),
}

var materialUseExpr = jp.MustParseString("$..materialName")

var materialDefExpr = jp.MustParseString("$.*.name")

// References yields every path-shaped value of the document, in a fixed
// pattern-then-document order so graph construction stays deterministic.
func References(doc *m.ParsedDocument) []RawRef {
	patterns := refPatterns[doc.Kind]
	if len(patterns) == 0 {
		return nil
	}

	var refs []RawRef

	for _, root := range doc.Values() {
		for _, p := range patterns {
			for _, result := range p.expr.Get(root) {
				if s, ok := result.(string); ok && s != "" {
					refs = append(refs, RawRef{Field: p.field, Value: s})
				}
			}
		}
	}

	return refs
}

// MaterialUses returns the material names a mission-group document refers to.
func MaterialUses(doc *m.ParsedDocument) []string {
	if doc.Kind != m.KindMissionGroup {
		return nil
	}

	var names []string

	for _, root := range doc.Values() {
		for _, result := range materialUseExpr.Get(root) {
			if s, ok := result.(string); ok && s != "" {
				names = append(names, s)
			}
		}
	}

	return names
}

// MaterialDefs returns the material names a material library defines.
func MaterialDefs(doc *m.ParsedDocument) []string {
	if doc.Kind != m.KindMaterial {
		return nil
	}

	var names []string

	for _, root := range doc.Values() {
		for _, result := range materialDefExpr.Get(root) {
			if s, ok := result.(string); ok && s != "" {
				names = append(names, s)
			}
		}
	}

	return names
}
