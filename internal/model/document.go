package model

// DocKind identifies the recognized level file formats.
type DocKind string

const (
	// KindDescriptor is the top-level level descriptor (info.json).
	KindDescriptor DocKind = "descriptor"
	// KindMaterial is a material library (*.materials.json).
	KindMaterial DocKind = "material"
	// KindMissionGroup describes placed objects with positional data (*.level.json).
	KindMissionGroup DocKind = "missiongroup"
	// KindMeshRef is the mesh/asset reference family (*.forest4.json, *.shapes.json).
	KindMeshRef DocKind = "meshref"
	// KindUnknown marks files the engine skips entirely.
	KindUnknown DocKind = "unknown"
)

// Node is one structural element of a parsed document. The closed variant set
// lets the extractor and the rewriter switch exhaustively instead of type
// probing arbitrary values.
type Node interface {
	// Value converts the node to a plain Go value (maps, slices, scalars).
	// Duplicate object keys resolve last-wins, matching the parse diagnostics.
	Value() any
}

// Member is one key/value pair of an Object, in document order. Duplicate
// keys are kept so the rewriter can target the same occurrence the parser
// resolved to.
type Member struct {
	Key   string
	Value Node
}

// Object is an ordered member list.
type Object struct {
	Members []Member
}

// Value implements Node with last-wins duplicate resolution.
func (o *Object) Value() any {
	out := make(map[string]any, len(o.Members))
	for _, member := range o.Members {
		out[member.Key] = member.Value.Value()
	}

	return out
}

// Last returns the final member with the given key, or nil. When a key is
// duplicated this is the occurrence that wins.
func (o *Object) Last(key string) Node {
	for i := len(o.Members) - 1; i >= 0; i-- {
		if o.Members[i].Key == key {
			return o.Members[i].Value
		}
	}

	return nil
}

// Array is an ordered item list.
type Array struct {
	Items []Node
}

// Value implements Node.
func (a *Array) Value() any {
	out := make([]any, len(a.Items))
	for i, item := range a.Items {
		out[i] = item.Value()
	}

	return out
}

// Str is a string scalar with its byte span in the source file. The span
// covers the quoted literal including quotes.
type Str struct {
	Val        string
	Start, End int
}

// Value implements Node.
func (s *Str) Value() any { return s.Val }

// Num is a numeric scalar. Raw preserves the source text exactly so offsets
// can be applied at the source's own precision.
type Num struct {
	Raw        string
	Val        float64
	Start, End int
}

// Value implements Node.
func (n *Num) Value() any { return n.Val }

// Bool is a boolean scalar.
type Bool struct {
	Val        bool
	Start, End int
}

// Value implements Node.
func (b *Bool) Value() any { return b.Val }

// Null is a null scalar.
type Null struct {
	Start, End int
}

// Value implements Node.
func (n *Null) Value() any { return nil }

// ParsedDocument is the typed form of one recognized level file. A document
// holds one root per top-level value: plain JSON files have one, line-oriented
// files (mission groups, forest files) have one per line.
type ParsedDocument struct {
	// Path is the document location relative to the level root.
	Path Path
	Kind DocKind
	// Roots are the top-level values in document order.
	Roots []Node
}

// Values returns the plain value of every root, in order.
func (d *ParsedDocument) Values() []any {
	out := make([]any, len(d.Roots))
	for i, root := range d.Roots {
		out[i] = root.Value()
	}

	return out
}
