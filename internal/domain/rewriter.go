package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	m "github.com/mapforge/levelsweep/internal/model"
)

// Offset is the 3-axis shift applied to position fields. Components are
// decimals, not floats: repeated shifts must not accumulate binary drift.
type Offset struct {
	X, Y, Z decimal.Decimal
}

// ParseOffset parses the three axis values from their textual form, keeping
// the caller's precision.
func ParseOffset(dx, dy, dz string) (Offset, error) {
	var off Offset

	var err error

	if off.X, err = decimal.NewFromString(dx); err != nil {
		return Offset{}, fmt.Errorf("invalid x offset %q: %w", dx, err)
	}

	if off.Y, err = decimal.NewFromString(dy); err != nil {
		return Offset{}, fmt.Errorf("invalid y offset %q: %w", dy, err)
	}

	if off.Z, err = decimal.NewFromString(dz); err != nil {
		return Offset{}, fmt.Errorf("invalid z offset %q: %w", dz, err)
	}

	return off, nil
}

// IsZero reports whether all components are zero.
func (o Offset) IsZero() bool {
	return o.X.IsZero() && o.Y.IsZero() && o.Z.IsZero()
}

// Component returns the axis value for component index i (0..2).
func (o Offset) Component(i int) decimal.Decimal {
	switch i {
	case 0:
		return o.X
	case 1:
		return o.Y
	default:
		return o.Z
	}
}

// FileShift is the planned rewrite of one file: the full original content and
// the content with every eligible position field offset.
type FileShift struct {
	Rel           m.Path
	Before        []byte
	After         []byte
	FieldsChanged int
}

// ShiftPlan aggregates the planned rewrites of an offset operation.
type ShiftPlan struct {
	Files   []FileShift
	Changed int
}

type byteEdit struct {
	start, end int
	text       string
}

// PlanShift computes the rewrite of one mission-group document. It is
// all-or-nothing: any field that cannot be safely located or shifted returns
// a RewriteError and no edit is produced for the file. A null offset yields
// zero changed fields and byte-identical content.
func PlanShift(doc *m.ParsedDocument, src []byte, off Offset) (*FileShift, error) {
	fields, err := collectPositionFields(doc)
	if err != nil {
		return nil, err
	}

	var edits []byteEdit

	changed := 0

	for _, field := range fields {
		fieldChanged := false

		for i, num := range field.Components {
			text, err := shiftRaw(num.Raw, off.Component(i))
			if err != nil {
				return nil, &m.RewriteError{Path: doc.Path, Detail: fmt.Sprintf("field %s: %v", field.Field, err)}
			}

			if text == num.Raw {
				continue
			}

			if num.Start < 0 || num.End > len(src) || num.Start >= num.End {
				return nil, &m.RewriteError{
					Path:   doc.Path,
					Detail: fmt.Sprintf("field %s: stale byte span [%d:%d]", field.Field, num.Start, num.End),
				}
			}

			edits = append(edits, byteEdit{start: num.Start, end: num.End, text: text})
			fieldChanged = true
		}

		if fieldChanged {
			changed++
		}
	}

	return &FileShift{
		Rel:           doc.Path,
		Before:        src,
		After:         applyEdits(src, edits),
		FieldsChanged: changed,
	}, nil
}

// collectPositionFields walks a mission-group document and locates every
// eligible position occurrence: the "position" triplet of each object and the
// leading three components of each "nodes" row. When a key is duplicated the
// last occurrence is the target, the same one parse resolution kept.
func collectPositionFields(doc *m.ParsedDocument) ([]m.PositionField, error) {
	var fields []m.PositionField

	var walk func(node m.Node) error

	walk = func(node m.Node) error {
		switch n := node.(type) {
		case *m.Object:
			if pos := n.Last("position"); pos != nil {
				field, err := tripletField(doc.Path, "position", pos)
				if err != nil {
					return err
				}

				fields = append(fields, field)
			}

			if nodes := n.Last("nodes"); nodes != nil {
				rowFields, err := nodeRowFields(doc.Path, nodes)
				if err != nil {
					return err
				}

				fields = append(fields, rowFields...)
			}

			for _, member := range n.Members {
				// Position-bearing members were handled above; earlier
				// occurrences of a duplicated key do not move.
				if member.Key == "position" || member.Key == "nodes" {
					continue
				}

				if err := walk(member.Value); err != nil {
					return err
				}
			}
		case *m.Array:
			for _, item := range n.Items {
				if err := walk(item); err != nil {
					return err
				}
			}
		}

		return nil
	}

	for _, root := range doc.Roots {
		if err := walk(root); err != nil {
			return nil, err
		}
	}

	return fields, nil
}

func tripletField(docPath m.Path, name string, node m.Node) (m.PositionField, error) {
	arr, ok := node.(*m.Array)
	if !ok || len(arr.Items) < 3 {
		return m.PositionField{}, &m.RewriteError{
			Path:   docPath,
			Detail: fmt.Sprintf("field %s is not a 3-component array", name),
		}
	}

	nums := make([]*m.Num, 3)

	for i := 0; i < 3; i++ {
		num, ok := arr.Items[i].(*m.Num)
		if !ok {
			return m.PositionField{}, &m.RewriteError{
				Path:   docPath,
				Detail: fmt.Sprintf("field %s component %d is not numeric", name, i),
			}
		}

		nums[i] = num
	}

	return m.PositionField{Doc: docPath, Field: name, Components: nums}, nil
}

func nodeRowFields(docPath m.Path, node m.Node) ([]m.PositionField, error) {
	arr, ok := node.(*m.Array)
	if !ok {
		return nil, &m.RewriteError{Path: docPath, Detail: "field nodes is not an array"}
	}

	fields := make([]m.PositionField, 0, len(arr.Items))

	for i, item := range arr.Items {
		field, err := tripletField(docPath, fmt.Sprintf("nodes[%d]", i), item)
		if err != nil {
			return nil, err
		}

		fields = append(fields, field)
	}

	return fields, nil
}

// shiftRaw adds the offset to a numeric literal at full decimal precision.
// The result keeps as many fractional digits as the wider of the source text
// and the offset, so a null offset reproduces the literal exactly and a
// round-trip restores the original value.
func shiftRaw(raw string, off decimal.Decimal) (string, error) {
	if off.IsZero() {
		return raw, nil
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return "", fmt.Errorf("invalid numeric literal %q: %w", raw, err)
	}

	places := int32(0)
	if exp := -value.Exponent(); exp > places {
		places = exp
	}

	if exp := -off.Exponent(); exp > places {
		places = exp
	}

	return value.Add(off).StringFixed(places), nil
}

func applyEdits(src []byte, edits []byteEdit) []byte {
	if len(edits) == 0 {
		out := make([]byte, len(src))
		copy(out, src)

		return out
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var out []byte

	prev := 0

	for _, edit := range edits {
		out = append(out, src[prev:edit.start]...)
		out = append(out, edit.text...)
		prev = edit.end
	}

	out = append(out, src[prev:]...)

	return out
}
