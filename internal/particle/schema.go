// Package particle implements the struct-of-arrays particle model:
// a schema-driven Array of per-particle fields, non-owning Views onto
// individual particles, the hierarchical PartVec partition label, and
// the Adjacency neighbor-list container spatial indexing populates.
package particle

import (
	"github.com/bluetit/solver/internal/core"
	"github.com/bluetit/solver/internal/data"
)

// FieldStorageKind distinguishes a per-particle ("variable") field
// from a whole-array ("constant", broadcast) field.
type FieldStorageKind uint8

const (
	Variable FieldStorageKind = iota
	Constant
)

// FieldSpec names one entry in a Schema: a field name, its on-disk
// DataType, and whether it is stored per-particle or broadcast.
type FieldSpec struct {
	Name string
	Type data.DataType
	Kind FieldStorageKind
}

// Schema is the ordered field set an Array is built from — the
// dynamic-dispatch stand-in for the source's compile-time field-tag
// tuples (spec.md §9's design note names this tradeoff explicitly).
type Schema struct {
	fields []FieldSpec
	byName map[string]int
}

// NewSchema builds a Schema from an ordered field list. Duplicate
// names are a contract violation.
func NewSchema(fields ...FieldSpec) *Schema {
	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		_, dup := byName[f.Name]
		core.Assert(!dup, "particle: duplicate field name %q in schema", f.Name)
		byName[f.Name] = i
	}
	return &Schema{fields: append([]FieldSpec(nil), fields...), byName: byName}
}

// Fields returns the schema's field list in declaration order.
func (s *Schema) Fields() []FieldSpec { return s.fields }

// Lookup returns the FieldSpec for name, if present.
func (s *Schema) Lookup(name string) (FieldSpec, bool) {
	i, ok := s.byName[name]
	if !ok {
		return FieldSpec{}, false
	}
	return s.fields[i], true
}

// parinfoField is the name of the one schema field with no numeric
// DataType counterpart in R — it holds a PartVec, not an R/Vec[R]/
// Mat[R] value, and Array treats it as a dedicated column rather than
// going through the generic Field[T] machinery.
const parinfoField = "parinfo"

// StandardSchema registers spec.md §4.4's required standard fields
// for a dim-dimensional particle array.
func StandardSchema(dim int) *Schema {
	f64 := data.KindF64
	return NewSchema(
		FieldSpec{Name: "r", Type: data.Vector(f64, dim), Kind: Variable},
		FieldSpec{Name: "v", Type: data.Vector(f64, dim), Kind: Variable},
		FieldSpec{Name: "rho", Type: data.Scalar(f64), Kind: Variable},
		FieldSpec{Name: "p", Type: data.Scalar(f64), Kind: Variable},
		FieldSpec{Name: "m", Type: data.Scalar(f64), Kind: Variable},
		FieldSpec{Name: "h", Type: data.Scalar(f64), Kind: Variable},
		FieldSpec{Name: "cs", Type: data.Scalar(f64), Kind: Variable},
		FieldSpec{Name: "u", Type: data.Scalar(f64), Kind: Variable},
		FieldSpec{Name: "du_dt", Type: data.Scalar(f64), Kind: Variable},
		FieldSpec{Name: "mu", Type: data.Scalar(f64), Kind: Variable},
		FieldSpec{Name: "kappa", Type: data.Scalar(f64), Kind: Variable},
		FieldSpec{Name: "alpha", Type: data.Scalar(f64), Kind: Variable},
		FieldSpec{Name: "dalpha_dt", Type: data.Scalar(f64), Kind: Variable},
		FieldSpec{Name: "grad_v", Type: data.Matrix(f64, dim), Kind: Variable},
		FieldSpec{Name: "div_v", Type: data.Scalar(f64), Kind: Variable},
		FieldSpec{Name: "curl_v", Type: data.Scalar(f64), Kind: Variable},
		FieldSpec{Name: "drho_dt", Type: data.Scalar(f64), Kind: Variable},
		FieldSpec{Name: "dv_dt", Type: data.Vector(f64, dim), Kind: Variable},
		FieldSpec{Name: parinfoField, Type: data.Scalar(data.KindU64), Kind: Variable},
	)
}
