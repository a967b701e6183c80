package particle

import (
	"iter"

	"github.com/bluetit/solver/internal/core"
	"github.com/bluetit/solver/internal/data"
	"github.com/bluetit/solver/internal/vecmat"
)

// Array is a struct-of-arrays particle array parametrized by the
// numeric space (R, dim): a variable field set, one column per field,
// and a constant field set holding one broadcast value per field.
type Array[R vecmat.Scalar] struct {
	schema *Schema
	dim    int
	n      int

	columns  map[string]any           // per-field backing slice (R, vecmat.Vec[R], or vecmat.Mat[R])
	growFns  map[string]func()        // appends one zero element to the matching column
	parinfo  []PartVec                // dedicated column for the one non-numeric schema field
	constant map[string]any           // one broadcast value per constant field
}

// NewArray builds an empty Array from schema. Every Variable field
// must have a DataType of scalar, vector, or matrix rank (the
// dedicated "parinfo" field is the sole permitted exception).
func NewArray[R vecmat.Scalar](schema *Schema, dim int) *Array[R] {
	a := &Array[R]{
		schema:   schema,
		dim:      dim,
		columns:  make(map[string]any),
		growFns:  make(map[string]func()),
		constant: make(map[string]any),
	}
	for _, f := range schema.Fields() {
		if f.Name == parinfoField {
			if f.Kind == Variable {
				registerParinfoColumn(a)
			}
			continue
		}
		if f.Kind == Constant {
			a.constant[f.Name] = zeroForRank[R](f.Type, dim)
			continue
		}
		switch f.Type.Rank {
		case data.RankScalar:
			registerColumn[R, R](a, f.Name)
		case data.RankVector:
			registerColumn[R, vecmat.Vec[R]](a, f.Name)
		case data.RankMatrix:
			registerColumn[R, vecmat.Mat[R]](a, f.Name)
		default:
			core.Assert(false, "particle: field %q has unsupported DataType rank", f.Name)
		}
	}
	return a
}

func zeroForRank[R vecmat.Scalar](dt data.DataType, dim int) any {
	switch dt.Rank {
	case data.RankVector:
		return vecmat.ZeroVec[R](dim)
	case data.RankMatrix:
		return vecmat.ZeroMat[R](dim)
	default:
		var zero R
		return zero
	}
}

func registerColumn[R vecmat.Scalar, T any](a *Array[R], name string) {
	a.columns[name] = make([]T, 0)
	a.growFns[name] = func() {
		col := a.columns[name].([]T)
		var zero T
		a.columns[name] = append(col, zero)
	}
}

func registerParinfoColumn[R vecmat.Scalar](a *Array[R]) {
	a.growFns[parinfoField] = func() {
		a.parinfo = append(a.parinfo, PartVec{})
	}
}

// Len returns the number of particles (spec's size()).
func (a *Array[R]) Len() int { return a.n }

// Dim returns the spatial dimension this array was built for.
func (a *Array[R]) Dim() int { return a.dim }

// Schema returns the array's field schema.
func (a *Array[R]) Schema() *Schema { return a.schema }

// Append adds one default-initialized particle and returns a View
// onto it.
func (a *Array[R]) Append() View[R] {
	for _, grow := range a.growFns {
		grow()
	}
	idx := a.n
	a.n++
	return View[R]{arr: a, idx: idx}
}

// Views returns a range of Views over every particle, in index order.
func (a *Array[R]) Views() iter.Seq[View[R]] {
	return func(yield func(View[R]) bool) {
		for i := 0; i < a.n; i++ {
			if !yield((View[R]{arr: a, idx: i})) {
				return
			}
		}
	}
}

// Field returns the backing slice for a variable field of type T
// (R, vecmat.Vec[R], or vecmat.Mat[R]). Reading a constant field or
// a type mismatch is a contract violation — use the Array's constant
// accessors for constant fields.
func Field[R vecmat.Scalar, T any](a *Array[R], name string) []T {
	col, ok := a.columns[name]
	core.Assert(ok, "particle: field %q is not a registered variable column", name)
	s, ok := col.([]T)
	core.Assert(ok, "particle: field %q accessed at the wrong type", name)
	return s
}

// SetConstant assigns v to a constant field, broadcasting it to every
// particle (reads of the field return v directly).
func SetConstant[R vecmat.Scalar, T any](a *Array[R], name string, v T) {
	spec, ok := a.schema.Lookup(name)
	core.Assert(ok && spec.Kind == Constant, "particle: field %q is not a constant field", name)
	a.constant[name] = v
}

// Constant returns a constant field's broadcast value.
func Constant[R vecmat.Scalar, T any](a *Array[R], name string) T {
	v, ok := a.constant[name]
	core.Assert(ok, "particle: field %q is not a registered constant field", name)
	t, ok := v.(T)
	core.Assert(ok, "particle: field %q accessed at the wrong type", name)
	return t
}

// Parinfo returns the parinfo column.
func (a *Array[R]) Parinfo() []PartVec { return a.parinfo }
