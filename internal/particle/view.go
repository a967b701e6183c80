package particle

import "github.com/bluetit/solver/internal/vecmat"

// View is a non-owning (array, index) pair onto a single particle.
// Equality requires the same backing array and index — Go's struct
// equality already gives this for free since View only carries a
// pointer and an int.
type View[R vecmat.Scalar] struct {
	arr *Array[R]
	idx int
}

// Index returns the view's particle index within its array.
func (v View[R]) Index() int { return v.idx }

// Scalar reads a scalar-valued field, dispatching to the array's
// constant value when the field is a constant field.
func (v View[R]) Scalar(name string) R {
	if spec, ok := v.arr.schema.Lookup(name); ok && spec.Kind == Constant {
		return Constant[R, R](v.arr, name)
	}
	return Field[R, R](v.arr, name)[v.idx]
}

// SetScalar writes a scalar-valued variable field.
func (v View[R]) SetScalar(name string, x R) {
	Field[R, R](v.arr, name)[v.idx] = x
}

// Vector reads a vector-valued field.
func (v View[R]) Vector(name string) vecmat.Vec[R] {
	if spec, ok := v.arr.schema.Lookup(name); ok && spec.Kind == Constant {
		return Constant[R, vecmat.Vec[R]](v.arr, name)
	}
	return Field[R, vecmat.Vec[R]](v.arr, name)[v.idx]
}

// SetVector writes a vector-valued variable field.
func (v View[R]) SetVector(name string, x vecmat.Vec[R]) {
	Field[R, vecmat.Vec[R]](v.arr, name)[v.idx] = x
}

// Matrix reads a matrix-valued field.
func (v View[R]) Matrix(name string) vecmat.Mat[R] {
	if spec, ok := v.arr.schema.Lookup(name); ok && spec.Kind == Constant {
		return Constant[R, vecmat.Mat[R]](v.arr, name)
	}
	return Field[R, vecmat.Mat[R]](v.arr, name)[v.idx]
}

// SetMatrix writes a matrix-valued variable field.
func (v View[R]) SetMatrix(name string, x vecmat.Mat[R]) {
	Field[R, vecmat.Mat[R]](v.arr, name)[v.idx] = x
}

// Parinfo reads the particle's partition label.
func (v View[R]) Parinfo() PartVec {
	return v.arr.parinfo[v.idx]
}

// SetParinfo writes the particle's partition label.
func (v View[R]) SetParinfo(p PartVec) {
	v.arr.parinfo[v.idx] = p
}
