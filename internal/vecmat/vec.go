package vecmat

import "github.com/bluetit/solver/internal/core"

// Vec is a fixed-length column vector of at most MaxDim scalars.
// Value type, trivially copyable.
type Vec[T Scalar] struct {
	n    int
	data [MaxDim]T
}

// NewVec builds a Vec from its components. Panics (contract
// violation) if len(components) exceeds MaxDim.
func NewVec[T Scalar](components ...T) Vec[T] {
	core.Assert(len(components) >= 1 && len(components) <= MaxDim,
		"vecmat: Vec dimension %d out of range [1,%d]", len(components), MaxDim)
	var v Vec[T]
	v.n = len(components)
	copy(v.data[:], components)
	return v
}

// ZeroVec returns the n-dimensional zero vector.
func ZeroVec[T Scalar](n int) Vec[T] {
	core.Assert(n >= 1 && n <= MaxDim, "vecmat: Vec dimension %d out of range [1,%d]", n, MaxDim)
	return Vec[T]{n: n}
}

// N returns the vector's dimension.
func (v Vec[T]) N() int { return v.n }

// At returns the i-th component.
func (v Vec[T]) At(i int) T {
	core.Assert(i >= 0 && i < v.n, "vecmat: Vec index %d out of range [0,%d)", i, v.n)
	return v.data[i]
}

// Set returns a copy of v with the i-th component replaced.
func (v Vec[T]) Set(i int, x T) Vec[T] {
	core.Assert(i >= 0 && i < v.n, "vecmat: Vec index %d out of range [0,%d)", i, v.n)
	v.data[i] = x
	return v
}

func (v Vec[T]) requireSameDim(other Vec[T]) {
	core.Assert(v.n == other.n, "vecmat: Vec dimension mismatch %d vs %d", v.n, other.n)
}

// Add returns v + other, elementwise.
func (v Vec[T]) Add(other Vec[T]) Vec[T] {
	v.requireSameDim(other)
	var out Vec[T]
	out.n = v.n
	for i := 0; i < v.n; i++ {
		out.data[i] = v.data[i] + other.data[i]
	}
	return out
}

// Sub returns v - other, elementwise.
func (v Vec[T]) Sub(other Vec[T]) Vec[T] {
	v.requireSameDim(other)
	var out Vec[T]
	out.n = v.n
	for i := 0; i < v.n; i++ {
		out.data[i] = v.data[i] - other.data[i]
	}
	return out
}

// Scale returns v scaled by a scalar factor.
func (v Vec[T]) Scale(factor T) Vec[T] {
	var out Vec[T]
	out.n = v.n
	for i := 0; i < v.n; i++ {
		out.data[i] = v.data[i] * factor
	}
	return out
}

// Mul returns the elementwise (Hadamard) product of v and other.
func (v Vec[T]) Mul(other Vec[T]) Vec[T] {
	v.requireSameDim(other)
	var out Vec[T]
	out.n = v.n
	for i := 0; i < v.n; i++ {
		out.data[i] = v.data[i] * other.data[i]
	}
	return out
}

// Dot returns the inner product of v and other.
func (v Vec[T]) Dot(other Vec[T]) T {
	v.requireSameDim(other)
	var sum T
	for i := 0; i < v.n; i++ {
		sum += v.data[i] * other.data[i]
	}
	return sum
}

// NormSq returns the squared Euclidean norm.
func (v Vec[T]) NormSq() T { return v.Dot(v) }

// Norm returns the Euclidean norm.
func (v Vec[T]) Norm() T { return sqrtScalar(v.NormSq()) }

// Outer returns the outer product v * other^T as an N x N matrix (N =
// v.N(), other must share it).
func (v Vec[T]) Outer(other Vec[T]) Mat[T] {
	v.requireSameDim(other)
	out := ZeroMat[T](v.n)
	for i := 0; i < v.n; i++ {
		for j := 0; j < v.n; j++ {
			out.set(i, j, v.data[i]*other.data[j])
		}
	}
	return out
}

// ApproxEqual reports whether v and other agree within an
// absolute+relative tolerance per component.
func (v Vec[T]) ApproxEqual(other Vec[T], tol T) bool {
	v.requireSameDim(other)
	for i := 0; i < v.n; i++ {
		a, b := v.data[i], other.data[i]
		diff := absScalar(a - b)
		scale := absScalar(a)
		if absScalar(b) > scale {
			scale = absScalar(b)
		}
		if diff > tol*(1+scale) {
			return false
		}
	}
	return true
}

// Slice returns the vector's components as a freshly allocated slice.
func (v Vec[T]) Slice() []T {
	out := make([]T, v.n)
	copy(out, v.data[:v.n])
	return out
}
