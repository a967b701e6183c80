package vecmat

import (
	"gonum.org/v1/gonum/mat"

	"github.com/bluetit/solver/internal/core"
)

// Mat is a fixed-length row-major square matrix of at most MaxDim x
// MaxDim scalars. Value type, trivially copyable.
type Mat[T Scalar] struct {
	n    int
	data [MaxDim * MaxDim]T
}

// ZeroMat returns the n x n zero matrix.
func ZeroMat[T Scalar](n int) Mat[T] {
	core.Assert(n >= 1 && n <= MaxDim, "vecmat: Mat dimension %d out of range [1,%d]", n, MaxDim)
	return Mat[T]{n: n}
}

// Eye returns the n x n identity matrix.
func Eye[T Scalar](n int) Mat[T] {
	m := ZeroMat[T](n)
	for i := 0; i < n; i++ {
		m.set(i, i, T(1))
	}
	return m
}

// Diag returns the n x n matrix with diag on the main diagonal and
// zero elsewhere.
func Diag[T Scalar](diag Vec[T]) Mat[T] {
	m := ZeroMat[T](diag.N())
	for i := 0; i < diag.N(); i++ {
		m.set(i, i, diag.At(i))
	}
	return m
}

// N returns the matrix's dimension.
func (m Mat[T]) N() int { return m.n }

func (m Mat[T]) index(i, j int) int { return i*m.n + j }

// At returns element (i, j).
func (m Mat[T]) At(i, j int) T {
	core.Assert(i >= 0 && i < m.n && j >= 0 && j < m.n, "vecmat: Mat index (%d,%d) out of range for N=%d", i, j, m.n)
	return m.data[m.index(i, j)]
}

func (m *Mat[T]) set(i, j int, x T) { m.data[m.index(i, j)] = x }

// Row returns row i as a Vec.
func (m Mat[T]) Row(i int) Vec[T] {
	core.Assert(i >= 0 && i < m.n, "vecmat: Mat row %d out of range for N=%d", i, m.n)
	v := ZeroVec[T](m.n)
	for j := 0; j < m.n; j++ {
		v = v.Set(j, m.At(i, j))
	}
	return v
}

func (m Mat[T]) requireSameDim(other Mat[T]) {
	core.Assert(m.n == other.n, "vecmat: Mat dimension mismatch %d vs %d", m.n, other.n)
}

// Add returns m + other, elementwise.
func (m Mat[T]) Add(other Mat[T]) Mat[T] {
	m.requireSameDim(other)
	out := ZeroMat[T](m.n)
	for i := range m.data[:m.n*m.n] {
		out.data[i] = m.data[i] + other.data[i]
	}
	return out
}

// Sub returns m - other, elementwise.
func (m Mat[T]) Sub(other Mat[T]) Mat[T] {
	m.requireSameDim(other)
	out := ZeroMat[T](m.n)
	for i := range m.data[:m.n*m.n] {
		out.data[i] = m.data[i] - other.data[i]
	}
	return out
}

// Scale returns m scaled by a scalar factor.
func (m Mat[T]) Scale(factor T) Mat[T] {
	out := ZeroMat[T](m.n)
	for i := range m.data[:m.n*m.n] {
		out.data[i] = m.data[i] * factor
	}
	return out
}

// Transpose returns m^T.
func (m Mat[T]) Transpose() Mat[T] {
	out := ZeroMat[T](m.n)
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			out.set(j, i, m.At(i, j))
		}
	}
	return out
}

// Trace returns the sum of the diagonal entries.
func (m Mat[T]) Trace() T {
	var sum T
	for i := 0; i < m.n; i++ {
		sum += m.At(i, i)
	}
	return sum
}

// MulVec returns m * v.
func (m Mat[T]) MulVec(v Vec[T]) Vec[T] {
	core.Assert(m.n == v.N(), "vecmat: Mat*Vec dimension mismatch %d vs %d", m.n, v.N())
	out := ZeroVec[T](m.n)
	for i := 0; i < m.n; i++ {
		var sum T
		for j := 0; j < m.n; j++ {
			sum += m.At(i, j) * v.At(j)
		}
		out = out.Set(i, sum)
	}
	return out
}

// MulMat returns m * other.
func (m Mat[T]) MulMat(other Mat[T]) Mat[T] {
	m.requireSameDim(other)
	out := ZeroMat[T](m.n)
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			var sum T
			for k := 0; k < m.n; k++ {
				sum += m.At(i, k) * other.At(k, j)
			}
			out.set(i, j, sum)
		}
	}
	return out
}

// frobeniusNorm returns sqrt(sum of squared entries), used as the
// scale reference for the singular-matrix threshold in Inverse.
func (m Mat[T]) frobeniusNorm() T {
	var sum T
	for _, x := range m.data[:m.n*m.n] {
		sum += x * x
	}
	return sqrtScalar(sum)
}

// dense returns m as a gonum mat.Dense of float64, the common
// precision gonum's LU/Cholesky routines operate in.
func (m Mat[T]) dense() *mat.Dense {
	n := m.n
	data := make([]float64, n*n)
	for i, x := range m.data[:n*n] {
		data[i] = float64(x)
	}
	return mat.NewDense(n, n, data)
}

// Det returns the determinant, via gonum's LU decomposition with
// partial pivoting (mat.Dense.Det).
func (m Mat[T]) Det() T {
	return T(mat.Det(m.dense()))
}

// Inverse returns m^-1, failing with core.SingularMatrix when
// |det(m)| <= eps * frobeniusNorm(m), via gonum's LU-based
// mat.Dense.Inverse.
func (m Mat[T]) Inverse() (Mat[T], error) {
	n := m.n
	eps := epsFor[T]()
	if absScalar(m.Det()) <= eps*m.frobeniusNorm() {
		return Mat[T]{}, core.Newf(core.SingularMatrix, "matrix is singular (dimension %d)", n)
	}

	var inv mat.Dense
	if err := inv.Inverse(m.dense()); err != nil {
		return Mat[T]{}, core.Wrapf(core.SingularMatrix, err, "matrix is singular (dimension %d)", n)
	}

	out := ZeroMat[T](n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.set(i, j, T(inv.At(i, j)))
		}
	}
	return out, nil
}

// ApproxEqual reports whether m and other agree within an
// absolute+relative tolerance per entry.
func (m Mat[T]) ApproxEqual(other Mat[T], tol T) bool {
	m.requireSameDim(other)
	for i := range m.data[:m.n*m.n] {
		a, b := m.data[i], other.data[i]
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
