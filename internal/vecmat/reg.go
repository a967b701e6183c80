package vecmat

import (
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/bluetit/solver/internal/core"
)

// blasCrossover is the lane count at which float32 Reg bulk
// operations switch from an unrolled scalar loop to blas32 calls.
// The teacher's simd_bench_test.go shows BLAS paying off only once
// the vector is long enough to amortize the call overhead; for the
// lane counts this solver actually uses (powers of two up to
// MaxDim) that crossover sits at the widest register.
const blasCrossover = 8

// Reg is a logical SIMD register of N lanes of T, N a power of two
// bounded by MaxDim. It has no hardware alignment guarantee — Go's
// standard toolchain exposes no portable intrinsic SIMD surface, so
// this is a software stand-in with a blas32-backed bulk path for
// float32 at register widths that benefit from it.
type Reg[T Scalar] struct {
	n    int
	data [MaxDim]T
}

func isPowerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }

// ZeroReg returns the all-zero register of n lanes.
func ZeroReg[T Scalar](n int) Reg[T] {
	core.Assert(isPowerOfTwo(n) && n <= MaxDim, "vecmat: Reg lane count %d must be a power of two <= %d", n, MaxDim)
	return Reg[T]{n: n}
}

// Load reads the first N elements of span into a new register.
// Loading from a span shorter than N is a contract violation (spec's
// "load/store wider than register is UB").
func Load[T Scalar](n int, span []T) Reg[T] {
	core.Assert(len(span) >= n, "vecmat: Reg.Load span length %d shorter than N=%d", len(span), n)
	r := ZeroReg[T](n)
	copy(r.data[:n], span[:n])
	return r
}

// Store writes the register's N lanes into the first N elements of
// span. Storing to a span shorter than N is a contract violation.
func (r Reg[T]) Store(span []T) {
	core.Assert(len(span) >= r.n, "vecmat: Reg.Store span length %d shorter than N=%d", len(span), r.n)
	copy(span[:r.n], r.data[:r.n])
}

// N returns the register's lane count.
func (r Reg[T]) N() int { return r.n }

// Lane returns lane i.
func (r Reg[T]) Lane(i int) T {
	core.Assert(i >= 0 && i < r.n, "vecmat: Reg lane %d out of range [0,%d)", i, r.n)
	return r.data[i]
}

func (r Reg[T]) requireSameN(other Reg[T]) {
	core.Assert(r.n == other.n, "vecmat: Reg lane count mismatch %d vs %d", r.n, other.n)
}

func float32BLASVector[T Scalar](n int, data []T) (blas32.Vector, bool) {
	var zero T
	if _, ok := any(zero).(float32); !ok || n < blasCrossover {
		return blas32.Vector{}, false
	}
	raw := make([]float32, n)
	for i := 0; i < n; i++ {
		raw[i] = any(data[i]).(float32)
	}
	return blas32.Vector{N: n, Inc: 1, Data: raw}, true
}

// Add returns r + other, elementwise. For float32 registers at or
// above blasCrossover lanes this delegates to blas32.Axpy.
func (r Reg[T]) Add(other Reg[T]) Reg[T] {
	r.requireSameN(other)
	if va, ok := float32BLASVector(r.n, r.data[:r.n]); ok {
		vb, _ := float32BLASVector(r.n, other.data[:r.n])
		blas32.Axpy(1, va, vb)
		out := ZeroReg[T](r.n)
		for i := 0; i < r.n; i++ {
			out.data[i] = any(vb.Data[i]).(T)
		}
		return out
	}
	out := ZeroReg[T](r.n)
	for i := 0; i < r.n; i++ {
		out.data[i] = r.data[i] + other.data[i]
	}
	return out
}

// Sub returns r - other, elementwise.
func (r Reg[T]) Sub(other Reg[T]) Reg[T] {
	r.requireSameN(other)
	out := ZeroReg[T](r.n)
	for i := 0; i < r.n; i++ {
		out.data[i] = r.data[i] - other.data[i]
	}
	return out
}

// Mul returns r * other, elementwise.
func (r Reg[T]) Mul(other Reg[T]) Reg[T] {
	r.requireSameN(other)
	out := ZeroReg[T](r.n)
	for i := 0; i < r.n; i++ {
		out.data[i] = r.data[i] * other.data[i]
	}
	return out
}

// Scale returns r scaled by a uniform factor. For float32 registers
// at or above blasCrossover lanes this delegates to blas32.Scal.
func (r Reg[T]) Scale(factor T) Reg[T] {
	if v, ok := float32BLASVector(r.n, r.data[:r.n]); ok {
		blas32.Scal(any(factor).(float32), v)
		out := ZeroReg[T](r.n)
		for i := 0; i < r.n; i++ {
			out.data[i] = any(v.Data[i]).(T)
		}
		return out
	}
	out := ZeroReg[T](r.n)
	for i := 0; i < r.n; i++ {
		out.data[i] = r.data[i] * factor
	}
	return out
}

// FMA returns r*a + b, fused (elementwise multiply-add).
func (r Reg[T]) FMA(a, b Reg[T]) Reg[T] {
	r.requireSameN(a)
	r.requireSameN(b)
	out := ZeroReg[T](r.n)
	for i := 0; i < r.n; i++ {
		out.data[i] = r.data[i]*a.data[i] + b.data[i]
	}
	return out
}

// Min returns the elementwise minimum of r and other.
func (r Reg[T]) Min(other Reg[T]) Reg[T] {
	r.requireSameN(other)
	out := ZeroReg[T](r.n)
	for i := 0; i < r.n; i++ {
		if r.data[i] < other.data[i] {
			out.data[i] = r.data[i]
		} else {
			out.data[i] = other.data[i]
		}
	}
	return out
}

// Max returns the elementwise maximum of r and other.
func (r Reg[T]) Max(other Reg[T]) Reg[T] {
	r.requireSameN(other)
	out := ZeroReg[T](r.n)
	for i := 0; i < r.n; i++ {
		if r.data[i] > other.data[i] {
			out.data[i] = r.data[i]
		} else {
			out.data[i] = other.data[i]
		}
	}
	return out
}

// Floor, Round, and Ceil apply math.Floor/Round/Ceil lanewise.
func (r Reg[T]) Floor() Reg[T] { return r.mapLanes(floorScalar[T]) }
func (r Reg[T]) Round() Reg[T] { return r.mapLanes(roundScalar[T]) }
func (r Reg[T]) Ceil() Reg[T]  { return r.mapLanes(ceilScalar[T]) }

func (r Reg[T]) mapLanes(fn func(T) T) Reg[T] {
	out := ZeroReg[T](r.n)
	for i := 0; i < r.n; i++ {
		out.data[i] = fn(r.data[i])
	}
	return out
}

// Less returns the lane mask of r[i] < other[i].
func (r Reg[T]) Less(other Reg[T]) RegMask[T] {
	r.requireSameN(other)
	var mask RegMask[T]
	mask.n = r.n
	for i := 0; i < r.n; i++ {
		mask.data[i] = r.data[i] < other.data[i]
	}
	return mask
}

// Select blends lanes of r (where mask is true) with other (where
// false) — the register-level ternary/blend operation.
func (r Reg[T]) Select(mask RegMask[T], other Reg[T]) Reg[T] {
	r.requireSameN(other)
	core.Assert(r.n == mask.N(), "vecmat: Reg.Select mask lane count mismatch %d vs %d", r.n, mask.N())
	out := ZeroReg[T](r.n)
	for i := 0; i < r.n; i++ {
		if mask.data[i] {
			out.data[i] = r.data[i]
		} else {
			out.data[i] = other.data[i]
		}
	}
	return out
}

// Sum performs a horizontal sum reduction via a pairwise tree (not a
// naive left-to-right fold), so the result is a stable function of N.
// This intentionally bypasses the blasCrossover bulk path: blas32.Asum
// sums absolute values and reorders accumulation across a BLAS
// implementation's own internal blocking, which would break the
// "reduction order is a stable function of N" reproducibility
// invariant Add/Scale don't need to honor.
func (r Reg[T]) Sum() T {
	buf := make([]T, r.n)
	copy(buf, r.data[:r.n])
	return pairwiseSum(buf)
}

func pairwiseSum[T Scalar](xs []T) T {
	if len(xs) == 1 {
		return xs[0]
	}
	mid := len(xs) / 2
	return pairwiseSum(xs[:mid]) + pairwiseSum(xs[mid:])
}

// HMin performs a horizontal minimum reduction.
func (r Reg[T]) HMin() T {
	m := r.data[0]
	for i := 1; i < r.n; i++ {
		if r.data[i] < m {
			m = r.data[i]
		}
	}
	return m
}

// HMax performs a horizontal maximum reduction.
func (r Reg[T]) HMax() T {
	m := r.data[0]
	for i := 1; i < r.n; i++ {
		if r.data[i] > m {
			m = r.data[i]
		}
	}
	return m
}
