package geom

import (
	"sort"

	"github.com/bluetit/solver/internal/core"
	"github.com/bluetit/solver/internal/particle"
	"github.com/bluetit/solver/internal/vecmat"
)

// SFCPartitioner bins points into numParts contiguous, ~equal-size
// blocks ordered along a Z-order (Morton) space-filling curve over
// their bounding box (spec.md §4.5 step 6: "Hilbert/Z ordering... bin
// into P contiguous blocks"). Z-order is chosen over Hilbert for a
// direct, dimension-generic bit-interleave with no per-dimension
// rotation table.
type SFCPartitioner[T vecmat.Scalar] struct{}

// mortonMaxTotalBits is the bit budget of the uint64 Morton code, so
// the bits quantized per axis times dim must stay <= 63; with
// vecmat.MaxDim=8 that caps resolution at 7 bits/axis (128 cells per
// axis), coarse in high dimension but sufficient to order points into
// contiguous partition blocks rather than to reconstruct geometry.
const mortonMaxTotalBits = 63

func (SFCPartitioner[T]) Partition(points []vecmat.Vec[T], weights []T, numParts int) ([]particle.PartVec, error) {
	core.Assert(numParts >= 1, "geom: SFC target part count must be >= 1")
	if len(points) == 0 {
		return nil, nil
	}

	dim := points[0].N()
	bitsPerAxis := mortonMaxTotalBits / dim
	if bitsPerAxis > 21 {
		bitsPerAxis = 21 // uint32 quantization headroom per axis
	}
	if bitsPerAxis < 1 {
		bitsPerAxis = 1
	}

	perm := make([]int, len(points))
	for i := range perm {
		perm[i] = i
	}
	bbox := boundsOf(points, perm)

	resolution := float64(uint64(1) << uint(bitsPerAxis))
	codes := make([]uint64, len(points))
	for i, p := range points {
		var quant [vecmat.MaxDim]uint32
		for a := 0; a < dim; a++ {
			span := float64(bbox.Max.At(a) - bbox.Min.At(a))
			var frac float64
			if span > 0 {
				frac = float64(p.At(a)-bbox.Min.At(a)) / span
			}
			q := uint32(frac * (resolution - 1))
			quant[a] = q
		}
		codes[i] = mortonCode(quant[:dim], bitsPerAxis)
	}

	sort.Slice(perm, func(i, j int) bool { return codes[perm[i]] < codes[perm[j]] })

	labels := make([]int, len(points))
	n := len(perm)
	base := n / numParts
	rem := n % numParts
	pos := 0
	for block := 0; block < numParts; block++ {
		size := base
		if block < rem {
			size++
		}
		for k := 0; k < size; k++ {
			labels[perm[pos]] = block
			pos++
		}
	}

	return broadcastLabels[T](labels), nil
}

// mortonCode interleaves the low bitsPerAxis bits of each coordinate.
func mortonCode(coords []uint32, bitsPerAxis int) uint64 {
	var code uint64
	for bit := 0; bit < bitsPerAxis; bit++ {
		for a, c := range coords {
			if c&(1<<uint(bit)) != 0 {
				code |= 1 << uint(bit*len(coords)+a)
			}
		}
	}
	return code
}
