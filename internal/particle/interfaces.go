package particle

import (
	"bytes"
	"encoding/binary"
	"io"
	"iter"
	"math"

	"github.com/bluetit/solver/internal/core"
	"github.com/bluetit/solver/internal/data"
	"github.com/bluetit/solver/internal/vecmat"
)

// SnapshotSink is spec.md §6's particle snapshot producer contract,
// from the consumer's side: WriteSnapshot pushes one (name, DataType,
// size, byte stream) tuple per field, in schema declaration order.
// size is the field's total scalar-element count across every
// particle (a dim-3 vector field over n particles has size == 3*n).
// A sink is free to reject a push — an HDF5 exporter would reject
// matrix-typed fields, per spec.md §6 — by returning a non-nil error,
// which aborts the remaining fields.
type SnapshotSink interface {
	PushField(name string, dt data.DataType, size int, r io.Reader) error
}

// WriteSnapshot implements the particle snapshot producer side of
// spec.md §6's "collaborator contracts the core exposes": every
// schema field (parinfo excepted — see Partitions for that) is pushed
// to sink as little-endian float64 bytes, in schema declaration
// order, row-major for vectors and matrices.
func (a *Array[R]) WriteSnapshot(sink SnapshotSink) error {
	for _, f := range a.schema.Fields() {
		if f.Name == parinfoField {
			continue
		}
		buf, size := a.encodeField(f)
		if err := sink.PushField(f.Name, f.Type, size, bytes.NewReader(buf)); err != nil {
			return err
		}
	}
	return nil
}

func (a *Array[R]) encodeField(f FieldSpec) ([]byte, int) {
	switch f.Type.Rank {
	case data.RankScalar:
		vals := Field[R, R](a, f.Name)
		return encodeFloats(vals), len(vals)
	case data.RankVector:
		vals := Field[R, vecmat.Vec[R]](a, f.Name)
		buf := make([]byte, 0, len(vals)*f.Type.Dim*8)
		size := 0
		for _, v := range vals {
			for i := 0; i < v.N(); i++ {
				buf = appendFloat64(buf, float64(v.At(i)))
				size++
			}
		}
		return buf, size
	case data.RankMatrix:
		vals := Field[R, vecmat.Mat[R]](a, f.Name)
		buf := make([]byte, 0, len(vals)*f.Type.Dim*f.Type.Dim*8)
		size := 0
		for _, m := range vals {
			n := m.N()
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					buf = appendFloat64(buf, float64(m.At(i, j)))
					size++
				}
			}
		}
		return buf, size
	default:
		core.Assert(false, "particle: field %q has unsupported DataType rank", f.Name)
		return nil, 0
	}
}

func encodeFloats[R vecmat.Scalar](vals []R) []byte {
	buf := make([]byte, 0, len(vals)*8)
	for _, x := range vals {
		buf = appendFloat64(buf, float64(x))
	}
	return buf
}

func appendFloat64(buf []byte, x float64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(x))
	return append(buf, b[:]...)
}

// PartitionReader is spec.md §6's partition label reader contract:
// an iterator over (index, part_id) pairs for visualization.
type PartitionReader interface {
	Partitions() iter.Seq2[int, uint64]
}

// Partitions implements PartitionReader, serializing each particle's
// PartVec to its "last-assigned partition level" uint64 per
// SerializeParinfo.
func (a *Array[R]) Partitions() iter.Seq2[int, uint64] {
	return func(yield func(int, uint64) bool) {
		for i, p := range a.parinfo {
			if !yield(i, SerializeParinfo(p)) {
				return
			}
		}
	}
}
