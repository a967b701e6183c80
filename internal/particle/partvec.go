package particle

import "github.com/bluetit/solver/internal/core"

// PartVecLevels is L in spec.md's PartVec(v[0..L), L=8): the number
// of hierarchical coarsening levels a partition label carries.
const PartVecLevels = 8

// PartVec is a per-particle hierarchical partition label: level 0 is
// the finest, level L-1 the coarsest. Two particles share
// "level-k common partition" iff v[0..k+1) agree.
type PartVec struct {
	levels [PartVecLevels]uint8
}

// NewPartVec builds a PartVec from its per-level labels, finest first
// (index 0) to coarsest last, matching the order used by
// Level/SetLevel.
func NewPartVec(levels ...uint8) PartVec {
	core.Assert(len(levels) == PartVecLevels, "particle: PartVec requires exactly %d levels, got %d", PartVecLevels, len(levels))
	var v PartVec
	copy(v.levels[:], levels)
	return v
}

// Level returns the label at level k (0 = finest).
func (v PartVec) Level(k int) uint8 {
	core.Assert(k >= 0 && k < PartVecLevels, "particle: PartVec level %d out of range [0,%d)", k, PartVecLevels)
	return v.levels[k]
}

// SetLevel returns a copy of v with level k replaced.
func (v PartVec) SetLevel(k int, label uint8) PartVec {
	core.Assert(k >= 0 && k < PartVecLevels, "particle: PartVec level %d out of range [0,%d)", k, PartVecLevels)
	v.levels[k] = label
	return v
}

// CommonPartition reports whether a and b share "level-k common
// partition": their labels agree on v[0..k+1).
func CommonPartition(a, b PartVec, k int) bool {
	core.Assert(k >= 0 && k < PartVecLevels, "particle: PartVec level %d out of range [0,%d)", k, PartVecLevels)
	for i := 0; i <= k; i++ {
		if a.levels[i] != b.levels[i] {
			return false
		}
	}
	return true
}

// SerializeParinfo encodes a PartVec as a single uint64 equal to its
// last-assigned partition level: scanning from the coarsest level
// (PartVecLevels-1, with no coarser neighbor of its own) toward the
// finest (0), it returns the label at the first level whose value
// differs from its (one index higher) coarser neighbor; if every
// level agrees with its coarser neighbor, it falls back to level 0.
func SerializeParinfo(v PartVec) uint64 {
	for k := PartVecLevels - 2; k >= 0; k-- {
		if v.levels[k] != v.levels[k+1] {
			return uint64(v.levels[k])
		}
	}
	return uint64(v.levels[0])
}
