package data

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the scalar tag half of a DataType.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindI8
	KindU8
	KindI16
	KindU16
	KindI32
	KindU32
	KindI64
	KindU64
	KindF32
	KindF64
)

var kindWidths = map[Kind]int{
	KindI8: 1, KindU8: 1,
	KindI16: 2, KindU16: 2,
	KindI32: 4, KindU32: 4,
	KindI64: 8, KindU64: 8,
	KindF32: 4, KindF64: 8,
}

func (k Kind) String() string {
	names := map[Kind]string{
		KindUnknown: "unknown", KindI8: "i8", KindU8: "u8",
		KindI16: "i16", KindU16: "u16", KindI32: "i32", KindU32: "u32",
		KindI64: "i64", KindU64: "u64", KindF32: "f32", KindF64: "f64",
	}
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown"
}

// Rank is the shape half of a DataType: scalar, vector, or matrix.
type Rank uint8

const (
	RankScalar Rank = iota
	RankVector
	RankMatrix
)

func (r Rank) String() string {
	switch r {
	case RankScalar:
		return "scalar"
	case RankVector:
		return "vector"
	case RankMatrix:
		return "matrix"
	default:
		return "unknown"
	}
}

// DataType is the tagged triple (kind, rank, dim) that uniquely
// identifies a stored value's on-disk shape. It is a plain struct
// (Dim is an int), not packed into 32 bits; the "type" column stores
// its String() form.
type DataType struct {
	Kind Kind
	Rank Rank
	Dim  int
}

// Scalar returns the scalar DataType of the given kind.
func Scalar(k Kind) DataType { return DataType{Kind: k, Rank: RankScalar, Dim: 1} }

// Vector returns the vector DataType of the given kind and dimension.
func Vector(k Kind, dim int) DataType { return DataType{Kind: k, Rank: RankVector, Dim: dim} }

// Matrix returns the square-matrix DataType of the given kind and
// dimension.
func Matrix(k Kind, dim int) DataType { return DataType{Kind: k, Rank: RankMatrix, Dim: dim} }

// Width returns the byte size of one value of this type:
// scalar-byte-size * (matrix ? dim^2 : vector ? dim : 1).
func (t DataType) Width() int {
	scalarSize := kindWidths[t.Kind]
	switch t.Rank {
	case RankMatrix:
		return scalarSize * t.Dim * t.Dim
	case RankVector:
		return scalarSize * t.Dim
	default:
		return scalarSize
	}
}

// String renders a type identifier such as "f64" or "vector<f32,3>"
// or "matrix<f64,3>".
func (t DataType) String() string {
	switch t.Rank {
	case RankVector:
		return fmt.Sprintf("vector<%s,%d>", t.Kind, t.Dim)
	case RankMatrix:
		return fmt.Sprintf("matrix<%s,%d>", t.Kind, t.Dim)
	default:
		return t.Kind.String()
	}
}

// ParseDataType parses the String() form back into a DataType, for
// round-tripping the "type" column.
func ParseDataType(s string) (DataType, error) {
	for _, rank := range []Rank{RankVector, RankMatrix} {
		inner, ok := strings.CutPrefix(s, rank.String()+"<")
		if !ok {
			continue
		}
		kindName, dimStr, ok := strings.Cut(strings.TrimSuffix(inner, ">"), ",")
		dim, err := strconv.Atoi(dimStr)
		if !ok || err != nil {
			break
		}
		return DataType{Kind: parseKind(kindName), Rank: rank, Dim: dim}, nil
	}
	return Scalar(parseKind(s)), nil
}

func parseKind(s string) Kind {
	for k := KindUnknown; k <= KindF64; k++ {
		if k.String() == s {
			return k
		}
	}
	return KindUnknown
}
