package particle

import "github.com/bluetit/solver/internal/data"

func dummyScalarType() data.DataType { return data.Scalar(data.KindF64) }
