package data

import "testing"

func TestDataTypeWidth(t *testing.T) {
	cases := []struct {
		dt   DataType
		want int
	}{
		{Scalar(KindF64), 8},
		{Vector(KindF32, 3), 12},
		{Matrix(KindF64, 3), 72},
	}
	for _, c := range cases {
		if got := c.dt.Width(); got != c.want {
			t.Fatalf("%v.Width() = %d, want %d", c.dt, got, c.want)
		}
	}
}

func TestDataTypeStringRoundTrips(t *testing.T) {
	cases := []DataType{
		Scalar(KindF64),
		Vector(KindF32, 3),
		Matrix(KindF64, 2),
	}
	for _, dt := range cases {
		s := dt.String()
		got, err := ParseDataType(s)
		if err != nil {
			t.Fatalf("ParseDataType(%q): %v", s, err)
		}
		if got != dt {
			t.Fatalf("round trip of %v via %q = %v", dt, s, got)
		}
	}
}
