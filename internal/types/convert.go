package types

import "math"

// NarrowInt truncates v to the width of integral kind k, wrapping like a
// two's complement cast. char is unsigned 16-bit.
func NarrowInt(v int64, k Kind) int64 {
	switch k {
	case KindByte:
		return int64(int8(v))
	case KindShort:
		return int64(int16(v))
	case KindChar:
		return int64(uint16(v))
	case KindInt:
		return int64(int32(v))
	}
	return v
}

// TruncFloat converts f to integral kind k: NaN is 0, out of range values
// saturate at the int or long bounds before narrowing.
func TruncFloat(f float64, k Kind) int64 {
	if math.IsNaN(f) {
		return 0
	}
	if k == KindLong {
		switch {
		case f >= math.MaxInt64:
			return math.MaxInt64
		case f <= math.MinInt64:
			return math.MinInt64
		}
		return int64(f)
	}
	var i int64
	switch {
	case f >= math.MaxInt32:
		i = math.MaxInt32
	case f <= math.MinInt32:
		i = math.MinInt32
	default:
		i = int64(f)
	}
	return NarrowInt(i, k)
}
