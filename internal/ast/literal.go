package ast

import (
	"strconv"
	"strings"
)

// IntValue parses the text of an int or long literal. Hex literals denote a
// bit pattern, so 0xFFFFFFFF as an int is -1.
func (d LiteralData) IntValue() (int64, error) {
	text := d.Text
	v, err := strconv.ParseInt(text, 0, 64)
	if err == nil {
		if d.Kind == LitInt && isHex(text) && v > 0x7FFFFFFF && v <= 0xFFFFFFFF {
			return int64(int32(uint32(v))), nil
		}
		return v, nil
	}
	if !isHex(text) {
		return 0, err
	}
	neg := strings.HasPrefix(text, "-")
	u, uerr := strconv.ParseUint(strings.TrimPrefix(text, "-"), 0, 64)
	if uerr != nil {
		return 0, uerr
	}
	v = int64(u)
	if neg {
		v = -v
	}
	return v, nil
}

// FloatValue parses a float or double literal.
func (d LiteralData) FloatValue() (float64, error) {
	return strconv.ParseFloat(d.Text, 64)
}

func isHex(text string) bool {
	t := strings.TrimPrefix(text, "-")
	return strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X")
}
