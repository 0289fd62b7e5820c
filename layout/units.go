package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// 像素按 96 DPI 计算，与常见排版引擎的默认分辨率一致。
var pxPerUnit = map[string]float64{
	"":   1, // 无单位的数字视为像素
	"px": 1,
	"pt": 96.0 / 72.0,
	"mm": 96.0 / 25.4,
	"in": 96.0,
}

// Length is a size as written by the user, for example "10pt" or "14px".
type Length struct {
	Value float64
	Unit  string
}

func (l Length) IsZero() bool { return l.Value == 0 }

// Pixels converts the length to pixels.
func (l Length) Pixels() float64 { return l.Value * pxPerUnit[l.Unit] }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit
}

// ParseLength parses a number with an optional px/pt/mm/in suffix.
func ParseLength(s string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	num := strings.TrimRight(v, "abcdefghijklmnopqrstuvwxyz")
	unit := strings.TrimSpace(v[len(num):])
	if _, ok := pxPerUnit[unit]; !ok {
		return Length{}, fmt.Errorf("unknown unit %q in length %q", unit, s)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q", s)
	}
	return Length{Value: f, Unit: unit}, nil
}
