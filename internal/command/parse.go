package command

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unsafe"

	"github.com/google/uuid"
)

// Integer is every built-in integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

var (
	truthy = map[string]bool{"true": true, "yes": true, "y": true, "1": true, "t": true, "on": true}
	falsy  = map[string]bool{"false": true, "no": true, "n": true, "0": true, "f": true, "off": true}
)

// ArgInt parses visible argument i as T in the invocation's culture. A
// missing argument, a malformed one and one out of T's range all yield false.
func ArgInt[T Integer](c *Context, i int) (T, bool) {
	var zero T
	s, ok := c.Arg(i)
	if !ok {
		return zero, false
	}
	s, ok = c.stripGroups(s)
	if !ok {
		return zero, false
	}
	bits := int(unsafe.Sizeof(zero)) * 8

	if zero-1 < zero {
		n, err := strconv.ParseInt(s, 10, bits)
		if err != nil {
			return zero, false
		}
		return T(n), true
	}
	s = strings.TrimPrefix(s, "+")
	n, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return zero, false
	}
	return T(n), true
}

// ArgFloat64 parses visible argument i as a finite float64.
func (c *Context) ArgFloat64(i int) (float64, bool) {
	return c.argFloat(i, 64)
}

// ArgFloat32 parses visible argument i as a finite float32.
func (c *Context) ArgFloat32(i int) (float32, bool) {
	f, ok := c.argFloat(i, 32)
	return float32(f), ok
}

func (c *Context) argFloat(i, bits int) (float64, bool) {
	s, ok := c.Arg(i)
	if !ok {
		return 0, false
	}
	s, ok = c.normalizeNumber(s)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, bits)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ArgDecimal parses visible argument i as an exact decimal.
func (c *Context) ArgDecimal(i int) (*big.Rat, bool) {
	s, ok := c.Arg(i)
	if !ok {
		return nil, false
	}
	s, ok = c.normalizeNumber(s)
	if !ok || s == "" || strings.ContainsAny(s, "/eEpPxX_") {
		return nil, false
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, false
	}
	return r, true
}

// ArgBool parses visible argument i as a boolean. Accepted spellings are
// true/yes/y/1/t/on and false/no/n/0/f/off, in any case.
func (c *Context) ArgBool(i int) (bool, bool) {
	s, ok := c.Arg(i)
	if !ok {
		return false, false
	}
	s = strings.ToLower(s)
	switch {
	case truthy[s]:
		return true, true
	case falsy[s]:
		return false, true
	default:
		return false, false
	}
}

// ArgUUID parses visible argument i as a UUID.
func (c *Context) ArgUUID(i int) (uuid.UUID, bool) {
	s, ok := c.Arg(i)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// ArgDuration parses visible argument i as a Go duration ("90s", "5m").
// A bare whole number is read as seconds.
func (c *Context) ArgDuration(i int) (time.Duration, bool) {
	s, ok := c.Arg(i)
	if !ok {
		return 0, false
	}
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		return time.Duration(n) * time.Second, true
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}

// ArgEnum looks visible argument i up in values, ignoring case.
func ArgEnum[T any](c *Context, i int, values map[string]T) (T, bool) {
	var zero T
	s, ok := c.Arg(i)
	if !ok {
		return zero, false
	}
	if v, ok := values[s]; ok {
		return v, true
	}
	for name, v := range values {
		if strings.EqualFold(name, s) {
			return v, true
		}
	}
	return zero, false
}

// stripGroups removes the culture's group separators from s. They must split
// the whole part into groups of three digits, so "1.5" in a culture grouping
// with "." is rejected instead of read as 15.
func (c *Context) stripGroups(s string) (string, bool) {
	g := c.culture.Group
	if g == "" || !strings.Contains(s, g) {
		return s, true
	}

	whole, frac := s, ""
	if d := c.culture.Decimal; d != "" && d != g {
		if i := strings.Index(s, d); i >= 0 {
			whole, frac = s[:i], s[i:]
		}
	}
	if strings.Contains(frac, g) {
		return "", false
	}

	sign := ""
	if strings.HasPrefix(whole, "-") || strings.HasPrefix(whole, "+") {
		sign, whole = whole[:1], whole[1:]
	}
	groups := strings.Split(whole, g)
	for i, part := range groups {
		if !isDigits(part) {
			return "", false
		}
		if (i == 0 && len(part) > 3) || (i > 0 && len(part) != 3) {
			return "", false
		}
	}
	return sign + strings.Join(groups, "") + frac, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// normalizeNumber rewrites s from the invocation's culture to Go syntax.
func (c *Context) normalizeNumber(s string) (string, bool) {
	s, ok := c.stripGroups(s)
	if !ok {
		return "", false
	}
	if d := c.culture.Decimal; d != "" && d != "." {
		s = strings.ReplaceAll(s, d, ".")
	}
	return s, true
}
