package params

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	KindBool ValueKind = iota
	KindInt
	KindFloat
	KindStringList
)

func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStringList:
		return "string_list"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the native value types a solver parameter can
// take. List values are sorted at construction, so two values built from the
// same elements in different orders are identical; this is what makes cache
// keys order-independent.
type Value struct {
	kind ValueKind
	b    bool
	i    int
	f    float64
	list []string
}

// Bool wraps a boolean parameter value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int wraps an integer parameter value.
func Int(v int) Value { return Value{kind: KindInt, i: v} }

// Float wraps a floating-point parameter value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// StringList wraps a multi-select parameter value. The elements are copied
// and sorted.
func StringList(elems ...string) Value {
	list := append([]string(nil), elems...)
	sort.Strings(list)
	return Value{kind: KindStringList, list: list}
}

// Kind returns the variant of the value.
func (v Value) Kind() ValueKind { return v.kind }

// Bool returns the boolean payload. Calling it on a non-bool value is a
// programming error; use Kind first when the variant is not known.
func (v Value) Bool() bool { return v.b }

// Int returns the integer payload.
func (v Value) Int() int { return v.i }

// Float returns the floating-point payload, widening an integer payload.
func (v Value) Float() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// StringList returns a copy of the list payload.
func (v Value) StringList() []string {
	return append([]string(nil), v.list...)
}

// Equal compares two values structurally. List payloads compare as unordered
// sets since both sides are sorted.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindStringList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != other.list[i] {
				return false
			}
		}
		return true
	}
	return false
}

// String returns the canonical textual form used in cache keys and reports.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.Itoa(v.i)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindStringList:
		return "[" + strings.Join(v.list, ",") + "]"
	default:
		return fmt.Sprintf("invalid(%d)", int(v.kind))
	}
}
