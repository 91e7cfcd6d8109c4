package record

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
)

// Value is a field value: null, a string or an integer.
type Value struct {
	kind Kind
	str  string
	num  int64
}

// Null returns the null value.
func Null() Value { return Value{} }

// Str returns a string value.
func Str(s string) Value { return Value{kind: KindString, str: s} }

// Int returns an integer value.
func Int(n int64) Value { return Value{kind: KindInt, num: n} }

// ValueOf converts a driver or Go value into a Value.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case string:
		return Str(x), nil
	case []byte:
		return Str(string(x)), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case bool:
		if x {
			return Int(1), nil
		}
		return Int(0), nil
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return Int(int64(x)), nil
		}
		return Value{}, fmt.Errorf("%w: non-integral number %v", ErrInvalidValue, x)
	default:
		return Value{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, v)
	}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Text renders the value as text; null renders empty.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	default:
		return ""
	}
}

// Int64 returns the value as an integer. Strings holding a decimal number
// convert; anything else reports false.
func (v Value) Int64() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.num, true
	case KindString:
		n, err := strconv.ParseInt(v.str, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Any returns nil, a string or an int64, suitable as a driver argument,
// template data or for encoding.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	default:
		return nil
	}
}

func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.str == o.str && v.num == o.num
}

func (v Value) String() string {
	if v.kind == KindNull {
		return "NULL"
	}
	return v.Text()
}
