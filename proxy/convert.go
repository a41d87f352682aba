package proxy

import (
	"fmt"
	"math"

	"github.com/wippyai/comproxy"
)

// convert coerces a native scalar to T.
func convert[T any](v comproxy.Value) (T, bool) {
	if t, ok := v.(T); ok {
		return t, true
	}
	var out T
	switch p := any(&out).(type) {
	case *int:
		n, ok := toInt64(v)
		*p = int(n)
		return out, ok
	case *int32:
		n, ok := toInt64(v)
		if !ok || n < math.MinInt32 || n > math.MaxInt32 {
			return out, false
		}
		*p = int32(n)
		return out, true
	case *int64:
		n, ok := toInt64(v)
		*p = n
		return out, ok
	case *uint32:
		n, ok := toInt64(v)
		if !ok || n < 0 || n > math.MaxUint32 {
			return out, false
		}
		*p = uint32(n)
		return out, true
	case *float64:
		f, ok := toFloat64(v)
		*p = f
		return out, ok
	case *float32:
		f, ok := toFloat64(v)
		*p = float32(f)
		return out, ok
	case *bool:
		n, ok := toInt64(v)
		*p = n != 0
		return out, ok
	}
	return out, false
}

func toInt64(v comproxy.Value) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n), true
		}
	case float32:
		if n >= math.MinInt64 && n < math.MaxInt64 && float32(int64(n)) == n {
			return int64(n), true
		}
	case float64:
		if n >= math.MinInt64 && n < math.MaxInt64 && float64(int64(n)) == n {
			return int64(n), true
		}
	}
	return 0, false
}

func toFloat64(v comproxy.Value) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}

func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
