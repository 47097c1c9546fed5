package profilestate

import "math"

// Equal reports whether a and b are structurally equal. Values of different
// kinds are never equal, so Int32(42) and Float64(42) differ. Object key order
// is irrelevant; array order is not. Absent (nil) and Null are both null.
func Equal(a, b Value) bool {
	if isNull(a) || isNull(b) {
		return isNull(a) && isNull(b)
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Object:
		y := b.(*Object)
		if x == y {
			return true
		}
		if x.Len() != y.Len() {
			return false
		}
		for _, k := range x.keys {
			yv, ok := y.vals[k]
			if !ok || !Equal(x.vals[k], yv) {
				return false
			}
		}
		return true
	case *Array:
		y := b.(*Array)
		if x == y {
			return true
		}
		if x.Len() != y.Len() {
			return false
		}
		for i := range x.items {
			if !Equal(x.items[i], y.items[i]) {
				return false
			}
		}
		return true
	case Float32:
		// NaN matches NaN here, so rewriting a NaN is a no-op.
		y := b.(Float32)
		return x == y || (math.IsNaN(float64(x)) && math.IsNaN(float64(y)))
	case Float64:
		y := b.(Float64)
		return x == y || (math.IsNaN(float64(x)) && math.IsNaN(float64(y)))
	default:
		return a == b
	}
}
