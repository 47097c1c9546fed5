package profilestate

// rank orders the numeric kinds for promotion: Int32 < Int64 < Float32 < Float64.
// Non-numeric values rank 0.
func rank(v Value) int {
	switch v.(type) {
	case Int32:
		return 1
	case Int64:
		return 2
	case Float32:
		return 3
	case Float64:
		return 4
	}
	return 0
}

// IsNumber reports whether v is one of the four numeric kinds.
func IsNumber(v Value) bool { return rank(v) > 0 }

func asInt64(v Value) int64 {
	switch t := v.(type) {
	case Int32:
		return int64(t)
	case Int64:
		return int64(t)
	case Float32:
		return int64(t)
	case Float64:
		return int64(t)
	}
	return 0
}

func asFloat32(v Value) float32 {
	switch t := v.(type) {
	case Int32:
		return float32(t)
	case Int64:
		return float32(t)
	case Float32:
		return float32(t)
	case Float64:
		return float32(t)
	}
	return 0
}

func asFloat64(v Value) float64 {
	switch t := v.(type) {
	case Int32:
		return float64(t)
	case Int64:
		return float64(t)
	case Float32:
		return float64(t)
	case Float64:
		return float64(t)
	}
	return 0
}

// Add returns a+b computed in the wider of the two operand types, with that
// type's native overflow behaviour. ok is false when either side is not a number.
func Add(a, b Value) (v Value, ok bool) {
	return arith(a, b, false)
}

// Subtract returns a-b with the same promotion rules as Add.
func Subtract(a, b Value) (v Value, ok bool) {
	return arith(a, b, true)
}

func arith(a, b Value, sub bool) (Value, bool) {
	ra, rb := rank(a), rank(b)
	if ra == 0 || rb == 0 {
		return nil, false
	}
	switch max(ra, rb) {
	case 1:
		x, y := int32(a.(Int32)), int32(b.(Int32))
		if sub {
			return Int32(x - y), true
		}
		return Int32(x + y), true
	case 2:
		x, y := asInt64(a), asInt64(b)
		if sub {
			return Int64(x - y), true
		}
		return Int64(x + y), true
	case 3:
		x, y := asFloat32(a), asFloat32(b)
		if sub {
			return Float32(x - y), true
		}
		return Float32(x + y), true
	default:
		x, y := asFloat64(a), asFloat64(b)
		if sub {
			return Float64(x - y), true
		}
		return Float64(x + y), true
	}
}

// Negate returns -v keeping v's numeric kind. The minimum Int32/Int64 wraps
// to itself. ok is false when v is not a number.
func Negate(v Value) (Value, bool) {
	switch t := v.(type) {
	case Int32:
		return -t, true
	case Int64:
		return -t, true
	case Float32:
		return -t, true
	case Float64:
		return -t, true
	}
	return nil, false
}
