package profilestate

import (
	"strconv"
	"strings"
)

// Reserved strings used as in-band signals inside source documents.
const (
	// DeleteMarker as a leaf of a DELETE source removes that location.
	DeleteMarker = "$__DELETE__$"
	// GetMarker as a leaf of a GET source reports the current value.
	GetMarker = "$__GET__$"
	// DatePrefix marks a string whose remainder is an integer timestamp.
	DatePrefix = "$D_"
)

// IsDeleteMarker reports whether v is the delete sentinel.
func IsDeleteMarker(v Value) bool {
	s, ok := v.(String)
	return ok && string(s) == DeleteMarker
}

// IsGetMarker reports whether v is the get sentinel.
func IsGetMarker(v Value) bool {
	s, ok := v.(String)
	return ok && string(s) == GetMarker
}

// EncodeDate returns the stored representation of a timestamp.
func EncodeDate(ts int64) String {
	return String(DatePrefix + strconv.FormatInt(ts, 10))
}

// DecodeDate resolves a date-prefixed string to Int64. Anything else,
// including a prefixed string whose remainder is not an integer, is
// returned unchanged.
func DecodeDate(v Value) Value {
	s, ok := v.(String)
	if !ok || !strings.HasPrefix(string(s), DatePrefix) {
		return v
	}
	n, err := strconv.ParseInt(string(s)[len(DatePrefix):], 10, 64)
	if err != nil {
		return v
	}
	return Int64(n)
}

// decode applies DecodeDate throughout v. Composite values are copied, so the
// result never aliases the live document.
func decode(v Value) Value {
	switch t := v.(type) {
	case nil:
		return nil
	case *Object:
		out := &Object{keys: make([]string, 0, len(t.keys)), vals: make(map[string]Value, len(t.vals))}
		for _, k := range t.keys {
			out.Set(k, decode(t.vals[k]))
		}
		return out
	case *Array:
		out := &Array{items: make([]Value, len(t.items))}
		for i, e := range t.items {
			out.items[i] = decode(e)
		}
		return out
	default:
		return DecodeDate(v)
	}
}
