package profilestate

import (
	"fmt"
	"strings"
)

// Operation selects how a source document is applied to a target.
type Operation uint8

const (
	Update Operation = iota + 1
	Increment
	Decrement
	Delete
	ArrayAdd
	ArrayRemove
	Get
)

var operationNames = map[Operation]string{
	Update:      "UPDATE",
	Increment:   "INCREMENT",
	Decrement:   "DECREMENT",
	Delete:      "DELETE",
	ArrayAdd:    "ARRAY_ADD",
	ArrayRemove: "ARRAY_REMOVE",
	Get:         "GET",
}

func (op Operation) String() string {
	if s, ok := operationNames[op]; ok {
		return s
	}
	return fmt.Sprintf("Operation(%d)", uint8(op))
}

// Valid reports whether op is one of the defined operations.
func (op Operation) Valid() bool {
	_, ok := operationNames[op]
	return ok
}

// ParseOperation maps a case-insensitive name to an Operation. Underscores and
// dashes are ignored, and "add"/"remove" are accepted for the array operations.
func ParseOperation(s string) (Operation, error) {
	norm := strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "update", "set":
		return Update, nil
	case "increment", "incr":
		return Increment, nil
	case "decrement", "decr":
		return Decrement, nil
	case "delete":
		return Delete, nil
	case "arrayadd", "add":
		return ArrayAdd, nil
	case "arrayremove", "remove":
		return ArrayRemove, nil
	case "get":
		return Get, nil
	}
	return 0, fmt.Errorf("profilestate: %w %q", ErrUnknownOperation, s)
}
