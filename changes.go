package profilestate

import (
	"strconv"
	"strings"
)

// Change is the before/after pair for one path. Old == nil marks an
// addition, New == nil a deletion. Both values are date-decoded copies.
type Change struct {
	Old Value
	New Value

	// stored is a copy of New as written into the document, dates still
	// encoded. pruned names the highest ancestor a delete removed after
	// emptying it.
	stored Value
	pruned string
}

// storedValue returns New as it sits in the document.
func (c Change) storedValue() Value {
	if c.stored != nil {
		return c.stored
	}
	return c.New
}

// IsAddition reports whether the location did not exist before the call.
func (c Change) IsAddition() bool { return c.Old == nil && c.New != nil }

// IsDeletion reports whether the location was removed by the call.
func (c Change) IsDeletion() bool { return c.Old != nil && c.New == nil }

// ChangeSet maps a dot path ("a.b", "list[2]") to the change made there.
type ChangeSet map[string]Change

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func (cs ChangeSet) recordChange(path string, old, new Value) {
	cs[path] = Change{Old: decode(old), New: decode(new), stored: Clone(new)}
}

// recordAddition emits one entry per scalar leaf when v is an object, and a
// single entry otherwise. Empty objects emit nothing.
func (cs ChangeSet) recordAddition(path string, v Value) {
	if o, ok := v.(*Object); ok {
		for _, k := range o.keys {
			cs.recordAddition(joinPath(path, k), o.vals[k])
		}
		return
	}
	cs[path] = Change{New: decode(v), stored: Clone(v)}
}

func (cs ChangeSet) recordDeletion(path string, v Value) {
	if o, ok := v.(*Object); ok {
		for _, k := range o.keys {
			cs.recordDeletion(joinPath(path, k), o.vals[k])
		}
		return
	}
	cs[path] = Change{Old: decode(v)}
}

// markPruned notes on every record below path that the object at path was
// removed. Outer calls overwrite inner ones, leaving the highest ancestor.
func (cs ChangeSet) markPruned(path string) {
	prefix := path + "."
	for p, c := range cs {
		if strings.HasPrefix(p, prefix) {
			c.pruned = path
			cs[p] = c
		}
	}
}
