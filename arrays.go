package profilestate

import "github.com/sirupsen/logrus"

// recurseFunc walks source into target under op, recording into cs.
type recurseFunc func(target, source *Object, op Operation, path string, cs ChangeSet)

// arrayHandler merges an array from a source document into the array stored
// at parent[key]. Nested objects are handed back through recurse.
type arrayHandler struct {
	recurse recurseFunc
	log     logrus.FieldLogger
}

func (h *arrayHandler) apply(parent *Object, key string, old, src *Array, path string, cs ChangeSet, op Operation) {
	if src.Len() == 0 {
		return
	}
	switch op {
	case ArrayAdd:
		h.add(old, src, path, cs)
	case ArrayRemove:
		h.remove(parent, key, old, src, path, cs)
	case Update, Increment, Decrement:
		if containsObject(src) {
			h.mergeElements(old, src, path, cs, op)
		} else {
			h.replace(parent, key, old, src, path, cs)
		}
	case Get:
		h.get(old, src, path, cs)
	default:
		h.log.WithFields(logrus.Fields{"path": path, "op": op}).Debug("unsupported array operation, skipped")
	}
}

// add appends every string of src to old. Duplicates are kept.
func (h *arrayHandler) add(old, src *Array, path string, cs ChangeSet) {
	before := old.Clone()
	appended := 0
	for _, it := range src.items {
		if s, ok := it.(String); ok {
			old.Append(s)
			appended++
		}
	}
	if appended > 0 {
		cs.recordChange(path, before, old)
	}
}

// remove drops every string of old equal to some string in src. Other
// elements are always kept.
func (h *arrayHandler) remove(parent *Object, key string, old, src *Array, path string, cs ChangeSet) {
	drop := make(map[String]struct{}, src.Len())
	for _, it := range src.items {
		if s, ok := it.(String); ok {
			drop[s] = struct{}{}
		}
	}
	kept := make([]Value, 0, old.Len())
	for _, it := range old.items {
		if s, ok := it.(String); ok {
			if _, hit := drop[s]; hit {
				continue
			}
		}
		kept = append(kept, it)
	}
	if len(kept) == old.Len() {
		return
	}
	result := NewArray(kept...)
	parent.Set(key, result)
	cs.recordChange(path, old, result)
}

// replace swaps the whole array when it differs from src.
func (h *arrayHandler) replace(parent *Object, key string, old, src *Array, path string, cs ChangeSet) {
	if Equal(old, src) {
		return
	}
	parent.Set(key, src.Clone())
	cs.recordChange(path, old, src)
}

// mergeElements merges src into old position by position. Element changes
// are reported as a single record for the whole array.
func (h *arrayHandler) mergeElements(old, src *Array, path string, cs ChangeSet, op Operation) {
	before := old.Clone()
	changed := false
	for i, nv := range src.items {
		if i >= old.Len() {
			if op != Update {
				continue
			}
			for old.Len() < i {
				old.Append(Null{})
			}
			old.Append(Clone(nv))
			changed = true
			continue
		}

		ov := old.items[i]
		oo, oldIsObj := ov.(*Object)
		no, newIsObj := nv.(*Object)
		switch {
		case oldIsObj && newIsObj:
			sub := ChangeSet{}
			h.recurse(oo, no, op, "", sub)
			if len(sub) > 0 {
				changed = true
			}
		case op != Update && IsNumber(ov) && IsNumber(nv):
			res, _ := combine(ov, nv, op)
			if !Equal(res, ov) {
				old.SetAt(i, res)
				changed = true
			}
		case op == Update && !Equal(ov, nv):
			old.SetAt(i, Clone(nv))
			changed = true
		}
	}
	if changed {
		cs.recordChange(path, before, old)
	}
}

// get reports elements selected by GetMarker, and recurses into objects.
func (h *arrayHandler) get(old, src *Array, path string, cs ChangeSet) {
	n := min(old.Len(), src.Len())
	for i := 0; i < n; i++ {
		switch nv := src.items[i].(type) {
		case String:
			if string(nv) == GetMarker {
				cs.recordChange(indexPath(path, i), old.items[i], nv)
			}
		case *Object:
			if oo, ok := old.items[i].(*Object); ok {
				h.recurse(oo, nv, Get, indexPath(path, i), cs)
			}
		}
	}
}

// delete removes parts of old selected by an array delete selector.
//
// A selector holding DeleteMarker elements removes the scalar elements at those
// positions. Otherwise a selector holding objects deletes fields from the object
// elements at matching positions, dropping elements left empty. Any other
// non-empty selector deletes the whole array.
func (h *arrayHandler) delete(parent *Object, key string, old, sel *Array, path string, cs ChangeSet) {
	if sel.Len() == 0 {
		return
	}
	switch {
	case containsDeleteMarker(sel):
		h.deleteElements(old, sel, path, cs)
	case containsObject(sel):
		h.deleteFields(old, sel, path, cs)
	default:
		parent.Delete(key)
		cs.recordDeletion(path, old)
	}
}

func (h *arrayHandler) deleteElements(old, sel *Array, path string, cs ChangeSet) {
	before := old.Clone()
	removed := false
	for i := min(old.Len(), sel.Len()) - 1; i >= 0; i-- {
		if !IsDeleteMarker(sel.items[i]) {
			continue
		}
		if isComposite(old.items[i]) {
			h.log.WithFields(logrus.Fields{"path": indexPath(path, i)}).
				Debug("delete marker against a composite element, skipped")
			continue
		}
		old.RemoveAt(i)
		removed = true
	}
	if removed {
		cs.recordChange(path, before, old)
	}
}

func (h *arrayHandler) deleteFields(old, sel *Array, path string, cs ChangeSet) {
	before := old.Clone()
	changed := false
	var emptied []int
	n := min(old.Len(), sel.Len())
	for i := 0; i < n; i++ {
		oo, ok := old.items[i].(*Object)
		if !ok {
			continue
		}
		so, ok := sel.items[i].(*Object)
		if !ok {
			continue
		}
		sub := ChangeSet{}
		h.recurse(oo, so, Delete, "", sub)
		if len(sub) == 0 {
			continue
		}
		changed = true
		if oo.Len() == 0 {
			emptied = append(emptied, i)
		}
	}
	for j := len(emptied) - 1; j >= 0; j-- {
		old.RemoveAt(emptied[j])
	}
	if changed {
		cs.recordChange(path, before, old)
	}
}

func containsObject(a *Array) bool {
	for _, it := range a.items {
		if _, ok := it.(*Object); ok {
			return true
		}
	}
	return false
}

func containsDeleteMarker(a *Array) bool {
	for _, it := range a.items {
		if IsDeleteMarker(it) {
			return true
		}
	}
	return false
}
