package profilestate

import "github.com/sirupsen/logrus"

// handleDelete removes the parts of target[key] selected by sel.
//
//   - DeleteMarker removes a scalar value. Composites need a structured selector.
//   - An object selector recurses; a nested object emptied by it is removed too.
//   - An array selector is handed to the array handler.
func (e *Engine) handleDelete(target *Object, key string, sel Value, path string, cs ChangeSet) {
	old, ok := target.Get(key)
	if !ok {
		return
	}

	switch s := sel.(type) {
	case String:
		if string(s) != DeleteMarker {
			break
		}
		if isComposite(old) {
			e.log.WithFields(logrus.Fields{"path": path, "kind": old.Kind()}).
				Debug("delete marker against a composite value, skipped")
			return
		}
		target.Delete(key)
		cs.recordDeletion(path, old)
		return
	case *Object:
		oo, ok := old.(*Object)
		if !ok {
			break
		}
		before := len(cs)
		e.walk(oo, s, Delete, path, cs)
		if len(cs) > before && oo.Len() == 0 {
			target.Delete(key)
			cs.markPruned(path)
		}
		return
	case *Array:
		oa, ok := old.(*Array)
		if !ok {
			break
		}
		e.arrays.delete(target, key, oa, s, path, cs)
		return
	}
	e.log.WithFields(logrus.Fields{"path": path, "selector": sel.Kind(), "target": old.Kind()}).
		Debug("delete selector does not match target shape, skipped")
}
