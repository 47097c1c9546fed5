// Package profilestate applies declarative operations (update, increment,
// decrement, delete, array add/remove and read) from a source document onto a
// target document in place, and reports every location it touched as a
// path-addressed ChangeSet.
//
// A call walks every key of the source in order. Nested objects recurse with
// the same operation, arrays are merged by one of several strategies, and
// numbers are combined with type promotion. Reserved strings (DeleteMarker,
// GetMarker, DatePrefix) carry in-band signals.
//
// The engine holds no state between calls. It does not synchronise access to
// a target; use Profile when several goroutines share one document.
package profilestate

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// DefaultMaxDepth bounds source nesting unless WithMaxDepth overrides it.
const DefaultMaxDepth = 100

// Engine applies operations to documents. The zero value is not usable; call New.
type Engine struct {
	log      logrus.FieldLogger
	maxDepth int
	arrays   *arrayHandler
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger that receives debug entries for skipped work.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMaxDepth rejects sources nested deeper than n levels. Zero disables the check.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxDepth = n
		}
	}
}

func New(opts ...Option) *Engine {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	e := &Engine{log: quiet, maxDepth: DefaultMaxDepth}
	for _, o := range opts {
		o(e)
	}
	e.arrays = &arrayHandler{recurse: e.walk, log: e.log}
	return e
}

var defaultEngine = New()

// Traverse applies source to target with the default engine.
func Traverse(target, source Value, op Operation) (ChangeSet, error) {
	return defaultEngine.Traverse(target, source, op)
}

// Traverse applies source onto target under op, mutating target in place
// (except for Get), and returns the changes made. Both roots must be objects.
// A source deeper than the configured limit is rejected before any mutation.
func (e *Engine) Traverse(target, source Value, op Operation) (ChangeSet, error) {
	if target == nil || source == nil {
		return nil, fmt.Errorf("profilestate: %w", ErrNilDocument)
	}
	t, ok := target.(*Object)
	if !ok || t == nil {
		return nil, fmt.Errorf("profilestate: target is %s: %w", target.Kind(), ErrNotObject)
	}
	s, ok := source.(*Object)
	if !ok || s == nil {
		return nil, fmt.Errorf("profilestate: source is %s: %w", source.Kind(), ErrNotObject)
	}
	if !op.Valid() {
		return nil, fmt.Errorf("profilestate: %w %s", ErrUnknownOperation, op)
	}
	if e.maxDepth > 0 {
		if d := depth(s); d > e.maxDepth {
			return nil, fmt.Errorf("profilestate: source depth %d over limit %d: %w", d, e.maxDepth, ErrMaxDepth)
		}
	}

	cs := ChangeSet{}
	e.walk(t, s, op, "", cs)
	return cs, nil
}

// depth counts composite nesting levels; a flat object is 1.
func depth(v Value) int {
	best := 0
	switch t := v.(type) {
	case *Object:
		for _, k := range t.keys {
			best = max(best, depth(t.vals[k]))
		}
	case *Array:
		for _, it := range t.items {
			best = max(best, depth(it))
		}
	default:
		return 0
	}
	return best + 1
}

func (e *Engine) walk(target, source *Object, op Operation, path string, cs ChangeSet) {
	// target may alias source; iterate over a copy of the keys.
	keys := append([]string(nil), source.keys...)
	for _, key := range keys {
		v, ok := source.Get(key)
		if !ok {
			continue
		}
		p := joinPath(path, key)
		if op == Delete {
			e.handleDelete(target, key, v, p, cs)
		} else {
			e.handleOperation(target, key, v, p, cs, op)
		}
	}
}

// handleOperation applies op to an existing target[key]. Objects recurse,
// arrays go to the array handler and numbers combine under
// Increment/Decrement. Only Update replaces a value of another kind; every
// other operation leaves mismatched kinds untouched and logs the skip.
func (e *Engine) handleOperation(target *Object, key string, nv Value, path string, cs ChangeSet, op Operation) {
	old, ok := target.Get(key)
	if !ok {
		e.handleMissingKey(target, key, nv, path, cs, op)
		return
	}

	oo, oldIsObj := old.(*Object)
	no, newIsObj := nv.(*Object)
	if oldIsObj && newIsObj {
		e.walk(oo, no, op, path, cs)
		return
	}
	oa, oldIsArr := old.(*Array)
	na, newIsArr := nv.(*Array)
	if oldIsArr && newIsArr {
		e.arrays.apply(target, key, oa, na, path, cs, op)
		return
	}

	switch {
	case (op == Increment || op == Decrement) && IsNumber(old) && IsNumber(nv):
		res, _ := combine(old, nv, op)
		if !Equal(res, old) {
			target.Set(key, res)
			cs.recordChange(path, old, res)
		}
	case op == Get:
		cs.recordChange(path, old, String(GetMarker))
	case op == Update:
		if !Equal(old, nv) {
			target.Set(key, Clone(nv))
			cs.recordChange(path, old, nv)
		}
	default:
		e.log.WithFields(logrus.Fields{"path": path, "op": op, "old": old.Kind(), "new": nv.Kind()}).
			Debug("operation does not apply to these value kinds, skipped")
	}
}

func (e *Engine) handleMissingKey(target *Object, key string, nv Value, path string, cs ChangeSet, op Operation) {
	switch op {
	case Update:
		target.Set(key, Clone(nv))
		cs.recordAddition(path, nv)
	case Increment:
		if IsNumber(nv) {
			target.Set(key, nv)
			cs.recordChange(path, nil, nv)
			return
		}
		e.log.WithFields(logrus.Fields{"path": path, "op": op}).Debug("non-numeric increment, skipped")
	case Decrement:
		if neg, ok := Negate(nv); ok {
			target.Set(key, neg)
			cs.recordChange(path, nil, neg)
			return
		}
		e.log.WithFields(logrus.Fields{"path": path, "op": op}).Debug("non-numeric decrement, skipped")
	default:
		// TODO: decide whether ARRAY_ADD should create the array once real callers show the need.
		e.log.WithFields(logrus.Fields{"path": path, "op": op}).Debug("key missing from target, skipped")
	}
}

// combine applies Increment or Decrement arithmetic to two numbers.
func combine(old, delta Value, op Operation) (Value, bool) {
	if op == Decrement {
		return Subtract(old, delta)
	}
	return Add(old, delta)
}
