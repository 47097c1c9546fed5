package profilestate

import (
	"slices"
	"sync"
)

// Profile guards one target document so that calls from several goroutines
// are applied one at a time.
type Profile struct {
	mu        sync.RWMutex
	doc       *Object
	engine    *Engine
	listeners []func(ChangeSet)
}

// NewProfile wraps doc. A nil doc starts empty.
func NewProfile(doc *Object, opts ...Option) *Profile {
	if doc == nil {
		doc = NewObject()
	}
	return &Profile{doc: doc, engine: New(opts...)}
}

// Apply runs op with source against the profile document. Listeners see
// every non-empty change set of a mutating operation, in registration order,
// after the lock is released.
func (p *Profile) Apply(source *Object, op Operation) (ChangeSet, error) {
	if op == Get {
		return p.Get(source)
	}

	p.mu.Lock()
	cs, err := p.engine.Traverse(p.doc, source, op)
	listeners := slices.Clone(p.listeners)
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if len(cs) > 0 {
		for _, fn := range listeners {
			fn(cs)
		}
	}
	return cs, nil
}

// Get reports the values selected by source without changing the document.
func (p *Profile) Get(source *Object) (ChangeSet, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.engine.Traverse(p.doc, source, Get)
}

// Snapshot returns a deep copy of the current document.
func (p *Profile) Snapshot() *Object {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.doc.Clone()
}

// OnChange registers fn to receive change sets.
func (p *Profile) OnChange(fn func(ChangeSet)) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}
