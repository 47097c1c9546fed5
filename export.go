package profilestate

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// Paths returns the recorded paths in sorted order.
func (cs ChangeSet) Paths() []string {
	out := make([]string, 0, len(cs))
	for p := range cs {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

type changeJSON struct {
	Old Value `json:"old,omitempty"`
	New Value `json:"new,omitempty"`
}

// MarshalJSON encodes the change as {"old":..,"new":..}, omitting absent sides.
func (c Change) MarshalJSON() ([]byte, error) {
	return json.Marshal(changeJSON{Old: c.Old, New: c.New})
}

// MarshalJSON encodes the set as an object keyed by path, sorted.
func (cs ChangeSet) MarshalJSON() ([]byte, error) {
	m := make(map[string]Change, len(cs))
	for k, v := range cs {
		m[k] = v
	}
	return json.Marshal(m)
}

type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value Value  `json:"value,omitempty"`
}

// Patch converts the set into an RFC 6902 JSON Patch, one operation per path
// in sorted order. Reads recorded by Get are left out. Values are written as
// the document stores them, so date strings keep their prefix. Deletions
// under an object that a delete emptied and removed collapse into a single
// remove of the highest such object. An empty object inserted by Update has
// no record and so no operation.
func (cs ChangeSet) Patch() (jsonpatch.Patch, error) {
	ops := make([]patchOp, 0, len(cs))
	removed := map[string]bool{}
	for _, p := range cs.Paths() {
		c := cs[p]
		if IsGetMarker(c.New) {
			continue
		}
		ptr := PointerFromPath(p)
		switch {
		case c.IsAddition():
			ops = append(ops, patchOp{Op: "add", Path: ptr, Value: c.storedValue()})
		case c.IsDeletion():
			if c.pruned != "" {
				ptr = PointerFromPath(c.pruned)
			}
			if removed[ptr] {
				continue
			}
			removed[ptr] = true
			ops = append(ops, patchOp{Op: "remove", Path: ptr})
		case c.Old != nil && c.New != nil:
			ops = append(ops, patchOp{Op: "replace", Path: ptr, Value: c.storedValue()})
		}
	}
	if len(ops) == 0 {
		return jsonpatch.Patch{}, nil
	}
	b, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("profilestate: encode patch: %w", err)
	}
	patch, err := jsonpatch.DecodePatch(b)
	if err != nil {
		return nil, fmt.Errorf("profilestate: decode patch: %w", err)
	}
	return patch, nil
}

// ApplyPatch replays cs onto a JSON document. Intermediate objects missing
// from doc are created for additions.
func ApplyPatch(doc []byte, cs ChangeSet) ([]byte, error) {
	patch, err := cs.Patch()
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return doc, nil
	}
	opts := jsonpatch.NewApplyOptions()
	opts.EnsurePathExistsOnAdd = true
	out, err := patch.ApplyWithOptions(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("profilestate: apply patch: %w", err)
	}
	return out, nil
}

// PointerFromPath converts a change path ("a.b", "list[2].name") into a JSON
// Pointer ("/a/b", "/list/2/name").
func PointerFromPath(p string) string {
	if p == "" {
		return ""
	}
	var sb strings.Builder
	for _, part := range strings.Split(p, ".") {
		name, idx := splitIndexes(part)
		sb.WriteByte('/')
		sb.WriteString(escapePointer(name))
		for _, i := range idx {
			sb.WriteByte('/')
			sb.WriteString(i)
		}
	}
	return sb.String()
}

// splitIndexes peels trailing "[n]" suffixes off a path segment.
func splitIndexes(part string) (string, []string) {
	var idx []string
	for strings.HasSuffix(part, "]") {
		open := strings.LastIndexByte(part, '[')
		if open < 0 || !isDigits(part[open+1:len(part)-1]) {
			break
		}
		idx = append([]string{part[open+1 : len(part)-1]}, idx...)
		part = part[:open]
	}
	return part, idx
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func escapePointer(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
