package profilestate

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// show renders a value for failure messages.
func show(v Value) string {
	if v == nil {
		return "<absent>"
	}
	b, err := EncodeJSON(v)
	if err != nil {
		return err.Error()
	}
	return string(b)
}

func sameValue(a, b Value) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || Equal(a, b)
}

func requireChanges(t *testing.T, want, got ChangeSet) {
	t.Helper()
	require.Equal(t, want.Paths(), got.Paths(), "changed paths")
	for _, p := range want.Paths() {
		w, g := want[p], got[p]
		assert.Truef(t, sameValue(w.Old, g.Old), "%s: old = %s, want %s", p, show(g.Old), show(w.Old))
		assert.Truef(t, sameValue(w.New, g.New), "%s: new = %s, want %s", p, show(g.New), show(w.New))
	}
}

func requireDoc(t *testing.T, want, got Value) {
	t.Helper()
	if !Equal(want, got) {
		t.Fatalf("document mismatch:\n%s", unifiedDiff(yamlText(want), yamlText(got)))
	}
}

func yamlText(v Value) string {
	b, err := EncodeYAML(v, 2)
	if err != nil {
		return show(v) + "\n"
	}
	return string(b)
}

func unifiedDiff(before, after string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}

func mustJSON(t *testing.T, s string) *Object {
	t.Helper()
	o, err := DecodeJSON([]byte(s))
	require.NoError(t, err)
	return o
}
