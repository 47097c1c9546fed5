package profilestate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeYAMLErrorsOnNonMappingTopLevel(t *testing.T) {
	in := []byte("- 1\n- 2\n")
	_, err := DecodeYAML(in)
	if err == nil {
		t.Fatalf("expected error for non-mapping top-level, got nil")
	}
	if !errors.Is(err, ErrNotObject) {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}
}

func TestEmptyDataCreatesEmptyDoc(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML} {
		doc, err := Decode([]byte("  \n"), f)
		if err != nil {
			t.Fatalf("%s: decode empty should succeed, got error: %v", f, err)
		}
		if doc == nil || doc.Len() != 0 {
			t.Fatalf("%s: expected empty object for empty data", f)
		}
	}
}

func TestDecodeYAMLTypes(t *testing.T) {
	doc, err := DecodeYAML([]byte("a: 1\nb: 1.5\nc: true\nd: null\ne: hi\nf: [1, two]\ng:\n  h: -3\n"))
	require.NoError(t, err)

	requireDoc(t, ObjectOf(
		"a", 1,
		"b", 1.5,
		"c", true,
		"d", nil,
		"e", "hi",
		"f", ArrayOf(1, "two"),
		"g", ObjectOf("h", -3),
	), doc)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g"}, doc.Keys())
}

func TestPreservesKeyOrder(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name: "simple order",
			input: `zebra: 1
apple: 2
middle: 3
`,
		},
		{
			name: "nested order",
			input: `third: 3
first:
  zulu: z
  alpha: a
  bravo: b
second: 2
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DecodeYAML([]byte(tt.input))
			if err != nil {
				t.Fatalf("DecodeYAML error: %v", err)
			}
			out, err := EncodeYAML(doc, 2)
			if err != nil {
				t.Fatalf("EncodeYAML error: %v", err)
			}
			if string(out) != tt.input {
				t.Fatalf("round trip changed the document:\n%s", unifiedDiff(tt.input, string(out)))
			}
		})
	}
}

func TestNewKeysAppendedAtEnd(t *testing.T) {
	doc, err := DecodeYAML([]byte("b: 1\na: 2\n"))
	require.NoError(t, err)

	_, err = Traverse(doc, ObjectOf("c", 3, "a", 5), Update)
	require.NoError(t, err)

	out, err := EncodeYAML(doc, 2)
	require.NoError(t, err)
	assert.Equal(t, "b: 1\na: 5\nc: 3\n", string(out))
}

func TestJSONRoundTripIsExact(t *testing.T) {
	in := `{"b":1,"a":{"y":[1,2.5,"x",null,true],"x":{}},"c":"$D_10","d":[]}`
	doc, err := DecodeJSON([]byte(in))
	require.NoError(t, err)

	out, err := EncodeJSON(doc)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestDecodeJSONErrors(t *testing.T) {
	for _, in := range []string{`[1,2]`, `"s"`, `{"a":1} {}`, `{"a":`, `{"a":1,}`} {
		_, err := DecodeJSON([]byte(in))
		assert.Error(t, err, in)
	}
	_, err := DecodeJSON([]byte(`[1]`))
	assert.True(t, errors.Is(err, ErrNotObject))
}

func TestDecodeJSONNumbers(t *testing.T) {
	doc, err := DecodeJSON([]byte(`{"i":42,"f":42.0,"e":1e3,"big":18446744073709551615,"neg":-7}`))
	require.NoError(t, err)

	get := func(k string) Value { v, _ := doc.Get(k); return v }
	assert.Equal(t, Int64(42), get("i"))
	assert.Equal(t, Float64(42), get("f"))
	assert.Equal(t, Float64(1000), get("e"))
	assert.Equal(t, Float64(18446744073709551615), get("big"))
	assert.Equal(t, Int64(-7), get("neg"))
	assert.False(t, Equal(get("i"), get("f")))
}

func TestYAMLRoundTripKeepsScalarKinds(t *testing.T) {
	doc := ObjectOf(
		"s", "true",
		"n", "12",
		"empty", "",
		"f", 2.0,
		"neg", -0.5,
		"date", "$D_1000",
		"list", ArrayOf("a", ObjectOf("k", nil)),
		"obj", NewObject(),
	)
	out, err := EncodeYAML(doc, 4)
	require.NoError(t, err)

	back, err := DecodeYAML(out)
	require.NoError(t, err)
	requireDoc(t, doc, back)
	assert.Contains(t, string(out), "f: 2.0")
}

func TestEncodeJSONIndent(t *testing.T) {
	out, err := Encode(ObjectOf("a", ArrayOf(1)), FormatJSON, 2)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": [\n    1\n  ]\n}\n", string(out))
}

func TestIndentDetection(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected int
	}{
		{
			name: "2 spaces",
			input: []byte(`root:
  child: value`),
			expected: 2,
		},
		{
			name: "4 spaces",
			input: []byte(`root:
    child: value`),
			expected: 4,
		},
		{
			name: "3 spaces",
			input: []byte(`root:
   child: value`),
			expected: 3,
		},
		{
			name: "mixed but consistent levels",
			input: []byte(`root:
  child:
    deep:
      deeper: value`),
			expected: 2,
		},
		{
			name:     "flat document",
			input:    []byte("a: 1\nb: 2\n"),
			expected: 2,
		},
		{
			name: "comments ignored",
			input: []byte(`root:
 # odd comment
    child: value`),
			expected: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detected := DetectIndent(tt.input)
			if detected != tt.expected {
				t.Errorf("DetectIndent() = %d, want %d for input:\n%s", detected, tt.expected, tt.input)
			}
		})
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("a/b.YML"))
	assert.Equal(t, FormatYAML, FormatFromPath("x.yaml"))
	assert.Equal(t, FormatJSON, FormatFromPath("x.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("noext"))

	f, err := ParseFormat(" YAML ")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = ParseFormat("toml")
	assert.Error(t, err)
}

func TestFromGoSortsPlainMaps(t *testing.T) {
	v, err := FromGo(map[string]any{"z": 1, "a": []any{"x", int32(2)}, "m": nil})
	require.NoError(t, err)
	o := v.(*Object)
	assert.Equal(t, []string{"a", "m", "z"}, o.Keys())
	requireDoc(t, ObjectOf("a", ArrayOf("x", int32(2)), "m", nil, "z", 1), o)

	_, err = FromGo(struct{}{})
	assert.Error(t, err)
}

func TestToGo(t *testing.T) {
	got := ToGo(mustJSON(t, `{"a":[1,"x",null],"b":{"c":true}}`))
	assert.Equal(t, map[string]any{
		"a": []any{int64(1), "x", nil},
		"b": map[string]any{"c": true},
	}, got)
}

func TestStringerUsesJSON(t *testing.T) {
	o := ObjectOf("a", ArrayOf(1, "b"))
	assert.Equal(t, `{"a":[1,"b"]}`, o.String())
	assert.True(t, strings.HasPrefix(ArrayOf().String(), "["))
}
