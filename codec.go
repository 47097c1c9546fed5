package profilestate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	gyaml "github.com/goccy/go-yaml"
	"gopkg.in/yaml.v3"
)

// Format names a document serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the format from a file extension, defaulting to JSON.
func FormatFromPath(p string) Format {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("profilestate: unknown format %q", s)
}

// Decode parses data in the given format into an object.
func Decode(data []byte, f Format) (*Object, error) {
	switch f {
	case FormatYAML:
		return DecodeYAML(data)
	case FormatJSON:
		return DecodeJSON(data)
	}
	return nil, fmt.Errorf("profilestate: unknown format %q", f)
}

// Encode serializes v. indent applies to both formats; zero means compact JSON
// and two-space YAML.
func Encode(v Value, f Format, indent int) ([]byte, error) {
	switch f {
	case FormatYAML:
		return EncodeYAML(v, indent)
	case FormatJSON:
		b, err := EncodeJSON(v)
		if err != nil || indent <= 0 {
			return b, err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, b, "", strings.Repeat(" ", indent)); err != nil {
			return nil, fmt.Errorf("profilestate: indent JSON: %w", err)
		}
		out.WriteByte('\n')
		return out.Bytes(), nil
	}
	return nil, fmt.Errorf("profilestate: unknown format %q", f)
}

// DecodeYAML parses a YAML mapping, keeping key order. Empty input gives an
// empty object; any other top level is an error.
func DecodeYAML(data []byte) (*Object, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewObject(), nil
	}
	var raw any
	if err := gyaml.UnmarshalWithOptions(data, &raw, gyaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("profilestate: failed to parse YAML: %w", err)
	}
	if raw == nil {
		return NewObject(), nil
	}
	if _, ok := raw.(gyaml.MapSlice); !ok {
		return nil, fmt.Errorf("profilestate: top-level YAML is not a mapping: %w", ErrNotObject)
	}
	v, err := FromGo(raw)
	if err != nil {
		return nil, err
	}
	return v.(*Object), nil
}

const maxDecodeDepth = 10000

// DecodeJSON parses a JSON object, keeping key order.
func DecodeJSON(data []byte) (*Object, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewObject(), nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readJSON(dec, 0)
	if err != nil {
		return nil, fmt.Errorf("profilestate: invalid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("profilestate: invalid JSON: trailing data after document")
	}
	o, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("profilestate: top-level JSON is %s: %w", v.Kind(), ErrNotObject)
	}
	return o, nil
}

func readJSON(dec *json.Decoder, level int) (Value, error) {
	if level > maxDecodeDepth {
		return nil, ErrMaxDepth
	}
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			o := NewObject()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				k, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key %v is not a string", kt)
				}
				v, err := readJSON(dec, level+1)
				if err != nil {
					return nil, err
				}
				o.Set(k, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return o, nil
		case '[':
			a := &Array{}
			for dec.More() {
				v, err := readJSON(dec, level+1)
				if err != nil {
					return nil, err
				}
				a.Append(v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return a, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case json.Number:
		return numberValue(t), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func numberValue(n json.Number) Value {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int64(i)
		}
	}
	f, _ := strconv.ParseFloat(s, 64)
	return Float64(f)
}

// EncodeJSON writes v as compact JSON with object keys in insertion order.
func EncodeJSON(v Value) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("profilestate: encode JSON: %w", err)
	}
	return b, nil
}

func (Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a *Array) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, it := range a.items {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := json.Marshal(it)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// EncodeYAML writes v as YAML with object keys in insertion order.
func EncodeYAML(v Value, indent int) ([]byte, error) {
	if indent <= 0 {
		indent = 2
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(valueToYAMLNode(v)); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("profilestate: encode YAML: %w", err)
	}
	_ = enc.Close()
	return buf.Bytes(), nil
}

func valueToYAMLNode(v Value) *yaml.Node {
	switch t := v.(type) {
	case nil, Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(bool(t))}
	case Int32:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(t), 10)}
	case Int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(t), 10)}
	case Float32:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatYAMLFloat(float64(t), 32)}
	case Float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatYAMLFloat(float64(t), 64)}
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(t)}
	case *Object:
		mp := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range t.Keys() {
			mp.Content = append(mp.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				valueToYAMLNode(t.vals[k]))
		}
		return mp
	case *Array:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range t.Items() {
			seq.Content = append(seq.Content, valueToYAMLNode(it))
		}
		return seq
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(v)}
}

func formatYAMLFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// FromGo converts plain Go values (as produced by encoding/json, goccy/go-yaml
// or literals) into a Value. Maps with unordered keys are sorted by key.
func FromGo(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int8:
		return Int32(t), nil
	case int16:
		return Int32(t), nil
	case int32:
		return Int32(t), nil
	case uint8:
		return Int32(t), nil
	case uint16:
		return Int32(t), nil
	case int:
		return Int64(t), nil
	case int64:
		return Int64(t), nil
	case uint32:
		return Int64(t), nil
	case uint:
		return fromUint(uint64(t)), nil
	case uint64:
		return fromUint(t), nil
	case float32:
		return Float32(t), nil
	case float64:
		return Float64(t), nil
	case json.Number:
		return numberValue(t), nil
	case string:
		return String(t), nil
	case time.Time:
		return String(t.Format(time.RFC3339Nano)), nil
	case []any:
		a := &Array{items: make([]Value, 0, len(t))}
		for _, e := range t {
			v, err := FromGo(e)
			if err != nil {
				return nil, err
			}
			a.items = append(a.items, v)
		}
		return a, nil
	case []string:
		a := &Array{items: make([]Value, 0, len(t))}
		for _, e := range t {
			a.items = append(a.items, String(e))
		}
		return a, nil
	case gyaml.MapSlice:
		o := NewObject()
		for _, it := range t {
			v, err := FromGo(it.Value)
			if err != nil {
				return nil, err
			}
			o.Set(keyString(it.Key), v)
		}
		return o, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		o := NewObject()
		for _, k := range keys {
			v, err := FromGo(t[k])
			if err != nil {
				return nil, err
			}
			o.Set(k, v)
		}
		return o, nil
	}
	return nil, fmt.Errorf("profilestate: unsupported Go value of type %T", x)
}

// MustFromGo is FromGo that panics on unsupported input.
func MustFromGo(x any) Value {
	v, err := FromGo(x)
	if err != nil {
		panic(err)
	}
	return v
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float64(float64(u))
	}
	return Int64(int64(u))
}

func keyString(k any) string {
	switch vv := k.(type) {
	case string:
		return vv
	case fmt.Stringer:
		return vv.String()
	default:
		return fmt.Sprint(vv)
	}
}

// ToGo converts v into plain Go values: nil, bool, int32, int64, float32,
// float64, string, map[string]any and []any.
func ToGo(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(t)
	case Int32:
		return int32(t)
	case Int64:
		return int64(t)
	case Float32:
		return float32(t)
	case Float64:
		return float64(t)
	case String:
		return string(t)
	case *Object:
		m := make(map[string]any, t.Len())
		for _, k := range t.Keys() {
			m[k] = ToGo(t.vals[k])
		}
		return m
	case *Array:
		out := make([]any, 0, t.Len())
		for _, it := range t.Items() {
			out = append(out, ToGo(it))
		}
		return out
	}
	return nil
}

// DetectIndent guesses the indent step of a YAML document from the leading
// spaces of its content lines. Comment and blank lines do not count. It falls
// back to 2 when no line is indented or the step looks implausible.
func DetectIndent(b []byte) int {
	step := 0
	for line := range bytes.Lines(b) {
		body := bytes.TrimLeft(line, " ")
		if len(bytes.TrimSpace(body)) == 0 || body[0] == '#' {
			continue
		}
		if n := len(line) - len(body); n > 0 {
			step = gcd(step, n)
		}
	}
	if step < 1 || step > 8 {
		return 2
	}
	return step
}

// gcd of two non-negative ints; gcd(0, n) is n.
func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
