package content

import (
	"fmt"
	"strings"

	"go.starlark.net/starlark"

	"github.com/monolith-gen/monolith/pkg/template"
)

// LoadStarlark evaluates a Starlark content script. Every exported global
// (no leading underscore) becomes a key of the render context, so a script
// can compute sections, dates, or derived fields instead of spelling them
// out by hand in YAML.
func LoadStarlark(path string) (*Document, error) {
	thread := &starlark.Thread{Name: "monolith-content"}
	globals, err := starlark.ExecFile(thread, path, nil, starlark.StringDict{})
	if err != nil {
		return nil, fmt.Errorf("content script %s: %w", path, err)
	}
	ctx := template.MappingValue{}
	for name, val := range globals {
		if strings.HasPrefix(name, "_") {
			continue
		}
		ctx[name] = fromStarlark(val)
	}
	doc := &Document{Path: path, Context: ctx}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("content script %s: %w", path, err)
	}
	return doc, nil
}

// fromStarlark converts a Starlark value into the engine's value model.
func fromStarlark(val starlark.Value) template.Value {
	switch v := val.(type) {
	case nil, starlark.NoneType:
		return template.NullValue{}
	case starlark.String:
		return template.StringValue(string(v))
	case starlark.Bool:
		return template.BoolValue(bool(v))
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return template.IntValue(i)
		}
		// out of int64 range: keep the textual form
		return template.StringValue(v.String())
	case starlark.Float:
		return template.FloatValue(float64(v))
	case *starlark.List:
		out := make(template.SequenceValue, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			out = append(out, fromStarlark(v.Index(i)))
		}
		return out
	case starlark.Tuple:
		out := make(template.SequenceValue, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			out = append(out, fromStarlark(v.Index(i)))
		}
		return out
	case *starlark.Dict:
		out := template.MappingValue{}
		for _, item := range v.Items() {
			key := item[0]
			if ks, ok := key.(starlark.String); ok {
				out[string(ks)] = fromStarlark(item[1])
			} else {
				out[key.String()] = fromStarlark(item[1])
			}
		}
		return out
	default:
		return template.StringValue(val.String())
	}
}
