// Package expander implements the minimal logic-less template language used
// by node configuration fields (prompts, request bodies, message text).
// It supports variable interpolation over the execution context:
//
//	{{trigger.message}}
//	{{httpNode.httpResponse.data}}
//
// plus a single helper that pretty-prints a nested value as JSON text so it
// can be embedded in a prompt:
//
//	{{json httpNode.httpResponse}}
//
// There are no conditionals, loops or partials - templating stays dumb on
// purpose; anything smarter belongs in a node executor.
package expander

import (
	"strings"

	"github.com/bytedance/sonic"
	"github.com/viant/toolbox"
)

const jsonHelper = "json"

// Expand interpolates all {{...}} tokens in text against the supplied
// variables. Unresolvable references expand to an empty string; malformed
// tokens (no closing braces) are left verbatim.
func Expand(text string, from map[string]interface{}) string {
	if text == "" || !strings.Contains(text, "{{") {
		return text
	}
	var b strings.Builder
	for {
		start := strings.Index(text, "{{")
		if start == -1 {
			b.WriteString(text)
			break
		}
		end := strings.Index(text[start:], "}}")
		if end == -1 {
			b.WriteString(text)
			break
		}
		end += start
		b.WriteString(text[:start])
		b.WriteString(expandToken(text[start+2:end], from))
		text = text[end+2:]
	}
	return b.String()
}

func expandToken(token string, from map[string]interface{}) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if name, ok := strings.CutPrefix(token, jsonHelper+" "); ok {
		value, found := lookup(strings.TrimSpace(name), from)
		if !found {
			return ""
		}
		return prettyJSON(value)
	}
	value, found := lookup(token, from)
	if !found {
		return ""
	}
	return stringify(value)
}

// lookup resolves a dot-separated path against nested maps and structs.
func lookup(path string, from map[string]interface{}) (interface{}, bool) {
	var current interface{} = from
	for _, part := range strings.Split(path, ".") {
		switch holder := current.(type) {
		case map[string]interface{}:
			value, ok := holder[part]
			if !ok {
				return nil, false
			}
			current = value
		case map[string]string:
			value, ok := holder[part]
			if !ok {
				return nil, false
			}
			current = value
		default:
			// Struct values (e.g. the seeded trigger) are traversed via
			// their JSON representation.
			asMap, ok := asMap(current)
			if !ok {
				return nil, false
			}
			value, ok := asMap[part]
			if !ok {
				return nil, false
			}
			current = value
		}
	}
	return current, true
}

func asMap(value interface{}) (map[string]interface{}, bool) {
	if value == nil {
		return nil, false
	}
	data, err := sonic.Marshal(value)
	if err != nil {
		return nil, false
	}
	ret := map[string]interface{}{}
	if err = sonic.Unmarshal(data, &ret); err != nil {
		return nil, false
	}
	return ret, true
}

func stringify(value interface{}) string {
	if value == nil {
		return ""
	}
	switch value.(type) {
	case string, bool, int, int64, float32, float64, uint, uint64:
		return toolbox.AsString(value)
	}
	// Complex values interpolate as compact JSON.
	data, err := sonic.Marshal(value)
	if err != nil {
		return toolbox.AsString(value)
	}
	return string(data)
}

func prettyJSON(value interface{}) string {
	data, err := sonic.MarshalIndent(value, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
