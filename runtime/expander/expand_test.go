package expander

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	from := map[string]interface{}{
		"trigger": map[string]interface{}{
			"type":    "chat",
			"message": "hello",
		},
		"httpNode": map[string]interface{}{
			"httpResponse": map[string]interface{}{
				"status": 200,
				"data":   map[string]interface{}{"name": "runlet"},
			},
		},
		"count": 3,
	}

	testCases := []struct {
		description string
		text        string
		expect      string
	}{
		{
			description: "plain text passthrough",
			text:        "no tokens here",
			expect:      "no tokens here",
		},
		{
			description: "simple variable",
			text:        "said: {{trigger.message}}",
			expect:      "said: hello",
		},
		{
			description: "numeric scalar",
			text:        "count={{count}}",
			expect:      "count=3",
		},
		{
			description: "nested path",
			text:        "{{httpNode.httpResponse.status}}",
			expect:      "200",
		},
		{
			description: "complex value as compact json",
			text:        "{{httpNode.httpResponse.data}}",
			expect:      `{"name":"runlet"}`,
		},
		{
			description: "unresolved reference expands to empty",
			text:        "[{{missing.path}}]",
			expect:      "[]",
		},
		{
			description: "malformed token left verbatim",
			text:        "{{trigger.message",
			expect:      "{{trigger.message",
		},
		{
			description: "surrounding whitespace tolerated",
			text:        "{{ trigger.message }}",
			expect:      "hello",
		},
		{
			description: "multiple tokens",
			text:        "{{trigger.type}}:{{trigger.message}}",
			expect:      "chat:hello",
		},
	}

	for _, testCase := range testCases {
		actual := Expand(testCase.text, from)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestExpand_JSONHelper(t *testing.T) {
	from := map[string]interface{}{
		"node": map[string]interface{}{
			"result": map[string]interface{}{"ok": true},
		},
	}
	actual := Expand("{{json node.result}}", from)
	assert.Equal(t, "{\n  \"ok\": true\n}", actual)

	assert.Equal(t, "", Expand("{{json missing}}", from))
}

func TestExpand_StructTraversal(t *testing.T) {
	type trigger struct {
		Message string `json:"message"`
	}
	from := map[string]interface{}{
		"trigger": &trigger{Message: "from a struct"},
	}
	assert.Equal(t, "from a struct", Expand("{{trigger.message}}", from))
}
