package jsonutil_test

import (
	"testing"

	"github.com/effective-security/gcpmcp/pkg/jsonutil"
	"github.com/stretchr/testify/assert"
)

func Test_CleanJSON(t *testing.T) {
	tcases := []struct {
		in  string
		exp string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"Sure, here you go: {\"a\":1}", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{`[1,2]`, `[1,2]`},
		{"prefix [1,2] suffix", `[1,2]`},
		{"no json at all", "no json at all"},
	}
	for _, tc := range tcases {
		assert.Equal(t, tc.exp, string(jsonutil.CleanJSON([]byte(tc.in))), "input: %s", tc.in)
	}
}

func Test_ToJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, jsonutil.ToJSON(map[string]int{"a": 1}))
	assert.Equal(t, "{\n\t\"a\": 1\n}", string(jsonutil.ToJSONIndent(map[string]int{"a": 1})))
}
