package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal([]byte(s), &doc))
	return doc
}

func TestDigString(t *testing.T) {
	path := []any{"candidates", 0, "content", "parts", 0, "text"}

	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"full", `{"candidates":[{"content":{"parts":[{"text":"hi"}]}}]}`, "hi"},
		{"no candidates", `{}`, ""},
		{"empty candidates", `{"candidates":[]}`, ""},
		{"null content", `{"candidates":[{"content":null}]}`, ""},
		{"parts not array", `{"candidates":[{"content":{"parts":{"text":"x"}}}]}`, ""},
		{"text not string", `{"candidates":[{"content":{"parts":[{"text":42}]}}]}`, ""},
		{"top level array", `[1,2]`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DigString(decode(t, tc.doc), path...))
		})
	}
}

func TestDig_BadSteps(t *testing.T) {
	doc := decode(t, `{"a":[{"b":1}]}`)

	_, ok := Dig(doc, "a", -1)
	require.False(t, ok)
	_, ok = Dig(doc, "a", 1)
	require.False(t, ok)
	_, ok = Dig(doc, "a", 0.5)
	require.False(t, ok)

	v, ok := Dig(doc, "a", 0, "b")
	require.True(t, ok)
	require.Equal(t, float64(1), v)

	_, ok = Dig(nil)
	require.False(t, ok)
}
