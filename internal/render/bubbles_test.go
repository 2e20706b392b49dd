package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"gwi.com/answer-bubbles/internal/core"
)

func TestRenderer_Turns(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, 60)

	r.Turns([]core.Turn{
		core.NewQuestionTurn("why?"),
		core.NewAnswerTurn([]string{"because", "reasons"}),
		core.NewAnswerTurn(nil),
		core.NewErrorTurn("try again"),
	})

	out := buf.String()
	require.Contains(t, out, "why?")
	require.Contains(t, out, "because")
	require.Contains(t, out, "reasons")
	require.Contains(t, out, "try again")
}

func TestRenderer_History(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, 0)

	r.History(nil)
	require.Contains(t, buf.String(), EmptyHistoryHint)

	buf.Reset()
	r.History([]string{"b", "a"})
	require.Equal(t, " 1. b\n 2. a\n", buf.String())
}
