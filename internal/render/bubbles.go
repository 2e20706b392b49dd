package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gwi.com/answer-bubbles/internal/core"
)

const (
	EmptyConversationHint = "What are you working on?"
	EmptyHistoryHint      = "No recent searches"
)

var (
	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238")).
			Padding(0, 1)
	answerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
)

// Renderer draws turns as terminal bubbles.
type Renderer struct {
	w     io.Writer
	width int
}

func New(w io.Writer, width int) *Renderer {
	if width <= 0 {
		width = 80
	}
	return &Renderer{w: w, width: width}
}

func (r *Renderer) Turn(t core.Turn) string {
	bubbleWidth := r.width * 7 / 10
	switch t.Kind {
	case core.TurnQuestion:
		bubble := questionStyle.MaxWidth(bubbleWidth).Render(t.Text)
		return lipgloss.PlaceHorizontal(r.width, lipgloss.Right, bubble)
	case core.TurnAnswer:
		if len(t.Segments) == 0 {
			return ""
		}
		blocks := make([]string, 0, len(t.Segments))
		for _, seg := range t.Segments {
			blocks = append(blocks, answerStyle.Width(bubbleWidth).Render(seg))
		}
		return lipgloss.JoinVertical(lipgloss.Left, blocks...)
	case core.TurnError:
		return errorStyle.Render(t.Text)
	default:
		return t.Text
	}
}

func (r *Renderer) Turns(turns []core.Turn) {
	for _, t := range turns {
		if out := r.Turn(t); out != "" {
			fmt.Fprintln(r.w, out)
		}
	}
}

func (r *Renderer) EmptyConversation() {
	fmt.Fprintln(r.w, hintStyle.Render(EmptyConversationHint))
}

// History prints the recent searches, numbered from 1.
func (r *Renderer) History(entries []string) {
	if len(entries) == 0 {
		fmt.Fprintln(r.w, hintStyle.Render(EmptyHistoryHint))
		return
	}
	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, e)
	}
	fmt.Fprint(r.w, b.String())
}
