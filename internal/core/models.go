package core

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TurnKind string

const (
	TurnQuestion TurnKind = "question"
	TurnAnswer   TurnKind = "answer"
	TurnError    TurnKind = "error"
)

// Turn is one entry of the conversation log.
type Turn struct {
	ID        string    `json:"id"`
	Kind      TurnKind  `json:"kind"`
	Text      string    `json:"text,omitempty"` // question text or error message
	Segments  []string  `json:"segments"`       // answer turns only
	CreatedAt time.Time `json:"created_at"`
}

// MarshalJSON always writes segments as an array on answer turns and leaves
// the field out on every other kind.
func (t Turn) MarshalJSON() ([]byte, error) {
	type plain Turn
	if t.Kind == TurnAnswer {
		if t.Segments == nil {
			t.Segments = []string{}
		}
		return json.Marshal(plain(t))
	}
	return json.Marshal(struct {
		plain
		Segments []string `json:"segments,omitempty"`
	}{plain: plain(t)})
}

func NewQuestionTurn(text string) Turn {
	return Turn{ID: uuid.NewString(), Kind: TurnQuestion, Text: text, CreatedAt: time.Now()}
}

func NewAnswerTurn(segments []string) Turn {
	if segments == nil {
		segments = []string{}
	}
	return Turn{ID: uuid.NewString(), Kind: TurnAnswer, Segments: segments, CreatedAt: time.Now()}
}

func NewErrorTurn(message string) Turn {
	return Turn{ID: uuid.NewString(), Kind: TurnError, Text: message, CreatedAt: time.Now()}
}

type QueryState string

const (
	StateIdle      QueryState = "idle"
	StatePending   QueryState = "pending"
	StateFulfilled QueryState = "fulfilled"
	StateFailed    QueryState = "failed"
)

// Outcome is the result of one submission: Segments on success, Err otherwise.
type Outcome struct {
	Segments []string
	Err      error
}
