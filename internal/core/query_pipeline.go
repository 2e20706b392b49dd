package core

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// DefaultFailureMessage is the only failure text a user ever sees.
const DefaultFailureMessage = "Kuch problem hua — dobara try karo."

type QueryPipeline struct {
	history   *HistoryStore
	generator Generator
	turns     *ConversationLog

	failureMessage string
	inFlight       *semaphore.Weighted

	mu    sync.Mutex
	state QueryState
}

type PipelineOption func(*QueryPipeline)

// WithFailureMessage overrides the text of error turns.
func WithFailureMessage(msg string) PipelineOption {
	return func(p *QueryPipeline) {
		if msg != "" {
			p.failureMessage = msg
		}
	}
}

func NewQueryPipeline(history *HistoryStore, gen Generator, turns *ConversationLog, opts ...PipelineOption) *QueryPipeline {
	p := &QueryPipeline{
		history:        history,
		generator:      gen,
		turns:          turns,
		failureMessage: DefaultFailureMessage,
		inFlight:       semaphore.NewWeighted(1),
		state:          StateIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *QueryPipeline) History() *HistoryStore { return p.history }
func (p *QueryPipeline) Conversation() *ConversationLog { return p.turns }
func (p *QueryPipeline) FailureMessage() string { return p.failureMessage }

func (p *QueryPipeline) State() QueryState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *QueryPipeline) setState(s QueryState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// SubmitDefault asks explicit when given, otherwise the currently typed input.
func (p *QueryPipeline) SubmitDefault(ctx context.Context, explicit *string, typed string) Outcome {
	if explicit != nil {
		return p.Submit(ctx, *explicit)
	}
	return p.Submit(ctx, typed)
}

// Submit runs one question through history, the generator and the parser.
// Empty input and overlapping submissions return without side effects.
func (p *QueryPipeline) Submit(ctx context.Context, text string) Outcome {
	if strings.TrimSpace(text) == "" {
		return Outcome{Err: ErrEmptyQuestion}
	}
	if !p.inFlight.TryAcquire(1) {
		log.Debug().Str("question", text).Msg("Rejected overlapping submission")
		return Outcome{Err: ErrQueryInFlight}
	}
	defer p.inFlight.Release(1)

	reqID := uuid.NewString()
	logger := log.With().Str("request_id", reqID).Logger()

	// Store question in history
	if _, err := p.history.Record(ctx, text); err != nil {
		logger.Warn().Err(err).Msg("Failed to record question in history")
	}
	// Show the question immediately
	p.turns.Append(NewQuestionTurn(text))
	p.setState(StatePending)

	// Generate model response
	start := time.Now()
	reply, err := p.generator.Generate(ctx, text)
	if err != nil {
		logger.Error().
			Err(err).
			Str("kind", FailureKind(err)).
			Dur("elapsed", time.Since(start)).
			Msg("Query failed")
		// Only the canned text reaches the user
		p.turns.Append(NewErrorTurn(p.failureMessage))
		p.setState(StateFailed)
		return Outcome{Err: err}
	}

	// Store model answer
	segments := ParseAnswer(reply)
	p.turns.Append(NewAnswerTurn(segments))
	p.setState(StateFulfilled)
	logger.Debug().
		Int("segments", len(segments)).
		Dur("elapsed", time.Since(start)).
		Msg("Query fulfilled")
	return Outcome{Segments: segments}
}
