package core

import "sync"

// ConversationLog is the append-only list of turns shown to the user.
// Positions are stable; Reset is the only way to drop turns.
type ConversationLog struct {
	mu    sync.RWMutex
	turns []Turn
}

func NewConversationLog() *ConversationLog {
	return &ConversationLog{}
}

// Append adds turn at the end and returns its position.
func (l *ConversationLog) Append(turn Turn) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, turn)
	return len(l.turns) - 1
}

func (l *ConversationLog) All() []Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Since returns the turns at positions >= from.
func (l *ConversationLog) Since(from int) []Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if from < 0 {
		from = 0
	}
	if from >= len(l.turns) {
		return []Turn{}
	}
	out := make([]Turn, len(l.turns)-from)
	copy(out, l.turns[from:])
	return out
}

func (l *ConversationLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}

func (l *ConversationLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = nil
}
