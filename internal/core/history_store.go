package core

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"gwi.com/answer-bubbles/internal/store"
)

const (
	MaxHistoryEntries = 50
	DefaultHistoryKey = "history"
)

// HistoryStore is the durable, most-recent-first list of past questions.
// Values are unique and the list never exceeds MaxHistoryEntries.
type HistoryStore struct {
	mu      sync.Mutex
	kv      store.KV
	key     string
	entries []string
}

func NewHistoryStore(kv store.KV, key string) *HistoryStore {
	if key == "" {
		key = DefaultHistoryKey
	}
	return &HistoryStore{kv: kv, key: key}
}

// Load reads the history from storage. Corrupt payloads are deleted and
// yield an empty history; nothing is returned to the caller as an error.
func (h *HistoryStore) Load(ctx context.Context) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	entries, err := h.read(ctx)
	if err != nil {
		// Keep the last known good list in memory; the slot is untouched.
		return []string{}
	}
	h.entries = entries
	return clone(h.entries)
}

// Record puts text at the front of the history. Re-asking the current head
// is a no-op.
func (h *HistoryStore) Record(ctx context.Context, text string) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return clone(h.entries), ErrEmptyQuestion
	}

	// Re-read so that a corrupt slot is reset here as well.
	current, err := h.read(ctx)
	if err != nil {
		// Writing now would replace a payload we never saw.
		return clone(h.entries), err
	}
	if len(current) > 0 && current[0] == text {
		h.entries = current
		return clone(current), nil
	}

	// Prepend, then drop every later duplicate.
	next := make([]string, 0, len(current)+1)
	seen := make(map[string]struct{}, len(current)+1)
	for _, item := range append([]string{text}, current...) {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		next = append(next, item)
	}
	if len(next) > MaxHistoryEntries {
		next = next[:MaxHistoryEntries]
	}
	h.entries = next

	payload, err := json.Marshal(next)
	if err != nil {
		return clone(next), errors.Wrap(err, "failed to encode history")
	}
	if err := h.kv.Set(ctx, h.key, string(payload)); err != nil {
		return clone(next), errors.Wrap(err, "failed to persist history")
	}
	return clone(next), nil
}

// Clear erases persisted and in-memory history.
func (h *HistoryStore) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	return errors.Wrap(h.kv.Delete(ctx, h.key), "failed to clear history")
}

// Snapshot returns the in-memory history as of the last Load/Record/Clear.
func (h *HistoryStore) Snapshot() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return clone(h.entries)
}

// read returns the persisted list. A missing or corrupt slot yields an
// empty list and a nil error; only a failed storage read returns an error.
func (h *HistoryStore) read(ctx context.Context) ([]string, error) {
	raw, found, err := h.kv.Get(ctx, h.key)
	if err != nil {
		log.Warn().Err(err).Str("key", h.key).Msg("Could not read history")
		return nil, errors.Wrap(err, "failed to read history")
	}
	if !found || raw == "" {
		return []string{}, nil
	}

	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil || entries == nil {
		log.Warn().
			Err(errors.Wrap(ErrCorruptPersistedState, errString(err))).
			Str("key", h.key).
			Msg("Could not parse history, resetting")
		if delErr := h.kv.Delete(ctx, h.key); delErr != nil {
			log.Warn().Err(delErr).Str("key", h.key).Msg("Could not delete corrupt history")
		}
		return []string{}, nil
	}
	return entries, nil
}

func errString(err error) string {
	if err == nil {
		return "payload is not a list"
	}
	return err.Error()
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
