package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"gwi.com/answer-bubbles/internal/store"
)

func newHistory(t *testing.T) (*HistoryStore, *store.MemoryStore) {
	t.Helper()
	kv := store.NewMemoryStore()
	return NewHistoryStore(kv, ""), kv
}

func TestHistoryStore_RecordPrependsAndDedups(t *testing.T) {
	ctx := context.Background()
	h, kv := newHistory(t)

	for _, q := range []string{"a", "b", "c", "a"} {
		_, err := h.Record(ctx, q)
		require.NoError(t, err)
	}

	require.Equal(t, []string{"a", "c", "b"}, h.Snapshot())

	raw, found, err := kv.Get(ctx, DefaultHistoryKey)
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, `["a","c","b"]`, raw)
}

func TestHistoryStore_ImmediateDuplicateIsNoop(t *testing.T) {
	ctx := context.Background()
	h, kv := newHistory(t)

	first, err := h.Record(ctx, "x")
	require.NoError(t, err)

	// Overwrite the slot to prove the second call does not write.
	require.NoError(t, kv.Set(ctx, DefaultHistoryKey, `["x"]`))
	second, err := h.Record(ctx, "x")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, []string{"x"}, second)
}

func TestHistoryStore_Cap(t *testing.T) {
	ctx := context.Background()
	h, _ := newHistory(t)

	for i := 0; i < 60; i++ {
		_, err := h.Record(ctx, fmt.Sprintf("q%d", i))
		require.NoError(t, err)
	}

	got := h.Load(ctx)
	require.Len(t, got, MaxHistoryEntries)
	require.Equal(t, "q59", got[0])
	require.Equal(t, "q10", got[MaxHistoryEntries-1])
	for i, q := range got {
		require.Equal(t, fmt.Sprintf("q%d", 59-i), q)
	}
}

func TestHistoryStore_InvariantUnderRandomishSequence(t *testing.T) {
	ctx := context.Background()
	h, _ := newHistory(t)

	for i := 0; i < 500; i++ {
		q := fmt.Sprintf("q%d", (i*7)%73)
		got, err := h.Record(ctx, q)
		require.NoError(t, err)
		require.Equal(t, q, got[0])
		require.LessOrEqual(t, len(got), MaxHistoryEntries)

		seen := map[string]bool{}
		for _, v := range got {
			require.False(t, seen[v], "duplicate %q", v)
			seen[v] = true
		}
	}
}

func TestHistoryStore_LoadCorrupt(t *testing.T) {
	ctx := context.Background()

	for _, payload := range []string{"not json{", `{"a":1}`, `"str"`, `null`, `[1,2]`} {
		t.Run(payload, func(t *testing.T) {
			h, kv := newHistory(t)
			require.NoError(t, kv.Set(ctx, DefaultHistoryKey, payload))

			require.Empty(t, h.Load(ctx))

			_, found, err := kv.Get(ctx, DefaultHistoryKey)
			require.NoError(t, err)
			require.False(t, found, "corrupt slot should be cleared")
		})
	}
}

func TestHistoryStore_RecordOverCorrupt(t *testing.T) {
	ctx := context.Background()
	h, kv := newHistory(t)
	require.NoError(t, kv.Set(ctx, DefaultHistoryKey, "not json{"))

	got, err := h.Record(ctx, "fresh")
	require.NoError(t, err)
	require.Equal(t, []string{"fresh"}, got)
}

func TestHistoryStore_LoadMissingAndClear(t *testing.T) {
	ctx := context.Background()
	h, kv := newHistory(t)

	require.Empty(t, h.Load(ctx))

	_, err := h.Record(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, h.Clear(ctx))

	require.Empty(t, h.Snapshot())
	_, found, err := kv.Get(ctx, DefaultHistoryKey)
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, h.Load(ctx))
}

func TestHistoryStore_SnapshotIsCopy(t *testing.T) {
	ctx := context.Background()
	h, _ := newHistory(t)
	_, err := h.Record(ctx, "a")
	require.NoError(t, err)

	snap := h.Snapshot()
	snap[0] = "mutated"
	require.Equal(t, []string{"a"}, h.Snapshot())
}

// failingReadKV is a MemoryStore whose reads can be switched off.
type failingReadKV struct {
	*store.MemoryStore
	failGet bool
}

func (f *failingReadKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errors.New("database is locked")
	}
	return f.MemoryStore.Get(ctx, key)
}

func TestHistoryStore_ReadFailureKeepsPersistedHistory(t *testing.T) {
	ctx := context.Background()
	kv := &failingReadKV{MemoryStore: store.NewMemoryStore()}
	h := NewHistoryStore(kv, "")

	for _, q := range []string{"a", "b", "c"} {
		_, err := h.Record(ctx, q)
		require.NoError(t, err)
	}

	kv.failGet = true
	got, err := h.Record(ctx, "d")
	require.Error(t, err)
	require.Equal(t, []string{"c", "b", "a"}, got)
	require.Empty(t, h.Load(ctx))
	require.Equal(t, []string{"c", "b", "a"}, h.Snapshot())

	kv.failGet = false
	raw, found, err := kv.Get(ctx, DefaultHistoryKey)
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, `["c","b","a"]`, raw)
}

func TestHistoryStore_RejectsEmptyEntry(t *testing.T) {
	ctx := context.Background()
	h, kv := newHistory(t)

	for _, in := range []string{"", "  ", "\t\n"} {
		_, err := h.Record(ctx, in)
		require.ErrorIs(t, err, ErrEmptyQuestion)
	}

	_, found, err := kv.Get(ctx, DefaultHistoryKey)
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, h.Snapshot())
}
