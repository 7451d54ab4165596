package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func appendN(t *testing.T, s *Store, n int) []Message {
	t.Helper()
	start := time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)
	var msgs []Message
	for i := range n {
		m, err := s.Append(context.Background(), "alice", fmt.Sprintf("message %d", i), start.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		msgs = append(msgs, m)
	}
	return msgs
}

func bodies(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Body
	}
	return out
}

func TestStoreAppend(t *testing.T) {
	s := openStore(t)
	sentAt := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	m, err := s.Append(context.Background(), "bob", "hi", sentAt)
	require.NoError(t, err)
	_, err = uuid.Parse(m.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), m.Seq)

	latest, err := s.Latest(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, m.ID, latest[0].ID)
	assert.Equal(t, "bob", latest[0].Author)
	assert.True(t, sentAt.Equal(latest[0].SentAt))

	_, err = s.Append(context.Background(), "bob", "", sentAt)
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestStorePages(t *testing.T) {
	s := openStore(t)
	msgs := appendN(t, s, 10)
	ctx := context.Background()

	latest, err := s.Latest(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"message 7", "message 8", "message 9"}, bodies(latest))

	before, err := s.Before(ctx, msgs[7].Seq, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"message 4", "message 5", "message 6"}, bodies(before))

	before, err = s.Before(ctx, msgs[1].Seq, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"message 0"}, bodies(before))

	after, err := s.After(ctx, msgs[2].Seq, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"message 3", "message 4"}, bodies(after))

	after, err = s.After(ctx, msgs[9].Seq, 2)
	require.NoError(t, err)
	assert.Empty(t, after)
}

func TestStoreSeed(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)

	require.NoError(t, s.Seed(ctx, 25, now))
	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, count)

	latest, err := s.Latest(ctx, 1)
	require.NoError(t, err)
	assert.True(t, now.Equal(latest[0].SentAt))

	// Seeding again keeps the existing history.
	require.NoError(t, s.Seed(ctx, 5, now))
	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, count)
}

func TestStoreFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	appendN(t, s, 2)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestWindowFill(t *testing.T) {
	s := openStore(t)
	appendN(t, s, 10)
	ctx := context.Background()

	w := NewWindow(s, 4)
	require.NoError(t, w.Load(ctx))
	assert.Equal(t, []string{"message 6", "message 7", "message 8", "message 9"}, bodies(w.Messages()))
	assert.True(t, w.AtEnd())
	assert.False(t, w.AtStart())

	more, err := w.Fill(ctx, false)
	require.NoError(t, err)
	assert.False(t, more)

	more, err = w.Fill(ctx, true)
	require.NoError(t, err)
	assert.True(t, more)
	assert.Len(t, w.Messages(), 8)

	more, err = w.Fill(ctx, true)
	require.NoError(t, err)
	assert.False(t, more)
	assert.True(t, w.AtStart())
	assert.Equal(t, "message 0", w.Messages()[0].Body)

	more, err = w.Fill(ctx, true)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Len(t, w.Messages(), 10)
}

func TestWindowFillEmpty(t *testing.T) {
	s := openStore(t)
	w := NewWindow(s, 4)

	more, err := w.Fill(context.Background(), true)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Empty(t, w.Messages())
	assert.True(t, w.AtStart())
}

func TestWindowUnfill(t *testing.T) {
	s := openStore(t)
	msgs := appendN(t, s, 10)
	ctx := context.Background()

	w := NewWindow(s, 10)
	require.NoError(t, w.Load(ctx))

	assert.Equal(t, 3, w.Unfill(true, msgs[2].ID))
	assert.Equal(t, "message 3", w.Messages()[0].Body)
	assert.False(t, w.AtStart())

	assert.Equal(t, 2, w.Unfill(false, msgs[8].ID))
	assert.Equal(t, []string{"message 3", "message 4", "message 5", "message 6", "message 7"}, bodies(w.Messages()))
	assert.False(t, w.AtEnd())

	assert.Zero(t, w.Unfill(true, "missing"))

	// Trimmed content is loaded again from the store.
	more, err := w.Fill(ctx, false)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, "message 9", w.Messages()[len(w.Messages())-1].Body)

	more, err = w.Fill(ctx, true)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Len(t, w.Messages(), 10)
}

func TestWindowPush(t *testing.T) {
	s := openStore(t)
	msgs := appendN(t, s, 6)
	ctx := context.Background()

	w := NewWindow(s, 10)
	require.NoError(t, w.Load(ctx))

	m, err := s.Append(ctx, "carol", "live", time.Now())
	require.NoError(t, err)
	assert.True(t, w.Push(m))
	assert.Len(t, w.Messages(), 7)

	w.Unfill(false, msgs[5].ID)
	m, err = s.Append(ctx, "carol", "missed", time.Now())
	require.NoError(t, err)
	assert.False(t, w.Push(m))

	_, err = w.Fill(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"message 5", "live", "missed"}, bodies(w.Messages())[5:])
}
