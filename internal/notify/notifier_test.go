package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashNotifier(t *testing.T) {
	t.Run("queues per session and drains once", func(t *testing.T) {
		n := NewFlashNotifier()
		ctxA := WithSession(context.Background(), "a")
		ctxB := WithSession(context.Background(), "b")

		n.Notify(ctxA, Notice{Level: LevelWarning, Message: "one"})
		n.Notify(ctxA, Notice{Level: LevelError, Message: "two"})
		n.Notify(ctxB, Notice{Level: LevelInfo, Message: "other"})

		got := n.Drain("a")
		require.Len(t, got, 2)
		assert.Equal(t, "one", got[0].Message)
		assert.Equal(t, "two", got[1].Message)
		assert.Empty(t, n.Drain("a"))
		assert.Len(t, n.Drain("b"), 1)
	})

	t.Run("drops notices without session", func(t *testing.T) {
		n := NewFlashNotifier()
		n.Notify(context.Background(), Notice{Message: "lost"})
		assert.Empty(t, n.pending)
	})

	t.Run("keeps only the latest notices", func(t *testing.T) {
		n := NewFlashNotifier()
		ctx := WithSession(context.Background(), "a")
		for i := 0; i < maxFlashPerSession+5; i++ {
			n.Notify(ctx, Notice{Message: "x"})
		}
		assert.Len(t, n.Drain("a"), maxFlashPerSession)
	})

	t.Run("forgets sessions that were never drained", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		n := NewFlashNotifier()
		n.now = func() time.Time { return now }

		for i := 0; i < 50; i++ {
			n.Notify(WithSession(context.Background(), fmt.Sprintf("gone-%d", i)), Notice{Message: "x"})
		}
		assert.Equal(t, 50, n.Len())

		now = now.Add(flashMaxAge)
		n.Notify(WithSession(context.Background(), "live"), Notice{Message: "y"})

		assert.Equal(t, 1, n.Len())
		assert.Empty(t, n.Drain("gone-0"))
		assert.Len(t, n.Drain("live"), 1)
	})
}

func TestLogNotifier(t *testing.T) {
	logger, hook := test.NewNullLogger()
	n := NewLogNotifier(logger)

	n.Notify(WithSession(context.Background(), "s1"), Notice{Level: LevelError, Message: "boom"})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Contains(t, entry.Message, "boom")
	assert.Equal(t, "s1", entry.Data["session"])
}

func TestMulti(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	Multi{a, nil, b}.Notify(context.Background(), Notice{Message: "hi"})

	assert.Len(t, a.Notices(), 1)
	assert.Len(t, b.Notices(), 1)
}
