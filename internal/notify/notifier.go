// Package notify is the single channel through which the client and the
// selection store report problems, decoupled from where they are detected.
package notify

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a single diagnostic message.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

type sessionKey struct{}

// WithSession attaches a browser session id so user-visible notices reach the
// right page.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionFrom returns the session id attached by WithSession.
func SessionFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionKey{}).(string)
	return id, ok && id != ""
}

// LogNotifier writes notices to logrus.
type LogNotifier struct {
	logger log.FieldLogger
}

func NewLogNotifier(logger log.FieldLogger) *LogNotifier {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, notice Notice) {
	entry := n.logger
	if id, ok := SessionFrom(ctx); ok {
		entry = entry.WithField("session", id)
	}

	switch notice.Level {
	case LevelError:
		entry.Errorf("❌ %s", notice.Message)
	case LevelWarning:
		entry.Warnf("⚠️ %s", notice.Message)
	default:
		entry.Infof("%s", notice.Message)
	}
}

const (
	maxFlashPerSession = 20
	// flashMaxAge drops the queue of a session that has not been rendered for
	// this long.
	flashMaxAge = 30 * time.Minute
)

type flashQueue struct {
	notices []Notice
	touched time.Time
}

// FlashNotifier queues user-visible notices per session until the next page
// render drains them. Notices without a session are dropped.
type FlashNotifier struct {
	mu      sync.Mutex
	pending map[string]*flashQueue
	now     func() time.Time
}

func NewFlashNotifier() *FlashNotifier {
	return &FlashNotifier{
		pending: make(map[string]*flashQueue),
		now:     time.Now,
	}
}

func (n *FlashNotifier) Notify(ctx context.Context, notice Notice) {
	id, ok := SessionFrom(ctx)
	if !ok {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	n.expire(now)

	queue, ok := n.pending[id]
	if !ok {
		queue = &flashQueue{}
		n.pending[id] = queue
	}
	queue.touched = now
	queue.notices = append(queue.notices, notice)
	if len(queue.notices) > maxFlashPerSession {
		queue.notices = queue.notices[len(queue.notices)-maxFlashPerSession:]
	}
}

// Drain returns and forgets the pending notices of a session.
func (n *FlashNotifier) Drain(sessionID string) []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	queue, ok := n.pending[sessionID]
	if !ok {
		return nil
	}
	delete(n.pending, sessionID)
	return queue.notices
}

// Len returns the number of sessions with pending notices.
func (n *FlashNotifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.expire(n.now())
	return len(n.pending)
}

func (n *FlashNotifier) expire(now time.Time) {
	for id, queue := range n.pending {
		if now.Sub(queue.touched) >= flashMaxAge {
			delete(n.pending, id)
		}
	}
}

// Multi fans a notice out to every notifier.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, notice Notice) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, notice)
		}
	}
}

// Recorder keeps every notice in memory. Used by the CLI to print what went
// wrong and by tests.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(_ context.Context, notice Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}
