package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const defaultQueueSize = 256

var (
	ErrQueueFull      = errors.New("notification queue full")
	ErrNotifierClosed = errors.New("notifier closed")
)

// Notifier is the delivery contract shared by the sinks in this package.
type Notifier interface {
	Notify(ctx context.Context, recipientID, kind string, payload any) error
}

type job struct {
	ctx         context.Context
	recipientID string
	kind        string
	payload     any
}

// AsyncNotifier hands notifications to a single background sender through a
// bounded queue. Notify never waits on the sink; a full queue drops the
// notification and reports ErrQueueFull.
type AsyncNotifier struct {
	next   Notifier
	queue  chan job
	done   chan struct{}
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
}

func NewAsyncNotifier(next Notifier, size int, logger ...*zap.Logger) *AsyncNotifier {
	l := zap.L().Named("notification.async")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.async")
	}
	if size <= 0 {
		size = defaultQueueSize
	}
	n := &AsyncNotifier{
		next:   next,
		queue:  make(chan job, size),
		done:   make(chan struct{}),
		logger: l,
	}
	go n.run()
	return n
}

func (n *AsyncNotifier) Notify(ctx context.Context, recipientID, kind string, payload any) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return ErrNotifierClosed
	}

	select {
	case n.queue <- job{ctx: context.WithoutCancel(ctx), recipientID: recipientID, kind: kind, payload: payload}:
		return nil
	default:
		return fmt.Errorf("%w: dropped %s for %s", ErrQueueFull, kind, recipientID)
	}
}

func (n *AsyncNotifier) run() {
	defer close(n.done)
	for j := range n.queue {
		if err := n.next.Notify(j.ctx, j.recipientID, j.kind, j.payload); err != nil {
			n.logger.Warn("notification delivery failed",
				zap.String("kind", j.kind),
				zap.String("recipient_id", j.recipientID),
				zap.Error(err),
			)
		}
	}
}

// Close stops accepting notifications and waits until the queued ones are
// sent or ctx ends.
func (n *AsyncNotifier) Close(ctx context.Context) error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	select {
	case <-n.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
