package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/GregMSThompson/ascend-backend/internal/metrics"
)

type taskEscalator interface {
	EscalateTask(ctx context.Context, id string) error
}

// Escalator writes urgent priority for overdue tasks in the background. Each
// write is best effort: failures are logged and counted, and the next task
// snapshot plans the escalation again.
type Escalator struct {
	Writer  taskEscalator
	Timeout time.Duration
	Metrics *metrics.Metrics
	Log     *slog.Logger

	queue    chan string
	stop     chan struct{}
	done     chan struct{}
	mu       sync.Mutex
	inflight map[string]struct{}
	stopped  bool
	once     sync.Once
}

func NewEscalator(w taskEscalator, timeout time.Duration, size int, m *metrics.Metrics, log *slog.Logger) *Escalator {
	if size <= 0 {
		size = 64
	}
	if log == nil {
		log = slog.Default()
	}
	e := &Escalator{
		Writer:   w,
		Timeout:  timeout,
		Metrics:  m,
		Log:      log.With("component", "escalator"),
		queue:    make(chan string, size),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		inflight: make(map[string]struct{}),
	}
	go e.run()
	return e
}

// Enqueue schedules one write per id. Ids already queued or being written are
// skipped, and ids that do not fit in the queue are dropped.
func (e *Escalator) Enqueue(ids ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}
	for _, id := range ids {
		if _, busy := e.inflight[id]; busy {
			continue
		}
		select {
		case e.queue <- id:
			e.inflight[id] = struct{}{}
		default:
			e.Metrics.Escalation("dropped")
			e.Log.Warn("escalation queue full, dropping", "task", id)
		}
	}
}

// Stop writes whatever is still queued and waits for the worker to exit.
func (e *Escalator) Stop() {
	e.once.Do(func() {
		e.mu.Lock()
		e.stopped = true
		e.mu.Unlock()
		close(e.stop)
	})
	<-e.done
}

func (e *Escalator) run() {
	defer close(e.done)
	for {
		select {
		case id := <-e.queue:
			e.write(id)
		case <-e.stop:
			for {
				select {
				case id := <-e.queue:
					e.write(id)
				default:
					return
				}
			}
		}
	}
}

func (e *Escalator) write(id string) {
	ctx := context.Background()
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	err := e.Writer.EscalateTask(ctx, id)

	e.mu.Lock()
	delete(e.inflight, id)
	e.mu.Unlock()

	if err != nil {
		e.Metrics.Escalation("failed")
		e.Log.Error("task escalation failed", "task", id, "error", err)
		return
	}
	e.Metrics.Escalation("issued")
	e.Log.Info("task escalated to urgent", "task", id)
}
