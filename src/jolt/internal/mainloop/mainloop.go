// Package mainloop provides the single goroutine on which editor facing work is serialized.
package mainloop

import (
	"context"
	"fmt"
	"sync"

	"github.com/jolt-ai/jolt-host/src/jolt/internal/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Loop runs posted functions one at a time in the order they were posted.
type Loop interface {
	// Post queues fn and returns immediately. It returns false once the loop has stopped.
	Post(fn func()) bool
	// Stop discards queued work and waits for the running function, if any, to return. It is safe to call more than once.
	Stop()
}

// Params define values to be used by Loop.
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
	Reporter  telemetry.Reporter
}

type loop struct {
	logger   *zap.SugaredLogger
	reporter telemetry.Reporter

	mu      sync.Mutex
	queue   []func()
	stopped bool
	wake    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// New creates a running Loop that is stopped along with the application.
func New(p Params) Loop {
	l := NewLoop(p.Logger, p.Reporter)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			l.Stop()
			return nil
		},
	})
	return l
}

// NewLoop creates and starts a Loop outside of Fx.
func NewLoop(logger *zap.SugaredLogger, reporter telemetry.Reporter) Loop {
	l := &loop{
		logger:   logger.With("component", "mainloop"),
		reporter: reporter,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *loop) Post(fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return false
	}
	l.queue = append(l.queue, fn)
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

func (l *loop) Stop() {
	l.once.Do(func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		close(l.wake)
		l.mu.Unlock()
	})
	<-l.done
}

func (l *loop) run() {
	defer close(l.done)
	for range l.wake {
		for {
			fn, ok := l.next()
			if !ok {
				break
			}
			l.exec(fn)
		}
	}
}

func (l *loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped || len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

func (l *loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic in main loop: %v", r)
			l.logger.Errorw("recovered from panic", zap.Error(err))
			l.reporter.CaptureException(err)
		}
	}()
	fn()
}
