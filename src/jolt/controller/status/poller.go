package status

import (
	"sync"
	"time"

	"github.com/jolt-ai/jolt-host/src/jolt/entity"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/clock"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/mainloop"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/portutil"
	"go.uber.org/zap"
)

// PollInterval is the delay between two port checks.
const PollInterval = time.Second

// Poller reconciles the broadcast status with whether the daemon's port is accepting connections.
type Poller interface {
	// Start begins polling. The first check is made right away.
	Start()
	// Stop ends polling. Checks already queued on the loop become no-ops. It is safe to call more than once.
	Stop()
}

// PollerParams define values to be used by a Poller.
type PollerParams struct {
	Logger      *zap.SugaredLogger
	Clock       clock.Clock
	Loop        mainloop.Loop
	Ports       portutil.Allocator
	Broadcaster Broadcaster
	Port        int
	// Handler runs on the loop whenever the effective status differs from the last one observed.
	Handler Listener
}

type poller struct {
	logger      *zap.SugaredLogger
	clock       clock.Clock
	loop        mainloop.Loop
	ports       portutil.Allocator
	broadcaster Broadcaster
	port        int
	handler     Listener

	// last is only touched on the loop.
	last entity.DaemonStatus

	mu        sync.Mutex
	stopped   bool
	stop      chan struct{}
	stopOnce  sync.Once
	startOnce sync.Once
}

// NewPoller creates a Poller. Nothing happens until Start is called.
func NewPoller(p PollerParams) Poller {
	return &poller{
		logger:      p.Logger.With("component", "status-poller", "port", p.Port),
		clock:       p.Clock,
		loop:        p.Loop,
		ports:       p.Ports,
		broadcaster: p.Broadcaster,
		port:        p.Port,
		handler:     p.Handler,
		stop:        make(chan struct{}),
	}
}

func (p *poller) Start() {
	p.startOnce.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.stopped {
			return
		}
		go p.run()
	})
}

func (p *poller) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()
		close(p.stop)
	})
}

func (p *poller) isStopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

func (p *poller) run() {
	ticker := p.clock.NewTicker(PollInterval)
	defer ticker.Stop()

	p.schedule()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C():
			p.schedule()
		}
	}
}

func (p *poller) schedule() {
	if !p.loop.Post(p.tick) {
		p.logger.Debug("loop stopped, ending poll")
		p.Stop()
	}
}

func (p *poller) tick() {
	if p.isStopped() {
		return
	}

	effective := p.broadcaster.Status()
	if p.ports.IsPortActive(p.port) {
		effective = entity.DaemonStatusStarted
	}

	if effective != p.last {
		p.last = effective
		p.logger.Debugw("status changed", "status", effective)
		p.handler(effective)
	}

	if effective != entity.DaemonStatusPending {
		p.Stop()
	}
}
