// Package panel drives the embedded UI shown by an editor session.
package panel

import (
	"context"
	"sync/atomic"

	"github.com/jolt-ai/jolt-host/src/jolt/controller/status"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/workspace"
	"github.com/jolt-ai/jolt-host/src/jolt/entity"
	"github.com/jolt-ai/jolt-host/src/jolt/factory"
	ideclient "github.com/jolt-ai/jolt-host/src/jolt/gateway/ide-client"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/clock"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/mainloop"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/portutil"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/protocol"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_progressTitle   = "Starting Jolt"
	_progressMessage = "Waiting for the Jolt daemon"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Panel is the host side of one embedded UI instance.
type Panel interface {
	// Dispose stops reacting to status changes. It is safe to call more than once.
	Dispose()
}

// Factory opens panels.
type Factory interface {
	// Open starts following the daemon status of ws. Once the daemon leaves the pending status, the
	// editor behind ctx is asked to load the UI with the resulting bootstrap state.
	Open(ctx context.Context, ws workspace.Workspace) Panel
}

// Params are inbound parameters to initialize a new Factory.
type Params struct {
	fx.In

	Logger     *zap.SugaredLogger
	Stats      tally.Scope
	Clock      clock.Clock
	Loop       mainloop.Loop
	Ports      portutil.Allocator
	IdeGateway ideclient.Gateway
}

type panelFactory struct {
	logger     *zap.SugaredLogger
	stats      tally.Scope
	clock      clock.Clock
	loop       mainloop.Loop
	ports      portutil.Allocator
	ideGateway ideclient.Gateway
}

// New creates a Factory.
func New(p Params) Factory {
	return &panelFactory{
		logger:     p.Logger.With("component", "panel"),
		stats:      p.Stats.SubScope("panel"),
		clock:      p.Clock,
		loop:       p.Loop,
		ports:      p.Ports,
		ideGateway: p.IdeGateway,
	}
}

func (f *panelFactory) Open(ctx context.Context, ws workspace.Workspace) Panel {
	port := ws.Daemon().Port()
	p := &panel{
		ctx:        context.WithoutCancel(ctx),
		logger:     f.logger.With("root", ws.Root(), "port", port),
		stats:      f.stats,
		loop:       f.loop,
		ideGateway: f.ideGateway,
		port:       port,
	}

	p.loop.Post(p.beginProgress)
	p.subscription = ws.Broadcaster().Subscribe(func(s entity.DaemonStatus) {
		p.loop.Post(func() { p.handleStatusChange(s) })
	})
	p.poller = status.NewPoller(status.PollerParams{
		Logger:      f.logger,
		Clock:       f.clock,
		Loop:        f.loop,
		Ports:       f.ports,
		Broadcaster: ws.Broadcaster(),
		Port:        port,
		Handler:     p.handleStatusChange,
	})
	p.poller.Start()

	f.stats.Counter("opened").Inc(1)
	return p
}

type panel struct {
	ctx          context.Context
	logger       *zap.SugaredLogger
	stats        tally.Scope
	loop         mainloop.Loop
	ideGateway   ideclient.Gateway
	port         int
	subscription status.Subscription
	poller       status.Poller
	disposed     atomic.Bool

	// The fields below are only touched on the loop.
	last          entity.DaemonStatus
	progressToken *protocol.ProgressToken
	progressEnded bool
}

func (p *panel) Dispose() {
	if !p.disposed.CompareAndSwap(false, true) {
		return
	}
	p.subscription.Unsubscribe()
	p.poller.Stop()
	p.loop.Post(p.endProgress)
	p.logger.Info("panel disposed")
}

// handleStatusChange runs on the loop for both broadcast and polled statuses, so a status
// reported by both paths only loads the UI once.
func (p *panel) handleStatusChange(s entity.DaemonStatus) {
	if p.disposed.Load() || s == p.last {
		return
	}
	p.last = s
	p.logger.Infow("daemon status changed", "status", s)
	if s == entity.DaemonStatusPending {
		return
	}

	if err := p.ideGateway.LoadContent(p.ctx, entity.NewBootstrapState(p.port, s)); err != nil {
		p.logger.Warnw("failed to load ui content", zap.Error(err))
	}
	p.stats.Tagged(map[string]string{"status": s.String()}).Counter("loads").Inc(1)
	p.endProgress()
}

func (p *panel) beginProgress() {
	if p.disposed.Load() {
		return
	}
	token := protocol.NewProgressToken(factory.UUID().String())
	if err := p.ideGateway.WorkDoneProgressCreate(p.ctx, &protocol.WorkDoneProgressCreateParams{Token: *token}); err != nil {
		p.logger.Warnw("failed to create startup progress", zap.Error(err))
		return
	}
	p.progressToken = token
	if err := p.ideGateway.Progress(p.ctx, &protocol.ProgressParams{
		Token: *token,
		Value: &protocol.WorkDoneProgressBegin{
			Kind:    protocol.WorkDoneProgressKindBegin,
			Title:   _progressTitle,
			Message: _progressMessage,
		},
	}); err != nil {
		p.logger.Warnw("failed to begin startup progress", zap.Error(err))
	}
}

func (p *panel) endProgress() {
	if p.progressToken == nil || p.progressEnded {
		return
	}
	p.progressEnded = true
	if err := p.ideGateway.Progress(p.ctx, &protocol.ProgressParams{
		Token: *p.progressToken,
		Value: &protocol.WorkDoneProgressEnd{Kind: protocol.WorkDoneProgressKindEnd},
	}); err != nil {
		p.logger.Warnw("failed to end startup progress", zap.Error(err))
	}
}
