// Package jolt implements the per-session business logic of the host.
package jolt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/bridge"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/panel"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/workspace"
	"github.com/jolt-ai/jolt-host/src/jolt/entity"
	ideclient "github.com/jolt-ai/jolt-host/src/jolt/gateway/ide-client"
	workspaceutils "github.com/jolt-ai/jolt-host/src/jolt/internal/workspace-utils"
	"github.com/jolt-ai/jolt-host/src/jolt/repository/session"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_idleTimeoutMinutesKey = "idleTimeoutMinutes"

	_serverName = "Jolt"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Controller orchestrates the business logic for each request.
type Controller interface {
	// LSP methods defined per protocol.
	Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error)
	Initialized(ctx context.Context, params *protocol.InitializedParams) error
	Shutdown(ctx context.Context) error
	Exit(ctx context.Context) error

	// Document related methods.
	DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error
	DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error

	// Jolt methods.
	ActiveEditorChanged(ctx context.Context, params *entity.ActiveEditorChangedParams) error
	// UIQuery forwards a message from the embedded UI. Failures are returned as *errors.BridgeError.
	UIQuery(ctx context.Context, raw []byte) (entity.UIQueryResult, error)
	CreatePanel(ctx context.Context) error
	DisposePanel(ctx context.Context) error
	BootstrapState(ctx context.Context) (*entity.BootstrapState, error)
	DaemonLog(ctx context.Context, params *entity.DaemonLogParams) (*entity.DaemonLogResult, error)

	// Custom methods for use within this service.
	InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error)
	EndSession(ctx context.Context, id uuid.UUID) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Lifecycle      fx.Lifecycle
	Shutdowner     fx.Shutdowner
	Config         config.Provider
	Logger         *zap.SugaredLogger
	Stats          tally.Scope
	Sessions       session.Repository
	IdeGateway     ideclient.Gateway
	WorkspaceUtils workspaceutils.WorkspaceUtils
	Workspaces     workspace.Manager
	Panels         panel.Factory
	Bridge         bridge.Bridge
}

type controller struct {
	logger         *zap.SugaredLogger
	stats          tally.Scope
	sessions       session.Repository
	ideGateway     ideclient.Gateway
	workspaceUtils workspaceutils.WorkspaceUtils
	workspaces     workspace.Manager
	panelFactory   panel.Factory
	bridge         bridge.Bridge
	shutdowner     fx.Shutdowner

	panelsMu sync.Mutex
	panels   map[uuid.UUID]panel.Panel

	idleTimeout time.Duration
	idleTimerMu sync.Mutex
	idleTimer   *time.Timer
}

// New constructs the session controller. A positive idleTimeoutMinutes shuts the host down after
// that long without any connected session.
func New(p Params) (Controller, error) {
	var idleTimeoutMinutes int64
	if err := p.Config.Get(_idleTimeoutMinutesKey).Populate(&idleTimeoutMinutes); err != nil {
		return nil, fmt.Errorf("unable to get idle timeout from config: %w", err)
	}

	c := &controller{
		logger:         p.Logger.With("component", "controller"),
		stats:          p.Stats.SubScope("session"),
		sessions:       p.Sessions,
		ideGateway:     p.IdeGateway,
		workspaceUtils: p.WorkspaceUtils,
		workspaces:     p.Workspaces,
		panelFactory:   p.Panels,
		bridge:         p.Bridge,
		shutdowner:     p.Shutdowner,
		panels:         make(map[uuid.UUID]panel.Panel),
		idleTimeout:    time.Duration(idleTimeoutMinutes) * time.Minute,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return c.refreshIdleTimer(ctx)
		},
		OnStop: func(ctx context.Context) error {
			c.stopIdleTimer()
			c.disposeAllPanels()
			return nil
		},
	})
	return c, nil
}

// refreshIdleTimer stops the idle timer while sessions are connected and restarts it when the last one leaves.
func (c *controller) refreshIdleTimer(ctx context.Context) error {
	if c.idleTimeout <= 0 {
		return nil
	}

	c.idleTimerMu.Lock()
	defer c.idleTimerMu.Unlock()

	if c.idleTimer == nil {
		c.idleTimer = time.AfterFunc(c.idleTimeout, c.idleShutdown)
		return nil
	}

	count, err := c.sessions.SessionCount(ctx)
	if err != nil {
		return fmt.Errorf("error resetting timeout: %w", err)
	}
	c.idleTimer.Stop()
	if count == 0 {
		c.idleTimer.Reset(c.idleTimeout)
	}
	return nil
}

func (c *controller) stopIdleTimer() {
	c.idleTimerMu.Lock()
	defer c.idleTimerMu.Unlock()

	if c.idleTimer != nil {
		c.idleTimer.Stop()
	}
}

func (c *controller) idleShutdown() {
	c.logger.Info("no sessions connected, shutting down")
	if err := c.shutdowner.Shutdown(); err != nil {
		c.logger.Errorw("idle shutdown failed", zap.Error(err))
	}
}

// workspaceFromContext returns the open workspace of the calling session, or nil when the session has none.
func (c *controller) workspaceFromContext(ctx context.Context) (*entity.Session, workspace.Workspace, error) {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("getting session from context: %w", err)
	}
	if s.WorkspaceRoot == "" {
		return s, nil, nil
	}
	ws, ok := c.workspaces.Get(s.WorkspaceRoot)
	if !ok {
		return s, nil, nil
	}
	return s, ws, nil
}

func (c *controller) disposePanel(id uuid.UUID) bool {
	c.panelsMu.Lock()
	p, ok := c.panels[id]
	delete(c.panels, id)
	c.panelsMu.Unlock()

	if ok {
		p.Dispose()
	}
	return ok
}

func (c *controller) disposeAllPanels() {
	c.panelsMu.Lock()
	panels := c.panels
	c.panels = make(map[uuid.UUID]panel.Panel)
	c.panelsMu.Unlock()

	for _, p := range panels {
		p.Dispose()
	}
}

func sessionLogger(logger *zap.SugaredLogger, s *entity.Session) *zap.SugaredLogger {
	return logger.With("session", s.UUID.String(), "root", s.WorkspaceRoot)
}

func bridgeWorkspace(ws workspace.Workspace) bridge.Workspace {
	if ws == nil {
		return nil
	}
	return ws
}
