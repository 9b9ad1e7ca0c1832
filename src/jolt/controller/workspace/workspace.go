// Package workspace owns the per-project state shared by all editor sessions that opened the same root.
package workspace

import (
	"context"
	"fmt"
	"sync"

	"github.com/jolt-ai/jolt-host/src/jolt/controller/daemon"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/localcontext"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/status"
	"github.com/jolt-ai/jolt-host/src/jolt/entity"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/fs"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/logfilewriter"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/serverinfofile"
	workspaceutils "github.com/jolt-ai/jolt-host/src/jolt/internal/workspace-utils"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Workspace is one open project root together with its daemon.
type Workspace interface {
	Root() string
	// RemoteURL is the origin of the project's git repository, or empty while unknown.
	RemoteURL() string
	LocalContext() localcontext.Service
	Broadcaster() status.Broadcaster
	Daemon() daemon.Handle
	// DaemonLog returns up to maxLines of the most recent daemon output.
	DaemonLog(maxLines int) entity.DaemonLogResult
}

// Manager reference counts workspaces by root.
type Manager interface {
	// Acquire returns the workspace for root, opening it and starting its daemon on first use.
	Acquire(ctx context.Context, root string) (Workspace, error)
	// Release drops one reference to root. The last release disposes the workspace.
	Release(root string) error
	// Get returns the workspace for root if it is open.
	Get(root string) (Workspace, bool)
}

// Params are inbound parameters to initialize a new Manager.
type Params struct {
	fx.In

	Lifecycle      fx.Lifecycle
	Logger         *zap.SugaredLogger
	Stats          tally.Scope
	Supervisor     daemon.Supervisor
	WorkspaceUtils workspaceutils.WorkspaceUtils
	FS             fs.JoltFS
	ServerInfoFile serverinfofile.ServerInfoFile
}

type manager struct {
	logger         *zap.SugaredLogger
	stats          tally.Scope
	supervisor     daemon.Supervisor
	workspaceUtils workspaceutils.WorkspaceUtils
	fs             fs.JoltFS
	infoFile       serverinfofile.ServerInfoFile

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	workspaces map[string]*workspace
	closed     bool
}

// New creates a Manager. Every open workspace is disposed when the application stops.
func New(p Params) Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &manager{
		logger:         p.Logger.With("component", "workspace"),
		stats:          p.Stats.SubScope("workspace"),
		supervisor:     p.Supervisor,
		workspaceUtils: p.WorkspaceUtils,
		fs:             p.FS,
		infoFile:       p.ServerInfoFile,
		ctx:            ctx,
		cancel:         cancel,
		workspaces:     make(map[string]*workspace),
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: m.OnStop,
	})
	return m
}

func (m *manager) Acquire(ctx context.Context, root string) (Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("workspace manager stopped")
	}
	if ws, ok := m.workspaces[root]; ok {
		ws.refs++
		return ws, nil
	}

	ws := m.open(root)
	m.workspaces[root] = ws
	m.stats.Gauge("open").Update(float64(len(m.workspaces)))

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ws.lookupRemote(m.ctx, m.workspaceUtils)
		ws.handle.Start(m.ctx, root)
	}()
	return ws, nil
}

func (m *manager) open(root string) *workspace {
	logger := m.logger.With("root", root)
	ws := &workspace{
		root:        root,
		refs:        1,
		logger:      logger,
		broadcaster: status.NewBroadcaster(),
		local:       localcontext.New(logger),
	}

	output, err := logfilewriter.SetupOutputWriter(logfilewriter.Params{
		FS:             m.fs,
		ServerInfoFile: m.infoFile,
	}, root, logfilewriter.DefaultRecentLines)
	if err != nil {
		logger.Warnw("daemon output will not be captured", zap.Error(err))
	} else {
		ws.output = output
	}

	var sink daemon.LogSink
	if ws.output != nil {
		sink = ws.output
	}
	ws.handle = m.supervisor.NewHandle(root, ws.broadcaster, sink)
	logger.Infow("opened workspace", "port", ws.handle.Port())
	return ws
}

func (m *manager) Release(root string) error {
	m.mu.Lock()
	ws, ok := m.workspaces[root]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("workspace %q is not open", root)
	}
	ws.refs--
	if ws.refs > 0 {
		m.mu.Unlock()
		return nil
	}
	delete(m.workspaces, root)
	m.stats.Gauge("open").Update(float64(len(m.workspaces)))
	m.mu.Unlock()

	return m.dispose(ws)
}

func (m *manager) Get(root string) (Workspace, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, ok := m.workspaces[root]
	if !ok {
		return nil, false
	}
	return ws, true
}

// OnStop disposes every open workspace and waits for daemon startups to return.
func (m *manager) OnStop(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	open := make([]*workspace, 0, len(m.workspaces))
	for root, ws := range m.workspaces {
		open = append(open, ws)
		delete(m.workspaces, root)
	}
	m.mu.Unlock()

	m.cancel()
	var err error
	for _, ws := range open {
		err = multierr.Append(err, m.dispose(ws))
	}
	m.wg.Wait()
	return err
}

func (m *manager) dispose(ws *workspace) error {
	err := multierr.Combine(
		ws.handle.Dispose(),
		ws.local.Close(),
	)
	if ws.output != nil {
		err = multierr.Append(err, ws.output.Close())
	}
	m.stats.Counter("disposed").Inc(1)
	if err != nil {
		ws.logger.Warnw("errors while closing workspace", zap.Error(err))
		return err
	}
	ws.logger.Info("closed workspace")
	return nil
}

type workspace struct {
	root        string
	logger      *zap.SugaredLogger
	broadcaster status.Broadcaster
	local       localcontext.Service
	handle      daemon.Handle
	output      logfilewriter.OutputWriter

	// refs is guarded by the manager's mutex.
	refs int

	mu        sync.Mutex
	remoteURL string
}

func (w *workspace) Root() string {
	return w.root
}

func (w *workspace) RemoteURL() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.remoteURL
}

func (w *workspace) LocalContext() localcontext.Service {
	return w.local
}

func (w *workspace) Broadcaster() status.Broadcaster {
	return w.broadcaster
}

func (w *workspace) Daemon() daemon.Handle {
	return w.handle
}

func (w *workspace) DaemonLog(maxLines int) entity.DaemonLogResult {
	if w.output == nil {
		return entity.DaemonLogResult{Lines: []string{}}
	}
	return entity.DaemonLogResult{
		Path:  w.output.Path(),
		Lines: w.output.Lines(maxLines),
	}
}

func (w *workspace) lookupRemote(ctx context.Context, utils workspaceutils.WorkspaceUtils) {
	remote, err := utils.GetRemoteURL(ctx, w.root)
	if err != nil {
		w.logger.Infow("git remote unknown", zap.Error(err))
		return
	}
	w.mu.Lock()
	w.remoteURL = remote
	w.mu.Unlock()
}
