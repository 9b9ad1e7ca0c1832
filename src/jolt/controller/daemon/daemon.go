// Package daemon launches the per-workspace Node.js daemon and supervises its lifetime.
package daemon

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	noderuntime "github.com/jolt-ai/jolt-host/src/jolt/controller/node-runtime"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/status"
	"github.com/jolt-ai/jolt-host/src/jolt/entity"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/errors"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/executor"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/fs"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/portutil"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/serverinfofile"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/telemetry"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	_configKey = "daemon"

	// StartedSignal is printed by the daemon, followed by its port, once it accepts connections.
	StartedSignal = "jolt_daemon_started:"
	// ShuttingDownSignal is printed by the daemon, followed by its port, when it exits on its own.
	ShuttingDownSignal = "jolt_daemon_shutting_down:"

	_scriptPattern  = "jolt-daemon-*.mjs"
	_maxLineBytes   = 1024 * 1024
	_infoPortPrefix = "daemon-port:"
	_infoStatusKey  = "daemon-status:"
)

var errDisposed = stderrors.New("daemon handle disposed")

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Config is the daemon section of the service configuration.
type Config struct {
	// BundlePath points at the daemon's JavaScript bundle, copied to a temp script on every start.
	BundlePath string `yaml:"bundlePath"`
}

// LogSink receives every line printed by the daemon.
type LogSink interface {
	WriteLine(line string)
}

// Supervisor creates handles for workspace daemons.
type Supervisor interface {
	// NewHandle reserves a port for workspace and returns a handle in the pending status.
	// Daemon output is written to sink, which may be nil.
	NewHandle(workspace string, broadcaster status.Broadcaster, sink LogSink) Handle
}

// Handle owns one daemon process together with its port, script and output reader.
type Handle interface {
	// Start copies the bundle, resolves the runtime and spawns the daemon in workDir.
	// The outcome is only observable through the handle's Broadcaster.
	Start(ctx context.Context, workDir string)
	// Dispose stops the daemon and releases everything the handle owns. It is safe to call
	// more than once and from any goroutine. The returned error is informational.
	Dispose() error
	// Done is closed once the handle has been disposed.
	Done() <-chan struct{}
	Port() int
	Status() entity.DaemonStatus
}

// Params are inbound parameters to initialize a new Supervisor.
type Params struct {
	fx.In

	Config         config.Provider
	Logger         *zap.SugaredLogger
	Stats          tally.Scope
	Executor       executor.Executor
	FS             fs.JoltFS
	Locator        noderuntime.Locator
	Ports          portutil.Allocator
	ServerInfoFile serverinfofile.ServerInfoFile
	Reporter       telemetry.Reporter
}

type supervisor struct {
	cfg        Config
	logger     *zap.SugaredLogger
	stats      tally.Scope
	executor   executor.Executor
	fs         fs.JoltFS
	locator    noderuntime.Locator
	ports      portutil.Allocator
	infoFile   serverinfofile.ServerInfoFile
	reporter   telemetry.Reporter
	tempDir    string
	runningMu  sync.Mutex
	runningCnt int
}

// New creates a Supervisor.
func New(p Params) (Supervisor, error) {
	cfg := Config{}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKey, err)
	}

	return &supervisor{
		cfg:      cfg,
		logger:   p.Logger.With("component", "daemon"),
		stats:    p.Stats.SubScope("daemon"),
		executor: p.Executor,
		fs:       p.FS,
		locator:  p.Locator,
		ports:    p.Ports,
		infoFile: p.ServerInfoFile,
		reporter: p.Reporter,
	}, nil
}

func (s *supervisor) NewHandle(workspace string, broadcaster status.Broadcaster, sink LogSink) Handle {
	port := s.ports.Allocate(workspace)
	return &handle{
		supervisor:  s,
		workspace:   workspace,
		port:        port,
		broadcaster: broadcaster,
		sink:        sink,
		logger:      s.logger.With("workspace", workspace, "port", port),
		done:        make(chan struct{}),
	}
}

func (s *supervisor) running(delta int) {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	s.runningCnt += delta
	s.stats.Gauge("running").Update(float64(s.runningCnt))
}

type handle struct {
	supervisor  *supervisor
	workspace   string
	port        int
	broadcaster status.Broadcaster
	sink        LogSink
	logger      *zap.SugaredLogger

	mu         sync.Mutex
	disposing  bool
	process    executor.Process
	scriptPath string
	cancel     context.CancelFunc
	readerDone chan struct{}
	done       chan struct{}
}

func (h *handle) Port() int {
	return h.port
}

func (h *handle) Status() entity.DaemonStatus {
	return h.broadcaster.Status()
}

func (h *handle) Done() <-chan struct{} {
	return h.done
}

func (h *handle) Start(ctx context.Context, workDir string) {
	s := h.supervisor
	if h.isDisposing() {
		h.logger.Infow("daemon disposed before startup")
		return
	}
	s.stats.Counter("starts").Inc(1)
	h.recordInfo(_infoPortPrefix, strconv.Itoa(h.port))
	h.recordInfo(_infoStatusKey, h.broadcaster.Status().String())

	err := h.start(ctx, workDir)
	if err == nil {
		return
	}
	if stderrors.Is(err, errDisposed) || h.isDisposing() {
		h.logger.Infow("daemon disposed during startup")
		return
	}
	if ctx.Err() != nil {
		h.logger.Infow("daemon startup cancelled", zap.Error(err))
		h.Dispose()
		return
	}

	next := entity.DaemonStatusFailedToStart
	if errors.IsRuntimeNotFound(err) {
		next = entity.DaemonStatusNodeNotFound
	}
	h.logger.Errorw("daemon failed to start", "status", next, zap.Error(err))
	s.reporter.CaptureException(err)
	s.stats.Tagged(map[string]string{"status": next.String()}).Counter("failures").Inc(1)
	h.setStatus(next)
	h.Dispose()
}

func (h *handle) start(ctx context.Context, workDir string) error {
	s := h.supervisor

	script, err := h.writeScript()
	if err != nil {
		return err
	}

	runtime, err := s.locator.Find(ctx, workDir)
	if err != nil {
		return &errors.StartupError{Step: "resolve runtime", Err: err}
	}

	cmd := exec.Command(runtime, script, "--port", strconv.Itoa(h.port))
	cmd.Dir = workDir
	process, err := s.executor.Start(cmd)
	if err != nil {
		return &errors.StartupError{Step: "spawn", Err: err}
	}

	readerCtx, cancel := context.WithCancel(context.Background())
	readerDone := make(chan struct{})

	h.mu.Lock()
	if h.disposing {
		h.mu.Unlock()
		cancel()
		return multierr.Append(errDisposed, process.Kill())
	}
	h.process = process
	h.cancel = cancel
	h.readerDone = readerDone
	h.mu.Unlock()

	s.running(1)
	h.logger.Infow("daemon spawned", "pid", process.Pid(), "runtime", runtime)
	go h.read(readerCtx, process, readerDone)
	return nil
}

// writeScript copies the bundle into a fresh temp file owned by the handle.
func (h *handle) writeScript() (string, error) {
	s := h.supervisor
	if s.cfg.BundlePath == "" {
		return "", &errors.StartupError{Step: "copy bundle", Err: fmt.Errorf("missing field %q in config", _configKey+".bundlePath")}
	}

	bundle, err := s.fs.ReadFile(s.cfg.BundlePath)
	if err != nil {
		return "", &errors.StartupError{Step: "copy bundle", Err: err}
	}

	f, err := s.fs.TempFile(s.tempDir, _scriptPattern)
	if err != nil {
		return "", &errors.StartupError{Step: "copy bundle", Err: err}
	}

	h.mu.Lock()
	if h.disposing {
		h.mu.Unlock()
		return "", multierr.Combine(errDisposed, f.Close(), os.Remove(f.Name()))
	}
	h.scriptPath = f.Name()
	h.mu.Unlock()

	_, writeErr := f.Write(bundle)
	if err := multierr.Append(writeErr, f.Close()); err != nil {
		return "", &errors.StartupError{Step: "copy bundle", Err: err}
	}
	return f.Name(), nil
}

func (h *handle) read(ctx context.Context, process executor.Process, readerDone chan struct{}) {
	defer close(readerDone)

	started := StartedSignal + strconv.Itoa(h.port)
	shuttingDown := ShuttingDownSignal + strconv.Itoa(h.port)

	scanner := bufio.NewScanner(process.Output())
	scanner.Buffer(make([]byte, 0, 64*1024), _maxLineBytes)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := scanner.Text()
		if h.sink != nil {
			h.sink.WriteLine(line)
		}

		switch {
		case strings.Contains(line, started):
			h.logger.Info("daemon started")
			h.supervisor.stats.Counter("started").Inc(1)
			h.setStatus(entity.DaemonStatusStarted)
		case strings.Contains(line, shuttingDown):
			h.logger.Info("daemon is shutting down")
			h.dispose(false)
			return
		}
	}

	if ctx.Err() != nil {
		return
	}
	if err := scanner.Err(); err != nil {
		h.logger.Warnw("error reading daemon output", zap.Error(err))
	}
	h.logger.Infow("daemon output closed", "alive", process.Alive())
}

func (h *handle) setStatus(s entity.DaemonStatus) {
	if h.broadcaster.SetStatus(s) {
		h.recordInfo(_infoStatusKey, s.String())
	}
}

// recordInfo is a no-op once disposal began, so entries removed by dispose stay removed.
func (h *handle) recordInfo(prefix, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposing {
		return
	}
	if err := h.supervisor.infoFile.UpdateField(prefix+h.workspace, value); err != nil {
		h.logger.Warnw("could not update server info file", zap.Error(err))
	}
}

func (h *handle) isDisposing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.disposing
}

func (h *handle) Dispose() error {
	return h.dispose(true)
}

// dispose releases the handle. The reader calls it with waitReader unset since it cannot wait for itself.
func (h *handle) dispose(waitReader bool) error {
	h.mu.Lock()
	if h.disposing {
		h.mu.Unlock()
		if waitReader {
			<-h.done
		}
		return nil
	}
	h.disposing = true
	cancel, process, script, readerDone := h.cancel, h.process, h.scriptPath, h.readerDone
	h.cancel, h.process, h.scriptPath = nil, nil, ""
	h.mu.Unlock()

	s := h.supervisor
	var err error
	if cancel != nil {
		cancel()
	}
	if process != nil {
		if killErr := process.Kill(); killErr != nil {
			err = multierr.Append(err, fmt.Errorf("killing daemon: %w", killErr))
		}
		s.running(-1)
	}
	if script != "" {
		if rmErr := s.fs.Remove(script); rmErr != nil && !os.IsNotExist(rmErr) {
			err = multierr.Append(err, fmt.Errorf("removing daemon script: %w", rmErr))
		}
	}
	s.ports.Release(h.workspace)
	err = multierr.Append(err, s.infoFile.RemoveField(_infoPortPrefix+h.workspace))
	err = multierr.Append(err, s.infoFile.RemoveField(_infoStatusKey+h.workspace))

	if waitReader && readerDone != nil {
		<-readerDone
	}

	s.stats.Counter("disposals").Inc(1)
	if err != nil {
		h.logger.Warnw("errors while disposing daemon", zap.Error(err))
		s.reporter.CaptureException(err)
	} else {
		h.logger.Info("daemon disposed")
	}
	close(h.done)
	return err
}
