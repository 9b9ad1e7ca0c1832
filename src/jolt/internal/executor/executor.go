package executor

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides a module to inject using fx.
var Module = fx.Options(
	fx.Provide(func(logger *zap.SugaredLogger) Executor {
		return NewExecutor(
			WithLogger(logger),
			WithExecFunc(func(cmd *exec.Cmd) error { return cmd.Run() }),
		)
	}),
)

// Executor wraps the execution of "os/exec".Cmd's to allow adding logs/metrics to
// each exec and makes it easier to test.
type Executor interface {
	// Run - logs and and executes the Cmd specified overriding its Stdout/Stderr to return their content
	Run(cmd *exec.Cmd) (stdout string, stderr string, exitCode int, err error)
	// Start - logs and starts the Cmd specified without waiting for it, merging its Stdout and Stderr into a single stream
	Start(cmd *exec.Cmd) (Process, error)
}

// Process is a running child process started by Executor.Start.
type Process interface {
	// Output returns the merged stdout/stderr of the process. It reaches EOF once the process exits and is released by Kill.
	Output() io.Reader
	Pid() int
	Alive() bool
	// Done is closed once the process has exited.
	Done() <-chan struct{}
	// Kill forcibly stops the process and releases its output stream. It is safe to call more than once.
	Kill() error
}

// executorImp implements Executor
type executorImp struct {
	Logger *zap.SugaredLogger
	// ExecFunc may be nil to use executorImp in tests.
	ExecFunc func(e *exec.Cmd) error
	// StartFunc starts the command without waiting for it.
	StartFunc func(e *exec.Cmd) error
}

// Option defines options to customize executorImp's behavior
type Option func(*executorImp)

// WithLogger overrides the default noop logger
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(executor *executorImp) {
		executor.Logger = logger
	}
}

// WithExecFunc provides customized exec behavior for executorImp
func WithExecFunc(execFunc func(e *exec.Cmd) error) Option {
	return func(executor *executorImp) {
		executor.ExecFunc = execFunc
	}
}

// WithStartFunc provides customized start behavior for executorImp
func WithStartFunc(startFunc func(e *exec.Cmd) error) Option {
	return func(executor *executorImp) {
		executor.StartFunc = startFunc
	}
}

// NewExecutor - creates a new executorImp with logger at the level specified and a default executor function
func NewExecutor(opts ...Option) Executor {
	executor := &executorImp{
		Logger:    zap.NewNop().Sugar(),
		ExecFunc:  func(cmd *exec.Cmd) error { return cmd.Run() },
		StartFunc: func(cmd *exec.Cmd) error { return cmd.Start() },
	}
	for _, opt := range opts {
		opt(executor)
	}
	return executor
}

// Run - logs the Path/Args and calls ExecFunc if it is set.
func (l *executorImp) Run(cmd *exec.Cmd) (stdout string, stderr string, exitCode int, err error) {
	if err := l.logCommand(cmd); err != nil {
		return "", "", -1, err
	}

	if l.ExecFunc == nil {
		l.Logger.Warn("missing ExecFunc - skipped execution")
		return "", "", 0, nil
	}

	var stdoutB, stderrB bytes.Buffer
	cmd.Stdout = &stdoutB
	cmd.Stderr = &stderrB
	err = l.ExecFunc(cmd)

	return stdoutB.String(), stderrB.String(), cmd.ProcessState.ExitCode(), err
}

// Start - logs the Path/Args and starts the process with both output streams written to one pipe.
func (l *executorImp) Start(cmd *exec.Cmd) (Process, error) {
	if err := l.logCommand(cmd); err != nil {
		return nil, err
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := l.StartFunc(cmd); err != nil {
		pr.Close()
		pw.Close()
		return nil, err
	}
	// The child holds its own copy of the write end; closing ours lets reads reach EOF when it exits.
	pw.Close()

	p := &process{
		cmd:    cmd,
		output: pr,
		done:   make(chan struct{}),
	}
	go p.wait()
	return p, nil
}

// Logs the command specified: Path, Dir, Args, Stdin (if available)
func (l *executorImp) logCommand(cmd *exec.Cmd) error {
	logKeysAndValues := []interface{}{
		"Path", cmd.Path,
		"Dir", cmd.Dir,
		"Args", cmd.Args[1:], // First arg is always the command itself
	}

	if cmd.Stdin != nil {
		stdinBytes, err := io.ReadAll(cmd.Stdin)
		if err != nil {
			return err
		}
		logKeysAndValues = append(logKeysAndValues, "Stdin", string(stdinBytes))
		cmd.Stdin = bytes.NewReader(stdinBytes)
	}

	l.Logger.Infow("Exec", logKeysAndValues...)
	return nil
}

type process struct {
	cmd    *exec.Cmd
	output *os.File
	done   chan struct{}

	killOnce sync.Once
	killErr  error
}

func (p *process) wait() {
	p.cmd.Wait()
	close(p.done)
}

func (p *process) Output() io.Reader {
	return p.output
}

func (p *process) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *process) Alive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *process) Done() <-chan struct{} {
	return p.done
}

func (p *process) Kill() error {
	p.killOnce.Do(func() {
		if p.Alive() && p.cmd.Process != nil {
			if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				p.killErr = err
			}
		}
		p.output.Close()
	})
	return p.killErr
}
