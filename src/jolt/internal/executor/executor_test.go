package executor

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// Instantiates the new Executor through fx provider
func fxExecutor(t *testing.T) (Executor, *observer.ObservedLogs) {
	var e Executor
	core, recorded := observer.New(zap.InfoLevel)
	logger := zap.New(core).Sugar()

	fxtest.New(t,
		fx.Provide(
			func() Executor {
				return NewExecutor(WithLogger(logger))
			},
		),
		fx.Populate(&e),
	).RequireStart().RequireStop()

	return e, recorded
}

func TestModule(t *testing.T) {
	var e Executor
	fxtest.New(t,
		fx.Supply(zap.NewNop().Sugar()),
		Module,
		fx.Populate(&e),
	).RequireStart().RequireStop()
	assert.NotNil(t, e)
}

func TestRun(t *testing.T) {
	tempDir := t.TempDir()
	e, _ := fxExecutor(t)

	t.Run("touch", func(t *testing.T) {
		cmd := exec.Command("touch", "1.txt")
		cmd.Dir = tempDir
		cmd.Env = os.Environ()
		stdOut, stdErr, exitCode, err := e.Run(cmd)

		assert.Equal(t, "", stdOut)
		assert.Empty(t, stdErr)
		assert.Equal(t, 0, exitCode)
		assert.NoError(t, err)
	})

	t.Run("ls", func(t *testing.T) {
		cmd := exec.Command("ls")
		cmd.Dir = tempDir
		cmd.Env = os.Environ()
		stdOut, stdErr, exitCode, err := e.Run(cmd)

		assert.Equal(t, "1.txt\n", stdOut)
		assert.Empty(t, stdErr)
		assert.Equal(t, 0, exitCode)
		assert.NoError(t, err)
	})

	t.Run("logs stdin", func(t *testing.T) {
		e, recorded := fxExecutor(t)
		binPath, err := exec.LookPath("cat")
		if errors.Is(err, exec.ErrNotFound) {
			t.Skip("no cat available")
		}
		require.NoError(t, err)

		cmd := exec.Command("cat", "-")
		cmd.Dir = tempDir
		cmd.Stdin = strings.NewReader("SomeInput")
		stdOut, _, exitCode, err := e.Run(cmd)
		require.NoError(t, err)
		assert.Equal(t, 0, exitCode)
		assert.Equal(t, "SomeInput", stdOut)

		logs := recorded.TakeAll()
		require.Len(t, logs, 1)
		assert.Equal(t, map[string]interface{}{
			"Path":  binPath,
			"Dir":   tempDir,
			"Args":  []interface{}{"-"},
			"Stdin": "SomeInput",
		}, logs[0].ContextMap())
	})
}

func TestRunFails(t *testing.T) {
	tempDir := t.TempDir()
	e, _ := fxExecutor(t)

	t.Run("rm dir", func(t *testing.T) {
		cmd := exec.Command("rm", tempDir)
		cmd.Dir = tempDir
		cmd.Env = os.Environ()
		stdOut, stdErr, exitCode, err := e.Run(cmd)

		assert.Empty(t, stdOut)
		assert.Contains(t, strings.ToLower(stdErr), "is a directory")
		assert.Equal(t, 1, exitCode)
		assert.Error(t, err)
		assert.Equal(t, "exit status 1", err.Error())
	})

	t.Run("Unknown Command", func(t *testing.T) {
		cmd := exec.Command("no_valid_command_")
		cmd.Dir = tempDir
		cmd.Env = os.Environ()
		stdOut, stdErr, exitCode, err := e.Run(cmd)

		assert.Empty(t, stdOut)
		assert.Empty(t, stdErr)
		assert.Equal(t, -1, exitCode)
		assert.Error(t, err)
		assert.Equal(t, `exec: "no_valid_command_": executable file not found in $PATH`, err.Error())
	})
}

func TestStart(t *testing.T) {
	e, recorded := fxExecutor(t)

	t.Run("merges output streams", func(t *testing.T) {
		if _, err := exec.LookPath("sh"); err != nil {
			t.Skip("no sh available")
		}

		cmd := exec.Command("sh", "-c", "echo out; echo err 1>&2")
		p, err := e.Start(cmd)
		require.NoError(t, err)
		assert.NotZero(t, p.Pid())

		out, err := io.ReadAll(p.Output())
		require.NoError(t, err)
		assert.Equal(t, "out\nerr\n", string(out))

		select {
		case <-p.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("process did not exit")
		}
		assert.False(t, p.Alive())
		assert.NoError(t, p.Kill())

		logs := recorded.TakeAll()
		require.Len(t, logs, 1)
		assert.Equal(t, "Exec", logs[0].Message)
	})

	t.Run("kill running process", func(t *testing.T) {
		if _, err := exec.LookPath("sleep"); err != nil {
			t.Skip("no sleep available")
		}

		p, err := e.Start(exec.Command("sleep", "30"))
		require.NoError(t, err)
		assert.True(t, p.Alive())

		assert.NoError(t, p.Kill())
		assert.NoError(t, p.Kill())

		select {
		case <-p.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("process was not killed")
		}
		assert.False(t, p.Alive())
	})

	t.Run("start failure", func(t *testing.T) {
		_, err := e.Start(exec.Command("no_valid_command_"))
		assert.Error(t, err)
	})
}
