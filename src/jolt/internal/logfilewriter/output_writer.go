// Package logfilewriter captures human readable process output into temporary files that the user can tail.
package logfilewriter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jolt-ai/jolt-host/src/jolt/internal/fs"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/serverinfofile"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	_fmtOutputKey = "output:%s"
	_logsDirName  = "jolt-host"
	// DefaultRecentLines is the number of lines kept in memory when no limit is given.
	DefaultRecentLines = 200
)

// Params define the dependencies for SetupOutputWriter.
type Params struct {
	FS             fs.JoltFS
	ServerInfoFile serverinfofile.ServerInfoFile
}

// OutputWriter receives process output. Lines are written to a log file and the most recent ones are kept in memory.
type OutputWriter interface {
	// Write splits p into lines and records each non-empty one.
	Write(p []byte) (n int, err error)
	// WriteLine records a single line.
	WriteLine(line string)
	// Lines returns up to n of the most recent lines, oldest first. n <= 0 returns all buffered lines.
	Lines(n int) []string
	// Path is the location of the log file.
	Path() string
	// Close flushes and removes the log file and its info file entry.
	Close() error
}

type outputWriter struct {
	name   string
	file   *os.File
	logger *zap.SugaredLogger
	fs     fs.JoltFS
	info   serverinfofile.ServerInfoFile
	limit  int
	mu     sync.Mutex
	recent []string
	closed bool
}

// SetupOutputWriter creates a writer for the output stream identified by name.
// The file path is stored in the server info file under "output:<name>" for reference by the IDE.
func SetupOutputWriter(p Params, name string, recentLines int) (OutputWriter, error) {
	logsDirPath := filepath.Join(os.TempDir(), _logsDirName)
	if err := p.FS.MkdirAll(logsDirPath); err != nil {
		return nil, err
	}

	logFile, err := p.FS.TempFile(logsDirPath, "daemon-*.log")
	if err != nil {
		return nil, err
	}

	// IDE can tail the file by getting the file path from the server info file.
	if err := p.ServerInfoFile.UpdateField(fmt.Sprintf(_fmtOutputKey, name), logFile.Name()); err != nil {
		logFile.Close()
		p.FS.Remove(logFile.Name())
		return nil, err
	}

	// Write via a logger for formatting, timestamp, and performance/buffering.
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(logFile),
		zap.InfoLevel,
	)

	if recentLines <= 0 {
		recentLines = DefaultRecentLines
	}
	return &outputWriter{
		name:   name,
		file:   logFile,
		logger: zap.New(core).Sugar(),
		fs:     p.FS,
		info:   p.ServerInfoFile,
		limit:  recentLines,
	}, nil
}

// Write implements the io.Writer interface by sending data to the given logger.
func (o *outputWriter) Write(p []byte) (n int, err error) {
	// Incoming data may contain multiple lines, including blank ones.
	// Split and log each line individually.
	lines := strings.Split(string(p), "\n")
	for _, line := range lines {
		if len(line) > 0 {
			o.WriteLine(line)
		}
	}

	return len(p), nil
}

func (o *outputWriter) WriteLine(line string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	o.logger.Info(line)
	if len(o.recent) == o.limit {
		copy(o.recent, o.recent[1:])
		o.recent = o.recent[:o.limit-1]
	}
	o.recent = append(o.recent, line)
}

func (o *outputWriter) Lines(n int) []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	start := 0
	if n > 0 && n < len(o.recent) {
		start = len(o.recent) - n
	}
	out := make([]string, len(o.recent)-start)
	copy(out, o.recent[start:])
	return out
}

func (o *outputWriter) Path() string {
	return o.file.Name()
}

func (o *outputWriter) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true

	var errs error
	o.logger.Sync()
	errs = multierr.Append(errs, o.file.Close())
	errs = multierr.Append(errs, o.fs.Remove(o.file.Name()))
	errs = multierr.Append(errs, o.info.RemoveField(fmt.Sprintf(_fmtOutputKey, o.name)))
	return errs
}
