// Package files opens and edits workspace files on behalf of the embedded UI.
package files

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jolt-ai/jolt-host/src/jolt/entity"
	ideclient "github.com/jolt-ai/jolt-host/src/jolt/gateway/ide-client"
	joltErrors "github.com/jolt-ai/jolt-host/src/jolt/internal/errors"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/fs"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/mainloop"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/telemetry"
	"github.com/sergi/go-diff/diffmatchpatch"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrLoopStopped is returned when work can no longer be scheduled on the main loop.
var ErrLoopStopped = errors.New("main loop stopped")

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Service applies file operations requested by the embedded UI.
// Paths are resolved against the workspace root and may not leave it.
type Service interface {
	// OpenFile asks the editor to focus path. It fails with FileNotFoundError when the file does not exist.
	OpenFile(ctx context.Context, workspaceRoot string, path string) error
	// Apply writes or deletes a single file and then focuses it in the editor.
	Apply(ctx context.Context, workspaceRoot string, file entity.ChangedFile) error
	// ApplyAll schedules every recognized change on the main loop and returns without waiting.
	// Changes outside the workspace root are skipped. Failures are logged and reported.
	ApplyAll(ctx context.Context, workspaceRoot string, files []entity.ChangedFile) error
}

// Params are inbound parameters to initialize a new Service.
type Params struct {
	fx.In

	Logger     *zap.SugaredLogger
	Stats      tally.Scope
	FS         fs.JoltFS
	Loop       mainloop.Loop
	IdeGateway ideclient.Gateway
	Reporter   telemetry.Reporter
}

type service struct {
	logger     *zap.SugaredLogger
	stats      tally.Scope
	fs         fs.JoltFS
	loop       mainloop.Loop
	ideGateway ideclient.Gateway
	reporter   telemetry.Reporter
	dmp        *diffmatchpatch.DiffMatchPatch
}

// New creates a Service.
func New(p Params) Service {
	return &service{
		logger:     p.Logger.With("component", "files"),
		stats:      p.Stats.SubScope("files"),
		fs:         p.FS,
		loop:       p.Loop,
		ideGateway: p.IdeGateway,
		reporter:   p.Reporter,
		dmp:        diffmatchpatch.New(),
	}
}

// Resolve joins path onto workspaceRoot, absolute paths included, and returns the cleaned result.
// It fails with PathOutsideWorkspaceError when the result is not strictly below the root.
func Resolve(workspaceRoot, path string) (string, error) {
	abs := filepath.Join(workspaceRoot, path)
	rel, err := filepath.Rel(workspaceRoot, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &joltErrors.PathOutsideWorkspaceError{Path: path, Root: workspaceRoot}
	}
	return abs, nil
}

func (s *service) OpenFile(ctx context.Context, workspaceRoot string, path string) error {
	abs, err := Resolve(workspaceRoot, path)
	if err != nil {
		return err
	}
	exists, err := s.fs.FileExists(abs)
	if err != nil {
		return fmt.Errorf("checking %s: %w", abs, err)
	}
	if !exists {
		return &joltErrors.FileNotFoundError{Path: abs}
	}

	ctx = context.WithoutCancel(ctx)
	if !s.loop.Post(func() { s.focus(ctx, abs) }) {
		return ErrLoopStopped
	}
	return nil
}

func (s *service) Apply(ctx context.Context, workspaceRoot string, file entity.ChangedFile) error {
	if !file.Operation.Valid() {
		s.logger.Debugw("skipping unknown file operation", "path", file.Filepath, "operation", file.Operation)
		return nil
	}

	abs, err := Resolve(workspaceRoot, file.Filepath)
	if err != nil {
		return err
	}
	if !file.IsUpsert() {
		return s.delete(abs)
	}
	if err := s.upsert(abs, file.ContentOrEmpty()); err != nil {
		return err
	}
	s.focus(ctx, abs)
	return nil
}

func (s *service) ApplyAll(ctx context.Context, workspaceRoot string, files []entity.ChangedFile) error {
	ctx = context.WithoutCancel(ctx)
	for _, file := range files {
		if !file.Operation.Valid() {
			s.logger.Infow("skipping unknown file operation", "path", file.Filepath, "operation", file.Operation)
			continue
		}
		if _, err := Resolve(workspaceRoot, file.Filepath); err != nil {
			s.stats.Counter("rejected").Inc(1)
			s.logger.Warnw("skipping file change outside the project", "path", file.Filepath, "operation", file.Operation)
			s.reporter.CaptureException(err)
			continue
		}

		file := file
		if !s.loop.Post(func() {
			if err := s.Apply(ctx, workspaceRoot, file); err != nil {
				s.stats.Counter("failures").Inc(1)
				s.logger.Errorw("failed to apply file change", "path", file.Filepath, "operation", file.Operation, zap.Error(err))
				s.reporter.CaptureException(err)
			}
		}) {
			return ErrLoopStopped
		}
	}
	return nil
}

func (s *service) upsert(abs string, content string) error {
	dir := filepath.Dir(abs)
	if err := s.fs.MkdirAll(dir); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if ok, err := s.fs.DirExists(dir); err != nil || !ok {
		return &joltErrors.FileSystemInconsistencyError{Path: dir, IsDir: true}
	}

	previous := ""
	if ok, _ := s.fs.FileExists(abs); ok {
		data, err := s.fs.ReadFile(abs)
		if err != nil {
			return fmt.Errorf("reading %s: %w", abs, err)
		}
		previous = string(data)
	}

	if err := s.fs.WriteFile(abs, content); err != nil {
		return fmt.Errorf("writing %s: %w", abs, err)
	}
	if ok, err := s.fs.FileExists(abs); err != nil || !ok {
		return &joltErrors.FileSystemInconsistencyError{Path: abs}
	}

	inserted, deleted := s.lineDelta(previous, content)
	s.stats.Counter("upserts").Inc(1)
	s.stats.Counter("lines_inserted").Inc(int64(inserted))
	s.stats.Counter("lines_deleted").Inc(int64(deleted))
	s.logger.Infow("wrote file", "path", abs, "linesInserted", inserted, "linesDeleted", deleted)
	return nil
}

func (s *service) delete(abs string) error {
	exists, err := s.fs.FileExists(abs)
	if err != nil {
		return fmt.Errorf("checking %s: %w", abs, err)
	}
	if !exists {
		return nil
	}
	if err := s.fs.Remove(abs); err != nil {
		return fmt.Errorf("deleting %s: %w", abs, err)
	}
	s.stats.Counter("deletes").Inc(1)
	s.logger.Infow("deleted file", "path", abs)
	return nil
}

// focus opens abs in the editor, logging failures.
func (s *service) focus(ctx context.Context, abs string) {
	if _, err := s.ideGateway.ShowDocument(ctx, &protocol.ShowDocumentParams{
		URI:       uri.File(abs),
		TakeFocus: true,
	}); err != nil {
		s.logger.Warnw("show document", "path", abs, zap.Error(err))
	}
}

// lineDelta counts the lines added and removed between two versions of a file.
func (s *service) lineDelta(before, after string) (inserted int, deleted int) {
	a, b, lines := s.dmp.DiffLinesToChars(before, after)
	diffs := s.dmp.DiffCharsToLines(s.dmp.DiffMain(a, b, false), lines)
	for _, d := range diffs {
		n := countLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += n
		case diffmatchpatch.DiffDelete:
			deleted += n
		}
	}
	return inserted, deleted
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := 0
	for _, r := range text {
		if r == '\n' {
			n++
		}
	}
	if text[len(text)-1] != '\n' {
		n++
	}
	return n
}
