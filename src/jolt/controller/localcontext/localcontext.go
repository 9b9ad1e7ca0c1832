// Package localcontext tracks which files the user is looking at in a workspace.
package localcontext

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/jolt-ai/jolt-host/src/jolt/entity"
	"go.uber.org/zap"
)

// Service maintains the active editor and the recently focused files of one workspace.
// Paths are absolute file system paths.
type Service interface {
	// SetActive records the focused file. An empty path means that no file editor has focus.
	SetActive(path string)
	// Closed forgets a file whose editor was closed.
	Closed(path string)
	// LocalContext returns the active tab and the other recent tabs, most recent first.
	LocalContext() entity.LocalContextData
	// Close stops watching the file system for deleted files.
	Close() error
}

type service struct {
	logger  *zap.SugaredLogger
	history *TabHistory

	mu     sync.Mutex
	active string
	// watched counts the tracked files under each watched directory.
	watched map[string]int

	watcher *fsnotify.Watcher
	wg      sync.WaitGroup
}

// New creates a Service. When the file system cannot be watched, deleted files are simply not pruned.
func New(logger *zap.SugaredLogger) Service {
	s := &service{
		logger:  logger.With("component", "local-context"),
		history: NewTabHistory(MaxTabHistory),
		watched: make(map[string]int),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Warnw("file watching unavailable, deleted files will not be pruned", zap.Error(err))
		return s
	}
	s.watcher = watcher
	s.wg.Add(1)
	go s.watch()
	return s
}

func (s *service) SetActive(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = path
	if path == "" {
		return
	}

	if s.history.Contains(path) {
		s.history.Add(path)
		return
	}

	before := s.history.Recent()
	s.history.Add(path)
	s.track(path)
	if len(before) == MaxTabHistory {
		s.untrack(before[len(before)-1])
	}
}

func (s *service) Closed(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forget(path)
}

func (s *service) LocalContext() entity.LocalContextData {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := entity.LocalContextData{OpenTabs: []string{}}
	if s.active != "" {
		active := s.active
		data.ActiveTab = &active
	}
	for _, path := range s.history.Recent() {
		if path != s.active {
			data.OpenTabs = append(data.OpenTabs, path)
		}
	}
	return data
}

func (s *service) Close() error {
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.wg.Wait()
	return err
}

// forget removes path from the history and clears it as the active tab. Callers hold mu.
func (s *service) forget(path string) {
	if s.active == path {
		s.active = ""
	}
	if s.history.Remove(path) {
		s.untrack(path)
	}
}

func (s *service) track(path string) {
	if s.watcher == nil {
		return
	}
	dir := filepath.Dir(path)
	if s.watched[dir] == 0 {
		if err := s.watcher.Add(dir); err != nil {
			s.logger.Debugw("could not watch directory", "dir", dir, zap.Error(err))
			return
		}
	}
	s.watched[dir]++
}

func (s *service) untrack(path string) {
	if s.watcher == nil {
		return
	}
	dir := filepath.Dir(path)
	n, ok := s.watched[dir]
	if !ok {
		return
	}
	if n > 1 {
		s.watched[dir] = n - 1
		return
	}
	delete(s.watched, dir)
	if err := s.watcher.Remove(dir); err != nil {
		s.logger.Debugw("could not stop watching directory", "dir", dir, zap.Error(err))
	}
}

func (s *service) watch() {
	defer s.wg.Done()
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				s.pruned(event.Name)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warnw("file watcher error", zap.Error(err))
		}
	}
}

func (s *service) pruned(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.history.Contains(path) {
		s.logger.Debugw("pruning deleted file", "path", path)
		s.forget(path)
	}
}
