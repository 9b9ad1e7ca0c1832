// Package settings reads the per-workspace .jolt/settings.yaml file.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jolt-ai/jolt-host/src/jolt/internal/fs"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

const (
	_dirName  = ".jolt"
	_fileName = "settings.yaml"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// WorkspaceSettings holds user overrides scoped to a single workspace.
type WorkspaceSettings struct {
	// NodePath points at the node binary to use for this workspace's daemon.
	NodePath string `yaml:"nodePath"`
}

// Loader reads workspace settings.
type Loader interface {
	// Load returns the settings for workspaceRoot. A missing file yields empty settings.
	Load(workspaceRoot string) (WorkspaceSettings, error)
}

// Params define values to be used by Loader.
type Params struct {
	fx.In

	FS fs.JoltFS
}

type loader struct {
	fs fs.JoltFS
}

// New creates a Loader.
func New(p Params) Loader {
	return &loader{fs: p.FS}
}

// Path returns the location of the settings file for workspaceRoot.
func Path(workspaceRoot string) string {
	return filepath.Join(workspaceRoot, _dirName, _fileName)
}

func (l *loader) Load(workspaceRoot string) (WorkspaceSettings, error) {
	path := Path(workspaceRoot)
	exists, err := l.fs.FileExists(path)
	if err != nil {
		return WorkspaceSettings{}, fmt.Errorf("checking %s: %w", path, err)
	}
	if !exists {
		return WorkspaceSettings{}, nil
	}

	content, err := l.fs.ReadFile(path)
	if err != nil {
		return WorkspaceSettings{}, fmt.Errorf("reading %s: %w", path, err)
	}
	s, err := Parse(bytes.NewReader(content))
	if err != nil {
		return WorkspaceSettings{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes settings from r. Empty input is valid.
func Parse(r io.Reader) (WorkspaceSettings, error) {
	var s WorkspaceSettings
	if err := yaml.NewDecoder(r).Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return WorkspaceSettings{}, err
	}
	s.NodePath = strings.TrimSpace(s.NodePath)
	return s, nil
}
