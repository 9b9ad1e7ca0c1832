// Package noderuntime locates a Node.js executable able to run the daemon.
package noderuntime

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strconv"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/errors"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/executor"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/fs"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/settings"
	"github.com/mitchellh/go-homedir"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKey = "runtime"

	// MinMajorVersion is the oldest Node.js major release the daemon supports.
	MinMajorVersion = 18

	_defaultProbeTTL = 5 * time.Minute
	_nvmVersionsDir  = ".nvm/versions/node"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Locator finds the Node.js executable used to launch a workspace's daemon.
type Locator interface {
	// Find returns the path of the runtime to use for workspaceRoot, or a RuntimeNotFoundError.
	Find(ctx context.Context, workspaceRoot string) (string, error)
}

// Config is the runtime section of the service configuration.
type Config struct {
	// OverridePath is used without any version check when it points at an executable.
	OverridePath string        `yaml:"overridePath"`
	ProbeTTL     time.Duration `yaml:"probeTTL"`
}

// Params are inbound parameters to initialize a new Locator.
type Params struct {
	fx.In

	Config   config.Provider
	Logger   *zap.SugaredLogger
	Stats    tally.Scope
	Executor executor.Executor
	FS       fs.JoltFS
	Settings settings.Loader
}

// version is a parsed dotted version, compared numerically component by component.
type version []int

type probeResult struct {
	valid   bool
	version version
}

type locator struct {
	cfg      Config
	logger   *zap.SugaredLogger
	stats    tally.Scope
	executor executor.Executor
	fs       fs.JoltFS
	settings settings.Loader
	probes   *ttlcache.Cache[string, probeResult]

	goos   string
	getenv func(string) string
	home   func() (string, error)
}

// New creates a Locator.
func New(p Params) (Locator, error) {
	cfg := Config{}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKey, err)
	}
	if cfg.ProbeTTL <= 0 {
		cfg.ProbeTTL = _defaultProbeTTL
	}

	return &locator{
		cfg:      cfg,
		logger:   p.Logger.With("component", "node-runtime"),
		stats:    p.Stats.SubScope("node_runtime"),
		executor: p.Executor,
		fs:       p.FS,
		settings: p.Settings,
		probes: ttlcache.New[string, probeResult](
			ttlcache.WithTTL[string, probeResult](cfg.ProbeTTL),
		),
		goos:   goruntime.GOOS,
		getenv: os.Getenv,
		home:   homedir.Dir,
	}, nil
}

func (l *locator) Find(ctx context.Context, workspaceRoot string) (string, error) {
	override := l.overridePath(workspaceRoot)
	if override != "" {
		l.logger.Infow("found runtime override", "path", override)
		if ok, _ := l.fs.IsExecutable(override); ok {
			l.stats.Counter("override").Inc(1)
			return override, nil
		}
		l.logger.Warnw("runtime override is not executable", "path", override)
	}

	searched := l.candidates()
	found := make([]string, 0, len(searched))
	for _, candidate := range searched {
		found = append(found, l.expand(candidate)...)
	}
	l.logger.Infow("found potential runtime paths", "count", len(found))

	best, ok := l.selectBest(ctx, found, override)
	if !ok {
		l.stats.Counter("not_found").Inc(1)
		return "", &errors.RuntimeNotFoundError{MinMajorVersion: MinMajorVersion, Searched: searched}
	}
	l.stats.Counter("found").Inc(1)
	return best, nil
}

// overridePath returns the configured override. Workspace settings win over the service configuration.
func (l *locator) overridePath(workspaceRoot string) string {
	path := l.cfg.OverridePath
	if workspaceRoot != "" {
		s, err := l.settings.Load(workspaceRoot)
		if err != nil {
			l.logger.Warnw("ignoring workspace settings", zap.Error(err))
		} else if s.NodePath != "" {
			path = s.NodePath
		}
	}
	if path == "" {
		return ""
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// candidates returns the well known installation locations for the current platform.
func (l *locator) candidates() []string {
	home, err := l.home()
	if err != nil {
		l.logger.Warnw("could not determine home directory", zap.Error(err))
	}

	if l.goos == "windows" {
		localAppData := l.getenv("LOCALAPPDATA")
		return []string{
			`C:\Program Files\nodejs\node.exe`,
			`C:\Program Files (x86)\nodejs\node.exe`,
			localAppData + `\Programs\node\node.exe`,
			localAppData + `\nvm`,
			home + `\AppData\Roaming\nvm`,
			home + `\.fnm\versions`,
		}
	}

	return []string{
		"/usr/bin/node",
		"/usr/local/bin/node",
		"/snap/bin/node",
		"/opt/node/bin/node",
		"/opt/homebrew/bin/node",
		home + "/.nvm/versions/node",
		home + "/.volta/bin/node",
	}
}

// expand turns a candidate location into zero or more executables. Failures are logged and yield nothing.
func (l *locator) expand(candidate string) []string {
	switch {
	case strings.Contains(filepath.ToSlash(candidate), _nvmVersionsDir):
		return l.expandVersionManager(candidate)
	case strings.HasSuffix(candidate, "/node") || strings.HasSuffix(candidate, "node.exe"):
		if ok, _ := l.fs.IsExecutable(candidate); ok {
			return []string{candidate}
		}
		return nil
	default:
		exists, err := l.fs.DirExists(candidate)
		if err != nil || !exists {
			return nil
		}
		var found []string
		if err := l.walk(candidate, &found); err != nil {
			l.logger.Warnw("error searching directory", "dir", candidate, zap.Error(err))
		}
		return found
	}
}

func (l *locator) expandVersionManager(dir string) []string {
	exists, err := l.fs.DirExists(dir)
	if err != nil || !exists {
		return nil
	}
	entries, err := l.fs.ReadDir(dir)
	if err != nil {
		l.logger.Warnw("error searching version manager directory", "dir", dir, zap.Error(err))
		return nil
	}

	var found []string
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "v") {
			continue
		}
		node := filepath.Join(dir, entry.Name(), "bin", "node")
		if ok, _ := l.fs.IsExecutable(node); ok {
			found = append(found, node)
		}
	}
	return found
}

func (l *locator) walk(dir string, found *[]string) error {
	entries, err := l.fs.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := l.walk(path, found); err != nil {
				l.logger.Debugw("skipping directory", "dir", path, zap.Error(err))
			}
			continue
		}
		if entry.Name() != "node" && entry.Name() != "node.exe" {
			continue
		}
		if ok, _ := l.fs.IsExecutable(path); ok {
			*found = append(*found, path)
		}
	}
	return nil
}

// selectBest prefers a valid override and otherwise picks the highest valid version.
func (l *locator) selectBest(ctx context.Context, paths []string, override string) (string, bool) {
	var (
		best        string
		bestVersion version
	)
	for _, path := range paths {
		result := l.probe(ctx, path)
		if !result.valid {
			continue
		}
		if override != "" && path == override {
			l.logger.Infow("using runtime override with a valid version", "path", path)
			return path, true
		}
		if best == "" || result.version.compare(bestVersion) > 0 {
			best = path
			bestVersion = result.version
		}
	}
	if best != "" {
		l.logger.Infow("selected runtime", "path", best, "version", bestVersion.String())
	}
	return best, best != ""
}

// probe runs "<path> --version" and caches the outcome.
func (l *locator) probe(ctx context.Context, path string) probeResult {
	if item := l.probes.Get(path); item != nil {
		l.stats.Counter("probe_cache_hit").Inc(1)
		return item.Value()
	}

	result := probeResult{}
	cmd := exec.CommandContext(ctx, path, "--version")
	stdout, _, _, err := l.executor.Run(cmd)
	if err == nil {
		if v, ok := parseVersion(stdout); ok && v[0] >= MinMajorVersion {
			result = probeResult{valid: true, version: v}
		}
	}
	l.logger.Infow("checked runtime version", "path", path, "output", strings.TrimSpace(stdout), "valid", result.valid)

	// A cancelled probe says nothing about the binary.
	if ctx.Err() == nil {
		l.probes.Set(path, result, ttlcache.DefaultTTL)
	}
	return result
}

// parseVersion reads the first line of "node --version" output, such as "v20.9.0".
func parseVersion(output string) (version, bool) {
	line, _, _ := strings.Cut(output, "\n")
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}

	parts := strings.Split(strings.TrimPrefix(fields[0], "v"), ".")
	v := make(version, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			break
		}
		v = append(v, n)
	}
	if len(v) == 0 {
		return nil, false
	}
	return v, true
}

// compare returns -1, 0 or 1. Missing components count as zero.
func (v version) compare(other version) int {
	for i := 0; i < len(v) || i < len(other); i++ {
		a, b := 0, 0
		if i < len(v) {
			a = v[i]
		}
		if i < len(other) {
			b = other[i]
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

func (v version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}
