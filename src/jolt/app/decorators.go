package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jolt-ai/jolt-host/src/jolt/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Context describes where the host is running.
type Context struct {
	Environment        string `yaml:"environment"`
	RuntimeEnvironment string `yaml:"runtimeEnvironment"`
}

const (
	// EnvLocal indicates that the host is running on a developer machine next to the IDE.
	EnvLocal = "local"

	// EnvDevelopment indicates that the host is being developed on.
	EnvDevelopment = "development"

	// Environment variables
	_envJoltEnvironment = "JOLT_ENVIRONMENT"
)

// Sinks understood by zap that are not files.
var _nonFileOutputs = map[string]struct{}{
	"stdout": {},
	"stderr": {},
}

func decorateEnvContext(env Context) Context {
	envValue := EnvLocal
	if os.Getenv(_envJoltEnvironment) == EnvDevelopment {
		envValue = EnvDevelopment
	}

	env.Environment = envValue
	env.RuntimeEnvironment = envValue
	return env
}

// DecorateConfigParams is the set of dependencies required to decorate the config.Provider.
type DecorateConfigParams struct {
	fx.In

	Env Context
	Cfg config.Provider
	FS  fs.JoltFS
}

// decorateConfigProvider includes any steps that modify the config.Provider before it is used, or use its data for any startup related activities.
func decorateConfigProvider(p DecorateConfigParams) (config.Provider, error) {
	combined, err := ensureLogFolder(p.Cfg, p.FS)
	if err != nil {
		return nil, fmt.Errorf("ensuring log folder for %s environment: %v", p.Env.Environment, err)
	}

	return combined, nil
}

// Ensure that all configured logging output directories exist or create if necessary.
func ensureLogFolder(cfg config.Provider, fs fs.JoltFS) (config.Provider, error) {
	var c zap.Config
	if err := cfg.Get("logging").Populate(&c); err != nil {
		return nil, fmt.Errorf("loading logging config: %v", err)
	}

	for _, outputPath := range c.OutputPaths {
		if _, ok := _nonFileOutputs[outputPath]; ok {
			continue
		}
		if err := fs.MkdirAll(filepath.Dir(outputPath)); err != nil {
			return nil, fmt.Errorf("creating logging directory: %v", err)
		}
	}

	return cfg, nil
}
