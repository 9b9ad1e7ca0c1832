package app

import (
	"context"
	"time"

	"github.com/jolt-ai/jolt-host/src/jolt/gateway"
	"github.com/jolt-ai/jolt-host/src/jolt/handler"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/clock"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/core"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/executor"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/fs"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/jsonrpcfx"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/mainloop"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/portutil"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/serverinfofile"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/settings"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/telemetry"
	workspaceutils "github.com/jolt-ai/jolt-host/src/jolt/internal/workspace-utils"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/fx"
)

const _reportInterval = time.Second

// Module defines the jolt host application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	jsonrpcfx.Module,
	fs.Module,
	executor.Module,
	serverinfofile.Module,
	workspaceutils.Module,
	telemetry.Module,
	portutil.Module,
	mainloop.Module,
	settings.Module,
	clock.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(newRootScope),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        EnvLocal,
			RuntimeEnvironment: EnvLocal,
		}
	}),
)

func newRootScope(lc fx.Lifecycle, env Context) tally.Scope {
	rs, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix: "jolt",
		Tags: map[string]string{
			"service":     "jolt-host",
			"environment": env.Environment,
		},
	}, _reportInterval)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return closer.Close()
		},
	})

	return rs
}
