package controller

import (
	"github.com/jolt-ai/jolt-host/src/jolt/controller/bridge"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/daemon"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/files"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/jolt"
	noderuntime "github.com/jolt-ai/jolt-host/src/jolt/controller/node-runtime"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/panel"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/workspace"
	"go.uber.org/fx"
)

// Module provides every controller of the host.
var Module = fx.Options(
	jolt.Module,
	noderuntime.Module,
	daemon.Module,
	workspace.Module,
	files.Module,
	bridge.Module,
	panel.Module,
)
