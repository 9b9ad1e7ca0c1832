package handler

import (
	"github.com/jolt-ai/jolt-host/src/jolt/controller"
	joltcontroller "github.com/jolt-ai/jolt-host/src/jolt/controller/jolt"
	handler "github.com/jolt-ai/jolt-host/src/jolt/handler/jolt"
	"github.com/jolt-ai/jolt-host/src/jolt/repository/session"
	"go.uber.org/fx"
)

// Module provides the JSON-RPC inbound of the host into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(session.New),
	fx.Provide(handler.New),
	fx.Invoke(outputHostInfo),
	fx.Invoke(func(m handler.Handler) {}),
	fx.Invoke(func(m joltcontroller.Controller) {}),
)
