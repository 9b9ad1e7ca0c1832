package gateway

import (
	"github.com/jolt-ai/jolt-host/src/jolt/gateway/browser"
	ideclient "github.com/jolt-ai/jolt-host/src/jolt/gateway/ide-client"
	"go.uber.org/fx"
)

// Module provides the outbound gateways.
var Module = fx.Provide(
	ideclient.New,
	browser.New,
)
