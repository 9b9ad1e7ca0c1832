package jolt

import (
	"context"

	"github.com/gofrs/uuid"
	controller "github.com/jolt-ai/jolt-host/src/jolt/controller/jolt"
	"github.com/jolt-ai/jolt-host/src/jolt/entity"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// Methods specific to Jolt plugins.
const (
	MethodActiveEditorChanged = "jolt/activeEditorChanged"
	MethodUIQuery             = "jolt/uiQuery"
	MethodCreatePanel         = "jolt/createPanel"
	MethodDisposePanel        = "jolt/disposePanel"
	MethodBootstrapState      = "jolt/bootstrapState"
	MethodDaemonLog           = "jolt/daemonLog"
)

type jsonRPCRouter struct {
	jolt  controller.Controller
	uuid  uuid.UUID
	stats tally.Scope
}

// HandleReq handles routing for a single request.
func (r *jsonRPCRouter) HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	ctx = context.WithValue(ctx, entity.SessionContextKey, r.uuid)

	switch req.Method() {
	// Lifecycle related methods.
	case protocol.MethodInitialize:
		return r.Initialize(ctx, reply, req)

	case protocol.MethodInitialized:
		return r.Initialized(ctx, reply, req)

	case protocol.MethodShutdown:
		return r.Shutdown(ctx, reply, req)

	case protocol.MethodExit:
		return r.Exit(ctx, reply, req)

	// Document related methods.
	case protocol.MethodTextDocumentDidOpen:
		return r.DidOpen(ctx, reply, req)

	case protocol.MethodTextDocumentDidClose:
		return r.DidClose(ctx, reply, req)

	// Jolt methods.
	case MethodActiveEditorChanged:
		return r.ActiveEditorChanged(ctx, reply, req)

	case MethodUIQuery:
		return r.UIQuery(ctx, reply, req)

	case MethodCreatePanel:
		return r.CreatePanel(ctx, reply, req)

	case MethodDisposePanel:
		return r.DisposePanel(ctx, reply, req)

	case MethodBootstrapState:
		return r.BootstrapState(ctx, reply, req)

	case MethodDaemonLog:
		return r.DaemonLog(ctx, reply, req)

	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

func (r *jsonRPCRouter) UUID() uuid.UUID {
	return r.uuid
}
