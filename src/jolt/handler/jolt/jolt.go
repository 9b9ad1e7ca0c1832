// Package jolt implements the JSON-RPC inbound used by editor plugins.
package jolt

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	controller "github.com/jolt-ai/jolt-host/src/jolt/controller/jolt"
	"github.com/jolt-ai/jolt-host/src/jolt/entity"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/jsonrpcfx"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/jsonrpc2"
)

// Handler owns the connection manager registered with the JSON-RPC inbound.
type Handler interface {
	ConnectionManager() jsonrpcfx.ConnectionManager
}

type handler struct {
	connectionManager jsonrpcfx.ConnectionManager
}

// New constructs a Handler and registers its connection manager with the JSON-RPC module.
func New(ctrl controller.Controller, jsonrpcmod jsonrpcfx.JSONRPCModule, stats tally.Scope) (Handler, error) {
	c := jsonRPCConnectionManager{
		ctrl:  ctrl,
		stats: stats.SubScope("json_rpc"),
	}
	if err := jsonrpcmod.RegisterConnectionManager(&c); err != nil {
		return nil, fmt.Errorf("registering connection manager: %w", err)
	}

	return &handler{connectionManager: &c}, nil
}

func (h *handler) ConnectionManager() jsonrpcfx.ConnectionManager {
	return h.connectionManager
}

type jsonRPCConnectionManager struct {
	ctrl  controller.Controller
	stats tally.Scope
}

// NewConnection will store a new connection and return a router that includes its UUID.
func (c *jsonRPCConnectionManager) NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (router jsonrpcfx.Router, err error) {
	id, err := c.ctrl.InitSession(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("error while creating new connection: %w", err)
	}

	c.stats.Counter("connections").Inc(1)
	return &jsonRPCRouter{
		jolt:  c.ctrl,
		uuid:  id,
		stats: c.stats,
	}, nil
}

// RemoveConnection cleans up a closed connection.
func (c *jsonRPCConnectionManager) RemoveConnection(ctx context.Context, id uuid.UUID) {
	// Ensure session is removed even if no Exit call has been received.
	ctx = context.WithValue(ctx, entity.SessionContextKey, id)
	c.ctrl.EndSession(ctx, id)
}
