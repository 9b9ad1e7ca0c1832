package jolt

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jolt-ai/jolt-host/src/jolt/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// Initialize resolves the session's workspace and opens it, starting its daemon on first use.
func (c *controller) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	result := &protocol.InitializeResult{
		ServerInfo: &protocol.ServerInfo{
			Name: _serverName,
		},
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindNone,
			},
		},
	}

	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting session from context: %w", err)
	}
	if s.WorkspaceRoot != "" {
		return nil, fmt.Errorf("session %s is already initialized", s.UUID)
	}

	s.InitializeParams = params
	s.ClientName = mapper.InitializeParamsToClientName(params)

	root, err := c.workspaceUtils.GetWorkspaceRoot(ctx, params)
	if err != nil {
		c.logger.Warnf("getting workspace root: %s", err)
	}
	if root != "" {
		if _, err := c.workspaces.Acquire(ctx, root); err != nil {
			return nil, fmt.Errorf("opening workspace: %w", err)
		}
		s.WorkspaceRoot = root
	}

	if err := c.sessions.Set(ctx, s); err != nil {
		if root != "" {
			c.workspaces.Release(root)
		}
		return nil, fmt.Errorf("setting updated session state: %w", err)
	}

	sessionLogger(c.logger, s).Infow("session initialized", "client", s.ClientName)
	return result, nil
}

// Initialized warns the user when the session has no project that Jolt can work on.
func (c *controller) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}

	if s.WorkspaceRoot == "" {
		return c.ideGateway.ShowMessage(ctx, &protocol.ShowMessageParams{
			Message: "Jolt needs an open project folder to start.",
			Type:    protocol.MessageTypeWarning,
		})
	}
	return nil
}

// Shutdown is sent just before Exit. The session's panel stops following the daemon.
func (c *controller) Shutdown(ctx context.Context) error {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return err
	}
	c.disposePanel(id)
	return nil
}

// Exit ends the calling session.
func (c *controller) Exit(ctx context.Context) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("error during session exit: %w", err)
	}
	return c.EndSession(ctx, s.UUID)
}

// InitSession creates a new empty session and returns its UUID.
func (c *controller) InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error) {
	defer c.refreshIdleTimer(ctx)

	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}

	if err := c.ideGateway.RegisterClient(ctx, id, conn); err != nil {
		return uuid.Nil, err
	}
	if err := c.sessions.Set(ctx, mapper.UUIDToSession(id, conn)); err != nil {
		return uuid.Nil, err
	}

	c.stats.Counter("started").Inc(1)
	return id, nil
}

// EndSession releases everything held by the session. Ending an unknown session only deregisters its client.
func (c *controller) EndSession(ctx context.Context, id uuid.UUID) error {
	defer c.refreshIdleTimer(ctx)

	c.disposePanel(id)
	if err := c.ideGateway.DeregisterClient(ctx, id); err != nil {
		c.logger.Error(err)
	}

	s, err := c.sessions.Get(ctx, id)
	if err != nil {
		return nil
	}
	if s.WorkspaceRoot != "" {
		if err := c.workspaces.Release(s.WorkspaceRoot); err != nil {
			sessionLogger(c.logger, s).Warnw("failed to release workspace", zap.Error(err))
		}
	}

	c.stats.Counter("ended").Inc(1)
	return c.sessions.Delete(ctx, id)
}
