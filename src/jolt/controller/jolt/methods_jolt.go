package jolt

import (
	"context"

	"github.com/jolt-ai/jolt-host/src/jolt/entity"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/errors"
)

// ActiveEditorChanged tracks the focused editor. An empty URI means that no file editor has focus.
func (c *controller) ActiveEditorChanged(ctx context.Context, params *entity.ActiveEditorChangedParams) error {
	_, ws, err := c.workspaceFromContext(ctx)
	if err != nil || ws == nil {
		return err
	}

	path := ""
	if params.URI != "" {
		path = params.URI.Filename()
	}
	ws.LocalContext().SetActive(path)
	return nil
}

func (c *controller) UIQuery(ctx context.Context, raw []byte) (entity.UIQueryResult, error) {
	_, ws, err := c.workspaceFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result, bridgeErr := c.bridge.HandleMessage(ctx, bridgeWorkspace(ws), raw)
	if bridgeErr != nil {
		return nil, bridgeErr
	}
	return result, nil
}

// CreatePanel starts a panel for the session, replacing any previous one.
func (c *controller) CreatePanel(ctx context.Context) error {
	s, ws, err := c.workspaceFromContext(ctx)
	if err != nil {
		return err
	}
	if ws == nil {
		return errors.NoWorkspaceError
	}

	c.disposePanel(s.UUID)
	p := c.panelFactory.Open(ctx, ws)

	c.panelsMu.Lock()
	c.panels[s.UUID] = p
	c.panelsMu.Unlock()
	return nil
}

func (c *controller) DisposePanel(ctx context.Context) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return err
	}
	c.disposePanel(s.UUID)
	return nil
}

// BootstrapState returns the state the embedded UI needs right now, which may still be pending.
func (c *controller) BootstrapState(ctx context.Context) (*entity.BootstrapState, error) {
	_, ws, err := c.workspaceFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, errors.NoWorkspaceError
	}

	state := entity.NewBootstrapState(ws.Daemon().Port(), ws.Broadcaster().Status())
	return &state, nil
}

func (c *controller) DaemonLog(ctx context.Context, params *entity.DaemonLogParams) (*entity.DaemonLogResult, error) {
	_, ws, err := c.workspaceFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, errors.NoWorkspaceError
	}

	result := ws.DaemonLog(params.MaxLines)
	return &result, nil
}
