package jolt

import (
	"context"

	"go.lsp.dev/protocol"
)

// DidOpen records the opened file as the focused tab of the session's workspace.
func (c *controller) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	_, ws, err := c.workspaceFromContext(ctx)
	if err != nil || ws == nil {
		return err
	}
	ws.LocalContext().SetActive(params.TextDocument.URI.Filename())
	return nil
}

// DidClose drops the closed file from the recent tabs.
func (c *controller) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	_, ws, err := c.workspaceFromContext(ctx)
	if err != nil || ws == nil {
		return err
	}
	ws.LocalContext().Closed(params.TextDocument.URI.Filename())
	return nil
}
