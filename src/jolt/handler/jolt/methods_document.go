package jolt

import (
	"context"

	"github.com/jolt-ai/jolt-host/src/jolt/mapper"
	"go.lsp.dev/jsonrpc2"
)

// DidOpen is sent when a document is opened in the IDE.
func (r *jsonRPCRouter) DidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidOpenTextDocumentParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.jolt.DidOpen(ctx, params)
	return reply(ctx, nil, err)
}

// DidClose is sent when a document is closed in the IDE.
func (r *jsonRPCRouter) DidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidCloseTextDocumentParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.jolt.DidClose(ctx, params)
	return reply(ctx, nil, err)
}
