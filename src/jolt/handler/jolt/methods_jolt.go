package jolt

import (
	"context"

	"github.com/jolt-ai/jolt-host/src/jolt/internal/errors"
	"github.com/jolt-ai/jolt-host/src/jolt/mapper"
	"go.lsp.dev/jsonrpc2"
)

func (r *jsonRPCRouter) ActiveEditorChanged(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToActiveEditorChangedParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.jolt.ActiveEditorChanged(ctx, params)
	return reply(ctx, nil, err)
}

// UIQuery forwards a message from the embedded UI. Bridge failures are returned with their own code and message.
func (r *jsonRPCRouter) UIQuery(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	result, err := r.jolt.UIQuery(ctx, mapper.RequestToUIMessage(req))
	if err != nil {
		if b, ok := errors.AsBridgeError(err); ok {
			r.stats.Tagged(map[string]string{"code": codeTag(b.Code)}).Counter("ui_query_errors").Inc(1)
			return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.Code(b.Code), b.Message))
		}
		return reply(ctx, nil, err)
	}

	return reply(ctx, result, nil)
}

func (r *jsonRPCRouter) CreatePanel(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	err := r.jolt.CreatePanel(ctx)
	return reply(ctx, nil, err)
}

func (r *jsonRPCRouter) DisposePanel(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	err := r.jolt.DisposePanel(ctx)
	return reply(ctx, nil, err)
}

// BootstrapState returns the current bootstrap blob, used by panels that reload their content.
func (r *jsonRPCRouter) BootstrapState(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	result, err := r.jolt.BootstrapState(ctx)
	if err != nil {
		return reply(ctx, nil, err)
	}

	return reply(ctx, result, nil)
}

func (r *jsonRPCRouter) DaemonLog(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDaemonLogParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.jolt.DaemonLog(ctx, params)
	if err != nil {
		return reply(ctx, nil, err)
	}

	return reply(ctx, result, nil)
}

func codeTag(code int) string {
	if code >= 500 {
		return "5xx"
	}
	return "4xx"
}
