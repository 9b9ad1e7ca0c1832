// Package bridge handles the JSON messages that the embedded UI sends to the host.
package bridge

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jolt-ai/jolt-host/src/jolt/controller/files"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/localcontext"
	"github.com/jolt-ai/jolt-host/src/jolt/entity"
	"github.com/jolt-ai/jolt-host/src/jolt/gateway/browser"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/errors"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/telemetry"
	"github.com/jolt-ai/jolt-host/src/jolt/mapper"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_msgProjectMismatch = "The open project does not match the git repo"
	_msgNoBrowser       = "No browser found to open URL"
	_msgOpenURLFailed   = "Failed to open URL: %v"
	_msgInternal        = "Internal error: %v"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Workspace is the project a message refers to.
type Workspace interface {
	Root() string
	// RemoteURL is the git remote of the project, or empty when unknown.
	RemoteURL() string
	LocalContext() localcontext.Service
}

// Bridge dispatches UI messages to host operations.
type Bridge interface {
	// HandleMessage parses raw and runs the requested operation against ws, which is nil
	// when the sending editor has no project open.
	HandleMessage(ctx context.Context, ws Workspace, raw []byte) (entity.UIQueryResult, *errors.BridgeError)
}

// Params are inbound parameters to initialize a new Bridge.
type Params struct {
	fx.In

	Logger   *zap.SugaredLogger
	Stats    tally.Scope
	Files    files.Service
	Browser  browser.Opener
	Reporter telemetry.Reporter
}

type bridge struct {
	logger   *zap.SugaredLogger
	stats    tally.Scope
	files    files.Service
	browser  browser.Opener
	reporter telemetry.Reporter
}

// New creates a Bridge.
func New(p Params) Bridge {
	return &bridge{
		logger:   p.Logger.With("component", "bridge"),
		stats:    p.Stats.SubScope("bridge"),
		files:    p.Files,
		browser:  p.Browser,
		reporter: p.Reporter,
	}
}

func (b *bridge) HandleMessage(ctx context.Context, ws Workspace, raw []byte) (result entity.UIQueryResult, bridgeErr *errors.BridgeError) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic handling ui message: %v", r)
			b.logger.Errorw("ui message handler panicked", zap.Error(err))
			b.reporter.CaptureException(err)
			result, bridgeErr = nil, errors.NewBridgeDispatchError(errors.CodeInternal, fmt.Sprintf(_msgInternal, r))
		}
		b.record(bridgeErr)
	}()

	event, err := mapper.RawToUIEvent(raw)
	if err != nil {
		b.reporter.CaptureMessage(fmt.Sprintf("Failed to parse ui message %s: %v", raw, err))
		return nil, b.toBridgeError(err)
	}
	b.logger.Debugw("handling ui message", "type", event.Type)

	switch event.Type {
	case entity.UIEventOpenFile:
		return b.openFile(ctx, ws, event)
	case entity.UIEventApplyChangedFiles:
		return b.applyChangedFiles(ctx, ws, event)
	case entity.UIEventGetLocalContext:
		return b.getLocalContext(ws)
	case entity.UIEventOpenURL:
		return b.openURL(ctx, event)
	}
	return nil, errors.NewBridgeParseError(fmt.Sprintf("Unhandled event type: %s", event.Type))
}

func (b *bridge) openFile(ctx context.Context, ws Workspace, event *entity.UIEvent) (entity.UIQueryResult, *errors.BridgeError) {
	data, err := mapper.UIEventToOpenFileData(event)
	if err != nil {
		return nil, b.toBridgeError(err)
	}
	if ws == nil {
		return nil, errors.NewBridgeDispatchError(errors.CodeBadRequest, _msgProjectMismatch)
	}

	if err := b.files.OpenFile(ctx, ws.Root(), data.Path); err != nil {
		return nil, b.toBridgeError(err)
	}
	return entity.SuccessResult(), nil
}

func (b *bridge) applyChangedFiles(ctx context.Context, ws Workspace, event *entity.UIEvent) (entity.UIQueryResult, *errors.BridgeError) {
	data, err := mapper.UIEventToApplyChangedFilesData(event)
	if err != nil {
		return nil, b.toBridgeError(err)
	}
	if ws == nil || !SameRepository(ws.RemoteURL(), data.GitRepoURL) {
		msg := fmt.Sprintf("%s %s", _msgProjectMismatch, data.GitRepoURL)
		b.reporter.CaptureMessage(msg)
		return nil, errors.NewBridgeDispatchError(errors.CodeBadRequest, msg)
	}

	if err := b.files.ApplyAll(ctx, ws.Root(), data.ChangedFiles); err != nil {
		return nil, b.toBridgeError(err)
	}
	b.stats.Counter("changed_files").Inc(int64(len(data.ChangedFiles)))
	return entity.SuccessResult(), nil
}

func (b *bridge) getLocalContext(ws Workspace) (entity.UIQueryResult, *errors.BridgeError) {
	if ws == nil {
		return nil, errors.NewBridgeDispatchError(errors.CodeBadRequest, _msgProjectMismatch)
	}
	data := ws.LocalContext().LocalContext()
	return entity.UIQueryResult{
		"activeTab": data.ActiveTab,
		"openTabs":  data.OpenTabs,
	}, nil
}

func (b *bridge) openURL(ctx context.Context, event *entity.UIEvent) (entity.UIQueryResult, *errors.BridgeError) {
	data, err := mapper.UIEventToOpenURLData(event)
	if err != nil {
		return nil, b.toBridgeError(err)
	}

	if err := b.browser.Open(ctx, data.URL); err != nil {
		if stderrors.Is(err, browser.ErrNoBrowser) {
			return nil, errors.NewBridgeDispatchError(errors.CodeInternal, _msgNoBrowser)
		}
		b.logger.Warnw("failed to open url", "url", data.URL, zap.Error(err))
		return nil, errors.NewBridgeDispatchError(errors.CodeInternal, fmt.Sprintf(_msgOpenURLFailed, err))
	}
	return entity.SuccessResult(), nil
}

// toBridgeError keeps BridgeErrors as they are, maps bad requests to 400 and turns anything else
// into a reported internal error.
func (b *bridge) toBridgeError(err error) *errors.BridgeError {
	if bridgeErr, ok := errors.AsBridgeError(err); ok {
		return bridgeErr
	}
	if errors.IsBadRequest(err) {
		return errors.NewBridgeDispatchError(errors.CodeBadRequest, err.Error())
	}
	b.logger.Errorw("ui message failed", zap.Error(err))
	b.reporter.CaptureException(err)
	return errors.NewBridgeDispatchError(errors.CodeInternal, fmt.Sprintf(_msgInternal, err))
}

func (b *bridge) record(bridgeErr *errors.BridgeError) {
	if bridgeErr == nil {
		b.stats.Counter("success").Inc(1)
		return
	}
	b.stats.Tagged(map[string]string{"kind": string(bridgeErr.Kind)}).Counter("failure").Inc(1)
}

// SameRepository reports whether two git remote URLs name the same repository.
// An empty local remote matches anything since the project's origin is not always known.
func SameRepository(local, requested string) bool {
	if local == "" {
		return true
	}
	return normalizeRemote(local) == normalizeRemote(requested)
}

// normalizeRemote reduces ssh, scp-like and http remotes to "host/path".
func normalizeRemote(remote string) string {
	remote = strings.TrimSpace(remote)
	if u, err := url.Parse(remote); err == nil && u.Host != "" {
		remote = u.Hostname() + "/" + strings.TrimPrefix(u.Path, "/")
	} else if at := strings.Index(remote, "@"); at >= 0 {
		remote = strings.Replace(remote[at+1:], ":", "/", 1)
	}
	remote = strings.TrimSuffix(remote, "/")
	remote = strings.TrimSuffix(remote, ".git")
	return strings.ToLower(remote)
}
