package jolt

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/bridge/bridgemock"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/daemon/daemonmock"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/localcontext/localcontextmock"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/panel/panelmock"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/status"
	"github.com/jolt-ai/jolt-host/src/jolt/controller/workspace/workspacemock"
	"github.com/jolt-ai/jolt-host/src/jolt/entity"
	"github.com/jolt-ai/jolt-host/src/jolt/gateway/ide-client/ideclientmock"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/errors"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/workspace-utils/workspaceutilsmock"
	"github.com/jolt-ai/jolt-host/src/jolt/repository/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const _root = "/home/user/repo"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeShutdowner struct {
	called chan struct{}
}

func (f *fakeShutdowner) Shutdown(...fx.ShutdownOption) error {
	close(f.called)
	return nil
}

type controllerFixture struct {
	controller     *controller
	lifecycle      *fxtest.Lifecycle
	shutdowner     *fakeShutdowner
	sessions       session.Repository
	stats          tally.TestScope
	ideGateway     *ideclientmock.MockGateway
	workspaceUtils *workspaceutilsmock.MockWorkspaceUtils
	workspaces     *workspacemock.MockManager
	panels         *panelmock.MockFactory
	bridge         *bridgemock.MockBridge
	workspace      *workspacemock.MockWorkspace
	local          *localcontextmock.MockService
}

func newControllerFixture(t *testing.T, cfg map[string]interface{}) *controllerFixture {
	ctrl := gomock.NewController(t)
	if cfg == nil {
		cfg = map[string]interface{}{}
	}
	provider, err := config.NewStaticProvider(cfg)
	require.NoError(t, err)

	f := &controllerFixture{
		lifecycle:      fxtest.NewLifecycle(t),
		shutdowner:     &fakeShutdowner{called: make(chan struct{})},
		stats:          tally.NewTestScope("", nil),
		ideGateway:     ideclientmock.NewMockGateway(ctrl),
		workspaceUtils: workspaceutilsmock.NewMockWorkspaceUtils(ctrl),
		workspaces:     workspacemock.NewMockManager(ctrl),
		panels:         panelmock.NewMockFactory(ctrl),
		bridge:         bridgemock.NewMockBridge(ctrl),
		workspace:      workspacemock.NewMockWorkspace(ctrl),
		local:          localcontextmock.NewMockService(ctrl),
	}
	f.sessions = session.New(f.stats)
	f.workspace.EXPECT().Root().Return(_root).AnyTimes()
	f.workspace.EXPECT().LocalContext().Return(f.local).AnyTimes()

	c, err := New(Params{
		Lifecycle:      f.lifecycle,
		Shutdowner:     f.shutdowner,
		Config:         provider,
		Logger:         zap.NewNop().Sugar(),
		Stats:          f.stats,
		Sessions:       f.sessions,
		IdeGateway:     f.ideGateway,
		WorkspaceUtils: f.workspaceUtils,
		Workspaces:     f.workspaces,
		Panels:         f.panels,
		Bridge:         f.bridge,
	})
	require.NoError(t, err)
	f.controller = c.(*controller)
	return f
}

// newSession registers a session through InitSession and returns a context carrying its UUID.
func (f *controllerFixture) newSession(t *testing.T) (context.Context, uuid.UUID) {
	conn := jsonrpc2.NewConn(nil)
	f.ideGateway.EXPECT().RegisterClient(gomock.Any(), gomock.Any(), &conn).Return(nil)
	id, err := f.controller.InitSession(context.Background(), &conn)
	require.NoError(t, err)
	return context.WithValue(context.Background(), entity.SessionContextKey, id), id
}

// openSession registers a session whose workspace resolves to _root.
func (f *controllerFixture) openSession(t *testing.T) (context.Context, uuid.UUID) {
	ctx, id := f.newSession(t)
	params := &protocol.InitializeParams{RootURI: uri.File(_root)}
	f.workspaceUtils.EXPECT().GetWorkspaceRoot(gomock.Any(), params).Return(_root, nil)
	f.workspaces.EXPECT().Acquire(gomock.Any(), _root).Return(f.workspace, nil)
	f.workspaces.EXPECT().Get(_root).Return(f.workspace, true).AnyTimes()
	_, err := f.controller.Initialize(ctx, params)
	require.NoError(t, err)
	return ctx, id
}

func TestSessionLifecycle(t *testing.T) {
	f := newControllerFixture(t, nil)
	ctx, id := f.newSession(t)

	params := &protocol.InitializeParams{
		ClientInfo: &protocol.ClientInfo{Name: "IntelliJ"},
		RootURI:    uri.File(_root),
	}
	f.workspaceUtils.EXPECT().GetWorkspaceRoot(gomock.Any(), params).Return(_root, nil)
	f.workspaces.EXPECT().Acquire(gomock.Any(), _root).Return(f.workspace, nil)

	result, err := f.controller.Initialize(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, "Jolt", result.ServerInfo.Name)

	s, err := f.sessions.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, _root, s.WorkspaceRoot)
	assert.Equal(t, entity.ClientNameIntelliJ, s.ClientName)

	_, err = f.controller.Initialize(ctx, params)
	assert.Error(t, err)

	require.NoError(t, f.controller.Initialized(ctx, &protocol.InitializedParams{}))

	f.ideGateway.EXPECT().DeregisterClient(gomock.Any(), id).Return(nil).Times(2)
	f.workspaces.EXPECT().Release(_root).Return(nil)
	require.NoError(t, f.controller.Exit(ctx))

	_, err = f.sessions.Get(ctx, id)
	assert.Error(t, err)

	// The connection closing after exit ends the session a second time.
	assert.NoError(t, f.controller.EndSession(ctx, id))

	counters := f.stats.Snapshot().Counters()
	assert.Equal(t, int64(1), counters["session.started+"].Value())
	assert.Equal(t, int64(1), counters["session.ended+"].Value())
}

func TestInitializeWithoutWorkspace(t *testing.T) {
	f := newControllerFixture(t, nil)
	ctx, id := f.newSession(t)

	f.workspaceUtils.EXPECT().GetWorkspaceRoot(gomock.Any(), gomock.Any()).Return("", errors.New("no workspace folders"))
	_, err := f.controller.Initialize(ctx, &protocol.InitializeParams{})
	require.NoError(t, err)

	f.ideGateway.EXPECT().ShowMessage(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, params *protocol.ShowMessageParams) error {
		assert.Equal(t, protocol.MessageTypeWarning, params.Type)
		return nil
	})
	require.NoError(t, f.controller.Initialized(ctx, &protocol.InitializedParams{}))

	assert.ErrorIs(t, f.controller.CreatePanel(ctx), errors.NoWorkspaceError)
	_, err = f.controller.BootstrapState(ctx)
	assert.ErrorIs(t, err, errors.NoWorkspaceError)
	_, err = f.controller.DaemonLog(ctx, &entity.DaemonLogParams{})
	assert.ErrorIs(t, err, errors.NoWorkspaceError)

	// Document notifications without a workspace are ignored.
	assert.NoError(t, f.controller.DidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri.File("/tmp/a.go")},
	}))

	f.ideGateway.EXPECT().DeregisterClient(gomock.Any(), id).Return(nil)
	require.NoError(t, f.controller.EndSession(ctx, id))
}

func TestInitializeAcquireFails(t *testing.T) {
	f := newControllerFixture(t, nil)
	ctx, id := f.newSession(t)

	f.workspaceUtils.EXPECT().GetWorkspaceRoot(gomock.Any(), gomock.Any()).Return(_root, nil)
	f.workspaces.EXPECT().Acquire(gomock.Any(), _root).Return(nil, errors.New("host is shutting down"))
	_, err := f.controller.Initialize(ctx, &protocol.InitializeParams{})
	assert.ErrorContains(t, err, "host is shutting down")

	s, err := f.sessions.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, s.WorkspaceRoot)
}

func TestNoSession(t *testing.T) {
	f := newControllerFixture(t, nil)
	ctx := context.Background()

	_, err := f.controller.Initialize(ctx, &protocol.InitializeParams{})
	var ns *errors.NoSessionFoundError
	assert.ErrorAs(t, err, &ns)

	_, err = f.controller.UIQuery(ctx, []byte(`{}`))
	assert.ErrorAs(t, err, &ns)
	assert.ErrorAs(t, f.controller.Shutdown(ctx), &ns)
}

func TestDocumentMethods(t *testing.T) {
	f := newControllerFixture(t, nil)
	ctx, _ := f.openSession(t)

	gomock.InOrder(
		f.local.EXPECT().SetActive(_root+"/a.go"),
		f.local.EXPECT().SetActive(_root+"/b.go"),
		f.local.EXPECT().Closed(_root+"/a.go"),
		f.local.EXPECT().SetActive(""),
	)

	require.NoError(t, f.controller.DidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri.File(_root + "/a.go")},
	}))
	require.NoError(t, f.controller.ActiveEditorChanged(ctx, &entity.ActiveEditorChangedParams{
		URI: uri.File(_root + "/b.go"),
	}))
	require.NoError(t, f.controller.DidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri.File(_root + "/a.go")},
	}))
	require.NoError(t, f.controller.ActiveEditorChanged(ctx, &entity.ActiveEditorChangedParams{}))
}

func TestUIQuery(t *testing.T) {
	raw := []byte(`{"type":"getLocalContextNative","data":{}}`)

	t.Run("with workspace", func(t *testing.T) {
		f := newControllerFixture(t, nil)
		ctx, _ := f.openSession(t)

		f.bridge.EXPECT().HandleMessage(gomock.Any(), f.workspace, raw).Return(entity.SuccessResult(), nil)
		result, err := f.controller.UIQuery(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, entity.SuccessResult(), result)
	})

	t.Run("bridge error", func(t *testing.T) {
		f := newControllerFixture(t, nil)
		ctx, _ := f.openSession(t)

		f.bridge.EXPECT().HandleMessage(gomock.Any(), f.workspace, raw).Return(nil, errors.NewBridgeDispatchError(500, "Internal error: boom"))
		_, err := f.controller.UIQuery(ctx, raw)
		b, ok := errors.AsBridgeError(err)
		require.True(t, ok)
		assert.Equal(t, 500, b.Code)
		assert.Equal(t, "Internal error: boom", b.Message)
	})

	t.Run("without workspace", func(t *testing.T) {
		f := newControllerFixture(t, nil)
		ctx, _ := f.newSession(t)

		f.bridge.EXPECT().HandleMessage(gomock.Any(), nil, raw).Return(nil, errors.NewBridgeDispatchError(400, "No workspace"))
		_, err := f.controller.UIQuery(ctx, raw)
		b, ok := errors.AsBridgeError(err)
		require.True(t, ok)
		assert.Equal(t, 400, b.Code)
	})
}

func TestPanels(t *testing.T) {
	f := newControllerFixture(t, nil)
	ctx, id := f.openSession(t)
	ctrl := gomock.NewController(t)

	first := panelmock.NewMockPanel(ctrl)
	second := panelmock.NewMockPanel(ctrl)
	gomock.InOrder(
		f.panels.EXPECT().Open(gomock.Any(), f.workspace).Return(first),
		first.EXPECT().Dispose(),
		f.panels.EXPECT().Open(gomock.Any(), f.workspace).Return(second),
		second.EXPECT().Dispose(),
	)

	require.NoError(t, f.controller.CreatePanel(ctx))
	require.NoError(t, f.controller.CreatePanel(ctx))
	require.NoError(t, f.controller.DisposePanel(ctx))
	require.NoError(t, f.controller.DisposePanel(ctx))

	third := panelmock.NewMockPanel(ctrl)
	f.panels.EXPECT().Open(gomock.Any(), f.workspace).Return(third)
	third.EXPECT().Dispose()
	require.NoError(t, f.controller.CreatePanel(ctx))

	f.ideGateway.EXPECT().DeregisterClient(gomock.Any(), id).Return(nil)
	f.workspaces.EXPECT().Release(_root).Return(nil)
	require.NoError(t, f.controller.EndSession(ctx, id))
}

func TestPanelsDisposedOnStop(t *testing.T) {
	f := newControllerFixture(t, nil)
	ctx, _ := f.openSession(t)

	p := panelmock.NewMockPanel(gomock.NewController(t))
	f.panels.EXPECT().Open(gomock.Any(), f.workspace).Return(p)
	p.EXPECT().Dispose()

	f.lifecycle.RequireStart()
	require.NoError(t, f.controller.CreatePanel(ctx))
	f.lifecycle.RequireStop()
}

func TestBootstrapStateAndDaemonLog(t *testing.T) {
	f := newControllerFixture(t, nil)
	ctx, _ := f.openSession(t)

	broadcaster := status.NewBroadcaster()
	broadcaster.SetStatus(entity.DaemonStatusStarted)
	handle := daemonmock.NewMockHandle(gomock.NewController(t))
	handle.EXPECT().Port().Return(56581)
	f.workspace.EXPECT().Daemon().Return(handle)
	f.workspace.EXPECT().Broadcaster().Return(broadcaster)

	state, err := f.controller.BootstrapState(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.NewBootstrapState(56581, entity.DaemonStatusStarted), *state)

	f.workspace.EXPECT().DaemonLog(2).Return(entity.DaemonLogResult{Path: "/tmp/jolt.log", Lines: []string{"a", "b"}})
	log, err := f.controller.DaemonLog(ctx, &entity.DaemonLogParams{MaxLines: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, log.Lines)
	assert.Equal(t, "/tmp/jolt.log", log.Path)
}

func TestIdleShutdown(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		f := newControllerFixture(t, nil)
		f.lifecycle.RequireStart()
		assert.Nil(t, f.controller.idleTimer)
		f.lifecycle.RequireStop()
	})

	t.Run("shuts down without sessions", func(t *testing.T) {
		f := newControllerFixture(t, map[string]interface{}{"idleTimeoutMinutes": 1})
		assert.Equal(t, time.Minute, f.controller.idleTimeout)
		f.controller.idleTimeout = time.Millisecond

		f.lifecycle.RequireStart()
		select {
		case <-f.shutdowner.called:
		case <-time.After(5 * time.Second):
			t.Fatal("host was not shut down")
		}
		f.lifecycle.RequireStop()
	})

	t.Run("connected sessions keep the host alive", func(t *testing.T) {
		f := newControllerFixture(t, nil)
		f.controller.idleTimeout = time.Hour
		f.lifecycle.RequireStart()
		require.NotNil(t, f.controller.idleTimer)

		ctx, id := f.newSession(t)
		f.controller.idleTimeout = time.Millisecond
		time.Sleep(20 * time.Millisecond)
		select {
		case <-f.shutdowner.called:
			t.Fatal("host shut down while a session was connected")
		default:
		}

		f.ideGateway.EXPECT().DeregisterClient(gomock.Any(), id).Return(nil)
		require.NoError(t, f.controller.EndSession(ctx, id))
		select {
		case <-f.shutdowner.called:
		case <-time.After(5 * time.Second):
			t.Fatal("host was not shut down after the last session ended")
		}
		f.lifecycle.RequireStop()
	})
}
