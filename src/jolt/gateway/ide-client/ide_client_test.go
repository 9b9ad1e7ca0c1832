package ideclient

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/jolt-ai/jolt-host/idl/mock/jsonrpc2mock"
	"github.com/jolt-ai/jolt-host/src/jolt/entity"
	"github.com/jolt-ai/jolt-host/src/jolt/factory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRegisterClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	g := gateway{
		clients:     make(map[uuid.UUID]protocol.Client),
		connections: make(map[uuid.UUID]jsonrpc2.Conn),
		logger:      zap.NewNop(),
	}

	for i := 0; i < 10; i++ {
		id := factory.UUID()
		mockConn := jsonrpc2mock.NewMockConn(ctrl)
		var conn jsonrpc2.Conn = mockConn
		err := g.RegisterClient(ctx, id, &conn)
		assert.NoError(t, err)
	}

	assert.Len(t, g.clients, 10)
	assert.Len(t, g.connections, 10)
}

func TestDeregisterClient(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	g := gateway{
		clients:     make(map[uuid.UUID]protocol.Client),
		connections: make(map[uuid.UUID]jsonrpc2.Conn),
		logger:      zap.NewNop(),
	}

	// Set up 10 sample clients.
	for i := 0; i < 10; i++ {
		mockConn := jsonrpc2mock.NewMockConn(ctrl)
		var conn jsonrpc2.Conn = mockConn
		err := g.RegisterClient(ctx, factory.UUID(), &conn)
		require.NoError(t, err)
	}

	// Remove clients one by one and confirm removal.
	for key := range g.clients {
		assert.NotNil(t, g.clients[key])
		err := g.DeregisterClient(ctx, key)
		assert.NoError(t, err)
		assert.Nil(t, g.clients[key])
	}
	assert.Len(t, g.clients, 0)
	assert.Len(t, g.connections, 0)
}

func TestProgress(t *testing.T) {
	g, mockConn, ctx := getTestGateway(t)

	progressParams := &protocol.ProgressParams{
		Token: *protocol.NewNumberProgressToken(5),
		Value: "sampleValue",
	}

	t.Run("notification success", func(t *testing.T) {
		mockConn.EXPECT().Notify(gomock.Eq(ctx), gomock.Eq(protocol.MethodProgress), gomock.Eq(progressParams)).Return(nil)
		err := g.Progress(ctx, progressParams)
		assert.NoError(t, err)
	})
	t.Run("notification failure", func(t *testing.T) {
		mockConn.EXPECT().Notify(gomock.Eq(ctx), gomock.Eq(protocol.MethodProgress), gomock.Eq(progressParams)).Return(errors.New("error"))
		err := g.Progress(ctx, progressParams)
		assert.Error(t, err)
	})
	t.Run("invalid context", func(t *testing.T) {
		err := g.Progress(context.Background(), progressParams)
		assert.Error(t, err)
	})
	t.Run("client not found", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), entity.SessionContextKey, factory.UUID())
		err := g.Progress(ctx, progressParams)
		assert.Error(t, err)
	})
}

func TestWorkDoneProgressCreate(t *testing.T) {
	g, mockConn, ctx := getTestGateway(t)

	workDoneProgressCreateParams := &protocol.WorkDoneProgressCreateParams{
		Token: *protocol.NewNumberProgressToken(5),
	}

	t.Run("call success", func(t *testing.T) {
		mockConn.EXPECT().Call(gomock.Eq(ctx), gomock.Eq(protocol.MethodWorkDoneProgressCreate), gomock.Eq(workDoneProgressCreateParams), gomock.Any()).Return(jsonrpc2.NewNumberID(5), nil)
		err := g.WorkDoneProgressCreate(ctx, workDoneProgressCreateParams)
		assert.NoError(t, err)
	})
	t.Run("call failure", func(t *testing.T) {
		mockConn.EXPECT().Call(gomock.Eq(ctx), gomock.Eq(protocol.MethodWorkDoneProgressCreate), gomock.Eq(workDoneProgressCreateParams), gomock.Any()).Return(jsonrpc2.NewNumberID(5), errors.New("error"))
		err := g.WorkDoneProgressCreate(ctx, workDoneProgressCreateParams)
		assert.Error(t, err)
	})
	t.Run("invalid context", func(t *testing.T) {
		err := g.WorkDoneProgressCreate(context.Background(), workDoneProgressCreateParams)
		assert.Error(t, err)
	})
}

func TestLogMessage(t *testing.T) {
	g, mockConn, ctx := getTestGateway(t)

	logMessageParams := &protocol.LogMessageParams{
		Message: "daemon started",
		Type:    protocol.MessageTypeInfo,
	}

	t.Run("notification success", func(t *testing.T) {
		mockConn.EXPECT().Notify(gomock.Eq(ctx), gomock.Eq(protocol.MethodWindowLogMessage), gomock.Eq(logMessageParams)).Return(nil)
		assert.NoError(t, g.LogMessage(ctx, logMessageParams))
	})
	t.Run("invalid context", func(t *testing.T) {
		assert.Error(t, g.LogMessage(context.Background(), logMessageParams))
	})
}

func TestShowMessage(t *testing.T) {
	g, mockConn, ctx := getTestGateway(t)

	showMessageParams := &protocol.ShowMessageParams{
		Message: "Node.js 18 or newer is required",
		Type:    protocol.MessageTypeError,
	}

	t.Run("notification success", func(t *testing.T) {
		mockConn.EXPECT().Notify(gomock.Eq(ctx), gomock.Eq(protocol.MethodWindowShowMessage), gomock.Eq(showMessageParams)).Return(nil)
		assert.NoError(t, g.ShowMessage(ctx, showMessageParams))
	})
	t.Run("notification failure", func(t *testing.T) {
		mockConn.EXPECT().Notify(gomock.Eq(ctx), gomock.Eq(protocol.MethodWindowShowMessage), gomock.Eq(showMessageParams)).Return(errors.New("error"))
		assert.Error(t, g.ShowMessage(ctx, showMessageParams))
	})
	t.Run("client not found", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), entity.SessionContextKey, factory.UUID())
		assert.Error(t, g.ShowMessage(ctx, showMessageParams))
	})
}

func TestShowDocument(t *testing.T) {
	g, mockConn, ctx := getTestGateway(t)

	showDocumentParams := &protocol.ShowDocumentParams{
		URI:       protocol.URI("file:///home/user/project/main.go"),
		TakeFocus: true,
	}

	t.Run("call success", func(t *testing.T) {
		mockConn.EXPECT().Call(gomock.Eq(ctx), gomock.Eq(protocol.MethodShowDocument), gomock.Eq(showDocumentParams), gomock.Any()).DoAndReturn(
			func(ctx context.Context, method string, params, result interface{}) (jsonrpc2.ID, error) {
				result.(*protocol.ShowDocumentResult).Success = true
				return jsonrpc2.NewNumberID(5), nil
			})
		result, err := g.ShowDocument(ctx, showDocumentParams)
		require.NoError(t, err)
		assert.True(t, result.Success)
	})
	t.Run("call failure", func(t *testing.T) {
		mockConn.EXPECT().Call(gomock.Eq(ctx), gomock.Eq(protocol.MethodShowDocument), gomock.Any(), gomock.Any()).Return(jsonrpc2.NewNumberID(5), errors.New("error"))
		_, err := g.ShowDocument(ctx, showDocumentParams)
		assert.Error(t, err)
	})
	t.Run("invalid context", func(t *testing.T) {
		_, err := g.ShowDocument(context.Background(), showDocumentParams)
		assert.Error(t, err)
	})
	t.Run("client not found", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), entity.SessionContextKey, factory.UUID())
		_, err := g.ShowDocument(ctx, showDocumentParams)
		assert.Error(t, err)
	})
}

func TestLoadContent(t *testing.T) {
	g, mockConn, ctx := getTestGateway(t)
	state := entity.NewBootstrapState(56581, entity.DaemonStatusStarted)

	t.Run("notification success", func(t *testing.T) {
		mockConn.EXPECT().Notify(gomock.Eq(ctx), gomock.Eq(MethodLoadContent), gomock.Eq(state)).Return(nil)
		assert.NoError(t, g.LoadContent(ctx, state))
	})
	t.Run("notification failure", func(t *testing.T) {
		mockConn.EXPECT().Notify(gomock.Eq(ctx), gomock.Eq(MethodLoadContent), gomock.Eq(state)).Return(errors.New("error"))
		assert.Error(t, g.LoadContent(ctx, state))
	})
	t.Run("invalid context", func(t *testing.T) {
		assert.Error(t, g.LoadContent(context.Background(), state))
	})
}

func getTestGateway(t *testing.T) (Gateway, *jsonrpc2mock.MockConn, context.Context) {
	id := factory.UUID()
	ctx := context.WithValue(context.Background(), entity.SessionContextKey, id)
	ctrl := gomock.NewController(t)

	mockConn := jsonrpc2mock.NewMockConn(ctrl)
	var conn jsonrpc2.Conn = mockConn
	g := New(zap.NewNop())
	g.RegisterClient(ctx, id, &conn)
	return g, mockConn, ctx
}
