package mapper

import (
	"testing"

	"github.com/jolt-ai/jolt-host/src/jolt/factory"
	"github.com/stretchr/testify/assert"
	"go.lsp.dev/protocol"
	"go.uber.org/goleak"
)

func TestRequestToLSPParams(t *testing.T) {
	t.Run("initialize", func(t *testing.T) {
		req := factory.JSONRPCRequest(protocol.MethodInitialize, protocol.InitializeParams{RootURI: "file:///repo"})
		params, err := RequestToInitializeParams(req)
		assert.NoError(t, err)
		assert.Equal(t, protocol.DocumentURI("file:///repo"), params.RootURI)

		_, err = RequestToInitializeParams(factory.JSONRPCRequest(protocol.MethodInitialize, "bad"))
		assert.Error(t, err)
	})

	t.Run("initialized", func(t *testing.T) {
		_, err := RequestToInitializedParams(factory.JSONRPCRequest(protocol.MethodInitialized, protocol.InitializedParams{}))
		assert.NoError(t, err)

		_, err = RequestToInitializedParams(factory.JSONRPCRequest(protocol.MethodInitialized, "bad"))
		assert.Error(t, err)
	})

	t.Run("did open", func(t *testing.T) {
		req := factory.JSONRPCRequest(protocol.MethodTextDocumentDidOpen, protocol.DidOpenTextDocumentParams{
			TextDocument: protocol.TextDocumentItem{URI: "file:///repo/a.go"},
		})
		params, err := RequestToDidOpenTextDocumentParams(req)
		assert.NoError(t, err)
		assert.Equal(t, protocol.DocumentURI("file:///repo/a.go"), params.TextDocument.URI)

		_, err = RequestToDidOpenTextDocumentParams(factory.JSONRPCRequest(protocol.MethodTextDocumentDidOpen, "bad"))
		assert.Error(t, err)
	})

	t.Run("did close", func(t *testing.T) {
		req := factory.JSONRPCRequest(protocol.MethodTextDocumentDidClose, protocol.DidCloseTextDocumentParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///repo/a.go"},
		})
		params, err := RequestToDidCloseTextDocumentParams(req)
		assert.NoError(t, err)
		assert.Equal(t, protocol.DocumentURI("file:///repo/a.go"), params.TextDocument.URI)

		_, err = RequestToDidCloseTextDocumentParams(factory.JSONRPCRequest(protocol.MethodTextDocumentDidClose, "bad"))
		assert.Error(t, err)
	})
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
