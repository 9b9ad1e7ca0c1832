package jsonrpcfx

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jolt-ai/jolt-host/idl/mock/configmock"
	"github.com/jolt-ai/jolt-host/idl/mock/jsonrpc2mock"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/serverinfofile/serverinfofilemock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	lifecycleMock := fxtest.NewLifecycle(t)

	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{
			name:    "missing required params",
			params:  Params{},
			wantErr: true,
		},
		{
			name: "all required params are present",
			params: Params{
				Lifecycle: lifecycleMock,
				Config:    newMockConfigProvider(ctrl, "valid"),
			},
			wantErr: false,
		},
		{
			name: "config error",
			params: Params{
				Lifecycle: lifecycleMock,
				Config:    newMockConfigProvider(ctrl, "missingKey"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.params)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterConnectionManager(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := module{}

	mockConnectionManager := NewMockConnectionManager(ctrl)

	// first call should return no error
	err := m.RegisterConnectionManager(mockConnectionManager)
	assert.NoError(t, err)

	// duplicate call should return error
	err = m.RegisterConnectionManager(mockConnectionManager)
	assert.Error(t, err)
}

func TestServeStream(t *testing.T) {
	ctx := context.Background()
	mockUUID, _ := uuid.NewV4()

	t.Run("no connection manager registered", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := module{logger: zap.NewNop().Sugar()}
		err := m.ServeStream(ctx, jsonrpc2mock.NewMockConn(ctrl))
		assert.Error(t, err)
	})

	t.Run("failed NewConnection", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mgr := NewMockConnectionManager(ctrl)
		mgr.EXPECT().NewConnection(gomock.Any(), gomock.Any()).Return(nil, errors.New("sample error"))
		m := module{logger: zap.NewNop().Sugar(), connectionMgr: mgr}

		err := m.ServeStream(ctx, jsonrpc2mock.NewMockConn(ctrl))
		assert.Error(t, err)
	})

	t.Run("client disconnects", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router := NewMockRouter(ctrl)
		router.EXPECT().UUID().Return(mockUUID).AnyTimes()
		mgr := NewMockConnectionManager(ctrl)
		mgr.EXPECT().NewConnection(gomock.Any(), gomock.Any()).Return(router, nil)
		mgr.EXPECT().RemoveConnection(ctx, mockUUID)

		conn := jsonrpc2mock.NewMockConn(ctrl)
		conn.EXPECT().Go(gomock.Any(), gomock.Any())
		done := make(chan struct{})
		close(done)
		conn.EXPECT().Done().Return(done)
		conn.EXPECT().Err()

		m := module{logger: zap.NewNop().Sugar(), connectionMgr: mgr}
		assert.NoError(t, m.ServeStream(ctx, conn))
	})

	t.Run("server stopping closes the connection", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router := NewMockRouter(ctrl)
		router.EXPECT().UUID().Return(mockUUID).AnyTimes()
		mgr := NewMockConnectionManager(ctrl)
		mgr.EXPECT().NewConnection(gomock.Any(), gomock.Any()).Return(router, nil)
		mgr.EXPECT().RemoveConnection(gomock.Any(), mockUUID)

		conn := jsonrpc2mock.NewMockConn(ctrl)
		conn.EXPECT().Go(gomock.Any(), gomock.Any())
		done := make(chan struct{})
		conn.EXPECT().Done().Return(done).Times(2)
		conn.EXPECT().Close().DoAndReturn(func() error {
			close(done)
			return nil
		})
		errClosed := errors.New("connection closed")
		conn.EXPECT().Err().Return(errClosed)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		m := module{logger: zap.NewNop().Sugar(), connectionMgr: mgr}
		assert.ErrorIs(t, m.ServeStream(cancelled, conn), errClosed)
	})
}

func TestSetup(t *testing.T) {
	m := module{
		logger: zap.NewNop().Sugar(),
	}
	err := m.setup()
	assert.Error(t, err)

	m = module{Address: "127.0.0.1:0"}
	err = m.setup()
	require.NoError(t, err)
	m.ln.Close()
}

func TestProcessConfig(t *testing.T) {
	tests := []struct {
		name        string
		configKey   string
		wantErr     bool
		errorString string
	}{
		{
			name:      "valid configuration",
			configKey: "valid",
			wantErr:   false,
		},
		{
			name:        "missing address key",
			configKey:   "missingKey",
			wantErr:     true,
			errorString: "missing field \"bridge.address\" in config",
		},
		{
			name:        "missing address value",
			configKey:   "missingValue",
			wantErr:     true,
			errorString: "missing field \"bridge.address\" in config",
		},
		{
			name:        "incorrectly formatted entry",
			configKey:   "formatProblem",
			wantErr:     true,
			errorString: "getting config field \"bridge.address\": yaml: unmarshal errors:\n  line 1: cannot unmarshal !!map into string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gomockCtrl := gomock.NewController(t)
			cfg := newMockConfigProvider(gomockCtrl, tt.configKey)

			m := module{
				logger: zap.NewNop().Sugar(),
			}
			err := m.processConfig(cfg)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.errorString, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOnStartOnStop(t *testing.T) {
	t.Run("setup failure", func(t *testing.T) {
		m := module{
			logger: zap.NewNop().Sugar(),
		}
		assert.Error(t, m.OnStart(context.Background()))
		assert.NoError(t, m.OnStop(context.Background()))
	})

	t.Run("info file failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		infoFileMock := serverinfofilemock.NewMockServerInfoFile(ctrl)
		infoFileMock.EXPECT().UpdateField(_outputKey, gomock.Any()).Return(errors.New("read only"))

		m := module{
			Address:        "127.0.0.1:0",
			serverInfoFile: infoFileMock,
			logger:         zap.NewNop().Sugar(),
		}
		assert.Error(t, m.OnStart(context.Background()))
	})

	t.Run("serves until stopped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		infoFileMock := serverinfofilemock.NewMockServerInfoFile(ctrl)

		var published string
		infoFileMock.EXPECT().UpdateField(_outputKey, gomock.Any()).DoAndReturn(func(key, value string) error {
			published = value
			return nil
		})

		mockUUID, _ := uuid.NewV4()
		router := NewMockRouter(ctrl)
		router.EXPECT().UUID().Return(mockUUID).AnyTimes()
		connected := make(chan struct{})
		mgr := NewMockConnectionManager(ctrl)
		mgr.EXPECT().NewConnection(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, conn *jsonrpc2.Conn) (Router, error) {
			close(connected)
			return router, nil
		})
		mgr.EXPECT().RemoveConnection(gomock.Any(), mockUUID)

		m := module{
			Address:        "127.0.0.1:0",
			serverInfoFile: infoFileMock,
			logger:         zap.NewNop().Sugar(),
		}
		require.NoError(t, m.RegisterConnectionManager(mgr))
		require.NoError(t, m.OnStart(context.Background()))
		assert.NotEqual(t, "127.0.0.1:0", published)

		client, err := net.Dial("tcp", published)
		require.NoError(t, err)
		defer client.Close()

		select {
		case <-connected:
		case <-time.After(5 * time.Second):
			t.Fatal("connection was not served")
		}

		assert.NoError(t, m.OnStop(context.Background()))
	})
}

func newMockConfigProvider(ctrl *gomock.Controller, configKey string) config.Provider {
	configs := map[string]string{
		"valid": `
bridge:
  address: 127.0.0.1:0`,
		"missingKey": `
bridge:
  other: value`,
		"missingValue": `
bridge:
  address:`,
		"formatProblem": `
bridge:
  address:
    key: val`,
	}

	yamlProv, _ := config.NewYAML(config.Source(strings.NewReader(configs[configKey])))
	configProviderMock := configmock.NewMockProvider(ctrl)
	configProviderMock.EXPECT().Get(_configKeyAddress).Return(yamlProv.Get(_configKeyAddress)).AnyTimes()
	return configProviderMock
}
