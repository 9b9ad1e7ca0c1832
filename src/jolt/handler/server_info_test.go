package handler

import (
	"errors"
	"os"
	"strconv"
	"testing"

	"github.com/jolt-ai/jolt-host/src/jolt/internal/serverinfofile/serverinfofilemock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestOutputHostInfo(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		infofile := serverinfofilemock.NewMockServerInfoFile(gomock.NewController(t))
		infofile.EXPECT().UpdateField("host-pid", strconv.Itoa(os.Getpid())).Return(nil)
		assert.NoError(t, outputHostInfo(infofile))
	})

	t.Run("write failure", func(t *testing.T) {
		infofile := serverinfofilemock.NewMockServerInfoFile(gomock.NewController(t))
		infofile.EXPECT().UpdateField(gomock.Any(), gomock.Any()).Return(errors.New("read-only"))
		assert.ErrorContains(t, outputHostInfo(infofile), "read-only")
	})
}
