package logfilewriter

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jolt-ai/jolt-host/src/jolt/internal/fs/fsmock"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/serverinfofile/serverinfofilemock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSetupOutputWriter(t *testing.T) {
	ctrl := gomock.NewController(t)
	serverInfoFileMock := serverinfofilemock.NewMockServerInfoFile(ctrl)
	fsMock := fsmock.NewMockJoltFS(ctrl)

	p := Params{
		ServerInfoFile: serverInfoFileMock,
		FS:             fsMock,
	}

	t.Run("success", func(t *testing.T) {
		fsMock.EXPECT().MkdirAll(gomock.Any()).Return(nil)
		file, err := os.CreateTemp(t.TempDir(), "")
		require.NoError(t, err)
		fsMock.EXPECT().TempFile(gomock.Any(), gomock.Any()).Return(file, nil)
		serverInfoFileMock.EXPECT().UpdateField(fmt.Sprintf(_fmtOutputKey, "daemon:/ws"), file.Name()).Return(nil)

		writer, err := SetupOutputWriter(p, "daemon:/ws", 0)
		require.NoError(t, err)
		assert.Equal(t, file.Name(), writer.Path())

		_, err = writer.Write([]byte("sample log message"))
		assert.NoError(t, err)

		fsMock.EXPECT().Remove(file.Name()).DoAndReturn(os.Remove)
		serverInfoFileMock.EXPECT().RemoveField(fmt.Sprintf(_fmtOutputKey, "daemon:/ws")).Return(nil)
		assert.NoError(t, writer.Close())
		// Second close is a no-op.
		assert.NoError(t, writer.Close())
		_, err = os.Stat(file.Name())
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("mkdir fail", func(t *testing.T) {
		fsMock.EXPECT().MkdirAll(gomock.Any()).Return(errors.New("sample"))
		_, err := SetupOutputWriter(p, "daemon:/ws", 0)
		assert.Error(t, err)
	})

	t.Run("tempfile fail", func(t *testing.T) {
		fsMock.EXPECT().MkdirAll(gomock.Any()).Return(nil)
		fsMock.EXPECT().TempFile(gomock.Any(), gomock.Any()).Return(nil, errors.New("sample"))
		_, err := SetupOutputWriter(p, "daemon:/ws", 0)
		assert.Error(t, err)
	})

	t.Run("info file fail", func(t *testing.T) {
		fsMock.EXPECT().MkdirAll(gomock.Any()).Return(nil)
		file, err := os.CreateTemp(t.TempDir(), "")
		require.NoError(t, err)
		fsMock.EXPECT().TempFile(gomock.Any(), gomock.Any()).Return(file, nil)
		serverInfoFileMock.EXPECT().UpdateField(gomock.Any(), gomock.Any()).Return(errors.New("sample"))
		fsMock.EXPECT().Remove(file.Name()).Return(nil)

		_, err = SetupOutputWriter(p, "daemon:/ws", 0)
		assert.Error(t, err)
	})
}

func TestWrite(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "")
	require.NoError(t, err)
	defer file.Close()

	w := newTestWriter(t, file, 3)

	_, err = w.Write([]byte("line1\n\nline2\nline3\n"))
	assert.NoError(t, err)
	w.WriteLine("line4")

	// Only the most recent lines are buffered.
	assert.Equal(t, []string{"line2", "line3", "line4"}, w.Lines(0))
	assert.Equal(t, []string{"line3", "line4"}, w.Lines(2))
	assert.Equal(t, []string{"line2", "line3", "line4"}, w.Lines(10))

	contents, err := os.ReadFile(file.Name())
	require.NoError(t, err)
	for _, line := range []string{"line1", "line2", "line3", "line4"} {
		assert.Contains(t, string(contents), line)
	}
}

func TestWriteAfterClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	file, err := os.CreateTemp(t.TempDir(), "")
	require.NoError(t, err)

	w := newTestWriter(t, file, 5)
	fsMock := fsmock.NewMockJoltFS(ctrl)
	fsMock.EXPECT().Remove(file.Name()).Return(errors.New("busy"))
	infoMock := serverinfofilemock.NewMockServerInfoFile(ctrl)
	infoMock.EXPECT().RemoveField(gomock.Any()).Return(nil)
	w.fs = fsMock
	w.info = infoMock

	w.WriteLine("before")
	assert.Error(t, w.Close())
	w.WriteLine("after")
	assert.Equal(t, []string{"before"}, w.Lines(0))
}

func newTestWriter(t *testing.T, file *os.File, limit int) *outputWriter {
	ctrl := gomock.NewController(t)
	fsMock := fsmock.NewMockJoltFS(ctrl)
	infoMock := serverinfofilemock.NewMockServerInfoFile(ctrl)
	fsMock.EXPECT().MkdirAll(gomock.Any()).Return(nil)
	fsMock.EXPECT().TempFile(gomock.Any(), gomock.Any()).Return(file, nil)
	infoMock.EXPECT().UpdateField(gomock.Any(), file.Name()).Return(nil)

	w, err := SetupOutputWriter(Params{FS: fsMock, ServerInfoFile: infoMock}, "test", limit)
	require.NoError(t, err)
	return w.(*outputWriter)
}
