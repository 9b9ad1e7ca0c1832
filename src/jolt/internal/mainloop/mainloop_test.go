package mainloop

import (
	"sync"
	"testing"
	"time"

	"github.com/jolt-ai/jolt-host/src/jolt/internal/telemetry/telemetrymock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	lc := fxtest.NewLifecycle(t)
	l := New(Params{
		Lifecycle: lc,
		Logger:    zap.NewNop().Sugar(),
		Reporter:  telemetrymock.NewMockReporter(ctrl),
	})
	lc.RequireStart()

	ran := make(chan struct{})
	assert.True(t, l.Post(func() { close(ran) }))
	<-ran

	lc.RequireStop()
	assert.False(t, l.Post(func() {}))
}

func TestPostRunsInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	l := NewLoop(zap.NewNop().Sugar(), telemetrymock.NewMockReporter(ctrl))
	defer l.Stop()

	var (
		mu  sync.Mutex
		got []int
		wg  sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		require.True(t, l.Post(func() {
			defer wg.Done()
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}
	wg.Wait()

	require.Len(t, got, 50)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestPanicIsRecovered(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := telemetrymock.NewMockReporter(ctrl)
	reporter.EXPECT().CaptureException(gomock.Any())
	l := NewLoop(zap.NewNop().Sugar(), reporter)
	defer l.Stop()

	l.Post(func() { panic("boom") })
	ran := make(chan struct{})
	l.Post(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not survive panic")
	}
}

func TestStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	l := NewLoop(zap.NewNop().Sugar(), telemetrymock.NewMockReporter(ctrl))

	started := make(chan struct{})
	release := make(chan struct{})
	dropped := false
	l.Post(func() {
		close(started)
		<-release
	})
	l.Post(func() { dropped = true })
	<-started

	stopped := make(chan struct{})
	go func() {
		l.Stop()
		close(stopped)
	}()

	// Stop waits for the running function.
	select {
	case <-stopped:
		t.Fatal("stop returned while work was running")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	<-stopped

	assert.False(t, dropped)
	assert.False(t, l.Post(func() {}))
	l.Stop()
}
