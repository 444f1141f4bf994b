package lifecycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intel/dto/internal/wq"
)

type fakeProber struct {
	wqs []*wq.WorkQueue
	err error
}

func (f *fakeProber) Probe(wqList string) ([]*wq.WorkQueue, error) {
	return f.wqs, f.err
}

func TestStartTransitionsToReadyWithUsableWQ(t *testing.T) {
	l := newLifecycle()
	l.prober = &fakeProber{wqs: []*wq.WorkQueue{{Path: "wq0.0", MaxTransferSize: 131072}}}

	l.Start()

	require.Equal(t, Ready, l.State())
	assert.False(t, l.UseCPUOnly(), "expected accelerator path to be available")
	assert.NotNil(t, l.Splitter(), "expected a splitter to be constructed")
}

func TestStartFallsBackToCPUOnlyWithNoUsableWQ(t *testing.T) {
	l := newLifecycle()
	l.prober = &fakeProber{err: errors.New("no usable queues")}

	l.Start()

	require.Equal(t, Ready, l.State())
	assert.True(t, l.UseCPUOnly(), "expected CPU-only fallback when no WQ is usable")
}

func TestStartIsIdempotent(t *testing.T) {
	l := newLifecycle()
	l.prober = &fakeProber{err: errors.New("no usable queues")}

	l.Start()
	firstLogger := l.Logger
	l.Start()

	assert.Same(t, firstLogger, l.Logger, "second Start call re-ran setup instead of returning immediately")
}

func TestNotStartedNeverReportsReady(t *testing.T) {
	l := newLifecycle()
	assert.False(t, l.Ready(), "a freshly constructed Lifecycle must not report Ready")
	assert.Nil(t, l.Splitter(), "a freshly constructed Lifecycle must not expose a splitter")
}
