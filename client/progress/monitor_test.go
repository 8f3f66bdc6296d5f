package progress

import (
	"bytes"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// sinkRecorder collects snapshots under a lock so the poll goroutine
// and the test can both touch them.
type sinkRecorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *sinkRecorder) record(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *sinkRecorder) all() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := make([]Snapshot, len(r.snaps))
	copy(cpy, r.snaps)
	return cpy
}

func TestMonitor_EmitsPerTick(t *testing.T) {
	clk := clock.NewMock()
	rec := &sinkRecorder{}
	src := bytes.NewReader(make([]byte, 100))

	m := NewMonitor(src, func() uint64 { return 100 }, rec.record,
		WithClock(clk),
		WithInterval(time.Second),
	)
	m.Start()

	buf := make([]byte, 40)
	_, err := io.ReadFull(m, buf)
	require.NoError(t, err)

	clk.Add(time.Second)
	require.Eventually(t, func() bool { return len(rec.all()) >= 1 }, time.Second, time.Millisecond)
	require.Equal(t, Snapshot{Downloaded: 40, Total: 100}, rec.all()[0])

	rest := make([]byte, 60)
	_, err = io.ReadFull(m, rest)
	require.NoError(t, err)

	clk.Add(time.Second)
	require.Eventually(t, func() bool { return len(rec.all()) >= 2 }, time.Second, time.Millisecond)
	require.Equal(t, Snapshot{Downloaded: 100, Total: 100}, rec.all()[1])

	last := m.Stop()
	require.Equal(t, Snapshot{Downloaded: 100, Total: 100}, last)

	// The final state was already emitted, so Stop adds nothing.
	require.Len(t, rec.all(), 2)
}

func TestMonitor_SkipsUnchangedTicks(t *testing.T) {
	clk := clock.NewMock()
	rec := &sinkRecorder{}

	m := NewMonitor(bytes.NewReader(nil), func() uint64 { return 0 }, rec.record,
		WithClock(clk),
		WithInterval(time.Second),
	)
	m.Start()

	clk.Add(time.Second)
	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, time.Millisecond)

	// Nothing moved between ticks: no further emission.
	clk.Add(time.Second)
	clk.Add(time.Second)
	time.Sleep(20 * time.Millisecond)
	require.Len(t, rec.all(), 1)

	m.Stop()
}

func TestMonitor_StopEmitsFinalSnapshot(t *testing.T) {
	clk := clock.NewMock()
	rec := &sinkRecorder{}
	payload := make([]byte, 64)

	m := NewMonitor(bytes.NewReader(payload), func() uint64 { return 64 }, rec.record,
		WithClock(clk),
		WithInterval(time.Second),
	)
	m.Start()

	_, err := io.Copy(io.Discard, m)
	require.NoError(t, err)

	// No tick ever fired; Stop still reports the finished transfer.
	last := m.Stop()
	require.Equal(t, Snapshot{Downloaded: 64, Total: 64}, last)
	require.Equal(t, []Snapshot{last}, rec.all())

	// A late tick after Stop must not reach the sink.
	clk.Add(5 * time.Second)
	time.Sleep(20 * time.Millisecond)
	require.Len(t, rec.all(), 1)
}

func TestMonitor_StopIsIdempotent(t *testing.T) {
	m := NewMonitor(bytes.NewReader([]byte("abc")), func() uint64 { return 0 }, nil,
		WithClock(clock.NewMock()),
		WithInterval(time.Second),
	)
	m.Start()

	_, err := io.Copy(io.Discard, m)
	require.NoError(t, err)

	first := m.Stop()
	second := m.Stop()
	require.Equal(t, first, second)
	require.Equal(t, uint64(3), first.Downloaded)
}

func TestMonitor_NeverStarted(t *testing.T) {
	m := NewMonitor(bytes.NewReader([]byte("abc")), func() uint64 { return 3 }, nil)

	require.Equal(t, Snapshot{}, m.Stop())
}

func TestMonitor_NilSink(t *testing.T) {
	clk := clock.NewMock()

	m := NewMonitor(bytes.NewReader(make([]byte, 10)), func() uint64 { return 10 }, nil,
		WithClock(clk),
		WithInterval(time.Second),
	)
	m.Start()

	_, err := io.Copy(io.Discard, m)
	require.NoError(t, err)

	clk.Add(time.Second)

	last := m.Stop()
	require.Equal(t, Snapshot{Downloaded: 10, Total: 10}, last)
}
