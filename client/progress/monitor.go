package progress

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

const defaultInterval = 100 * time.Millisecond

// Monitor wraps an io.Reader, counting bytes as they pass through and
// emitting a [Snapshot] to the sink once per tick while started.
// Snapshots are emitted in non-decreasing Downloaded order, and none
// is emitted after Stop returns.
type Monitor struct {
	r       io.Reader
	totalFn func() uint64
	sink    Func

	clk      clock.Clock
	interval time.Duration

	read atomic.Uint64

	mu      sync.Mutex
	last    Snapshot
	emitted bool

	started  bool
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Option adjusts a Monitor at construction.
type Option func(*Monitor)

// WithClock replaces the tick source. Intended for tests.
func WithClock(clk clock.Clock) Option {
	return func(m *Monitor) {
		if clk != nil {
			m.clk = clk
		}
	}
}

// WithInterval sets the sampling interval.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// NewMonitor wraps r. totalFn is consulted on every emission so a
// late or changing content length is picked up; it must be safe to
// call from the poll goroutine. sink may be nil, in which case the
// monitor only tracks counters for the final snapshot.
func NewMonitor(r io.Reader, totalFn func() uint64, sink Func, optFns ...Option) *Monitor {
	m := &Monitor{
		r:        r,
		totalFn:  totalFn,
		sink:     sink,
		clk:      clock.New(),
		interval: defaultInterval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	for _, opt := range optFns {
		opt(m)
	}

	return m
}

// Read counts bytes through to the underlying reader.
func (m *Monitor) Read(p []byte) (int, error) {
	n, err := m.r.Read(p)
	m.read.Add(uint64(n))

	return n, err
}

// Start launches the poll goroutine. Calling Start twice is a no-op.
func (m *Monitor) Start() {
	if m.started {
		return
	}
	m.started = true

	ticker := m.clk.Ticker(m.interval)
	go func() {
		defer close(m.done)
		defer ticker.Stop()

		for {
			select {
			case <-m.stop:
				return
			case <-ticker.C:
				m.emit()
			}
		}
	}()
}

// Stop halts polling, waits for the poll goroutine to exit, emits a
// final snapshot reflecting the complete transfer, and returns it.
// A monitor that was never started returns a zero snapshot. Stop is
// idempotent.
func (m *Monitor) Stop() Snapshot {
	if !m.started {
		return Snapshot{}
	}

	m.stopOnce.Do(func() {
		close(m.stop)
		<-m.done
		m.emit()
	})

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.last
}

// emit publishes the current counters, skipping when nothing changed
// since the previous emission.
func (m *Monitor) emit() {
	snap := Snapshot{
		Downloaded: m.read.Load(),
		Total:      m.totalFn(),
	}

	m.mu.Lock()
	if m.emitted && snap == m.last {
		m.mu.Unlock()
		return
	}
	m.last = snap
	m.emitted = true
	m.mu.Unlock()

	if m.sink != nil {
		m.sink(snap)
	}
}
