package monitoring

import (
	"sync"
	"sync/atomic"
	"time"
)

// InputMonitor tracks how input flows through the frame loop.
// Counters are atomic because hosts record drops from their own goroutines.
type InputMonitor struct {
	// Frame metrics
	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds

	// Event metrics
	eventsDelivered atomic.Uint64
	eventsDropped   atomic.Uint64
	heldKeys        atomic.Int32

	// Statistics
	mutex        sync.RWMutex
	avgFrameTime float64
	totalTime    uint64
	startTime    time.Time
}

// NewInputMonitor creates a new input monitor
func NewInputMonitor() *InputMonitor {
	return &InputMonitor{startTime: time.Now()}
}

// FrameTimer helps measure frame timing
type FrameTimer struct {
	monitor   *InputMonitor
	startTime time.Time
}

// StartFrame begins frame timing
func (m *InputMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{
		monitor:   m,
		startTime: time.Now(),
	}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	elapsed := uint64(time.Since(ft.startTime).Nanoseconds())
	ft.monitor.frameTime.Store(elapsed)
	count := ft.monitor.frameCount.Add(1)

	ft.monitor.mutex.Lock()
	ft.monitor.totalTime += elapsed
	ft.monitor.avgFrameTime = float64(ft.monitor.totalTime) / float64(count)
	ft.monitor.mutex.Unlock()
}

// RecordDelivered adds n events handed to the keyboard state this frame.
func (m *InputMonitor) RecordDelivered(n int) {
	if n > 0 {
		m.eventsDelivered.Add(uint64(n))
	}
}

// RecordDrop counts one event discarded by a full queue.
func (m *InputMonitor) RecordDrop() {
	m.eventsDropped.Add(1)
}

// SetHeldKeys stores the number of keys held at the end of the frame.
func (m *InputMonitor) SetHeldKeys(n int) {
	m.heldKeys.Store(int32(n))
}

// InputMetrics is a point-in-time copy of the monitor's counters
type InputMetrics struct {
	Frames          uint64
	EventsDelivered uint64
	EventsDropped   uint64
	HeldKeys        int32
	LastFrameTime   time.Duration
	AvgFrameTime    time.Duration
	Uptime          time.Duration
}

// Snapshot returns current input metrics
func (m *InputMonitor) Snapshot() InputMetrics {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return InputMetrics{
		Frames:          m.frameCount.Load(),
		EventsDelivered: m.eventsDelivered.Load(),
		EventsDropped:   m.eventsDropped.Load(),
		HeldKeys:        m.heldKeys.Load(),
		LastFrameTime:   time.Duration(m.frameTime.Load()),
		AvgFrameTime:    time.Duration(m.avgFrameTime),
		Uptime:          time.Since(m.startTime),
	}
}

// Reset resets all counters
func (m *InputMonitor) Reset() {
	m.frameCount.Store(0)
	m.frameTime.Store(0)
	m.eventsDelivered.Store(0)
	m.eventsDropped.Store(0)
	m.heldKeys.Store(0)

	m.mutex.Lock()
	m.avgFrameTime = 0
	m.totalTime = 0
	m.startTime = time.Now()
	m.mutex.Unlock()
}
