package stateful

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Observer receives a callback after every store operation.
// Implementations must be safe for concurrent use; callbacks run outside the
// store lock.
type Observer interface {
	OnCreate(resource string, id int, duration time.Duration)
	OnRead(resource string, id int, duration time.Duration)
	OnList(resource string, count int, duration time.Duration)
	OnUpdate(resource string, id int, duration time.Duration)
	OnDelete(resource string, id int, duration time.Duration)
	OnClear(resource string, removed int, duration time.Duration)

	// OnError is called when an operation fails (not found, conflict).
	OnError(resource string, operation string, err error)
}

// NoopObserver discards every callback.
type NoopObserver struct{}

func (NoopObserver) OnCreate(string, int, time.Duration) {}
func (NoopObserver) OnRead(string, int, time.Duration)   {}
func (NoopObserver) OnList(string, int, time.Duration)   {}
func (NoopObserver) OnUpdate(string, int, time.Duration) {}
func (NoopObserver) OnDelete(string, int, time.Duration) {}
func (NoopObserver) OnClear(string, int, time.Duration)  {}
func (NoopObserver) OnError(string, string, error)       {}

// counters holds the per-resource tallies of a MetricsObserver.
type counters struct {
	create  atomic.Int64
	read    atomic.Int64
	list    atomic.Int64
	update  atomic.Int64
	delete  atomic.Int64
	clear   atomic.Int64
	errors  atomic.Int64
	latency atomic.Int64
}

// MetricsObserver counts operations per resource. One observer may be shared
// by several stores; their names keep the tallies apart.
type MetricsObserver struct {
	mu        sync.RWMutex
	resources map[string]*counters
}

// NewMetricsObserver creates an empty metrics observer.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{resources: make(map[string]*counters)}
}

func (m *MetricsObserver) get(resource string) *counters {
	m.mu.RLock()
	c, ok := m.resources[resource]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok = m.resources[resource]; !ok {
		c = &counters{}
		m.resources[resource] = c
	}
	return c
}

func (m *MetricsObserver) OnCreate(resource string, _ int, d time.Duration) {
	c := m.get(resource)
	c.create.Add(1)
	c.latency.Add(int64(d))
}

func (m *MetricsObserver) OnRead(resource string, _ int, d time.Duration) {
	c := m.get(resource)
	c.read.Add(1)
	c.latency.Add(int64(d))
}

func (m *MetricsObserver) OnList(resource string, _ int, d time.Duration) {
	c := m.get(resource)
	c.list.Add(1)
	c.latency.Add(int64(d))
}

func (m *MetricsObserver) OnUpdate(resource string, _ int, d time.Duration) {
	c := m.get(resource)
	c.update.Add(1)
	c.latency.Add(int64(d))
}

func (m *MetricsObserver) OnDelete(resource string, _ int, d time.Duration) {
	c := m.get(resource)
	c.delete.Add(1)
	c.latency.Add(int64(d))
}

func (m *MetricsObserver) OnClear(resource string, _ int, d time.Duration) {
	c := m.get(resource)
	c.clear.Add(1)
	c.latency.Add(int64(d))
}

func (m *MetricsObserver) OnError(resource string, _ string, _ error) {
	m.get(resource).errors.Add(1)
}

// ResourceMetrics is a point-in-time copy of one resource's counters.
type ResourceMetrics struct {
	Resource     string        `json:"resource"`
	CreateCount  int64         `json:"createCount"`
	ReadCount    int64         `json:"readCount"`
	ListCount    int64         `json:"listCount"`
	UpdateCount  int64         `json:"updateCount"`
	DeleteCount  int64         `json:"deleteCount"`
	ClearCount   int64         `json:"clearCount"`
	ErrorCount   int64         `json:"errorCount"`
	TotalLatency time.Duration `json:"totalLatencyNs"`
}

// TotalOperations returns the number of successful operations.
func (r ResourceMetrics) TotalOperations() int64 {
	return r.CreateCount + r.ReadCount + r.ListCount + r.UpdateCount + r.DeleteCount + r.ClearCount
}

// Snapshot returns the counters of every resource seen so far, sorted by name.
func (m *MetricsObserver) Snapshot() []ResourceMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ResourceMetrics, 0, len(m.resources))
	for name, c := range m.resources {
		out = append(out, ResourceMetrics{
			Resource:     name,
			CreateCount:  c.create.Load(),
			ReadCount:    c.read.Load(),
			ListCount:    c.list.Load(),
			UpdateCount:  c.update.Load(),
			DeleteCount:  c.delete.Load(),
			ClearCount:   c.clear.Load(),
			ErrorCount:   c.errors.Load(),
			TotalLatency: time.Duration(c.latency.Load()),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Resource < out[j].Resource })
	return out
}

// Reset drops all counters.
func (m *MetricsObserver) Reset() {
	m.mu.Lock()
	m.resources = make(map[string]*counters)
	m.mu.Unlock()
}
