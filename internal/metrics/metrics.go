// Package metrics tracks request outcomes for the lifetime of the server.
package metrics

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Outcome is the terminal state of one request.
type Outcome int

const (
	Served      Outcome = iota // 200 with the file body
	NotFound                   // file missing or a directory
	Unsupported                // extension not in the MIME table
	Forbidden                  // path resolved outside the root
	Failed                     // file present but unreadable
)

func (o Outcome) String() string {
	switch o {
	case Served:
		return "served"
	case NotFound:
		return "not_found"
	case Unsupported:
		return "unsupported"
	case Forbidden:
		return "forbidden"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ServeMetrics counts requests per outcome. Safe for concurrent use.
type ServeMetrics struct {
	StartTime time.Time

	served      atomic.Int64
	notFound    atomic.Int64
	unsupported atomic.Int64
	forbidden   atomic.Int64
	failed      atomic.Int64
	bytesServed atomic.Int64
}

// NewServeMetrics creates a new metrics instance.
func NewServeMetrics() *ServeMetrics {
	return &ServeMetrics{
		StartTime: time.Now(),
	}
}

// Record counts one finished request. bytes is only added for Served.
func (m *ServeMetrics) Record(o Outcome, bytes int) {
	switch o {
	case Served:
		m.served.Add(1)
		m.bytesServed.Add(int64(bytes))
	case NotFound:
		m.notFound.Add(1)
	case Unsupported:
		m.unsupported.Add(1)
	case Forbidden:
		m.forbidden.Add(1)
	case Failed:
		m.failed.Add(1)
	}
}

// Count returns the number of requests that ended in o.
func (m *ServeMetrics) Count(o Outcome) int64 {
	switch o {
	case Served:
		return m.served.Load()
	case NotFound:
		return m.notFound.Load()
	case Unsupported:
		return m.unsupported.Load()
	case Forbidden:
		return m.forbidden.Load()
	case Failed:
		return m.failed.Load()
	}
	return 0
}

// Total returns the number of requests seen.
func (m *ServeMetrics) Total() int64 {
	return m.served.Load() + m.notFound.Load() + m.unsupported.Load() + m.forbidden.Load() + m.failed.Load()
}

// BytesServed returns the body bytes written for 200 responses.
func (m *ServeMetrics) BytesServed() int64 {
	return m.bytesServed.Load()
}

// Uptime returns how long the metrics have been collected.
func (m *ServeMetrics) Uptime() time.Duration {
	return time.Since(m.StartTime)
}

// String returns a single-line summary.
func (m *ServeMetrics) String() string {
	return fmt.Sprintf("📊 Handled %d requests in %v (%d served, %d not found, %d unsupported, %d forbidden, %d failed, %d bytes)",
		m.Total(),
		m.Uptime().Round(time.Millisecond),
		m.served.Load(),
		m.notFound.Load(),
		m.unsupported.Load(),
		m.forbidden.Load(),
		m.failed.Load(),
		m.bytesServed.Load(),
	)
}
