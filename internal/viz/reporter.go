package viz

import (
	"sync"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Reporter forwards day reports from a simulation goroutine to a UI.
// When the buffer is full the oldest pending report is dropped, so a slow
// UI never stalls the run.
type Reporter struct {
	mu     sync.Mutex
	ch     chan dynamo.DayReport
	closed bool
}

func NewReporter(buffer int) *Reporter {
	if buffer < 1 {
		buffer = 1
	}
	return &Reporter{ch: make(chan dynamo.DayReport, buffer)}
}

func (r *Reporter) OnDay(rep dynamo.DayReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	for {
		select {
		case r.ch <- rep:
			return
		default:
		}
		select {
		case <-r.ch:
		default:
		}
	}
}

// Reports is closed by Close.
func (r *Reporter) Reports() <-chan dynamo.DayReport { return r.ch }

func (r *Reporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		close(r.ch)
	}
}
