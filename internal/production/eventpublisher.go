package production

import (
	"sync"

	"github.com/comalice/fiberx"
)

// PublishedEvent bundles a lifecycle event with the tree it came from.
type PublishedEvent struct {
	TreeID string
	Event  fiberx.LifecycleEvent
}

// ChannelPublisher is a fiberx.Observer that forwards lifecycle events to a
// Go channel. Publishing never blocks the runtime: events are dropped when
// the channel is full.
type ChannelPublisher struct {
	treeID  string
	ch      chan<- PublishedEvent
	mu      sync.Mutex
	closed  bool
	dropped uint64
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(treeID string, ch chan<- PublishedEvent) *ChannelPublisher {
	return &ChannelPublisher{treeID: treeID, ch: ch}
}

func (p *ChannelPublisher) Observe(ev fiberx.LifecycleEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.ch <- PublishedEvent{TreeID: p.treeID, Event: ev}:
	default:
		p.dropped++
	}
}

// Dropped reports how many events were discarded on backpressure.
func (p *ChannelPublisher) Dropped() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Close closes the output channel. Later events are discarded.
func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	return nil
}
