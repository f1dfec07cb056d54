package realtime

import (
	"context"
	"sync"
)

const subscriberBuffer = 16

type subscriber struct {
	ch        chan Message
	closeOnce sync.Once
}

func (that *subscriber) close() {
	that.closeOnce.Do(func() { close(that.ch) })
}

// MemoryBus fans events out to in-process subscribers. It backs
// single-node runs and tests; slow subscribers lose events rather than
// block a publish.
type MemoryBus struct {
	mu       sync.Mutex
	channels map[string]map[*subscriber]struct{}
	closed   bool
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		channels: make(map[string]map[*subscriber]struct{}),
	}
}

func (that *MemoryBus) Publish(_ context.Context, channel string, msg Message) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return nil
	}

	for sub := range that.channels[channel] {
		select {
		case sub.ch <- msg:
		default:
		}
	}

	return nil
}

// Subscribe - returns a stream of messages for one channel and a cancel
// function. Cancelling closes the stream.
func (that *MemoryBus) Subscribe(channel string) (<-chan Message, func()) {
	sub := &subscriber{ch: make(chan Message, subscriberBuffer)}

	that.mu.Lock()
	if that.channels[channel] == nil {
		that.channels[channel] = make(map[*subscriber]struct{})
	}
	that.channels[channel][sub] = struct{}{}
	that.mu.Unlock()

	cancel := func() {
		that.mu.Lock()
		delete(that.channels[channel], sub)
		that.mu.Unlock()
		sub.close()
	}

	return sub.ch, cancel
}

func (that *MemoryBus) Close() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return nil
	}
	that.closed = true

	for _, subs := range that.channels {
		for sub := range subs {
			sub.close()
		}
	}
	that.channels = make(map[string]map[*subscriber]struct{})

	return nil
}
