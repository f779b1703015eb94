package broker

import (
	"context"
	"sync"
)

// Memory is the single-node broker: a guarded map of group -> subscriber
// set. A publish racing an unsubscribe may silently miss that subscriber,
// which is within the delivery contract.
type Memory struct {
	mu     sync.RWMutex
	groups map[string]map[Subscriber]struct{}
}

func NewMemory() *Memory {
	return &Memory{
		groups: make(map[string]map[Subscriber]struct{}),
	}
}

func (m *Memory) Subscribe(group string, sub Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs, ok := m.groups[group]
	if !ok {
		subs = make(map[Subscriber]struct{})
		m.groups[group] = subs
	}
	subs[sub] = struct{}{}
}

func (m *Memory) Unsubscribe(group string, sub Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs, ok := m.groups[group]
	if !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(m.groups, group)
	}
}

func (m *Memory) Publish(_ context.Context, group string, payload []byte) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for sub := range m.groups[group] {
		sub.Deliver(payload)
	}

	return nil
}

// GroupSize reports current subscriber count; the redis bridge uses it to
// decide when a remote subscription can be dropped.
func (m *Memory) GroupSize(group string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.groups[group])
}
