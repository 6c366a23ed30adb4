package store

import (
	"context"
	"sync"
)

// Memory 进程内游标, 重启后从 START_BLOCK 开始
type Memory struct {
	mu    sync.Mutex
	next  uint64
	found bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(context.Context) (uint64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next, m.found, nil
}

func (m *Memory) Save(_ context.Context, next uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.found || next > m.next {
		m.next = next
		m.found = true
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}
