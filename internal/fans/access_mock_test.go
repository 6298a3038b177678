package fans

import (
	"errors"
	"os"
	"sync"
)

var errWriteFailed = errors.New("write failed")

// mockAccess keeps attribute file contents in memory and records every write
type mockAccess struct {
	mu     sync.Mutex
	files  map[string]int
	writes []string

	failWrites map[string]bool
	// values the "hardware" reports after a pwm_enable write, if set
	stuckValue map[string]int
}

func newMockAccess() *mockAccess {
	return &mockAccess{
		files:      map[string]int{},
		failWrites: map[string]bool{},
		stuckValue: map[string]int{},
	}
}

func (m *mockAccess) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

func (m *mockAccess) ReadInt(path string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.files[path]
	if !ok {
		return -1, os.ErrNotExist
	}
	return value, nil
}

func (m *mockAccess) WriteInt(path string, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = append(m.writes, path)
	if m.failWrites[path] {
		return errWriteFailed
	}
	if stuck, ok := m.stuckValue[path]; ok {
		m.files[path] = stuck
		return nil
	}
	m.files[path] = value
	return nil
}

func (m *mockAccess) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

func (m *mockAccess) value(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[path]
}

// addChannel creates all attribute files of pwmN below hwmonPath
func (m *mockAccess) addChannel(hwmonPath string, index int, enable int, raw int, minRaw int, maxRaw int) PwmChannel {
	channel := newPwmChannel(hwmonPath, index)
	m.files[channel.EnablePath] = enable
	m.files[channel.PwmPath] = raw
	m.files[channel.MinPath] = minRaw
	m.files[channel.MaxPath] = maxRaw
	return channel
}

var privileged = PrivilegeFunc(func() bool { return true })
var unprivileged = PrivilegeFunc(func() bool { return false })
