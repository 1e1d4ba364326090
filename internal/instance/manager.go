// Package instance caches one live driver handle per peripheral, created on
// first use and torn down on release.
package instance

import (
	"sync"

	"zmf159-bsp/errcode"
)

// State of a Manager.
type State uint8

const (
	Uninitialized State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "uninitialized"
}

// Factory builds and destroys the handle a Manager caches.
type Factory[H comparable] interface {
	Create() (H, error)
	Destroy(h H) error
}

// Manager owns the handle slot for one peripheral. The check-then-create in
// Acquire runs under a lock, so racing first callers construct once.
type Manager[H comparable] struct {
	name string
	f    Factory[H]
	log  func(string)

	mu     sync.Mutex
	state  State
	handle H
}

// New returns an Uninitialized manager. log may be nil.
func New[H comparable](name string, f Factory[H], log func(string)) *Manager[H] {
	if log == nil {
		log = func(string) {}
	}
	return &Manager[H]{name: name, f: f, log: log}
}

func (m *Manager[H]) Name() string { return m.name }

// Acquire returns the cached handle, creating it on first call. A factory
// error or zero handle leaves the manager Uninitialized.
func (m *Manager[H]) Acquire() (H, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Ready {
		return m.handle, nil
	}
	var zero H
	h, err := m.f.Create()
	if err != nil {
		m.log("[" + m.name + "] init failed: " + err.Error())
		return zero, &errcode.E{C: errcode.FactoryFailed, Op: m.name + " acquire", Err: err}
	}
	if h == zero {
		m.log("[" + m.name + "] init returned no handle")
		return zero, &errcode.E{C: errcode.FactoryFailed, Op: m.name + " acquire", Msg: "no handle"}
	}
	m.handle = h
	m.state = Ready
	m.log("[" + m.name + "] ready")
	return h, nil
}

// Release tears down h and clears the slot. Releasing when Uninitialized or
// with a handle other than the cached one fails with invalid_handle and
// changes nothing. A destroy error still clears the slot.
func (m *Manager[H]) Release(h H) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Ready || h != m.handle {
		return &errcode.E{C: errcode.InvalidHandle, Op: m.name + " release", Err: errcode.InvalidHandle}
	}
	err := m.f.Destroy(h)
	var zero H
	m.handle = zero
	m.state = Uninitialized
	if err != nil {
		m.log("[" + m.name + "] deinit error: " + err.Error())
		return &errcode.E{C: errcode.Of(err), Op: m.name + " release", Err: err}
	}
	m.log("[" + m.name + "] released")
	return nil
}

func (m *Manager[H]) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Handle returns the cached handle without creating one.
func (m *Manager[H]) Handle() (H, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle, m.state == Ready
}
