package hostfake

import (
	"strconv"
	"sync"

	"zmf159-bsp/errcode"
	"zmf159-bsp/hal"
)

// ClockOp is one recorded clock gate call, e.g. {"enable", id}.
type ClockOp struct {
	Kind string
	ID   hal.ClockID
}

// Clock implements hal.ClockGate.
type Clock struct {
	mu      sync.Mutex
	enabled map[hal.ClockID]bool
	missing map[hal.ClockID]bool
	resets  map[hal.ClockID]int
	ops     []ClockOp
}

func NewClock() *Clock {
	return &Clock{
		enabled: make(map[hal.ClockID]bool),
		missing: make(map[hal.ClockID]bool),
		resets:  make(map[hal.ClockID]int),
	}
}

// MarkUnavailable makes every operation on id fail with clock_unavailable.
func (c *Clock) MarkUnavailable(id hal.ClockID) {
	c.mu.Lock()
	c.missing[id] = true
	c.mu.Unlock()
}

func (c *Clock) do(kind string, id hal.ClockID, apply func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.missing[id] {
		return &errcode.E{C: errcode.ClockUnavailable, Op: kind, Msg: "clock " + strconv.Itoa(int(id))}
	}
	c.ops = append(c.ops, ClockOp{Kind: kind, ID: id})
	apply()
	return nil
}

func (c *Clock) Enable(id hal.ClockID) error {
	return c.do("enable", id, func() { c.enabled[id] = true })
}

func (c *Clock) Disable(id hal.ClockID) error {
	return c.do("disable", id, func() { c.enabled[id] = false })
}

func (c *Clock) Reset(id hal.ClockID) error {
	return c.do("reset", id, func() { c.resets[id]++ })
}

func (c *Clock) Enabled(id hal.ClockID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled[id]
}

func (c *Clock) Resets(id hal.ClockID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resets[id]
}

// Ops returns a copy of the call log.
func (c *Clock) Ops() []ClockOp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ClockOp(nil), c.ops...)
}
