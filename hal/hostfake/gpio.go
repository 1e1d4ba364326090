// Package hostfake provides host-side stand-ins for the pin, clock and I2C
// driver services. They record every call so tests can assert ordering.
package hostfake

import (
	"sync"

	"zmf159-bsp/errcode"
	"zmf159-bsp/hal"
)

// OpKind classifies a recorded GPIO call.
type OpKind uint8

const (
	OpConfigure OpKind = iota
	OpSet
	OpGet
)

// Op is one recorded GPIO call.
type Op struct {
	Kind  OpKind
	Pin   hal.PinID
	Mode  hal.Mode // OpConfigure
	Level bool     // OpSet value, OpGet result
}

type pinState struct {
	mode  hal.Mode
	level bool
	rises int // low→high transitions driven through Set
}

// held models a data line pinned low by a peripheral until its clock line
// has seen a number of rising edges. A negative count never releases.
type held struct {
	clock     hal.PinID
	remaining int
}

// GPIO implements hal.GPIO over an in-memory pin table.
type GPIO struct {
	mu    sync.Mutex
	known map[hal.PinID]bool // nil => every pin exists
	pins  map[hal.PinID]*pinState
	held  map[hal.PinID]*held
	ops   []Op
}

// NewGPIO returns a fake GPIO service. When pins are given, only those
// exist and others fail with unknown_pin.
func NewGPIO(pins ...hal.PinID) *GPIO {
	g := &GPIO{
		pins: make(map[hal.PinID]*pinState),
		held: make(map[hal.PinID]*held),
	}
	if len(pins) > 0 {
		g.known = make(map[hal.PinID]bool, len(pins))
		for _, p := range pins {
			g.known[p] = true
		}
	}
	return g
}

func (g *GPIO) state(p hal.PinID) *pinState {
	s, ok := g.pins[p]
	if !ok {
		s = &pinState{}
		g.pins[p] = s
	}
	return s
}

func (g *GPIO) Configure(pin hal.PinID, mode hal.Mode) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.known != nil && !g.known[pin] {
		return &errcode.E{C: errcode.UnknownPin, Op: "configure", Msg: pin.String()}
	}
	g.ops = append(g.ops, Op{Kind: OpConfigure, Pin: pin, Mode: mode})
	s := g.state(pin)
	s.mode = mode
	switch {
	case mode.IsOutput():
		s.level = mode&hal.ModeInitHigh != 0
	case mode.IsInput() && mode&hal.ModePullUp != 0:
		s.level = true
	case mode.IsInput():
		s.level = false
	}
	return nil
}

func (g *GPIO) Set(pin hal.PinID, level bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ops = append(g.ops, Op{Kind: OpSet, Pin: pin, Level: level})
	s := g.state(pin)
	if !s.level && level {
		s.rises++
		for _, h := range g.held {
			if h.clock == pin && h.remaining > 0 {
				h.remaining--
			}
		}
	}
	s.level = level
}

func (g *GPIO) Get(pin hal.PinID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	v := g.state(pin).level
	if h, ok := g.held[pin]; ok && h.remaining != 0 {
		v = false
	}
	g.ops = append(g.ops, Op{Kind: OpGet, Pin: pin, Level: v})
	return v
}

// HoldLow makes data read low until clock has risen releaseAfter times.
// A negative releaseAfter keeps the line stuck.
func (g *GPIO) HoldLow(data, clock hal.PinID, releaseAfter int) {
	g.mu.Lock()
	g.held[data] = &held{clock: clock, remaining: releaseAfter}
	g.mu.Unlock()
}

// Mode returns the last mode configured on pin.
func (g *GPIO) Mode(pin hal.PinID) hal.Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state(pin).mode
}

// Rises counts low→high transitions driven on pin.
func (g *GPIO) Rises(pin hal.PinID) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state(pin).rises
}

// Ops returns a copy of the call log.
func (g *GPIO) Ops() []Op {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Op(nil), g.ops...)
}

// ClearOps empties the call log without touching pin state.
func (g *GPIO) ClearOps() {
	g.mu.Lock()
	g.ops = nil
	g.mu.Unlock()
}
