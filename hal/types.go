// hal/types.go
package hal

import "strconv"

// ---- Pins ----

// PinID names a GPIO by port letter and bit number (PIOB_8 = port 'B', pin 8).
type PinID uint16

// Pin builds a PinID. port is an upper-case letter 'A'..'Z'.
func Pin(port byte, n uint8) PinID {
	return PinID(uint16(port-'A')<<8 | uint16(n))
}

func (p PinID) Port() byte { return byte(p>>8) + 'A' }
func (p PinID) Num() uint8 { return uint8(p) }

func (p PinID) String() string {
	return "PIO" + string(p.Port()) + "_" + strconv.Itoa(int(p.Num()))
}

// ---- Pin modes ----

// Mode is a set of pin configuration flags. Alternate-function number and
// drive speed are packed into the upper bits.
type Mode uint32

const (
	ModeInput Mode = 1 << iota
	ModeOutput
	ModePushPull
	ModeOpenDrain
	ModePullUp
	ModePullDown
	ModeInitHigh
	ModeInitLow
	ModeAltFunc
)

const (
	speedShift = 12
	speedMask  = Mode(0xF) << speedShift
	afShift    = 16
	afMask     = Mode(0xF) << afShift
)

// DriveSpeed selects output slew for output and alternate-function modes.
type DriveSpeed uint8

const (
	SpeedDefault DriveSpeed = iota
	Speed2MHz
	Speed10MHz
	Speed20MHz
	Speed50MHz
)

// AltFunc hands the pin to peripheral function n.
func AltFunc(n uint8) Mode {
	return ModeAltFunc | Mode(n&0xF)<<afShift
}

// WithSpeed returns m with its drive speed replaced by s.
func (m Mode) WithSpeed(s DriveSpeed) Mode {
	return m&^speedMask | Mode(s)<<speedShift
}

func (m Mode) Speed() DriveSpeed { return DriveSpeed((m & speedMask) >> speedShift) }

// AltFuncNum reports the peripheral function number, if m is an
// alternate-function mode.
func (m Mode) AltFuncNum() (uint8, bool) {
	if m&ModeAltFunc == 0 {
		return 0, false
	}
	return uint8((m & afMask) >> afShift), true
}

func (m Mode) IsAltFunc() bool { return m&ModeAltFunc != 0 }
func (m Mode) IsOutput() bool  { return m&ModeOutput != 0 }
func (m Mode) IsInput() bool   { return m&ModeInput != 0 }

func (m Mode) String() string {
	var s string
	add := func(part string) {
		if s != "" {
			s += "|"
		}
		s += part
	}
	if n, ok := m.AltFuncNum(); ok {
		add("af" + strconv.Itoa(int(n)))
	}
	names := []struct {
		f    Mode
		name string
	}{
		{ModeInput, "in"},
		{ModeOutput, "out"},
		{ModePushPull, "pp"},
		{ModeOpenDrain, "od"},
		{ModePullUp, "pu"},
		{ModePullDown, "pd"},
		{ModeInitHigh, "high"},
		{ModeInitLow, "low"},
	}
	for _, n := range names {
		if m&n.f != 0 {
			add(n.name)
		}
	}
	switch m.Speed() {
	case Speed2MHz:
		add("2mhz")
	case Speed10MHz:
		add("10mhz")
	case Speed20MHz:
		add("20mhz")
	case Speed50MHz:
		add("50mhz")
	}
	if s == "" {
		return "none"
	}
	return s
}

// GPIO is the pin configuration service.
type GPIO interface {
	Configure(pin PinID, mode Mode) error
	Set(pin PinID, level bool)
	Get(pin PinID) bool
}

// ---- Clocks ----

// ClockID identifies a gated peripheral clock.
type ClockID uint16

// ClockGate switches peripheral clocks and pulses their domain reset.
type ClockGate interface {
	Enable(id ClockID) error
	Disable(id ClockID) error
	Reset(id ClockID) error
}
