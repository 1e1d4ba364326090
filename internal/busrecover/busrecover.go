// Package busrecover frees an I2C bus left with SDA held low by a peripheral
// that lost sync mid-byte, by clocking SCL by hand until the peripheral
// finishes its byte and lets go.
package busrecover

import "zmf159-bsp/hal"

// Pulses is the number of SCL cycles issued when SDA reads low: enough for
// a peripheral to shift out a full byte plus the acknowledge bit.
const Pulses = 9

const (
	sclDrive = hal.ModeOutput | hal.ModePushPull | hal.ModeInitHigh
	sdaSense = hal.ModeInput | hal.ModePullUp
)

// Lines is the pin pair of one bus and the modes that hand each pin back
// to the controller.
type Lines struct {
	SCL, SDA       hal.PinID
	SCLAlt, SDAAlt hal.Mode
}

// Result reports what recovery did. Stuck means SDA was still low after
// the pulses.
type Result struct {
	Pulses int
	Stuck  bool
}

// Recover runs the recovery sequence. Both pins are returned to their
// alternate-function modes on every path; the first configuration error,
// if any, is returned.
func Recover(g hal.GPIO, l Lines) (Result, error) {
	var res Result
	err := g.Configure(l.SCL, sclDrive)
	if e := g.Configure(l.SDA, sdaSense); err == nil {
		err = e
	}

	if err == nil && !g.Get(l.SDA) {
		for i := 0; i < Pulses; i++ {
			g.Set(l.SCL, false)
			g.Set(l.SCL, true)
			res.Pulses++
		}
		res.Stuck = !g.Get(l.SDA)
	}

	if e := g.Configure(l.SCL, l.SCLAlt); err == nil {
		err = e
	}
	if e := g.Configure(l.SDA, l.SDAAlt); err == nil {
		err = e
	}
	return res, err
}
