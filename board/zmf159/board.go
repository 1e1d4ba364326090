// Package zmf159 binds the ZMF159 I2C controllers to their pins, clocks and
// interrupts and hands out one cached driver handle per controller.
//
// A Board is built once by the application's init routine and passed to
// whatever needs a bus; there is no package-level state.
package zmf159

import (
	"tinygo.org/x/drivers"

	"zmf159-bsp/drivers/zlgi2c"
	"zmf159-bsp/errcode"
	"zmf159-bsp/hal"
	"zmf159-bsp/internal/instance"
)

// State of a controller's handle slot.
type State = instance.State

const (
	Uninitialized = instance.Uninitialized
	Ready         = instance.Ready
)

// Resources are the services the board drives.
type Resources struct {
	GPIO   hal.GPIO
	Clock  hal.ClockGate
	Driver zlgi2c.Driver
	Log    func(string) // nil => println
}

type Board struct {
	gpio  hal.GPIO
	clock hal.ClockGate
	log   func(string)

	i2c [len(i2cTable)]i2cSlot
}

func New(res Resources) (*Board, error) {
	if res.GPIO == nil || res.Clock == nil || res.Driver == nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "zmf159.New", Msg: "missing gpio, clock or driver"}
	}
	b := &Board{gpio: res.GPIO, clock: res.Clock, log: res.Log}
	if b.log == nil {
		b.log = func(s string) { println(s) }
	}
	for i := range i2cTable {
		w := &i2cTable[i]
		s := &b.i2c[i]
		s.info = b.devInfo(w)
		s.drv = res.Driver
		s.mgr = instance.New[drivers.I2C](w.name, s, b.log)
	}
	return b, nil
}

func (b *Board) slot(id I2CID) (*i2cSlot, error) {
	if id < I2C1 || int(id) > len(b.i2c) {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "i2c", Msg: "no controller " + id.String()}
	}
	return &b.i2c[id-1], nil
}

// AcquireI2C returns the controller's handle, initialising the driver on
// first use. Later calls return the same handle until ReleaseI2C.
func (b *Board) AcquireI2C(id I2CID) (drivers.I2C, error) {
	s, err := b.slot(id)
	if err != nil {
		return nil, err
	}
	return s.mgr.Acquire()
}

// ReleaseI2C deinitialises the driver behind h. h must be the handle
// currently held for id.
func (b *Board) ReleaseI2C(id I2CID, h drivers.I2C) error {
	s, err := b.slot(id)
	if err != nil {
		return err
	}
	return s.mgr.Release(h)
}

func (b *Board) I2CState(id I2CID) State {
	s, err := b.slot(id)
	if err != nil {
		return Uninitialized
	}
	return s.mgr.State()
}

// I2CInfo returns a copy of the controller's device information.
func (b *Board) I2CInfo(id I2CID) (zlgi2c.DevInfo, error) {
	s, err := b.slot(id)
	if err != nil {
		return zlgi2c.DevInfo{}, err
	}
	return s.info, nil
}

func (b *Board) I2C1Init() (drivers.I2C, error) { return b.AcquireI2C(I2C1) }
func (b *Board) I2C1Deinit(h drivers.I2C) error { return b.ReleaseI2C(I2C1, h) }
func (b *Board) I2C2Init() (drivers.I2C, error) { return b.AcquireI2C(I2C2) }
func (b *Board) I2C2Deinit(h drivers.I2C) error { return b.ReleaseI2C(I2C2, h) }
