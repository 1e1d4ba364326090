// Package zlgi2c describes the contract between board wiring and the ZLG I2C
// controller driver: the per-controller device information a board supplies,
// the storage the board owns, and the driver entry points.
package zlgi2c

import (
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"

	"zmf159-bsp/errcode"
	"zmf159-bsp/hal"
)

// DevInfo is the immutable wiring record for one I2C controller.
type DevInfo struct {
	Name         string // log/diagnostic label, e.g. "i2c1"
	RegBase      uintptr
	ClkID        hal.ClockID
	IntNum       int // event interrupt
	Speed        physic.Frequency
	TimeoutTicks uint32

	// BusRecover frees a bus held low by a peripheral. It runs before
	// PlatformInit on every fresh initialisation and must be idempotent.
	BusRecover     func()
	PlatformInit   func() error
	PlatformDeinit func() error
}

// SpeedHz returns the bus speed in whole hertz.
func (i *DevInfo) SpeedHz() uint32 { return uint32(i.Speed / physic.Hertz) }

// Validate checks the fields a driver cannot work without.
func (i *DevInfo) Validate() error {
	switch {
	case i == nil:
		return &errcode.E{C: errcode.InvalidParams, Op: "devinfo", Msg: "nil"}
	case i.RegBase == 0:
		return &errcode.E{C: errcode.InvalidParams, Op: "devinfo", Msg: i.Name + ": zero register base"}
	case i.Speed <= 0:
		return &errcode.E{C: errcode.InvalidParams, Op: "devinfo", Msg: i.Name + ": bus speed not set"}
	case i.PlatformInit == nil:
		return &errcode.E{C: errcode.InvalidParams, Op: "devinfo", Msg: i.Name + ": no platform init"}
	}
	return nil
}

// Dev is caller-owned storage for one driver instance. The driver fills it
// in place during Init; the caller keeps it alive until Deinit returns.
type Dev struct {
	Info *DevInfo
	Priv any // driver-private state
}

// Driver is the controller driver. Init must call Bringup (or perform the
// same sequence) before touching the controller; Deinit must call Teardown.
type Driver interface {
	Init(dev *Dev, info *DevInfo) (drivers.I2C, error)
	Deinit(h drivers.I2C) error
}

// Bringup runs bus recovery followed by platform init.
func Bringup(info *DevInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}
	if info.BusRecover != nil {
		info.BusRecover()
	}
	return info.PlatformInit()
}

// Teardown runs platform deinit, if any.
func Teardown(info *DevInfo) error {
	if info == nil || info.PlatformDeinit == nil {
		return nil
	}
	return info.PlatformDeinit()
}
