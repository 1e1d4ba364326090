package zmf159

import (
	"strconv"

	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"

	"zmf159-bsp/drivers/zlgi2c"
	"zmf159-bsp/errcode"
	"zmf159-bsp/hal"
	"zmf159-bsp/internal/busrecover"
	"zmf159-bsp/internal/instance"
)

// I2CID selects one of the board's I2C controllers.
type I2CID uint8

const (
	I2C1 I2CID = 1
	I2C2 I2CID = 2
)

func (id I2CID) String() string { return "i2c" + strconv.Itoa(int(id)) }

// Controller pin modes. Recovery hands the pins back without a speed
// setting; platform init also selects 20 MHz drive.
var (
	i2cPinMode  = hal.AltFunc(afI2C) | hal.ModeOpenDrain
	i2cInitMode = i2cPinMode.WithSpeed(hal.Speed20MHz)
)

type i2cWiring struct {
	name     string
	base     uintptr
	clk      hal.ClockID
	irq      int
	speed    physic.Frequency
	timeout  uint32
	scl, sda hal.PinID
}

var i2cTable = [...]i2cWiring{
	{
		name:    "i2c1",
		base:    I2C1Base,
		clk:     ClkI2C1,
		irq:     INumI2C1EV,
		speed:   100 * physic.KiloHertz,
		timeout: 10,
		scl:     PB8,
		sda:     PB9,
	},
	// timeout is not the same as i2c1; kept as shipped until the owners confirm.
	{
		name:    "i2c2",
		base:    I2C2Base,
		clk:     ClkI2C2,
		irq:     INumI2C2EV,
		speed:   100 * physic.KiloHertz,
		timeout: 200,
		scl:     PC8,
		sda:     PC9,
	},
}

// i2cSlot is the storage and handle cache for one controller.
type i2cSlot struct {
	info zlgi2c.DevInfo
	dev  zlgi2c.Dev
	drv  zlgi2c.Driver
	mgr  *instance.Manager[drivers.I2C]
}

func (s *i2cSlot) Create() (drivers.I2C, error) {
	s.dev = zlgi2c.Dev{}
	return s.drv.Init(&s.dev, &s.info)
}

func (s *i2cSlot) Destroy(h drivers.I2C) error { return s.drv.Deinit(h) }

func (b *Board) devInfo(w *i2cWiring) zlgi2c.DevInfo {
	return zlgi2c.DevInfo{
		Name:           w.name,
		RegBase:        w.base,
		ClkID:          w.clk,
		IntNum:         w.irq,
		Speed:          w.speed,
		TimeoutTicks:   w.timeout,
		BusRecover:     func() { b.recoverBus(w) },
		PlatformInit:   func() error { return b.platformInit(w) },
		PlatformDeinit: func() error { return b.platformDeinit(w) },
	}
}

func (b *Board) recoverBus(w *i2cWiring) {
	res, err := busrecover.Recover(b.gpio, busrecover.Lines{
		SCL: w.scl, SDA: w.sda,
		SCLAlt: i2cPinMode, SDAAlt: i2cPinMode,
	})
	switch {
	case err != nil:
		b.log("[" + w.name + "] bus recovery: " + err.Error())
	case res.Stuck:
		b.log("[" + w.name + "] warning: " + string(errcode.BusStuck) +
			", SDA low after " + strconv.Itoa(res.Pulses) + " clocks")
	case res.Pulses > 0:
		b.log("[" + w.name + "] bus recovered")
	}
}

func (b *Board) platformInit(w *i2cWiring) error {
	if err := b.gpio.Configure(w.scl, i2cInitMode); err != nil {
		return err
	}
	if err := b.gpio.Configure(w.sda, i2cInitMode); err != nil {
		return err
	}
	if err := b.clock.Enable(w.clk); err != nil {
		return errcode.Wrap(errcode.ClockUnavailable, w.name+" init", err)
	}
	if err := b.clock.Reset(w.clk); err != nil {
		return errcode.Wrap(errcode.ClockUnavailable, w.name+" init", err)
	}
	return nil
}

// platformDeinit gates the clock off. Pins stay in alternate-function mode.
func (b *Board) platformDeinit(w *i2cWiring) error {
	return errcode.Wrap(errcode.ClockUnavailable, w.name+" deinit", b.clock.Disable(w.clk))
}
