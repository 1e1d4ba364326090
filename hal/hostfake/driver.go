package hostfake

import (
	"sync"

	"tinygo.org/x/drivers"

	"zmf159-bsp/drivers/zlgi2c"
	"zmf159-bsp/errcode"
)

// Driver implements zlgi2c.Driver without hardware. Init performs the real
// bring-up sequence against the descriptor's callbacks.
type Driver struct {
	mu       sync.Mutex
	calls    []string
	failNext error
}

// FailNextInit makes the next Init return err before touching the bus.
func (d *Driver) FailNextInit(err error) {
	d.mu.Lock()
	d.failNext = err
	d.mu.Unlock()
}

func (d *Driver) Init(dev *zlgi2c.Dev, info *zlgi2c.DevInfo) (drivers.I2C, error) {
	d.mu.Lock()
	fail := d.failNext
	d.failNext = nil
	d.mu.Unlock()
	if fail != nil {
		return nil, fail
	}
	if dev == nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "init", Msg: "nil storage"}
	}
	if err := zlgi2c.Bringup(info); err != nil {
		return nil, err
	}
	b := &Bus{dev: dev, Info: *info}
	dev.Info = info
	dev.Priv = b
	d.record("init:" + info.Name)
	return b, nil
}

func (d *Driver) Deinit(h drivers.I2C) error {
	b, ok := h.(*Bus)
	if !ok || b == nil {
		return &errcode.E{C: errcode.InvalidHandle, Op: "deinit"}
	}
	b.mu.Lock()
	closed := b.closed
	b.closed = true
	b.mu.Unlock()
	if closed {
		return &errcode.E{C: errcode.InvalidHandle, Op: "deinit", Msg: "already closed"}
	}
	d.record("deinit:" + b.Info.Name)
	err := zlgi2c.Teardown(b.dev.Info)
	b.dev.Priv = nil
	return err
}

func (d *Driver) record(s string) {
	d.mu.Lock()
	d.calls = append(d.calls, s)
	d.mu.Unlock()
}

// Calls returns init/deinit calls in order, e.g. ["init:i2c1", "deinit:i2c1"].
func (d *Driver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// Bus is the handle returned by Driver.Init. It implements drivers.I2C.
type Bus struct {
	mu     sync.Mutex
	dev    *zlgi2c.Dev
	closed bool

	// Info is the descriptor as seen at construction.
	Info zlgi2c.DevInfo

	// Respond, when set, services each transfer.
	Respond func(addr uint16, w, r []byte) error

	LastTx struct {
		Addr uint16
		W    []byte
		Rn   int
	}
}

func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &errcode.E{C: errcode.NotReady, Op: "tx", Msg: b.Info.Name + " closed"}
	}
	b.LastTx.Addr = addr
	b.LastTx.W = append([]byte(nil), w...)
	b.LastTx.Rn = len(r)
	if b.Respond != nil {
		return b.Respond(addr, w, r)
	}
	return nil
}

// Dev exposes the storage the driver was initialised in.
func (b *Bus) Dev() *zlgi2c.Dev { return b.dev }

// Closed reports whether Deinit has run on this handle.
func (b *Bus) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
