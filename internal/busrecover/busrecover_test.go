package busrecover

import (
	"testing"

	"zmf159-bsp/errcode"
	"zmf159-bsp/hal"
	"zmf159-bsp/hal/hostfake"
)

var lines = Lines{
	SCL:    hal.Pin('B', 8),
	SDA:    hal.Pin('B', 9),
	SCLAlt: (hal.AltFunc(4) | hal.ModeOpenDrain),
	SDAAlt: (hal.AltFunc(4) | hal.ModeOpenDrain),
}

func countPulses(ops []hostfake.Op, pin hal.PinID) (lows, highs int) {
	for _, op := range ops {
		if op.Kind != hostfake.OpSet || op.Pin != pin {
			continue
		}
		if op.Level {
			highs++
		} else {
			lows++
		}
	}
	return
}

func assertRestored(t *testing.T, g *hostfake.GPIO) {
	t.Helper()
	if g.Mode(lines.SCL) != lines.SCLAlt || g.Mode(lines.SDA) != lines.SDAAlt {
		t.Fatalf("pins not restored: scl=%v sda=%v", g.Mode(lines.SCL), g.Mode(lines.SDA))
	}
	ops := g.Ops()
	last := ops[len(ops)-2:]
	if last[0].Kind != hostfake.OpConfigure || last[1].Kind != hostfake.OpConfigure {
		t.Fatalf("restore must be the final step, got %+v", last)
	}
}

func TestIdleBusNoPulses(t *testing.T) {
	g := hostfake.NewGPIO()
	res, err := Recover(g, lines)
	if err != nil {
		t.Fatal(err)
	}
	if res.Pulses != 0 || res.Stuck {
		t.Fatalf("unexpected result %+v", res)
	}
	lows, highs := countPulses(g.Ops(), lines.SCL)
	if lows != 0 || highs != 0 {
		t.Fatalf("clock toggled on idle bus: %d/%d", lows, highs)
	}
	assertRestored(t, g)
}

func TestStuckBusNinePulses(t *testing.T) {
	g := hostfake.NewGPIO()
	g.HoldLow(lines.SDA, lines.SCL, 5)
	res, err := Recover(g, lines)
	if err != nil {
		t.Fatal(err)
	}
	if res.Pulses != Pulses || res.Stuck {
		t.Fatalf("unexpected result %+v", res)
	}
	lows, highs := countPulses(g.Ops(), lines.SCL)
	if lows != 9 || highs != 9 {
		t.Fatalf("want 9 low-high cycles, got %d/%d", lows, highs)
	}
	// Each cycle is low then high.
	var seq []bool
	for _, op := range g.Ops() {
		if op.Kind == hostfake.OpSet && op.Pin == lines.SCL {
			seq = append(seq, op.Level)
		}
	}
	for i := 0; i < len(seq); i += 2 {
		if seq[i] || !seq[i+1] {
			t.Fatalf("cycle %d out of order: %v", i/2, seq)
		}
	}
	assertRestored(t, g)
}

func TestPermanentlyStuckIsReportedNotFatal(t *testing.T) {
	g := hostfake.NewGPIO()
	g.HoldLow(lines.SDA, lines.SCL, -1)
	res, err := Recover(g, lines)
	if err != nil {
		t.Fatal(err)
	}
	if res.Pulses != Pulses || !res.Stuck {
		t.Fatalf("unexpected result %+v", res)
	}
	assertRestored(t, g)
}

func TestRecoveryModes(t *testing.T) {
	g := hostfake.NewGPIO()
	_, _ = Recover(g, lines)
	ops := g.Ops()
	if ops[0].Pin != lines.SCL || ops[0].Mode != sclDrive {
		t.Fatalf("first step should drive SCL high: %+v", ops[0])
	}
	if ops[1].Pin != lines.SDA || ops[1].Mode != sdaSense {
		t.Fatalf("second step should sense SDA with pull-up: %+v", ops[1])
	}
}

func TestIdempotent(t *testing.T) {
	g := hostfake.NewGPIO()
	for i := 0; i < 3; i++ {
		if _, err := Recover(g, lines); err != nil {
			t.Fatal(err)
		}
		assertRestored(t, g)
	}
}

func TestConfigureErrorStillRestores(t *testing.T) {
	// SDA is unknown: recovery cannot sense it but SCL must still go back.
	g := hostfake.NewGPIO(lines.SCL)
	res, err := Recover(g, lines)
	if errcode.Of(err) != errcode.UnknownPin {
		t.Fatalf("expected unknown_pin, got %v", err)
	}
	if res.Pulses != 0 {
		t.Fatalf("pulsed without a sensed line: %+v", res)
	}
	if g.Mode(lines.SCL) != lines.SCLAlt {
		t.Fatalf("SCL not restored: %v", g.Mode(lines.SCL))
	}
}
