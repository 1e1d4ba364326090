package main

import (
	"time"

	"tinygo.org/x/drivers/shtc3"

	"zmf159-bsp/board/zmf159"
	"zmf159-bsp/hal/hostfake"
)

// Host bring-up of the board over fake pins/clocks, with an SHTC3 answering
// on i2c1 at roughly 25 °C / 50 %RH.
func main() {
	println("boot")

	gpio := hostfake.NewGPIO(zmf159.PB8, zmf159.PB9, zmf159.PC8, zmf159.PC9)
	// Leave i2c1's SDA held low so bring-up has something to recover.
	gpio.HoldLow(zmf159.PB9, zmf159.PB8, 3)

	b, err := zmf159.New(zmf159.Resources{
		GPIO:   gpio,
		Clock:  hostfake.NewClock(),
		Driver: &hostfake.Driver{},
	})
	if err != nil {
		println("[main] board:", err.Error())
		return
	}

	for round := 0; round < 2; round++ {
		h, err := b.I2C1Init()
		if err != nil {
			println("[main] i2c1 init:", err.Error())
			return
		}
		if bus, ok := h.(*hostfake.Bus); ok {
			bus.Respond = fakeSHTC3
		}

		sensor := shtc3.New(h)
		for i := 0; i < 3; i++ {
			_ = sensor.WakeUp()
			t, rh, err := sensor.ReadTemperatureHumidity()
			_ = sensor.Sleep()
			if err != nil {
				println("[main] shtc3:", err.Error())
			} else {
				println("[main] shtc3 mC:", t, "RHx100:", rh)
			}
			time.Sleep(100 * time.Millisecond)
		}

		if err := b.I2C1Deinit(h); err != nil {
			println("[main] i2c1 deinit:", err.Error())
		}
	}
}

// fakeSHTC3 fills 6-byte reads with a temperature word then a humidity
// word, each followed by its CRC-8.
func fakeSHTC3(_ uint16, _, r []byte) error {
	if len(r) != 6 {
		return nil
	}
	put := func(p []byte, v uint16) {
		p[0], p[1] = byte(v>>8), byte(v)
		p[2] = crc8(p[:2])
	}
	put(r[0:3], 0x6666)
	put(r[3:6], 0x8000)
	return nil
}

// crc8 is the Sensirion checksum: poly 0x31, init 0xFF.
func crc8(p []byte) byte {
	crc := byte(0xFF)
	for _, b := range p {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x31
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
