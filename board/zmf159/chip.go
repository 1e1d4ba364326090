package zmf159

import "zmf159-bsp/hal"

// Pins used by the I2C controllers.
var (
	PB8 = hal.Pin('B', 8)
	PB9 = hal.Pin('B', 9)
	PC8 = hal.Pin('C', 8)
	PC9 = hal.Pin('C', 9)
)

// Peripheral function number routing I2C1/I2C2 SCL and SDA to the pins above.
const afI2C = 4

// Register block bases.
const (
	I2C1Base uintptr = 0x40005400
	I2C2Base uintptr = 0x40005800
)

// Event interrupt numbers.
const (
	INumI2C1EV = 31
	INumI2C2EV = 33
)

// Clock ids pack the bus in the high byte and the enable bit in the low byte.
const clkAPB1 = 2

const (
	ClkI2C1 hal.ClockID = clkAPB1<<8 | 21
	ClkI2C2 hal.ClockID = clkAPB1<<8 | 22
)
