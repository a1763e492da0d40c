package hal

import "tinygo.org/x/drivers"

// i2cBus adapts a blocking drivers.I2C master to the panel bus. Every write
// completes before returning, so the bus is never busy.
type i2cBus struct {
	dev drivers.I2C
}

func (b i2cBus) Write(addr uint16, data []byte) error { return b.dev.Tx(addr, data, nil) }

func (b i2cBus) StartWrite(addr uint16, data []byte) error { return b.dev.Tx(addr, data, nil) }

func (i2cBus) Busy() bool { return false }
