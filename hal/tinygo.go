//go:build tinygo && baremetal

package hal

import (
	"machine"

	"oledui/internal/ssd1306"
)

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	gpio   GPIO
	link   *uartLink
	bus    i2cBus
	t      *tinyGoTime
}

// Button wiring, in PinUp..PinRight order. Each switch pulls its line to
// ground.
var buttonGPIO = [ButtonPins]machine.Pin{
	machine.GP10, machine.GP11, machine.GP12, machine.GP13, machine.GP14, machine.GP15,
}

// New returns a Raspberry Pi Pico HAL implementation.
//
// Link: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// Log: UART1 on GP8 (TX) / GP9 (RX), 115200 8N1.
// Panel: I2C0 on GP4 (SDA) / GP5 (SCL), 400 kHz.
func New() HAL {
	linkUART := machine.UART0
	linkUART.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logUART := machine.UART1
	logUART.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP8,
		RX:       machine.GP9,
	})
	i2c := machine.I2C0
	_ = i2c.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.GP4,
		SCL:       machine.GP5,
	})

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	pins := make([]GPIOPin, ButtonPins)
	for i, p := range buttonGPIO {
		pins[i] = &machinePin{name: buttonNames[i], pin: p}
	}

	return &tinyGoHAL{
		logger: &uartLogger{uart: logUART},
		led:    &pinLED{pin: ledPin},
		gpio:   newVirtualGPIO(pins),
		link:   newUARTLink(linkUART),
		bus:    i2cBus{dev: i2c},
		t:      newTinyGoTime(),
	}
}

func (h *tinyGoHAL) Logger() Logger        { return h.logger }
func (h *tinyGoHAL) LED() LED              { return h.led }
func (h *tinyGoHAL) GPIO() GPIO            { return h.gpio }
func (h *tinyGoHAL) Link() Link            { return h.link }
func (h *tinyGoHAL) PanelBus() ssd1306.Bus { return h.bus }
func (h *tinyGoHAL) Time() Time            { return h.t }
func (h *tinyGoHAL) Wake() <-chan struct{} { return h.link.wake }
