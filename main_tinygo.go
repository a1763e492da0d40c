//go:build tinygo && baremetal

package main

import (
	"oledui/app"
	"oledui/hal"
)

func main() {
	app.Run(hal.New())
}
