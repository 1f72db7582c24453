package mcp2515_test

import (
	"fmt"
	"time"

	"github.com/notnil/mcp2515"
)

func ExampleDevice() {
	bus := mcp2515.NewSimBus()
	dev := mcp2515.New(bus)

	_ = dev.WriteRegister(mcp2515.CNF1, 0x03)
	v, _ := dev.ReadRegister(mcp2515.CNF1)
	fmt.Printf("CNF1=%02X\n", v)
	// Output: CNF1=03
}

func ExampleDevice_MessageReceived() {
	bus := mcp2515.NewSimBus()
	dev := mcp2515.New(bus)

	bus.SetInterruptLine(false) // controller pulls the line low
	for {
		pending, err := dev.MessageReceived()
		if err != nil {
			return
		}
		if pending {
			fmt.Println("message pending")
			break
		}
		time.Sleep(time.Millisecond)
	}
	// Output: message pending
}
