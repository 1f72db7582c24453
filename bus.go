package mcp2515

import (
	"errors"
)

// Bus is the low-level hardware access a Device needs: a blocking byte
// exchange plus control of the chip-select and interrupt lines. It is the
// only thing the protocol core touches, so the core can run against real
// hardware (PeriphBus), a simulated controller (SimBus) or anything else.
//
// Implementations are not required to be safe for concurrent use; the
// chip-select line is single-owner hardware state, so callers that share a
// Device across goroutines must serialize access themselves.
type Bus interface {
	// Exchange shifts one byte out to the controller and returns the byte
	// the controller shifted back during the same clocking. It blocks until
	// the transfer completes; there is no timeout, so a dead or unclocked
	// bus blocks indefinitely.
	Exchange(out byte) (byte, error)

	// Select drives the chip-select line low, enabling the controller.
	Select() error

	// Deselect drives the chip-select line high, ending the transaction.
	Deselect() error

	// Interrupt reads the electrical level of the interrupt line (true for
	// high). The line is input only and is never driven.
	Interrupt() (bool, error)

	// Close releases resources. Further calls may return an error.
	Close() error
}

// ErrClosed indicates the bus has been closed.
var ErrClosed = errors.New("mcp2515: closed")
