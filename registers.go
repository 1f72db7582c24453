package mcp2515

// Register is an 8-bit address in the controller's register map.
type Register byte

// Control, configuration and buffer registers touched by this driver.
// The full map is in the MCP2515 datasheet; only frame payload registers
// are omitted since frame handling lives above this layer.
const (
	CANSTAT Register = 0x0E
	CANCTRL Register = 0x0F

	RXM0SIDH Register = 0x20
	RXM0SIDL Register = 0x21
	RXM0EID8 Register = 0x22
	RXM0EID0 Register = 0x23
	RXM1SIDH Register = 0x24
	RXM1SIDL Register = 0x25
	RXM1EID8 Register = 0x26
	RXM1EID0 Register = 0x27

	CNF3    Register = 0x28
	CNF2    Register = 0x29
	CNF1    Register = 0x2A
	CANINTE Register = 0x2B
	CANINTF Register = 0x2C
	EFLG    Register = 0x2D

	TXB0CTRL Register = 0x30
	TXB0SIDH Register = 0x31
	TXB1CTRL Register = 0x40
	TXB2CTRL Register = 0x50

	RXB0CTRL Register = 0x60
	RXB0SIDH Register = 0x61
	RXB1CTRL Register = 0x70
	RXB1SIDH Register = 0x71
)

// Register bit masks.
const (
	// CANCTRL / CANSTAT
	ModeMask byte = 0xE0 // REQOP / OPMOD field

	// RXBnCTRL
	RXMMask byte = 3 << 5 // receive mode field
	BUKT    byte = 1 << 2 // rollover RXB0 -> RXB1

	// CANINTE / CANINTF
	RX0I byte = 1 << 0
	RX1I byte = 1 << 1

	// TXBnCTRL
	TXREQ byte = 1 << 3
)
