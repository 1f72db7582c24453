package mcp2515

// Opcode is one of the controller's SPI instructions. The values are fixed
// by the MCP2515 datasheet; the closed set here is exhaustive, so no other
// value is ever shifted out as the first byte of a transaction.
type Opcode byte

const (
	OpReset      Opcode = 0xC0
	OpRead       Opcode = 0x03
	OpReadRx     Opcode = 0x90
	OpWrite      Opcode = 0x02
	OpWriteRx    Opcode = 0x40
	OpRTS        Opcode = 0x80
	OpReadStatus Opcode = 0xA0
	OpRxStatus   Opcode = 0xB0
	OpBitModify  Opcode = 0x05
)

// Filler is shifted out on exchanges whose transmitted value is irrelevant,
// where only the byte shifted back matters.
const Filler byte = 0xFF
