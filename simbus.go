package mcp2515

import (
	"fmt"
	"sync"
)

// SimBus is an in-memory MCP2515 for tests and simulations. It decodes the
// command protocol against an internal register file, so reads observe
// earlier writes, reset restores power-on defaults, and bit-modify applies
// its mask the way the real controller does.
//
// Beyond behaving like the controller, it records everything the driver
// did: the byte sequence of every transaction, the number of chip-select
// assertions, and any protocol violations (exchanging while deselected,
// nesting selects). Tests assert on those records.
type SimBus struct {
	mu         sync.Mutex
	regs       [0x80]byte
	intHigh    bool
	selected   bool
	closed     bool
	selects    int
	cur        []byte
	transcript [][]byte
	violations []string
}

// NewSimBus returns a simulated controller in its power-on state with the
// interrupt line high (deasserted).
func NewSimBus() *SimBus {
	s := &SimBus{intHigh: true}
	s.powerOnReset()
	return s
}

// powerOnReset restores the register file to datasheet defaults: all zero
// except CANSTAT (configuration mode) and CANCTRL.
func (s *SimBus) powerOnReset() {
	s.regs = [0x80]byte{}
	s.regs[CANSTAT] = 0x80
	s.regs[CANCTRL] = 0x87
}

// Exchange decodes one byte of the open transaction and returns what the
// controller would have shifted back during that same exchange.
func (s *SimBus) Exchange(out byte) (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	if !s.selected {
		s.violations = append(s.violations, fmt.Sprintf("exchange of %#02x while deselected", out))
		return Filler, nil
	}
	pos := len(s.cur)
	in := s.reply(pos)
	s.cur = append(s.cur, out)
	s.apply(pos, out)
	return in, nil
}

// reply computes the byte shifted back on exchange pos of the open
// transaction, before the outgoing byte is known; the controller's reply
// depends only on the bytes already received.
func (s *SimBus) reply(pos int) byte {
	if pos == 0 {
		return 0
	}
	switch op := Opcode(s.cur[0]); {
	case op == OpRead && pos >= 2:
		// Sequential read with address auto-increment.
		return s.regs[(s.cur[1]+byte(pos)-2)&0x7F]
	case op == OpReadStatus:
		return s.statusByte()
	case op == OpRxStatus:
		return s.rxStatusByte()
	case op&0xFB == OpReadRx:
		base := RXB0SIDH
		if byte(op)&(1<<2) != 0 {
			base = RXB1SIDH
		}
		return s.regs[(byte(base)+byte(pos)-1)&0x7F]
	}
	return 0
}

// apply folds the outgoing byte at position pos into controller state.
func (s *SimBus) apply(pos int, out byte) {
	switch op := Opcode(s.cur[0]); {
	case op == OpWrite && pos >= 2:
		s.regs[(s.cur[1]+byte(pos)-2)&0x7F] = out
	case op == OpBitModify && pos == 3:
		addr := s.cur[1] & 0x7F
		mask := s.cur[2]
		s.regs[addr] = s.regs[addr]&^mask | out&mask
	case op&0xF9 == OpWriteRx && pos >= 1:
		base := byte(TXB0SIDH) + (byte(op)>>1&0x03)*0x10
		s.regs[(base+byte(pos)-1)&0x7F] = out
	case op&0xF8 == OpRTS && pos == 0:
		for n := byte(0); n < 3; n++ {
			if byte(op)&(1<<n) != 0 {
				s.regs[byte(TXB0CTRL)+n*0x10] |= TXREQ
			}
		}
	}
}

// statusByte assembles the READ STATUS reply from CANINTF and the
// transmit-request bits.
func (s *SimBus) statusByte() byte {
	intf := s.regs[CANINTF]
	var b byte
	b |= intf & (RX0I | RX1I)
	for n := byte(0); n < 3; n++ {
		if s.regs[byte(TXB0CTRL)+n*0x10]&TXREQ != 0 {
			b |= 1 << (2 + 2*n)
		}
		if intf&(1<<(2+n)) != 0 {
			b |= 1 << (3 + 2*n)
		}
	}
	return b
}

// rxStatusByte assembles the RX STATUS reply. Frame-type bits stay zero;
// no frame model exists here.
func (s *SimBus) rxStatusByte() byte {
	var b byte
	if s.regs[CANINTF]&RX0I != 0 {
		b |= 1 << 6
	}
	if s.regs[CANINTF]&RX1I != 0 {
		b |= 1 << 7
	}
	return b
}

// Select asserts chip select, opening a transaction.
func (s *SimBus) Select() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.selected {
		s.violations = append(s.violations, "nested select")
		return nil
	}
	s.selected = true
	s.selects++
	s.cur = nil
	return nil
}

// Deselect deasserts chip select, closing the transaction and applying
// its end-of-transaction effects.
func (s *SimBus) Deselect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if !s.selected {
		s.violations = append(s.violations, "deselect while deselected")
		return nil
	}
	s.selected = false
	s.transcript = append(s.transcript, s.cur)
	if len(s.cur) == 0 {
		return nil
	}
	switch op := Opcode(s.cur[0]); {
	case op == OpReset:
		s.powerOnReset()
	case op&0xFB == OpReadRx:
		// The controller clears the buffer's interrupt flag when the
		// READ RX BUFFER transaction ends.
		flag := RX0I
		if byte(op)&(1<<2) != 0 {
			flag = RX1I
		}
		s.regs[CANINTF] &^= flag
	}
	return nil
}

// Interrupt returns the simulated interrupt line level.
func (s *SimBus) Interrupt() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	return s.intHigh, nil
}

// Close marks the bus closed; all further operations return ErrClosed.
func (s *SimBus) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// SetInterruptLine drives the simulated interrupt line level (true for
// high). The controller asserts the real line low when an enabled
// interrupt source fires.
func (s *SimBus) SetInterruptLine(high bool) {
	s.mu.Lock()
	s.intHigh = high
	s.mu.Unlock()
}

// Register returns the current value of reg in the simulated register
// file.
func (s *SimBus) Register(reg Register) byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[reg&0x7F]
}

// SetRegister sets reg directly, bypassing the command protocol. Useful
// for staging received-message state in tests.
func (s *SimBus) SetRegister(reg Register, v byte) {
	s.mu.Lock()
	s.regs[reg&0x7F] = v
	s.mu.Unlock()
}

// Transcript returns the byte sequence of every completed transaction in
// order.
func (s *SimBus) Transcript() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.transcript))
	for i, t := range s.transcript {
		out[i] = append([]byte(nil), t...)
	}
	return out
}

// SelectCount returns how many times chip select has been asserted.
func (s *SimBus) SelectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selects
}

// Violations returns descriptions of any protocol violations observed.
func (s *SimBus) Violations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.violations...)
}
