package mcp2515

import (
	"time"

	"go.uber.org/multierr"
)

// resetSettle is the minimum time the controller needs after a RESET
// instruction before it accepts further transactions.
const resetSettle = 10 * time.Microsecond

// Device speaks the MCP2515 command protocol over an injected Bus. Each
// method is one complete SPI transaction: chip select asserted, a fixed
// ordered byte sequence exchanged, chip select deasserted. The controller
// has no framing or checksum, so the byte order of each method is exact.
type Device struct {
	bus Bus

	// sleep is swapped out in tests so settle delays do not really sleep.
	sleep func(time.Duration)
}

// New returns a Device driving the controller behind bus. The bus must
// already be initialized (lines configured, transport clocked); see Open
// for the periph.io path.
func New(bus Bus) *Device {
	return &Device{bus: bus, sleep: time.Sleep}
}

// transaction runs fn bracketed by chip-select assert/deassert. The
// deassert runs on every exit path so a failed exchange can never leave
// the controller selected; a deassert failure is folded into the returned
// error rather than dropped.
func (d *Device) transaction(fn func() error) (err error) {
	if err = d.bus.Select(); err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, d.bus.Deselect())
	}()
	return fn()
}

// command exchanges out in order within one transaction and returns the
// byte received on the final exchange.
func (d *Device) command(out ...byte) (last byte, err error) {
	err = d.transaction(func() error {
		for _, b := range out {
			var xerr error
			if last, xerr = d.bus.Exchange(b); xerr != nil {
				return xerr
			}
		}
		return nil
	})
	return last, err
}

// Reset issues the RESET instruction, returning the controller to its
// power-on defaults and configuration mode. The datasheet recommends a
// reset after power-up; Reset waits the required settle time before
// returning so the next transaction is safe to issue immediately.
func (d *Device) Reset() error {
	if _, err := d.command(byte(OpReset)); err != nil {
		return err
	}
	d.sleep(resetSettle)
	return nil
}

// ReadRegister returns the current value of reg. The READ instruction
// shifts the value back on the exchange after the address, so a filler
// byte is clocked out to retrieve it.
func (d *Device) ReadRegister(reg Register) (byte, error) {
	return d.command(byte(OpRead), byte(reg), Filler)
}

// WriteRegister sets reg to value.
func (d *Device) WriteRegister(reg Register, value byte) error {
	_, err := d.command(byte(OpWrite), byte(reg), value)
	return err
}

// BitModify changes only the bits of reg selected by mask to the
// corresponding bits of value; bits outside mask are left untouched by the
// controller itself. Only registers the datasheet documents as
// bit-modifiable may be targeted; that is the caller's precondition, the
// driver transmits mask and value as given.
func (d *Device) BitModify(reg Register, mask, value byte) error {
	_, err := d.command(byte(OpBitModify), byte(reg), mask, value)
	return err
}

// ReadStatus issues the READ STATUS instruction and returns its
// single-byte reply.
func (d *Device) ReadStatus() (Status, error) {
	b, err := d.command(byte(OpReadStatus), Filler)
	return Status(b), err
}

// ReadRxStatus issues the RX STATUS instruction and returns its
// single-byte reply.
func (d *Device) ReadRxStatus() (RxStatus, error) {
	b, err := d.command(byte(OpRxStatus), Filler)
	return RxStatus(b), err
}

// ReadRxBuffer reads len(dst) bytes from receive buffer n (0 or 1)
// starting at its identifier register, using the READ RX BUFFER
// instruction. The controller clears the buffer's interrupt flag when the
// transaction ends, saving the usual bit-modify.
func (d *Device) ReadRxBuffer(n int, dst []byte) error {
	op := byte(OpReadRx)
	if n == 1 {
		op |= 1 << 2
	}
	return d.transaction(func() error {
		if _, err := d.bus.Exchange(op); err != nil {
			return err
		}
		for i := range dst {
			v, err := d.bus.Exchange(Filler)
			if err != nil {
				return err
			}
			dst[i] = v
		}
		return nil
	})
}

// LoadTxBuffer writes src into transmit buffer n (0..2) starting at its
// identifier register, using the LOAD TX BUFFER instruction. It does not
// request transmission; follow with RequestToSend.
func (d *Device) LoadTxBuffer(n int, src []byte) error {
	op := byte(OpWriteRx) | byte(n)<<1
	return d.transaction(func() error {
		if _, err := d.bus.Exchange(op); err != nil {
			return err
		}
		for _, b := range src {
			if _, err := d.bus.Exchange(b); err != nil {
				return err
			}
		}
		return nil
	})
}

// RequestToSend flags transmit buffers for transmission. buffers is a
// bitmask with bit n selecting transmit buffer n; only the low three bits
// are meaningful.
func (d *Device) RequestToSend(buffers byte) error {
	_, err := d.command(byte(OpRTS) | buffers&0x07)
	return err
}

// MessageReceived reports whether the controller is asserting its
// interrupt line, meaning at least one unhandled event (typically a
// received message) is pending. The line is active low. This is a pure
// poll of the input line: it never blocks, sleeps or starts a
// transaction.
func (d *Device) MessageReceived() (bool, error) {
	high, err := d.bus.Interrupt()
	if err != nil {
		return false, err
	}
	return !high, nil
}

// Close closes the underlying bus.
func (d *Device) Close() error {
	return d.bus.Close()
}
