package mcp2515

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// spiClock is the SPI clock used for the controller connection. The
// reference wiring runs the host SPI at fOSC/16 off a 16 MHz crystal,
// which is 1 MHz; the MCP2515 itself tolerates up to 10 MHz.
const spiClock = physic.MegaHertz

// PeriphBus drives a real controller through a host SPI port and two GPIO
// lines using periph.io. Chip select is a plain GPIO rather than the SPI
// controller's hardware CS, so transactions of several Tx calls stay
// framed under one assertion.
type PeriphBus struct {
	port spi.PortCloser
	conn spi.Conn
	cs   gpio.PinIO
	irq  gpio.PinIO
}

// Open initializes the host, claims the named SPI port and GPIO lines and
// configures them for the controller: chip select as an output driven
// high (the controller must start deselected), the interrupt line as an
// input pulled up to match its active-low convention, and the port
// connected mode 0, MSB first. The returned bus is ready for New.
//
// Names are resolved by periph's registries, e.g. "SPI0.0", "GPIO8",
// "GPIO25" on a Raspberry Pi.
func Open(portName, csName, irqName string) (*PeriphBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "mcp2515: initializing host")
	}
	cs := gpioreg.ByName(csName)
	if cs == nil {
		return nil, errors.Errorf("mcp2515: no gpio pin named %q", csName)
	}
	irq := gpioreg.ByName(irqName)
	if irq == nil {
		return nil, errors.Errorf("mcp2515: no gpio pin named %q", irqName)
	}

	// Line directions and idle levels first, transport second, so the
	// controller never sees a floating select while the port comes up.
	if err := cs.Out(gpio.High); err != nil {
		return nil, errors.Wrapf(err, "mcp2515: configuring chip select %q", csName)
	}
	if err := irq.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, errors.Wrapf(err, "mcp2515: configuring interrupt line %q", irqName)
	}

	port, err := spireg.Open(portName)
	if err != nil {
		return nil, errors.Wrapf(err, "mcp2515: opening spi port %q", portName)
	}
	// Mode 0 and MSB first are periph defaults; NoCS because select is
	// framed manually per transaction.
	conn, err := port.Connect(spiClock, spi.Mode0|spi.NoCS, 8)
	if err != nil {
		return nil, multierr.Append(errors.Wrapf(err, "mcp2515: connecting spi port %q", portName), port.Close())
	}
	return &PeriphBus{port: port, conn: conn, cs: cs, irq: irq}, nil
}

// Exchange shifts one byte each way. It blocks until the kernel completes
// the transfer; a wedged bus blocks indefinitely, there is no timeout.
func (b *PeriphBus) Exchange(out byte) (byte, error) {
	var rx [1]byte
	if err := b.conn.Tx([]byte{out}, rx[:]); err != nil {
		return 0, errors.Wrap(err, "mcp2515: exchange")
	}
	return rx[0], nil
}

// Select drives chip select low.
func (b *PeriphBus) Select() error {
	return b.cs.Out(gpio.Low)
}

// Deselect drives chip select high.
func (b *PeriphBus) Deselect() error {
	return b.cs.Out(gpio.High)
}

// Interrupt reads the interrupt line level.
func (b *PeriphBus) Interrupt() (bool, error) {
	return bool(b.irq.Read()), nil
}

// Close deselects the controller and releases the SPI port. The GPIO
// lines keep their configuration; periph pins have no claim to release.
func (b *PeriphBus) Close() error {
	return multierr.Append(b.cs.Out(gpio.High), b.port.Close())
}
