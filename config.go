package mcp2515

// Mode is a controller operating mode, encoded as the REQOP field of
// CANCTRL (and reported in the OPMOD field of CANSTAT).
type Mode byte

const (
	Normal        Mode = 0x00
	Sleep         Mode = 0x20
	Loopback      Mode = 0x40
	ListenOnly    Mode = 0x60
	Configuration Mode = 0x80
)

// Speed is a CAN bus bit rate, assuming the controller's common 16 MHz
// crystal.
type Speed byte

const (
	Speed125k Speed = iota
	Speed250k
	Speed500k
	Speed1000k
)

// bitTiming holds the CNF register values for one bus speed. The segment
// layout is fixed; only the prescaler in CNF1 scales between the lower
// rates.
type bitTiming struct {
	cnf1, cnf2, cnf3 byte
}

var bitTimings = map[Speed]bitTiming{
	Speed125k:  {cnf1: 0x03, cnf2: 0xB5, cnf3: 0x01},
	Speed250k:  {cnf1: 0x01, cnf2: 0xB5, cnf3: 0x01},
	Speed500k:  {cnf1: 0x00, cnf2: 0xB5, cnf3: 0x01},
	Speed1000k: {cnf1: 0x40, cnf2: 0x91, cnf3: 0x01},
}

// Config describes the controller configuration Init applies after reset.
// The zero value selects 125 kbit/s, normal mode, rollover enabled and
// receive interrupts on both buffers.
type Config struct {
	// Speed selects the bit timing written to CNF1..CNF3.
	Speed Speed

	// Mode is the operating mode requested once configuration is written.
	// The zero value is Normal.
	Mode Mode

	// DisableRollover keeps a message for RXB0 from spilling into RXB1
	// when RXB0 is still full.
	DisableRollover bool

	// DisableRxInterrupts leaves the receive-full interrupt sources
	// masked, so the interrupt line stays quiet on message arrival.
	DisableRxInterrupts bool
}

// SetMode requests the given operating mode via a bit-modify of the
// CANCTRL REQOP field. The controller completes the transition on its own
// schedule; CANSTAT reports the mode actually in effect.
func (d *Device) SetMode(m Mode) error {
	return d.BitModify(CANCTRL, ModeMask, byte(m))
}

// Init brings the controller from an unknown state to a configured,
// usable one: reset into configuration mode, settle, bit timing,
// receive-buffer behavior, wide-open acceptance masks, interrupt enables,
// then the requested operating mode. Each write must land before the next
// is issued, which the one-transaction-per-call structure guarantees.
//
// Acceptance filters are left at their reset defaults with both masks
// zeroed, so every bus message is accepted; filtering is configured by
// higher layers when needed.
func (d *Device) Init(cfg Config) error {
	if err := d.Reset(); err != nil {
		return err
	}

	bt, ok := bitTimings[cfg.Speed]
	if !ok {
		bt = bitTimings[Speed125k]
	}
	if err := d.WriteRegister(CNF1, bt.cnf1); err != nil {
		return err
	}
	if err := d.WriteRegister(CNF2, bt.cnf2); err != nil {
		return err
	}
	if err := d.WriteRegister(CNF3, bt.cnf3); err != nil {
		return err
	}

	// Receive anything that passes the (open) filters; optionally let
	// RXB0 roll over into RXB1.
	rollover := BUKT
	if cfg.DisableRollover {
		rollover = 0
	}
	if err := d.BitModify(RXB0CTRL, RXMMask|BUKT, rollover); err != nil {
		return err
	}

	// Zero both acceptance masks so every identifier matches.
	for _, reg := range []Register{
		RXM0SIDH, RXM0SIDL, RXM0EID8, RXM0EID0,
		RXM1SIDH, RXM1SIDL, RXM1EID8, RXM1EID0,
	} {
		if err := d.WriteRegister(reg, 0); err != nil {
			return err
		}
	}

	if !cfg.DisableRxInterrupts {
		if err := d.BitModify(CANINTE, RX0I|RX1I, RX0I|RX1I); err != nil {
			return err
		}
	}

	return d.SetMode(cfg.Mode)
}
