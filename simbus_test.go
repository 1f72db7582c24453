package mcp2515

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestSimBus_ResetRestoresDefaults(t *testing.T) {
	d, bus := newTestDevice()

	if err := d.WriteRegister(CNF1, 0x3F); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := d.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got := bus.Register(CNF1); got != 0 {
		t.Fatalf("CNF1 after reset = %#02x, want 0", got)
	}
	if got := bus.Register(CANSTAT); got != 0x80 {
		t.Fatalf("CANSTAT after reset = %#02x, want 0x80 (configuration mode)", got)
	}
	if got := bus.Register(CANCTRL); got != 0x87 {
		t.Fatalf("CANCTRL after reset = %#02x, want 0x87", got)
	}
}

func TestSimBus_SequentialRead(t *testing.T) {
	bus := NewSimBus()
	bus.SetRegister(CNF3, 0x01)
	bus.SetRegister(CNF2, 0xB5)
	bus.SetRegister(CNF1, 0x00)

	// Drive the READ instruction by hand with repeated fillers: the
	// address auto-increments across CNF3, CNF2, CNF1.
	if err := bus.Select(); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := bus.Exchange(byte(OpRead)); err != nil {
		t.Fatalf("opcode: %v", err)
	}
	if _, err := bus.Exchange(byte(CNF3)); err != nil {
		t.Fatalf("address: %v", err)
	}
	var got [3]byte
	for i := range got {
		v, err := bus.Exchange(Filler)
		if err != nil {
			t.Fatalf("filler %d: %v", i, err)
		}
		got[i] = v
	}
	if err := bus.Deselect(); err != nil {
		t.Fatalf("deselect: %v", err)
	}
	if want := [3]byte{0x01, 0xB5, 0x00}; got != want {
		t.Fatalf("sequential read = % X, want % X", got, want)
	}
}

func TestSimBus_ViolationDetection(t *testing.T) {
	bus := NewSimBus()

	if v, err := bus.Exchange(0xAA); err != nil || v != Filler {
		t.Fatalf("deselected exchange = %#02x, %v; want floating 0xFF, nil", v, err)
	}
	_ = bus.Select()
	_ = bus.Select()
	_ = bus.Deselect()
	_ = bus.Deselect()

	v := bus.Violations()
	if len(v) != 3 {
		t.Fatalf("violations = %v, want 3 entries", v)
	}
}

func TestSimBus_ReadRxBufferClearsFlag(t *testing.T) {
	d, bus := newTestDevice()
	bus.SetRegister(CANINTF, RX0I|RX1I)
	bus.SetRegister(RXB0SIDH, 0x12)
	bus.SetRegister(RXB0SIDH+1, 0x34)

	buf := make([]byte, 2)
	if err := d.ReadRxBuffer(0, buf); err != nil {
		t.Fatalf("read rx buffer: %v", err)
	}
	if !bytes.Equal(buf, []byte{0x12, 0x34}) {
		t.Fatalf("buffer = % X, want 12 34", buf)
	}
	if got := bus.Register(CANINTF); got&RX0I != 0 {
		t.Fatalf("RX0IF not cleared by buffer read")
	}
	if got := bus.Register(CANINTF); got&RX1I == 0 {
		t.Fatalf("RX1IF should survive a buffer 0 read")
	}
}

func TestSimBus_CloseBehavior(t *testing.T) {
	bus := NewSimBus()
	d := New(bus)
	d.sleep = func(time.Duration) {}

	if err := bus.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := d.ReadRegister(CANSTAT); !errors.Is(err, ErrClosed) {
		t.Fatalf("read on closed bus: %v, want ErrClosed", err)
	}
	if _, err := d.MessageReceived(); !errors.Is(err, ErrClosed) {
		t.Fatalf("poll on closed bus: %v, want ErrClosed", err)
	}
}
