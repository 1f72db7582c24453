package mcp2515

// Status is the byte returned by the READ STATUS instruction. It packs the
// most frequently polled interrupt and transmit-request flags.
type Status byte

// Rx0Pending reports a message waiting in receive buffer 0 (RX0IF).
func (s Status) Rx0Pending() bool {
	return s&(1<<0) != 0
}

// Rx1Pending reports a message waiting in receive buffer 1 (RX1IF).
func (s Status) Rx1Pending() bool {
	return s&(1<<1) != 0
}

// TxPending reports whether transmit buffer n (0..2) still has its
// transmission request set.
func (s Status) TxPending(n int) bool {
	return s&(1<<(2+2*uint(n))) != 0
}

// RxStatus is the byte returned by the RX STATUS instruction. It describes
// which receive buffer holds a message and what kind of frame it is.
type RxStatus byte

// MsgInBuf0 reports a message in receive buffer 0.
func (s RxStatus) MsgInBuf0() bool {
	return s&(1<<6) != 0
}

// MsgInBuf1 reports a message in receive buffer 1.
func (s RxStatus) MsgInBuf1() bool {
	return s&(1<<7) != 0
}

// RemoteFrame reports that the received message is a remote frame.
func (s RxStatus) RemoteFrame() bool {
	return s&(1<<3) != 0
}

// ExtendedFrame reports that the received message carries an extended
// identifier.
func (s RxStatus) ExtendedFrame() bool {
	return s&(1<<4) != 0
}
