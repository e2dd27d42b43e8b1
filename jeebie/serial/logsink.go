// Package serial implements the DMG's SB/SC link-cable port as a debug sink.
//
// Real hardware shifts bits out over several milliseconds; test ROMs (and
// this core) only care about the byte-at-a-time handshake blargg's suite
// uses: write SB, then write SC=0x81 to kick the transfer. We complete the
// transfer immediately and request the Serial interrupt, matching the
// "instant serial" convention most headless DMG cores use for running
// cpu_instrs-style ROMs without a link cable on the other end.
package serial

import (
	"log/slog"

	"github.com/rtrembecki/dmgcore/jeebie/addr"
)

// Sink is the minimal interface the bus needs for the serial port.
type Sink interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// LogSink implements the SB/SC handshake and accumulates every transferred
// byte into a buffer the host can inspect (used to detect "Passed"/"Failed"
// in blargg-style test ROMs).
type LogSink struct {
	irqHandler func()
	sb, sc     byte
	buffer     []byte
	logger     *slog.Logger
}

// NewLogSink creates a serial sink. irq is called whenever a transfer
// completes and should be wired to request addr.Serial.
func NewLogSink(irq func()) *LogSink {
	return &LogSink{
		irqHandler: irq,
		logger:     slog.Default(),
	}
}

func (s *LogSink) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc
	default:
		panic("serial: invalid read address")
	}
}

func (s *LogSink) Write(address uint16, value byte) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		s.maybeTransfer()
	default:
		panic("serial: invalid write address")
	}
}

// maybeTransfer captures SB and fires the completion interrupt when SC is
// written with the internal-clock transfer-start pattern (0x81).
func (s *LogSink) maybeTransfer() {
	if s.sc != 0x81 {
		return
	}

	s.buffer = append(s.buffer, s.sb)
	s.logger.Debug("serial byte", "value", s.sb, "char", string(rune(s.sb)))

	s.sc &^= 0x80
	if s.irqHandler != nil {
		s.irqHandler()
	}
}

// Buffer returns the bytes accumulated so far, in transfer order.
func (s *LogSink) Buffer() []byte {
	return s.buffer
}

// String renders the accumulated buffer as text, for host-side log output.
func (s *LogSink) String() string {
	return string(s.buffer)
}

// Reset clears accumulated output and register state, equivalent to a
// power cycle of the serial port.
func (s *LogSink) Reset() {
	s.sb = 0
	s.sc = 0
	s.buffer = s.buffer[:0]
}
