// Package video holds the two memory surfaces the CPU can see into the
// pixel pipeline: VRAM and OAM. Neither is interpreted here — there is no
// PPU in this core, so tile data, tile maps, and sprite attributes are just
// bytes as far as this package is concerned. A collaborator PPU component
// would own the interpretation; this package only owns the storage and the
// OAM DMA lockout.
package video

import "github.com/rtrembecki/dmgcore/jeebie/addr"

// VRAM is the flat 8 KiB video RAM at $8000-$9FFF.
type VRAM struct {
	data [addr.VRAMSize]byte
}

func NewVRAM() *VRAM {
	return &VRAM{}
}

func (v *VRAM) Read(address uint16) byte {
	return v.data[address-addr.VRAMStart]
}

func (v *VRAM) Write(address uint16, value byte) {
	v.data[address-addr.VRAMStart] = value
}

// Snapshot returns a copy of the full VRAM contents, safe for a host to
// inspect without racing further emulation.
func (v *VRAM) Snapshot() []byte {
	out := make([]byte, len(v.data))
	copy(out, v.data[:])
	return out
}

// OAM is the 160-byte sprite attribute table at $FE00-$FE9F, addressed as
// 40 entries of (y, x, tile index, flags). While a DMA transfer is active,
// the CPU's view of OAM is locked: reads return 0xFF and writes are
// dropped, while the DMA engine itself continues to write through
// WriteRaw regardless of the lock.
type OAM struct {
	data   [addr.OAMSize]byte
	locked bool
}

func NewOAM() *OAM {
	return &OAM{}
}

// SetLocked is called by the DMA engine to mark OAM as CPU-inaccessible for
// the duration of a transfer.
func (o *OAM) SetLocked(locked bool) {
	o.locked = locked
}

func (o *OAM) Locked() bool {
	return o.locked
}

// Read returns the CPU-visible view of OAM: 0xFF while DMA is active.
func (o *OAM) Read(address uint16) byte {
	if o.locked {
		return 0xFF
	}
	return o.data[address-addr.OAMStart]
}

// Write is the CPU-visible write path: dropped while DMA is active.
func (o *OAM) Write(address uint16, value byte) {
	if o.locked {
		return
	}
	o.data[address-addr.OAMStart] = value
}

// WriteRaw bypasses the DMA lock; only the DMA engine should call this.
func (o *OAM) WriteRaw(address uint16, value byte) {
	o.data[address-addr.OAMStart] = value
}

// Snapshot returns a copy of the underlying 160 bytes, regardless of lock
// state (a host debugger should see the real contents, not $FF).
func (o *OAM) Snapshot() []byte {
	out := make([]byte, len(o.data))
	copy(out, o.data[:])
	return out
}
