package elf

import "math/bits"

// tableLayout is the placement of the program and section header tables as
// claimed by a file header.
type tableLayout struct {
	ProgramOffset    uint64
	ProgramCount     uint16
	ProgramEntrySize uint16
	SectionOffset    uint64
	SectionCount     uint16
	SectionEntrySize uint16
}

// extent is a half-open byte range [start, end).
type extent struct {
	start, end uint64
}

func (e extent) empty() bool { return e.end == e.start }

func (e extent) overlaps(o extent) bool {
	if e.empty() || o.empty() {
		return false
	}
	return e.start < o.end && o.start < e.end
}

// tableExtent computes [off, off+count*size). ok is false when the
// arithmetic wraps; a wrapped end is never used as a small value.
func tableExtent(off uint64, count, size uint16) (extent, bool) {
	hi, n := bits.Mul64(uint64(count), uint64(size))
	if hi != 0 {
		return extent{}, false
	}
	end, carry := bits.Add64(off, n, 0)
	if carry != 0 {
		return extent{}, false
	}
	return extent{start: off, end: end}, true
}

// checkTables rejects layouts whose tables run past size or share bytes.
// The program header table is checked first, then the section header table,
// then overlap.
func checkTables(t tableLayout, size uint64) error {
	ph, ok := tableExtent(t.ProgramOffset, t.ProgramCount, t.ProgramEntrySize)
	if !ok || ph.end > size {
		return newError(ErrTableOverflow, "program headers", int(min(t.ProgramOffset, size)), ph.end)
	}
	sh, ok := tableExtent(t.SectionOffset, t.SectionCount, t.SectionEntrySize)
	if !ok || sh.end > size {
		return newError(ErrTableOverflow, "section headers", int(min(t.SectionOffset, size)), sh.end)
	}
	if ph.overlaps(sh) {
		return newError(ErrTableOverlap, "section headers", int(sh.start), ph.start)
	}
	return nil
}
