package elf

import (
	"encoding/binary"
	"testing"
)

// The helpers below serialise headers and table entries with the wire layout
// of a profile so tests can build valid and hostile objects alike.

func putWord(b []byte, p *profile, v uint64) int {
	if p.addrSize == 4 {
		binary.LittleEndian.PutUint32(b, uint32(v))
		return 4
	}
	binary.LittleEndian.PutUint64(b, v)
	return 8
}

func putHeader(b []byte, p *profile, h Header) {
	copy(b, Magic)
	b[4] = byte(h.Ident.Class)
	b[5] = byte(h.Ident.Data)
	b[6] = h.Ident.ABIVersion
	b[7] = byte(h.Ident.OSABI)
	le := binary.LittleEndian
	le.PutUint16(b[16:], uint16(h.Type))
	le.PutUint16(b[18:], uint16(h.Machine))
	le.PutUint32(b[20:], uint32(h.Version))
	off := 24
	off += putWord(b[off:], p, h.Entry)
	off += putWord(b[off:], p, h.ProgramOffset)
	off += putWord(b[off:], p, h.SectionOffset)
	le.PutUint32(b[off:], h.Flags)
	off += 4
	for _, v := range []uint16{h.HeaderSize, h.ProgramEntrySize, h.ProgramCount,
		h.SectionEntrySize, h.SectionCount, h.SectionNameIndex} {
		le.PutUint16(b[off:], v)
		off += 2
	}
}

func putSegment(b []byte, p *profile, s Segment) {
	le := binary.LittleEndian
	le.PutUint32(b, uint32(s.Type))
	off := 4
	if !p.segmentFlagsLast {
		le.PutUint32(b[off:], uint32(s.Flags))
		off += 4
	}
	for _, v := range []uint64{s.Offset, s.Vaddr, s.Paddr, s.Filesz, s.Memsz} {
		off += putWord(b[off:], p, v)
	}
	if p.segmentFlagsLast {
		le.PutUint32(b[off:], uint32(s.Flags))
		off += 4
	}
	putWord(b[off:], p, s.Align)
}

func putSection(b []byte, p *profile, s Section) {
	le := binary.LittleEndian
	le.PutUint32(b, s.Name)
	le.PutUint32(b[4:], uint32(s.Type))
	off := 8
	for _, v := range []uint64{uint64(s.Flags), s.Addr, s.Offset, s.Size} {
		off += putWord(b[off:], p, v)
	}
	le.PutUint32(b[off:], s.Link)
	le.PutUint32(b[off+4:], s.Info)
	off += 8
	off += putWord(b[off:], p, s.Addralign)
	putWord(b[off:], p, s.Entsize)
}

// testObject describes a synthetic object. build lays it out as
// header | program headers | strtab | section headers, filling in the
// header offsets, counts and sizes.
type testObject struct {
	class    Class
	segments []Segment
	sections []Section
	strtab   []byte
	// strtabIndex, when > 0, is the index of the section whose offset and
	// size are rewritten to point at strtab.
	strtabIndex uint16
}

func (o testObject) profile() *profile { return profileFor(o.class) }

// layout returns where the program headers, the string table and the
// section headers are placed, and the total object size.
func (o testObject) layout() (phoff, strtabOff, shoff, size uint64) {
	p := o.profile()
	phoff = uint64(p.headerSize)
	strtabOff = phoff + uint64(len(o.segments))*uint64(p.segmentSize)
	shoff = strtabOff + uint64(len(o.strtab))
	size = shoff + uint64(len(o.sections))*uint64(p.sectionSize)
	return
}

func (o testObject) header() Header {
	p := o.profile()
	phoff, _, shoff, _ := o.layout()
	// Empty tables are conventionally placed at offset zero.
	if len(o.segments) == 0 {
		phoff = 0
	}
	if len(o.sections) == 0 {
		shoff = 0
	}
	h := Header{
		Ident: Ident{
			Class: o.class,
			Data:  ELFDATA2LSB,
			OSABI: ELFOSABI_LINUX,
		},
		Type:             ET_DYN,
		Machine:          EM_X86_64,
		Version:          EV_CURRENT,
		Entry:            0x401000,
		ProgramOffset:    phoff,
		SectionOffset:    shoff,
		HeaderSize:       p.headerSize,
		ProgramEntrySize: p.segmentSize,
		ProgramCount:     uint16(len(o.segments)),
		SectionEntrySize: p.sectionSize,
		SectionCount:     uint16(len(o.sections)),
		SectionNameIndex: o.strtabIndex,
	}
	if o.class == ELFCLASS32 {
		h.Machine = EM_386
	}
	return h
}

func (o testObject) build(tb testing.TB) ([]byte, Header) {
	tb.Helper()
	h := o.header()
	return o.buildWith(tb, h), h
}

// buildWith serialises the object with an explicit, possibly inconsistent,
// header. The buffer is sized to hold everything the object itself holds.
func (o testObject) buildWith(tb testing.TB, h Header) []byte {
	tb.Helper()
	p := o.profile()
	phoff, strtabOff, shoff, size := o.layout()
	buf := make([]byte, size)
	putHeader(buf, p, h)

	for i, s := range o.segments {
		putSegment(buf[int(phoff)+i*int(p.segmentSize):], p, s)
	}
	copy(buf[strtabOff:], o.strtab)
	for i, s := range o.sections {
		if o.strtabIndex > 0 && i == int(o.strtabIndex) {
			s.Offset = strtabOff
			s.Size = uint64(len(o.strtab))
		}
		putSection(buf[int(shoff)+i*int(p.sectionSize):], p, s)
	}
	return buf
}

// namedObject is a small object with a NULL section, .text, .data and the
// section name string table.
func namedObject(class Class) testObject {
	return testObject{
		class: class,
		segments: []Segment{
			{Type: PT_PHDR, Flags: PF_R, Offset: 0x40, Align: 8},
			{Type: PT_LOAD, Flags: PF_R | PF_X, Vaddr: 0x400000, Paddr: 0x400000, Filesz: 0x1000, Memsz: 0x1000, Align: 0x1000},
			{Type: PT_GNU_STACK, Flags: PF_R | PF_W},
		},
		sections: []Section{
			{},
			{Name: 1, Type: SHT_PROGBITS, Flags: SHF_ALLOC | SHF_EXECINSTR, Addr: 0x401000, Addralign: 16},
			{Name: 7, Type: SHT_PROGBITS, Flags: SHF_ALLOC | SHF_WRITE, Addr: 0x402000, Addralign: 8},
			{Name: 13, Type: SHT_STRTAB, Addralign: 1},
		},
		strtab:      []byte("\x00.text\x00.data\x00.shstrtab\x00"),
		strtabIndex: 3,
	}
}

// wantSections returns the section headers as build writes them.
func (o testObject) wantSections() []Section {
	_, strtabOff, _, _ := o.layout()
	out := make([]Section, len(o.sections))
	copy(out, o.sections)
	if o.strtabIndex > 0 && int(o.strtabIndex) < len(out) {
		out[o.strtabIndex].Offset = strtabOff
		out[o.strtabIndex].Size = uint64(len(o.strtab))
	}
	return out
}
