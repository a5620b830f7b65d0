package elf

// Header is the decoded file header. Width dependent fields are widened to
// 64 bits so both classes share one representation.
type Header struct {
	Ident            Ident
	Type             Type
	Machine          Machine
	Version          Version
	Entry            uint64
	ProgramOffset    uint64
	SectionOffset    uint64
	Flags            uint32
	HeaderSize       uint16
	ProgramEntrySize uint16
	ProgramCount     uint16
	SectionEntrySize uint16
	SectionCount     uint16
	SectionNameIndex uint16
}

// ParseHeader decodes and validates the file header of buf. The class is
// taken from the identification prefix.
func ParseHeader(buf []byte) (Header, error) {
	id, err := ParseIdent(buf)
	if err != nil {
		return Header{}, err
	}
	p, err := selectProfile(id)
	if err != nil {
		return Header{}, err
	}
	return decodeHeader(buf, id, p)
}

func selectProfile(id Ident) (*profile, error) {
	if id.Data != ELFDATA2LSB {
		return nil, newError(ErrUnsupported, "data encoding", 5, uint64(id.Data))
	}
	p := profileFor(id.Class)
	if p == nil {
		return nil, newError(ErrUnsupported, "class", 4, uint64(id.Class))
	}
	return p, nil
}

func decodeHeader(buf []byte, id Ident, p *profile) (Header, error) {
	h := Header{Ident: id}
	r := newReader(buf, IdentSize)

	var err error
	off := r.off
	raw16, err := r.u16("type")
	if err != nil {
		return h, err
	}
	if h.Type, err = decodeEnum[Type](raw16, "type", off); err != nil {
		return h, err
	}

	off = r.off
	if raw16, err = r.u16("machine"); err != nil {
		return h, err
	}
	if h.Machine, err = decodeEnum[Machine](raw16, "machine", off); err != nil {
		return h, err
	}

	off = r.off
	raw32, err := r.u32("version")
	if err != nil {
		return h, err
	}
	if h.Version, err = decodeEnum[Version](raw32, "version", off); err != nil {
		return h, err
	}

	if h.Entry, err = r.word(p, "entry"); err != nil {
		return h, err
	}

	off = r.off
	if h.ProgramOffset, err = r.word(p, "program header offset"); err != nil {
		return h, err
	}
	if h.ProgramOffset >= uint64(len(buf)) {
		return h, newError(ErrTableOverflow, "program header offset", off, h.ProgramOffset)
	}

	off = r.off
	if h.SectionOffset, err = r.word(p, "section header offset"); err != nil {
		return h, err
	}
	if h.SectionOffset >= uint64(len(buf)) {
		return h, newError(ErrTableOverflow, "section header offset", off, h.SectionOffset)
	}

	if h.Flags, err = r.u32("flags"); err != nil {
		return h, err
	}

	fields := []struct {
		name string
		dst  *uint16
	}{
		{"header size", &h.HeaderSize},
		{"program header entry size", &h.ProgramEntrySize},
		{"program header count", &h.ProgramCount},
		{"section header entry size", &h.SectionEntrySize},
		{"section header count", &h.SectionCount},
		{"section name table index", &h.SectionNameIndex},
	}
	for _, f := range fields {
		if *f.dst, err = r.u16(f.name); err != nil {
			return h, err
		}
	}

	if err = h.checkSizes(p); err != nil {
		return h, err
	}
	if h.SectionNameIndex != 0 && h.SectionNameIndex >= h.SectionCount {
		return h, newError(ErrIndexOutOfRange, "section name table index", r.off-2, uint64(h.SectionNameIndex))
	}
	if err = checkTables(h.tables(), uint64(len(buf))); err != nil {
		return h, err
	}
	return h, nil
}

// checkSizes rejects headers that describe a record layout other than the
// fixed one of their class. Offsets are those of e_ehsize, e_phentsize and
// e_shentsize.
func (h *Header) checkSizes(p *profile) error {
	base := int(p.headerSize) - 12
	switch {
	case h.HeaderSize != p.headerSize:
		return newError(ErrInconsistentRecordSize, "header size", base, uint64(h.HeaderSize))
	case h.ProgramEntrySize != p.segmentSize:
		return newError(ErrInconsistentRecordSize, "program header entry size", base+2, uint64(h.ProgramEntrySize))
	case h.SectionEntrySize != p.sectionSize:
		return newError(ErrInconsistentRecordSize, "section header entry size", base+6, uint64(h.SectionEntrySize))
	}
	return nil
}

func (h *Header) tables() tableLayout {
	return tableLayout{
		ProgramOffset:    h.ProgramOffset,
		ProgramCount:     h.ProgramCount,
		ProgramEntrySize: h.ProgramEntrySize,
		SectionOffset:    h.SectionOffset,
		SectionCount:     h.SectionCount,
		SectionEntrySize: h.SectionEntrySize,
	}
}

// Class is a shortcut for h.Ident.Class.
func (h *Header) Class() Class { return h.Ident.Class }
