package elf

// SegmentType is p_type.
type SegmentType uint32

const (
	PT_NULL         SegmentType = 0
	PT_LOAD         SegmentType = 1
	PT_DYNAMIC      SegmentType = 2
	PT_INTERP       SegmentType = 3
	PT_NOTE         SegmentType = 4
	PT_SHLIB        SegmentType = 5
	PT_PHDR         SegmentType = 6
	PT_TLS          SegmentType = 7
	PT_LOOS         SegmentType = 0x60000000
	PT_GNU_EH_FRAME SegmentType = 0x6474e550
	PT_GNU_STACK    SegmentType = 0x6474e551
	PT_GNU_RELRO    SegmentType = 0x6474e552
	PT_GNU_PROPERTY SegmentType = 0x6474e553
	PT_SUNWBSS      SegmentType = 0x6ffffffa
	PT_SUNWSTACK    SegmentType = 0x6ffffffb
	PT_HIOS         SegmentType = 0x6fffffff
	PT_LOPROC       SegmentType = 0x70000000
	PT_HIPROC       SegmentType = 0x7fffffff
)

var segmentTypeStrings = []intName{
	{0, "PT_NULL"},
	{1, "PT_LOAD"},
	{2, "PT_DYNAMIC"},
	{3, "PT_INTERP"},
	{4, "PT_NOTE"},
	{5, "PT_SHLIB"},
	{6, "PT_PHDR"},
	{7, "PT_TLS"},
	{0x6474e550, "PT_GNU_EH_FRAME"},
	{0x6474e551, "PT_GNU_STACK"},
	{0x6474e552, "PT_GNU_RELRO"},
	{0x6474e553, "PT_GNU_PROPERTY"},
	{0x6ffffffa, "PT_SUNWBSS"},
	{0x6ffffffb, "PT_SUNWSTACK"},
}

// Reserved reports whether t lies in the OS or processor specific range.
func (t SegmentType) Reserved() bool { return t >= PT_LOOS && t <= PT_HIPROC }

func (t SegmentType) known() bool {
	_, ok := lookupName(uint64(t), segmentTypeStrings)
	return ok || t.Reserved()
}

func (t SegmentType) String() string {
	if s, ok := lookupName(uint64(t), segmentTypeStrings); ok {
		return s
	}
	switch {
	case t >= PT_LOPROC && t <= PT_HIPROC:
		return reservedName(uint64(t), uint64(PT_LOPROC), "PT_LOPROC")
	case t >= PT_LOOS && t <= PT_HIOS:
		return reservedName(uint64(t), uint64(PT_LOOS), "PT_LOOS")
	}
	return stringName(uint64(t), nil)
}

// SegmentFlag is the p_flags bit set.
type SegmentFlag uint32

const (
	PF_X SegmentFlag = 0x1
	PF_W SegmentFlag = 0x2
	PF_R SegmentFlag = 0x4

	segmentFlagMask = uint64(PF_X | PF_W | PF_R)
)

var segmentFlagStrings = []intName{
	{0x1, "PF_X"},
	{0x2, "PF_W"},
	{0x4, "PF_R"},
}

func (f SegmentFlag) String() string { return flagName(uint64(f), segmentFlagStrings) }

// Segment is one program header table entry.
type Segment struct {
	Type   SegmentType
	Flags  SegmentFlag
	Offset uint64
	Vaddr  uint64
	Paddr  uint64
	Filesz uint64
	Memsz  uint64
	Align  uint64
}

func decodeSegment(buf []byte, off int, p *profile) (Segment, error) {
	var s Segment
	r := newReader(buf, off)
	if err := r.need(int(p.segmentSize), "program header"); err != nil {
		return s, err
	}

	raw, err := r.u32("p_type")
	if err != nil {
		return s, err
	}
	if s.Type, err = decodeEnum[SegmentType](raw, "p_type", off); err != nil {
		return s, err
	}

	flags := func() error {
		at := r.off
		v, err := r.u32("p_flags")
		if err != nil {
			return err
		}
		s.Flags, err = decodeFlags[SegmentFlag](v, segmentFlagMask, "p_flags", at)
		return err
	}

	if !p.segmentFlagsLast {
		if err = flags(); err != nil {
			return s, err
		}
	}
	for _, f := range []struct {
		name string
		dst  *uint64
	}{
		{"p_offset", &s.Offset},
		{"p_vaddr", &s.Vaddr},
		{"p_paddr", &s.Paddr},
		{"p_filesz", &s.Filesz},
		{"p_memsz", &s.Memsz},
	} {
		if *f.dst, err = r.word(p, f.name); err != nil {
			return s, err
		}
	}
	if p.segmentFlagsLast {
		if err = flags(); err != nil {
			return s, err
		}
	}
	if s.Align, err = r.word(p, "p_align"); err != nil {
		return s, err
	}
	return s, nil
}
