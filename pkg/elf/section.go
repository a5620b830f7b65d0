package elf

// SectionType is sh_type.
type SectionType uint32

const (
	SHT_NULL           SectionType = 0
	SHT_PROGBITS       SectionType = 1
	SHT_SYMTAB         SectionType = 2
	SHT_STRTAB         SectionType = 3
	SHT_RELA           SectionType = 4
	SHT_HASH           SectionType = 5
	SHT_DYNAMIC        SectionType = 6
	SHT_NOTE           SectionType = 7
	SHT_NOBITS         SectionType = 8
	SHT_REL            SectionType = 9
	SHT_SHLIB          SectionType = 10
	SHT_DYNSYM         SectionType = 11
	SHT_INIT_ARRAY     SectionType = 14
	SHT_FINI_ARRAY     SectionType = 15
	SHT_PREINIT_ARRAY  SectionType = 16
	SHT_GROUP          SectionType = 17
	SHT_SYMTAB_SHNDX   SectionType = 18
	SHT_RELR           SectionType = 19
	SHT_LOOS           SectionType = 0x60000000
	SHT_GNU_ATTRIBUTES SectionType = 0x6ffffff5
	SHT_GNU_HASH       SectionType = 0x6ffffff6
	SHT_GNU_LIBLIST    SectionType = 0x6ffffff7
	SHT_CHECKSUM       SectionType = 0x6ffffff8
	SHT_SUNW_MOVE      SectionType = 0x6ffffffa
	SHT_SUNW_COMDAT    SectionType = 0x6ffffffb
	SHT_SUNW_SYMINFO   SectionType = 0x6ffffffc
	SHT_GNU_VERDEF     SectionType = 0x6ffffffd
	SHT_GNU_VERNEED    SectionType = 0x6ffffffe
	SHT_GNU_VERSYM     SectionType = 0x6fffffff
	SHT_HIOS           SectionType = 0x6fffffff
	SHT_LOPROC         SectionType = 0x70000000
	SHT_HIPROC         SectionType = 0x7fffffff
	SHT_LOUSER         SectionType = 0x80000000
	SHT_HIUSER         SectionType = 0x8fffffff
)

var sectionTypeStrings = []intName{
	{0, "SHT_NULL"},
	{1, "SHT_PROGBITS"},
	{2, "SHT_SYMTAB"},
	{3, "SHT_STRTAB"},
	{4, "SHT_RELA"},
	{5, "SHT_HASH"},
	{6, "SHT_DYNAMIC"},
	{7, "SHT_NOTE"},
	{8, "SHT_NOBITS"},
	{9, "SHT_REL"},
	{10, "SHT_SHLIB"},
	{11, "SHT_DYNSYM"},
	{14, "SHT_INIT_ARRAY"},
	{15, "SHT_FINI_ARRAY"},
	{16, "SHT_PREINIT_ARRAY"},
	{17, "SHT_GROUP"},
	{18, "SHT_SYMTAB_SHNDX"},
	{19, "SHT_RELR"},
	{0x6ffffff5, "SHT_GNU_ATTRIBUTES"},
	{0x6ffffff6, "SHT_GNU_HASH"},
	{0x6ffffff7, "SHT_GNU_LIBLIST"},
	{0x6ffffff8, "SHT_CHECKSUM"},
	{0x6ffffffa, "SHT_SUNW_MOVE"},
	{0x6ffffffb, "SHT_SUNW_COMDAT"},
	{0x6ffffffc, "SHT_SUNW_SYMINFO"},
	{0x6ffffffd, "SHT_GNU_VERDEF"},
	{0x6ffffffe, "SHT_GNU_VERNEED"},
	{0x6fffffff, "SHT_GNU_VERSYM"},
}

// Reserved reports whether t lies in the OS, processor or application
// specific range.
func (t SectionType) Reserved() bool { return t >= SHT_LOOS && t <= SHT_HIUSER }

func (t SectionType) known() bool {
	_, ok := lookupName(uint64(t), sectionTypeStrings)
	return ok || t.Reserved()
}

func (t SectionType) String() string {
	if s, ok := lookupName(uint64(t), sectionTypeStrings); ok {
		return s
	}
	switch {
	case t >= SHT_LOUSER && t <= SHT_HIUSER:
		return reservedName(uint64(t), uint64(SHT_LOUSER), "SHT_LOUSER")
	case t >= SHT_LOPROC && t <= SHT_HIPROC:
		return reservedName(uint64(t), uint64(SHT_LOPROC), "SHT_LOPROC")
	case t >= SHT_LOOS && t <= SHT_HIOS:
		return reservedName(uint64(t), uint64(SHT_LOOS), "SHT_LOOS")
	}
	return stringName(uint64(t), nil)
}

// SectionFlag is the sh_flags bit set.
type SectionFlag uint64

const (
	SHF_WRITE            SectionFlag = 0x1
	SHF_ALLOC            SectionFlag = 0x2
	SHF_EXECINSTR        SectionFlag = 0x4
	SHF_MERGE            SectionFlag = 0x10
	SHF_STRINGS          SectionFlag = 0x20
	SHF_INFO_LINK        SectionFlag = 0x40
	SHF_LINK_ORDER       SectionFlag = 0x80
	SHF_OS_NONCONFORMING SectionFlag = 0x100
	SHF_GROUP            SectionFlag = 0x200
	SHF_TLS              SectionFlag = 0x400
	SHF_COMPRESSED       SectionFlag = 0x800
	SHF_GNU_RETAIN       SectionFlag = 0x200000
	SHF_MASKOS           SectionFlag = 0x0ff00000
	SHF_ORDERED          SectionFlag = 0x40000000
	SHF_EXCLUDE          SectionFlag = 0x80000000
	SHF_MASKPROC         SectionFlag = 0xf0000000

	sectionFlagMask = uint64(SHF_WRITE | SHF_ALLOC | SHF_EXECINSTR | SHF_MERGE |
		SHF_STRINGS | SHF_INFO_LINK | SHF_LINK_ORDER | SHF_OS_NONCONFORMING |
		SHF_GROUP | SHF_TLS | SHF_COMPRESSED | SHF_MASKOS | SHF_MASKPROC)
)

// Named bits first so that String prefers them over the mask names.
var sectionFlagStrings = []intName{
	{0x1, "SHF_WRITE"},
	{0x2, "SHF_ALLOC"},
	{0x4, "SHF_EXECINSTR"},
	{0x10, "SHF_MERGE"},
	{0x20, "SHF_STRINGS"},
	{0x40, "SHF_INFO_LINK"},
	{0x80, "SHF_LINK_ORDER"},
	{0x100, "SHF_OS_NONCONFORMING"},
	{0x200, "SHF_GROUP"},
	{0x400, "SHF_TLS"},
	{0x800, "SHF_COMPRESSED"},
	{0x200000, "SHF_GNU_RETAIN"},
	{0x40000000, "SHF_ORDERED"},
	{0x80000000, "SHF_EXCLUDE"},
	{0x0ff00000, "SHF_MASKOS"},
	{0xf0000000, "SHF_MASKPROC"},
}

func (f SectionFlag) String() string { return flagName(uint64(f), sectionFlagStrings) }

// Section is one section header table entry. Name is the offset of the
// section name inside the section name string table.
type Section struct {
	Name      uint32
	Type      SectionType
	Flags     SectionFlag
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	Addralign uint64
	Entsize   uint64
}

func decodeSection(buf []byte, off int, p *profile) (Section, error) {
	var s Section
	r := newReader(buf, off)
	if err := r.need(int(p.sectionSize), "section header"); err != nil {
		return s, err
	}

	var err error
	if s.Name, err = r.u32("sh_name"); err != nil {
		return s, err
	}

	at := r.off
	raw, err := r.u32("sh_type")
	if err != nil {
		return s, err
	}
	if s.Type, err = decodeEnum[SectionType](raw, "sh_type", at); err != nil {
		return s, err
	}

	at = r.off
	flags, err := r.word(p, "sh_flags")
	if err != nil {
		return s, err
	}
	if s.Flags, err = decodeFlags[SectionFlag](flags, sectionFlagMask, "sh_flags", at); err != nil {
		return s, err
	}

	if s.Addr, err = r.word(p, "sh_addr"); err != nil {
		return s, err
	}
	if s.Offset, err = r.word(p, "sh_offset"); err != nil {
		return s, err
	}
	if s.Size, err = r.word(p, "sh_size"); err != nil {
		return s, err
	}
	if s.Link, err = r.u32("sh_link"); err != nil {
		return s, err
	}
	if s.Info, err = r.u32("sh_info"); err != nil {
		return s, err
	}
	if s.Addralign, err = r.word(p, "sh_addralign"); err != nil {
		return s, err
	}
	if s.Entsize, err = r.word(p, "sh_entsize"); err != nil {
		return s, err
	}
	return s, nil
}
