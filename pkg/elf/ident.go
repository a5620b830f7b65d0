package elf

import "bytes"

// Magic is the tag every ELF object starts with.
var Magic = []byte{0x7f, 'E', 'L', 'F'}

const IdentSize = 16

// Class is EI_CLASS, the address width of the object.
type Class uint8

const (
	ELFCLASSNONE Class = 0
	ELFCLASS32   Class = 1
	ELFCLASS64   Class = 2
)

var classStrings = []intName{
	{0, "ELFCLASSNONE"},
	{1, "ELFCLASS32"},
	{2, "ELFCLASS64"},
}

func (c Class) known() bool    { _, ok := lookupName(uint64(c), classStrings); return ok }
func (c Class) String() string { return stringName(uint64(c), classStrings) }

// Bits returns the address width, 0 for ELFCLASSNONE.
func (c Class) Bits() int {
	switch c {
	case ELFCLASS32:
		return 32
	case ELFCLASS64:
		return 64
	}
	return 0
}

// Data is EI_DATA, the byte order of the object.
type Data uint8

const (
	ELFDATANONE Data = 0
	ELFDATA2LSB Data = 1
	ELFDATA2MSB Data = 2
)

var dataStrings = []intName{
	{0, "ELFDATANONE"},
	{1, "ELFDATA2LSB"},
	{2, "ELFDATA2MSB"},
}

func (d Data) known() bool    { _, ok := lookupName(uint64(d), dataStrings); return ok }
func (d Data) String() string { return stringName(uint64(d), dataStrings) }

// OSABI is EI_OSABI.
type OSABI uint8

const (
	ELFOSABI_NONE       OSABI = 0
	ELFOSABI_HPUX       OSABI = 1
	ELFOSABI_NETBSD     OSABI = 2
	ELFOSABI_LINUX      OSABI = 3
	ELFOSABI_SOLARIS    OSABI = 6
	ELFOSABI_AIX        OSABI = 7
	ELFOSABI_IRIX       OSABI = 8
	ELFOSABI_FREEBSD    OSABI = 9
	ELFOSABI_TRU64      OSABI = 10
	ELFOSABI_MODESTO    OSABI = 11
	ELFOSABI_OPENBSD    OSABI = 12
	ELFOSABI_OPENVMS    OSABI = 13
	ELFOSABI_NSK        OSABI = 14
	ELFOSABI_AROS       OSABI = 15
	ELFOSABI_FENIXOS    OSABI = 16
	ELFOSABI_CLOUDABI   OSABI = 17
	ELFOSABI_OPENVOS    OSABI = 18
	ELFOSABI_ARM_AEABI  OSABI = 64
	ELFOSABI_ARM        OSABI = 97
	ELFOSABI_STANDALONE OSABI = 255
)

var osabiStrings = []intName{
	{0, "ELFOSABI_NONE"},
	{1, "ELFOSABI_HPUX"},
	{2, "ELFOSABI_NETBSD"},
	{3, "ELFOSABI_LINUX"},
	{6, "ELFOSABI_SOLARIS"},
	{7, "ELFOSABI_AIX"},
	{8, "ELFOSABI_IRIX"},
	{9, "ELFOSABI_FREEBSD"},
	{10, "ELFOSABI_TRU64"},
	{11, "ELFOSABI_MODESTO"},
	{12, "ELFOSABI_OPENBSD"},
	{13, "ELFOSABI_OPENVMS"},
	{14, "ELFOSABI_NSK"},
	{15, "ELFOSABI_AROS"},
	{16, "ELFOSABI_FENIXOS"},
	{17, "ELFOSABI_CLOUDABI"},
	{18, "ELFOSABI_OPENVOS"},
	{64, "ELFOSABI_ARM_AEABI"},
	{97, "ELFOSABI_ARM"},
	{255, "ELFOSABI_STANDALONE"},
}

func (o OSABI) known() bool    { _, ok := lookupName(uint64(o), osabiStrings); return ok }
func (o OSABI) String() string { return stringName(uint64(o), osabiStrings) }

// Ident is the 16 byte identification prefix shared by both widths.
type Ident struct {
	Class      Class
	Data       Data
	// ABIVersion is byte 6, the gABI's EI_VERSION slot. It is not
	// validated. EI_ABIVERSION (byte 8) is padding to this decoder.
	ABIVersion uint8
	OSABI      OSABI
}

// ParseIdent decodes the identification prefix. Only the magic tag and the
// enumerations are checked; byte order and class support are left to the
// header decoder.
func ParseIdent(buf []byte) (Ident, error) {
	var id Ident
	// A buffer too short to hold the tag cannot carry it either.
	if !bytes.HasPrefix(buf, Magic) {
		return id, newError(ErrBadMagic, "magic", 0, 0)
	}
	r := newReader(buf, len(Magic))

	var err error
	if id.Class, err = readEnum8[Class](r, "class"); err != nil {
		return id, err
	}
	if id.Data, err = readEnum8[Data](r, "data encoding"); err != nil {
		return id, err
	}
	if id.ABIVersion, err = r.u8("abi version"); err != nil {
		return id, err
	}
	if id.OSABI, err = readEnum8[OSABI](r, "os abi"); err != nil {
		return id, err
	}
	if err = r.skip(IdentSize-r.off, "ident padding"); err != nil {
		return id, err
	}
	return id, nil
}

func readEnum8[E interface {
	~uint8
	enumeration
}](r *reader, field string) (E, error) {
	off := r.off
	v, err := r.u8(field)
	if err != nil {
		return 0, err
	}
	return decodeEnum[E](v, field, off)
}
