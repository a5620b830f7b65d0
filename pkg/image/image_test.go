package image

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanhduong/elfdecode/pkg/elf"
)

// buildObject lays out a little-endian ELF64 object with a NULL section,
// .text, .data, .bss and the section name table, and no program headers.
func buildObject(tb testing.TB, osabi elf.OSABI, machine elf.Machine) []byte {
	tb.Helper()
	le := binary.LittleEndian
	strtab := []byte("\x00.text\x00.data\x00.bss\x00.shstrtab\x00")
	const (
		headerSize  = 64
		sectionSize = 64
	)
	strtabOff := uint64(headerSize)
	shoff := strtabOff + uint64(len(strtab))
	sections := []struct {
		name   uint32
		typ    elf.SectionType
		flags  elf.SectionFlag
		offset uint64
		size   uint64
	}{
		{},
		{1, elf.SHT_PROGBITS, elf.SHF_ALLOC | elf.SHF_EXECINSTR, 0, 16},
		{7, elf.SHT_PROGBITS, elf.SHF_ALLOC | elf.SHF_WRITE, 16, 8},
		{13, elf.SHT_NOBITS, elf.SHF_ALLOC | elf.SHF_WRITE, 24, 0x100},
		{18, elf.SHT_STRTAB, 0, strtabOff, uint64(len(strtab))},
	}

	buf := make([]byte, shoff+uint64(len(sections))*sectionSize)
	copy(buf, elf.Magic)
	buf[4] = byte(elf.ELFCLASS64)
	buf[5] = byte(elf.ELFDATA2LSB)
	buf[7] = byte(osabi)
	le.PutUint16(buf[16:], uint16(elf.ET_EXEC))
	le.PutUint16(buf[18:], uint16(machine))
	le.PutUint32(buf[20:], uint32(elf.EV_CURRENT))
	le.PutUint64(buf[40:], shoff)
	le.PutUint16(buf[52:], headerSize)
	le.PutUint16(buf[54:], 56)
	le.PutUint16(buf[58:], sectionSize)
	le.PutUint16(buf[60:], uint16(len(sections)))
	le.PutUint16(buf[62:], uint16(len(sections)-1))
	copy(buf[strtabOff:], strtab)

	for i, s := range sections {
		b := buf[shoff+uint64(i)*sectionSize:]
		le.PutUint32(b, s.name)
		le.PutUint32(b[4:], uint32(s.typ))
		le.PutUint64(b[8:], uint64(s.flags))
		le.PutUint64(b[24:], s.offset)
		le.PutUint64(b[32:], s.size)
	}
	return buf
}

func newImage(tb testing.TB, osabi elf.OSABI, machine elf.Machine) Image {
	tb.Helper()
	f, err := elf.Parse(buildObject(tb, osabi, machine))
	require.NoError(tb, err)
	return New(f)
}

func TestImageSections(t *testing.T) {
	im := newImage(t, elf.ELFOSABI_LINUX, elf.EM_X86_64)
	require.Equal(t, 5, im.NumSections())

	type section struct {
		Name   string
		Prot   string
		Offset uint64
		Size   uint64
	}
	var got []section
	for i := 0; i < im.NumSections(); i++ {
		name, ok := im.SectionName(i)
		require.True(t, ok)
		prot, ok := im.SectionFlags(i)
		require.True(t, ok)
		off, ok := im.SectionOffset(i)
		require.True(t, ok)
		size, ok := im.SectionSize(i)
		require.True(t, ok)
		got = append(got, section{name, prot.String(), off, size})
	}
	want := []section{
		{"", "r--", 0, 0},
		{".text", "r-x", 0, 16},
		{".data", "rw-", 16, 8},
		{".bss", "rw-", 24, 0x100},
		{".shstrtab", "r--", 64, 28},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestImageOutOfRange(t *testing.T) {
	im := newImage(t, elf.ELFOSABI_LINUX, elf.EM_X86_64)
	for _, i := range []int{-1, 5, 1 << 20} {
		_, ok := im.SectionFlags(i)
		assert.False(t, ok)
		_, ok = im.SectionOffset(i)
		assert.False(t, ok)
		_, ok = im.SectionSize(i)
		assert.False(t, ok)
		_, ok = im.SectionName(i)
		assert.False(t, ok)
	}
}

func TestImageData(t *testing.T) {
	im := newImage(t, elf.ELFOSABI_LINUX, elf.EM_X86_64)

	b, ok := im.Data(0, 4)
	require.True(t, ok)
	assert.Equal(t, elf.Magic, b)

	b, ok = im.Data(64, 6)
	require.True(t, ok)
	assert.Equal(t, "\x00.text", string(b))

	_, ok = im.Data(0, 1<<40)
	assert.False(t, ok)
	_, ok = im.Data(^uint64(0), 2)
	assert.False(t, ok)
}

func TestImageInfo(t *testing.T) {
	tests := []struct {
		osabi   elf.OSABI
		machine elf.Machine
		want    Info
	}{
		{elf.ELFOSABI_LINUX, elf.EM_X86_64, Info{"linux", "amd64", 64}},
		{elf.ELFOSABI_NONE, elf.EM_AARCH64, Info{"linux", "arm64", 64}},
		{elf.ELFOSABI_FREEBSD, elf.EM_RISCV, Info{"freebsd", "riscv64", 64}},
		{elf.ELFOSABI_ARM, elf.EM_ARM, Info{"unknown", "arm", 64}},
		{elf.ELFOSABI_LINUX, elf.EM_VAX, Info{"linux", "EM_VAX", 64}},
	}
	for _, tt := range tests {
		t.Run(tt.want.Arch, func(t *testing.T) {
			im := newImage(t, tt.osabi, tt.machine)
			assert.Equal(t, tt.want, im.Info())
		})
	}
}

func TestProtString(t *testing.T) {
	assert.Equal(t, "---", Prot(0).String())
	assert.Equal(t, "r--", ProtRead.String())
	assert.Equal(t, "rwx", (ProtRead | ProtWrite | ProtExec).String())
	assert.Equal(t, "--x", ProtExec.String())
}
