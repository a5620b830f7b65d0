// Package image presents a decoded ELF object as a loadable image: a flat
// list of sections with protections, file extents and names, plus a byte
// range accessor into the underlying buffer.
package image

import (
	"strings"

	"github.com/vietanhduong/elfdecode/pkg/elf"
)

type Prot uint8

const (
	ProtExec  Prot = 1
	ProtWrite Prot = 2
	ProtRead  Prot = 4
)

func (p Prot) String() string {
	var sb strings.Builder
	for _, b := range []struct {
		bit Prot
		c   byte
	}{{ProtRead, 'r'}, {ProtWrite, 'w'}, {ProtExec, 'x'}} {
		if p&b.bit != 0 {
			sb.WriteByte(b.c)
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// Info identifies the platform an image was built for.
type Info struct {
	OS   string
	Arch string
	Bits int
}

// Image is the section level view of an object. Every index based accessor
// reports false for an index outside [0, NumSections()).
type Image interface {
	NumSections() int
	SectionFlags(i int) (Prot, bool)
	SectionOffset(i int) (uint64, bool)
	SectionSize(i int) (uint64, bool)
	SectionName(i int) (string, bool)
	Data(start, n uint64) ([]byte, bool)
	Info() Info
}

type elfImage struct {
	f    *elf.File
	info Info
}

// New returns the image view of f. The view reads f lazily and shares its
// buffer.
func New(f *elf.File) Image {
	h := f.Header()
	info := Info{
		OS:   osName(h.Ident.OSABI),
		Arch: archName(h.Machine, h.Class()),
		Bits: h.Class().Bits(),
	}
	return &elfImage{f: f, info: info}
}

func (im *elfImage) NumSections() int { return im.f.NumSections() }

func (im *elfImage) SectionFlags(i int) (Prot, bool) {
	s, ok := im.f.Section(i)
	if !ok {
		return 0, false
	}
	return protOf(s.Flags), true
}

func (im *elfImage) SectionOffset(i int) (uint64, bool) {
	s, ok := im.f.Section(i)
	return s.Offset, ok
}

func (im *elfImage) SectionSize(i int) (uint64, bool) {
	s, ok := im.f.Section(i)
	return s.Size, ok
}

func (im *elfImage) SectionName(i int) (string, bool) {
	name, err := im.f.SectionName(i)
	if err != nil {
		return "", false
	}
	return name, true
}

func (im *elfImage) Data(start, n uint64) ([]byte, bool) { return im.f.Data(start, n) }

func (im *elfImage) Info() Info { return im.info }

func protOf(flags elf.SectionFlag) Prot {
	p := ProtRead
	if flags&elf.SHF_WRITE != 0 {
		p |= ProtWrite
	}
	if flags&elf.SHF_EXECINSTR != 0 {
		p |= ProtExec
	}
	return p
}
