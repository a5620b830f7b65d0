package elf

import (
	"fmt"
	"unicode/utf8"

	"github.com/golang/glog"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// File is a fully decoded ELF object. It borrows the buffer it was parsed
// from and never modifies it; the caller must keep the buffer alive and
// unchanged for as long as the File is used. A File is safe for concurrent
// readers.
type File struct {
	header   Header
	segments []Segment
	sections []Section
	data     []byte
}

// Parse decodes buf as a little-endian ELF object of either class. Either
// the whole object decodes or an error is returned; no partial File is ever
// produced.
func Parse(buf []byte) (*File, error) {
	id, err := ParseIdent(buf)
	if err != nil {
		return nil, err
	}
	p, err := selectProfile(id)
	if err != nil {
		return nil, err
	}
	return parse(buf, id, p)
}

// ParseAs decodes buf with the layout of class c. The identification must
// agree with c.
func ParseAs(buf []byte, c Class) (*File, error) {
	id, err := ParseIdent(buf)
	if err != nil {
		return nil, err
	}
	if id.Class != c {
		return nil, newError(ErrUnsupported, "class", 4, uint64(id.Class))
	}
	p, err := selectProfile(id)
	if err != nil {
		return nil, err
	}
	return parse(buf, id, p)
}

func parse(buf []byte, id Ident, p *profile) (*File, error) {
	h, err := decodeHeader(buf, id, p)
	if err != nil {
		return nil, err
	}
	glog.V(4).Infof("Decoding %s object: %d program headers at 0x%x, %d section headers at 0x%x",
		id.Class, h.ProgramCount, h.ProgramOffset, h.SectionCount, h.SectionOffset)

	// Offsets below fit in int: decodeHeader bounded both tables by len(buf).
	segments := make([]Segment, h.ProgramCount)
	for i := range segments {
		off := int(h.ProgramOffset) + i*int(p.segmentSize)
		if segments[i], err = decodeSegment(buf, off, p); err != nil {
			return nil, fmt.Errorf("program header %d: %w", i, err)
		}
	}

	sections := make([]Section, h.SectionCount)
	for i := range sections {
		off := int(h.SectionOffset) + i*int(p.sectionSize)
		if sections[i], err = decodeSection(buf, off, p); err != nil {
			return nil, fmt.Errorf("section header %d: %w", i, err)
		}
	}

	return &File{
		header:   h,
		segments: segments,
		sections: sections,
		data:     buf,
	}, nil
}

func (f *File) Header() Header { return f.header }

func (f *File) Class() Class { return f.header.Ident.Class }

func (f *File) NumSegments() int { return len(f.segments) }

func (f *File) NumSections() int { return len(f.sections) }

// Segment returns the i-th program header. ok is false when i is out of range.
func (f *File) Segment(i int) (Segment, bool) {
	if i < 0 || i >= len(f.segments) {
		return Segment{}, false
	}
	return f.segments[i], true
}

// Section returns the i-th section header. ok is false when i is out of range.
func (f *File) Section(i int) (Section, bool) {
	if i < 0 || i >= len(f.sections) {
		return Section{}, false
	}
	return f.sections[i], true
}

// Segments returns a copy of the program header table in file order.
func (f *File) Segments() []Segment { return slices.Clone(f.segments) }

// Sections returns a copy of the section header table in file order.
func (f *File) Sections() []Section { return slices.Clone(f.sections) }

// Bytes returns the buffer the File was decoded from. It must not be modified.
func (f *File) Bytes() []byte { return f.data }

// Data returns the n bytes at off, borrowed from the original buffer. ok is
// false if the range is not entirely inside the buffer.
func (f *File) Data(off, n uint64) ([]byte, bool) {
	end := off + n
	if end < off || end > uint64(len(f.data)) {
		return nil, false
	}
	return f.data[off:end:end], true
}

// SectionData returns the file contents of section i. SHT_NOBITS sections
// occupy no file space and yield a nil slice.
func (f *File) SectionData(i int) ([]byte, error) {
	s, ok := f.Section(i)
	if !ok {
		return nil, newError(ErrIndexOutOfRange, "section index", 0, uint64(i))
	}
	if s.Type == SHT_NOBITS {
		return nil, nil
	}
	b, ok := f.Data(s.Offset, s.Size)
	if !ok {
		return nil, newError(ErrTruncated, "section data", int(min(s.Offset, uint64(len(f.data)))), s.Size)
	}
	return b, nil
}

// SegmentData returns the file image of segment i (p_filesz bytes at p_offset).
func (f *File) SegmentData(i int) ([]byte, error) {
	s, ok := f.Segment(i)
	if !ok {
		return nil, newError(ErrIndexOutOfRange, "segment index", 0, uint64(i))
	}
	b, ok := f.Data(s.Offset, s.Filesz)
	if !ok {
		return nil, newError(ErrTruncated, "segment data", int(min(s.Offset, uint64(len(f.data)))), s.Filesz)
	}
	return b, nil
}

// SectionName resolves the name of section i through the section name string
// table designated by the header.
func (f *File) SectionName(i int) (string, error) {
	s, ok := f.Section(i)
	if !ok {
		return "", newError(ErrIndexOutOfRange, "section index", 0, uint64(i))
	}
	return f.sectionName(s)
}

func (f *File) sectionName(s Section) (string, error) {
	idx := f.header.SectionNameIndex
	if idx == 0 {
		return "", newError(ErrInvalidName, "section name table", 0, 0)
	}
	strtab, ok := f.Section(int(idx))
	if !ok {
		return "", newError(ErrIndexOutOfRange, "section name table index", 0, uint64(idx))
	}
	return f.stringAt(strtab, s.Name)
}

// stringAt reads the NUL terminated string at off in the string table
// section strtab. The search never leaves the section nor the buffer.
func (f *File) stringAt(strtab Section, off uint32) (string, error) {
	size := uint64(len(f.data))
	start, end := strtab.Offset, strtab.Offset+strtab.Size
	if end < start || end > size {
		end = size
	}
	pos := start + uint64(off)
	if pos < start || pos >= end {
		return "", newError(ErrInvalidName, "section name", int(min(start, size)), uint64(off))
	}
	run := f.data[pos:end]
	n := slices.Index(run, 0)
	if n < 0 {
		return "", newError(ErrInvalidName, "section name", int(pos), uint64(off))
	}
	if !utf8.Valid(run[:n]) {
		return "", newError(ErrInvalidName, "section name", int(pos), uint64(off))
	}
	return string(run[:n]), nil
}

// SectionNames resolves every section name in table order.
func (f *File) SectionNames() ([]string, error) {
	names := make([]string, len(f.sections))
	for i, s := range f.sections {
		name, err := f.sectionName(s)
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}
		names[i] = name
	}
	return names, nil
}

// SectionByName returns the index of the first section called name.
func (f *File) SectionByName(name string) (int, bool) {
	_, idx, ok := lo.FindIndexOf(f.sections, func(s Section) bool {
		n, err := f.sectionName(s)
		return err == nil && n == name
	})
	return idx, ok
}

// SectionsByType returns the indexes of all sections of type t.
func (f *File) SectionsByType(t SectionType) []int {
	return lo.FilterMap(f.sections, func(s Section, i int) (int, bool) {
		return i, s.Type == t
	})
}

// SegmentsByType returns the indexes of all segments of type t.
func (f *File) SegmentsByType(t SegmentType) []int {
	return lo.FilterMap(f.segments, func(s Segment, i int) (int, bool) {
		return i, s.Type == t
	})
}
