package elf

// profile describes the fixed layout of one address width. The decoders are
// written once against a profile instead of once per width.
type profile struct {
	class       Class
	addrSize    int
	headerSize  uint16
	segmentSize uint16
	sectionSize uint16
	// ELF32 program headers carry p_flags after p_memsz, ELF64 right after
	// p_type.
	segmentFlagsLast bool
}

var (
	profile32 = &profile{
		class:            ELFCLASS32,
		addrSize:         4,
		headerSize:       52,
		segmentSize:      32,
		sectionSize:      40,
		segmentFlagsLast: true,
	}
	profile64 = &profile{
		class:       ELFCLASS64,
		addrSize:    8,
		headerSize:  64,
		segmentSize: 56,
		sectionSize: 64,
	}
)

func profileFor(c Class) *profile {
	switch c {
	case ELFCLASS32:
		return profile32
	case ELFCLASS64:
		return profile64
	}
	return nil
}

// Layout reports the fixed record sizes for a class: file header, program
// header entry and section header entry. ok is false for ELFCLASSNONE.
func Layout(c Class) (header, segment, section uint16, ok bool) {
	p := profileFor(c)
	if p == nil {
		return 0, 0, 0, false
	}
	return p.headerSize, p.segmentSize, p.sectionSize, true
}
