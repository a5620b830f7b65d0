package image

import "github.com/vietanhduong/elfdecode/pkg/elf"

var osNames = map[elf.OSABI]string{
	elf.ELFOSABI_NONE:       "linux",
	elf.ELFOSABI_LINUX:      "linux",
	elf.ELFOSABI_HPUX:       "hpux",
	elf.ELFOSABI_NETBSD:     "netbsd",
	elf.ELFOSABI_SOLARIS:    "solaris",
	elf.ELFOSABI_AIX:        "aix",
	elf.ELFOSABI_IRIX:       "irix",
	elf.ELFOSABI_FREEBSD:    "freebsd",
	elf.ELFOSABI_TRU64:      "tru64",
	elf.ELFOSABI_OPENBSD:    "openbsd",
	elf.ELFOSABI_OPENVMS:    "openvms",
	elf.ELFOSABI_CLOUDABI:   "cloudabi",
	elf.ELFOSABI_STANDALONE: "standalone",
}

// osName maps the ABI byte to an operating system name. SYSV objects carry
// ELFOSABI_NONE and are reported as linux, which is what produces them in
// practice.
func osName(abi elf.OSABI) string {
	if s, ok := osNames[abi]; ok {
		return s
	}
	return "unknown"
}

type archNames struct{ bits32, bits64 string }

// Names follow GOARCH where Go has a port.
var arches = map[elf.Machine]archNames{
	elf.EM_386:       {"386", "386"},
	elf.EM_X86_64:    {"amd64p32", "amd64"},
	elf.EM_ARM:       {"arm", "arm"},
	elf.EM_AARCH64:   {"arm64", "arm64"},
	elf.EM_RISCV:     {"riscv", "riscv64"},
	elf.EM_MIPS:      {"mipsle", "mips64le"},
	elf.EM_PPC:       {"ppcle", "ppcle"},
	elf.EM_PPC64:     {"ppc64le", "ppc64le"},
	elf.EM_S390:      {"s390", "s390x"},
	elf.EM_SPARCV9:   {"sparc64", "sparc64"},
	elf.EM_LOONGARCH: {"loong32", "loong64"},
	elf.EM_BPF:       {"bpf", "bpf"},
}

func archName(m elf.Machine, c elf.Class) string {
	a, ok := arches[m]
	if !ok {
		return m.String()
	}
	if c == elf.ELFCLASS32 {
		return a.bits32
	}
	return a.bits64
}
