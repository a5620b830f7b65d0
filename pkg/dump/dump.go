// Package dump renders decoded ELF objects as text.
package dump

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/vietanhduong/elfdecode/pkg/elf"
	"github.com/vietanhduong/elfdecode/pkg/image"
)

type Options struct {
	Demangle DemangleType
	// Skip the program and section header tables.
	HeaderOnly bool
}

var (
	title = color.New(color.Bold).SprintfFunc()
	value = color.New(color.FgCyan).SprintFunc()
	bad   = color.New(color.Bold, color.FgRed).SprintFunc()
)

// Dump writes the identification, header, program headers and section
// headers of f to w.
func Dump(w io.Writer, f *elf.File, opts Options) error {
	h := f.Header()
	info := image.New(f).Info()

	fmt.Fprintln(w, title("ELF Header:"))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, kv := range [][2]any{
		{"Class", h.Ident.Class},
		{"Data", h.Ident.Data},
		{"OS/ABI", h.Ident.OSABI},
		{"Ident Version", h.Ident.ABIVersion},
		{"Type", h.Type},
		{"Machine", h.Machine},
		{"Version", h.Version},
		{"Entry point", fmt.Sprintf("0x%x", h.Entry)},
		{"Program headers", fmt.Sprintf("%d at 0x%x", h.ProgramCount, h.ProgramOffset)},
		{"Section headers", fmt.Sprintf("%d at 0x%x", h.SectionCount, h.SectionOffset)},
		{"Flags", fmt.Sprintf("0x%x", h.Flags)},
		{"Section name table", h.SectionNameIndex},
		{"Platform", fmt.Sprintf("%s/%s", info.OS, info.Arch)},
	} {
		fmt.Fprintf(tw, "  %s:\t%s\n", kv[0], value(kv[1]))
	}
	if id, ok := f.BuildID(); ok {
		fmt.Fprintf(tw, "  Build ID:\t%s (%s)\n", value(id.ID), id.Type)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if opts.HeaderOnly {
		return nil
	}

	if err := dumpSegments(w, f); err != nil {
		return err
	}
	return dumpSections(w, f, opts)
}

func dumpSegments(w io.Writer, f *elf.File) error {
	fmt.Fprintf(w, "\n%s\n", title("Program Headers:"))
	if f.NumSegments() == 0 {
		fmt.Fprintln(w, "  There are no program headers in this file.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  Type\tOffset\tVirtAddr\tPhysAddr\tFileSiz\tMemSiz\tFlags\tAlign")
	for _, s := range f.Segments() {
		fmt.Fprintf(tw, "  %s\t0x%06x\t0x%016x\t0x%016x\t0x%06x\t0x%06x\t%s\t0x%x\n",
			s.Type, s.Offset, s.Vaddr, s.Paddr, s.Filesz, s.Memsz, s.Flags, s.Align)
	}
	return tw.Flush()
}

func dumpSections(w io.Writer, f *elf.File, opts Options) error {
	fmt.Fprintf(w, "\n%s\n", title("Section Headers:"))
	if f.NumSections() == 0 {
		fmt.Fprintln(w, "  There are no sections in this file.")
		return nil
	}
	im := image.New(f)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  [Nr]\tName\tType\tAddress\tOffset\tSize\tProt\tFlags")
	// Colour codes would count as cell width, so name errors are reported
	// below the table.
	var nameErrs []string
	for i, s := range f.Sections() {
		name, err := f.SectionName(i)
		if err != nil {
			name = "<invalid>"
			nameErrs = append(nameErrs, fmt.Sprintf("section %d: %v", i, err))
		} else {
			name = opts.Demangle.sectionName(name)
		}
		prot, _ := im.SectionFlags(i)
		fmt.Fprintf(tw, "  [%2d]\t%s\t%s\t0x%016x\t0x%06x\t0x%06x\t%s\t%s\n",
			i, name, s.Type, s.Addr, s.Offset, s.Size, prot, s.Flags)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, e := range nameErrs {
		fmt.Fprintf(w, "  %s\n", bad(e))
	}
	return nil
}
