package elf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	for _, class := range classes {
		t.Run(class.String(), func(t *testing.T) {
			o := namedObject(class)
			buf, want := o.build(t)
			h, err := ParseHeader(buf)
			require.NoError(t, err)
			if diff := cmp.Diff(want, h); diff != "" {
				t.Errorf("Header mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, class, h.Class())
		})
	}
}

func TestLayout(t *testing.T) {
	hdr, seg, sec, ok := Layout(ELFCLASS64)
	require.True(t, ok)
	assert.Equal(t, []uint16{64, 56, 64}, []uint16{hdr, seg, sec})

	hdr, seg, sec, ok = Layout(ELFCLASS32)
	require.True(t, ok)
	assert.Equal(t, []uint16{52, 32, 40}, []uint16{hdr, seg, sec})

	_, _, _, ok = Layout(ELFCLASSNONE)
	assert.False(t, ok)
}

func TestParseHeaderInvalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(h *Header, size uint64)
		wantErr error
		field   string
	}{
		{
			name:    "header size",
			mutate:  func(h *Header, _ uint64) { h.HeaderSize++ },
			wantErr: ErrInconsistentRecordSize,
			field:   "header size",
		},
		{
			name:    "program header entry size",
			mutate:  func(h *Header, _ uint64) { h.ProgramEntrySize = 64 },
			wantErr: ErrInconsistentRecordSize,
			field:   "program header entry size",
		},
		{
			name:    "section header entry size",
			mutate:  func(h *Header, _ uint64) { h.SectionEntrySize = 56 },
			wantErr: ErrInconsistentRecordSize,
			field:   "section header entry size",
		},
		{
			name:    "version none",
			mutate:  func(h *Header, _ uint64) { h.Version = EV_NONE },
			wantErr: ErrUnknownEnumValue,
			field:   "version",
		},
		{
			name:    "unknown machine",
			mutate:  func(h *Header, _ uint64) { h.Machine = 0x1234 },
			wantErr: ErrUnknownEnumValue,
			field:   "machine",
		},
		{
			name:    "unknown type",
			mutate:  func(h *Header, _ uint64) { h.Type = 5 },
			wantErr: ErrUnknownEnumValue,
			field:   "type",
		},
		{
			name:    "program header offset at end",
			mutate:  func(h *Header, size uint64) { h.ProgramOffset = size },
			wantErr: ErrTableOverflow,
			field:   "program header offset",
		},
		{
			name:    "section header offset past end",
			mutate:  func(h *Header, size uint64) { h.SectionOffset = size + 100 },
			wantErr: ErrTableOverflow,
			field:   "section header offset",
		},
		{
			name:    "section name index past count",
			mutate:  func(h *Header, _ uint64) { h.SectionNameIndex = h.SectionCount },
			wantErr: ErrIndexOutOfRange,
			field:   "section name table index",
		},
		{
			name:    "program headers overflow",
			mutate:  func(h *Header, _ uint64) { h.ProgramCount = 0xffff },
			wantErr: ErrTableOverflow,
			field:   "program headers",
		},
		{
			name:    "section headers overflow",
			mutate:  func(h *Header, _ uint64) { h.SectionCount++ },
			wantErr: ErrTableOverflow,
			field:   "section headers",
		},
		{
			name:    "tables overlap",
			mutate:  func(h *Header, _ uint64) { h.SectionOffset = h.ProgramOffset + 1 },
			wantErr: ErrTableOverlap,
		},
		{
			name:    "program table over section table",
			mutate:  func(h *Header, _ uint64) { h.ProgramOffset = h.SectionOffset },
			wantErr: ErrTableOverlap,
		},
	}
	for _, class := range classes {
		for _, tt := range tests {
			t.Run(class.String()+"/"+tt.name, func(t *testing.T) {
				o := namedObject(class)
				h := o.header()
				_, _, _, size := o.layout()
				tt.mutate(&h, size)
				buf := o.buildWith(t, h)

				_, err := ParseHeader(buf)
				require.ErrorIs(t, err, tt.wantErr)
				if tt.field != "" {
					var de *DecodeError
					require.ErrorAs(t, err, &de)
					assert.Equal(t, tt.field, de.Field)
				}

				f, err := Parse(buf)
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, f)
			})
		}
	}
}

func TestParseHeaderAccepts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(h *Header)
	}{
		{"os specific type", func(h *Header) { h.Type = ET_LOOS + 3 }},
		{"processor specific type", func(h *Header) { h.Type = ET_HIPROC }},
		{"no section name table", func(h *Header) { h.SectionNameIndex = 0 }},
		{"last section is name table", func(h *Header) { h.SectionNameIndex = h.SectionCount - 1 }},
		{"any abi version", func(h *Header) { h.Ident.ABIVersion = 0x7f }},
		{"riscv", func(h *Header) { h.Machine = EM_RISCV }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := namedObject(ELFCLASS64)
			h := o.header()
			tt.mutate(&h)
			_, err := ParseHeader(o.buildWith(t, h))
			require.NoError(t, err)
		})
	}
}

func TestParseHeaderEmptyTables(t *testing.T) {
	for _, class := range classes {
		o := testObject{class: class}
		buf, want := o.build(t)
		require.Len(t, buf, int(want.HeaderSize))

		f, err := Parse(buf)
		require.NoError(t, err)
		assert.Equal(t, 0, f.NumSegments())
		assert.Equal(t, 0, f.NumSections())
	}
}
