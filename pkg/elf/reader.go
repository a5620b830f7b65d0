package elf

import (
	"encoding/binary"

	"golang.org/x/exp/constraints"
)

// reader is a little-endian cursor over an immutable buffer. Every read is
// length checked, a short buffer yields ErrTruncated and never a panic.
type reader struct {
	buf []byte
	off int
}

func newReader(buf []byte, off int) *reader {
	return &reader{buf: buf, off: off}
}

func (r *reader) need(n int, field string) error {
	if r.off < 0 || r.off > len(r.buf) || len(r.buf)-r.off < n {
		return newError(ErrTruncated, field, r.off, 0)
	}
	return nil
}

func (r *reader) u8(field string) (uint8, error) {
	if err := r.need(1, field); err != nil {
		return 0, err
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

func (r *reader) u16(field string) (uint16, error) {
	if err := r.need(2, field); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

func (r *reader) u32(field string) (uint32, error) {
	if err := r.need(4, field); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) u64(field string) (uint64, error) {
	if err := r.need(8, field); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v, nil
}

// word reads an address-sized field: 4 bytes for ELF32, 8 for ELF64.
func (r *reader) word(p *profile, field string) (uint64, error) {
	if p.addrSize == 4 {
		v, err := r.u32(field)
		return uint64(v), err
	}
	return r.u64(field)
}

func (r *reader) skip(n int, field string) error {
	if err := r.need(n, field); err != nil {
		return err
	}
	r.off += n
	return nil
}

// enumeration is implemented by every closed enumeration of the format.
// known reports whether the raw value names a member, either from the table
// of known constants or from a documented reserved range.
type enumeration interface {
	known() bool
}

// decodeEnum maps a raw integer onto an enumeration, failing on values the
// enumeration does not know about. off is the position the value was read from.
func decodeEnum[E interface {
	constraints.Unsigned
	enumeration
}, V constraints.Unsigned](v V, field string, off int) (E, error) {
	e := E(v)
	if uint64(e) != uint64(v) || !e.known() {
		return 0, newError(ErrUnknownEnumValue, field, off, uint64(v))
	}
	return e, nil
}

// decodeFlags maps a raw integer onto a bitflag set whose known bits are
// mask. Bits outside mask are rejected, not masked away.
func decodeFlags[F constraints.Unsigned, V constraints.Unsigned](v V, mask uint64, field string, off int) (F, error) {
	if unknown := uint64(v) &^ mask; unknown != 0 {
		return 0, newError(ErrUnknownFlagBits, field, off, unknown)
	}
	return F(v), nil
}
