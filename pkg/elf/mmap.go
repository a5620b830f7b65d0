package elf

import (
	"fmt"
	"io"
	"os"

	bufra "github.com/avvmoto/buf-readerat"
	"github.com/golang/glog"
	"golang.org/x/sys/unix"
)

const readerBufSize = 64 << 10

// MappedFile is a File decoded from a read-only memory mapping of a file on
// disk. The mapping backs the File and every slice it hands out, so none of
// them may be used after Close. The mapping is only released by Close: the
// garbage collector cannot see references into it.
type MappedFile struct {
	*File

	fpath string
	mem   []byte
}

// Open maps fpath read-only and decodes it.
func Open(fpath string) (*MappedFile, error) {
	f, err := os.OpenFile(fpath, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open elf file %s: %w", fpath, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", fpath, err)
	}
	if !st.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: not a regular file", fpath)
	}
	if st.Size() == 0 {
		// A zero length mapping is rejected by the kernel.
		return nil, fmt.Errorf("%s: %w", fpath, ErrBadMagic)
	}
	if int64(int(st.Size())) != st.Size() {
		return nil, fmt.Errorf("%s: file too large to map", fpath)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, int(st.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", fpath, err)
	}
	glog.V(5).Infof("Mapped %s (%d bytes)", fpath, len(mem))

	this := &MappedFile{fpath: fpath, mem: mem}
	if this.File, err = Parse(mem); err != nil {
		this.Close()
		return nil, fmt.Errorf("parse %s: %w", fpath, err)
	}
	return this, nil
}

func (mf *MappedFile) FilePath() string { return mf.fpath }

// Close releases the mapping. It is safe to call more than once.
func (mf *MappedFile) Close() {
	if mf.mem == nil {
		return
	}
	if err := unix.Munmap(mf.mem); err != nil {
		glog.Errorf("Failed to unmap %s: %v", mf.fpath, err)
	}
	glog.V(5).Infof("Unmapped %s", mf.fpath)
	mf.mem = nil
	mf.File = nil
}

// ReadFrom copies the first size bytes of r into memory and decodes them.
// It serves sources that cannot be mapped, such as pipes wrapped in a
// ReaderAt or objects embedded in a larger file.
func ReadFrom(r io.ReaderAt, size int64) (*File, error) {
	if size < 0 || int64(int(size)) != size {
		return nil, fmt.Errorf("invalid object size %d", size)
	}
	buf := make([]byte, size)
	br := bufra.NewBufReaderAt(r, readerBufSize)
	if _, err := io.ReadFull(io.NewSectionReader(br, 0, size), buf); err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return Parse(buf)
}
