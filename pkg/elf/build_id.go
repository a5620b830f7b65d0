package elf

import (
	"bytes"
	"encoding/hex"
)

type BuildIDType string

const (
	BuildIDGNU BuildIDType = "GNU"
	BuildIDGo  BuildIDType = "GO"
)

type BuildID struct {
	ID   string
	Type BuildIDType
}

// BuildID returns the GNU build id note of the object, falling back to the
// Go toolchain's build id.
func (f *File) BuildID() (BuildID, bool) {
	if id, ok := f.gnuBuildID(); ok {
		return id, true
	}
	return f.goBuildID()
}

func (f *File) noteData(name string) []byte {
	i, ok := f.SectionByName(name)
	if !ok {
		return nil
	}
	data, err := f.SectionData(i)
	if err != nil {
		return nil
	}
	return data
}

func (f *File) gnuBuildID() (BuildID, bool) {
	data := f.noteData(".note.gnu.build-id")
	if len(data) < 16 || !bytes.Equal([]byte("GNU\x00"), data[12:16]) {
		return BuildID{}, false
	}
	// 8 byte ids are xxhash, as produced on Container-Optimized OS.
	raw := data[16:]
	if len(raw) != 20 && len(raw) != 8 {
		return BuildID{}, false
	}
	return BuildID{hex.EncodeToString(raw), BuildIDGNU}, true
}

func (f *File) goBuildID() (BuildID, bool) {
	data := f.noteData(".note.go.buildid")
	if len(data) < 17 {
		return BuildID{}, false
	}
	id := data[16 : len(data)-1]
	if len(id) < 40 || bytes.Count(id, []byte("/")) < 2 || string(id) == "redacted" {
		return BuildID{}, false
	}
	return BuildID{string(id), BuildIDGo}, true
}
