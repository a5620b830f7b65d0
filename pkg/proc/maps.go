package proc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/samber/lo"
)

type Map struct {
	Name       string
	StartAddr  uint64
	EndAddr    uint64
	Perms      string
	FileOffset uint64
	DevMajor   uint64
	DevMinor   uint64
	Inode      uint64
}

func (m *Map) String() string {
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%s 0x%016x-0x%016x %s 0x%016x %x:%x %d",
		m.Name,
		m.StartAddr,
		m.EndAddr,
		m.Perms,
		m.FileOffset,
		m.DevMajor,
		m.DevMinor,
		m.Inode)
}

func (m *Map) Executable() bool { return len(m.Perms) == 4 && m.Perms[2] == 'x' }

// ParseMaps reads the executable, file backed mappings of pid.
func ParseMaps(pid int) ([]*Map, error) {
	mapfile := HostProcPath(strconv.Itoa(pid), "maps")
	f, err := os.Open(mapfile)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", mapfile, err)
	}
	defer f.Close()

	ret, err := parseMaps(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", mapfile, err)
	}
	return ret, nil
}

func parseMaps(r io.Reader) ([]*Map, error) {
	var ret []*Map
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		var m Map
		n, _ := fmt.Sscanf(line, "%x-%x %4s %x %x:%x %d",
			&m.StartAddr,
			&m.EndAddr,
			&m.Perms,
			&m.FileOffset,
			&m.DevMajor,
			&m.DevMinor,
			&m.Inode)
		if n != 7 {
			glog.V(2).Infof("Skipping malformed map line %q", line)
			continue
		}
		// The path is the sixth field and may itself contain spaces.
		if fields := strings.SplitN(line, " ", 6); len(fields) == 6 {
			m.Name = strings.TrimSpace(fields[5])
		}
		if !m.Executable() || isAnonymous(m.Name) {
			continue
		}
		ret = append(ret, &m)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Modules returns the distinct object paths of maps in first mapped order.
func Modules(maps []*Map) []string {
	return lo.Uniq(lo.Map(maps, func(m *Map, _ int) string { return m.Name }))
}

func isAnonymous(mapname string) bool {
	return mapname == "" ||
		strings.HasPrefix(mapname, "//anon") ||
		strings.HasPrefix(mapname, "/dev/zero") ||
		strings.HasPrefix(mapname, "/anon_hugepage") ||
		strings.HasPrefix(mapname, "[") ||
		strings.HasPrefix(mapname, "/SYSV") ||
		strings.HasPrefix(mapname, "/memfd:")
}
