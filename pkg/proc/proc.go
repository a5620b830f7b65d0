package proc

import (
	"flag"
	"path"
	"strconv"

	"golang.org/x/sys/unix"
)

var (
	procPath = flag.String("proc-path", "/proc", "Path to proc directory")
	hostPath = flag.String("host-path", "/", "The host directory. Useful in container.")
)

func ProcPath(paths ...string) string {
	p := append([]string{*procPath}, paths...)
	return path.Join(p...)
}

func HostProcPath(paths ...string) string {
	if *hostPath == "" || *hostPath == "/" {
		return ProcPath(paths...)
	}
	p := append([]string{*hostPath, *procPath}, paths...)
	return path.Join(p...)
}

// ExePath returns the path through which the main executable of pid can be
// opened, even when it lives in another mount namespace or was deleted.
func ExePath(pid int) string { return HostProcPath(strconv.Itoa(pid), "exe") }

// ModulePath returns the path of a file mapped by pid as seen from the
// process's own root. If that path is not reachable, fpath is returned as is.
func ModulePath(pid int, fpath string) string {
	rooted := HostProcPath(strconv.Itoa(pid), "root", fpath)
	if unix.Access(rooted, unix.F_OK) != nil {
		return fpath
	}
	return rooted
}
