package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/golang/glog"

	"github.com/vietanhduong/elfdecode/pkg/dump"
	"github.com/vietanhduong/elfdecode/pkg/elf"
	"github.com/vietanhduong/elfdecode/pkg/proc"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `%[1]s decodes and validates ELF objects.

Usage:
  %[1]s [flags] <path>...
  %[1]s [flags] -pid <pid>

Flags:
`, filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

func main() {
	var (
		pid        int
		modules    bool
		headerOnly bool
		noColor    bool
		demangling string
	)
	flag.IntVar(&pid, "pid", -1, "Decode the executable of this process")
	flag.BoolVar(&modules, "modules", false, "With -pid, also decode every object the process has mapped executable")
	flag.BoolVar(&headerOnly, "header-only", false, "Print only the ELF header")
	flag.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flag.StringVar(&demangling, "demangle", string(dump.DemangleFull), "Section name demangling: none, simplified, templates or full")
	flag.Usage = usage
	flag.Parse()
	defer glog.Flush()

	color.NoColor = color.NoColor || noColor
	dt, err := dump.ParseDemangleType(demangling)
	if err != nil {
		glog.Errorf("Invalid -demangle: %v", err)
		os.Exit(2)
	}
	opts := dump.Options{Demangle: dt, HeaderOnly: headerOnly}

	paths := flag.Args()
	if pid != -1 {
		targets, err := processObjects(pid, modules)
		if err != nil {
			glog.Errorf("Failed to inspect PID %d: %v", pid, err)
			glog.Flush()
			os.Exit(1)
		}
		paths = append(paths, targets...)
	}
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failed := 0
	for i, fpath := range paths {
		if len(paths) > 1 {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s\n\n", color.New(color.Bold, color.FgGreen).Sprint(fpath))
		}
		if err := dumpFile(fpath, opts); err != nil {
			glog.Errorf("Failed to decode %s: %v", fpath, err)
			failed++
		}
	}
	if failed > 0 {
		glog.Flush()
		os.Exit(1)
	}
}

func processObjects(pid int, withModules bool) ([]string, error) {
	glog.V(1).Infof("Inspecting PID %d", pid)
	ret := []string{proc.ExePath(pid)}
	if !withModules {
		return ret, nil
	}
	maps, err := proc.ParseMaps(pid)
	if err != nil {
		return nil, err
	}
	for _, name := range proc.Modules(maps) {
		ret = append(ret, proc.ModulePath(pid, name))
	}
	glog.V(2).Infof("PID %d maps %d executable objects", pid, len(ret)-1)
	return ret, nil
}

func dumpFile(fpath string, opts dump.Options) error {
	mf, err := elf.Open(fpath)
	if err != nil {
		return err
	}
	defer mf.Close()
	return dump.Dump(os.Stdout, mf.File, opts)
}
