package elf

import (
	"fmt"
	"strings"
)

// intName is a (value, name) pair used by the String methods of the
// enumerations and flag sets.
type intName struct {
	i uint64
	s string
}

func lookupName(i uint64, names []intName) (string, bool) {
	for _, n := range names {
		if n.i == i {
			return n.s, true
		}
	}
	return "", false
}

func stringName(i uint64, names []intName) string {
	if s, ok := lookupName(i, names); ok {
		return s
	}
	return fmt.Sprintf("%d", i)
}

// reservedName renders a value inside a reserved range relative to the
// start of that range, e.g. "SHT_LOOS+0x5".
func reservedName(i uint64, base uint64, prefix string) string {
	if i == base {
		return prefix
	}
	return fmt.Sprintf("%s+0x%x", prefix, i-base)
}

func flagName(i uint64, names []intName) string {
	var parts []string
	for _, n := range names {
		if n.i != 0 && i&n.i == n.i {
			parts = append(parts, n.s)
			i &^= n.i
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("0x%x", i)
	}
	if i != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", i))
	}
	return strings.Join(parts, "+")
}
