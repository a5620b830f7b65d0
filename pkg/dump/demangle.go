package dump

import (
	"fmt"
	"strings"

	"github.com/ianlancetaylor/demangle"
)

type DemangleType string

const (
	DemangleNone       DemangleType = "none"
	DemangleSimplified DemangleType = "simplified"
	DemangleTemplates  DemangleType = "templates"
	DemangleFull       DemangleType = "full"
)

func ParseDemangleType(s string) (DemangleType, error) {
	switch dt := DemangleType(s); dt {
	case DemangleNone, DemangleSimplified, DemangleTemplates, DemangleFull:
		return dt, nil
	}
	return "", fmt.Errorf("unknown demangle type %q", s)
}

func (dt DemangleType) ToOptions() []demangle.Option {
	switch dt {
	case DemangleSimplified:
		return []demangle.Option{demangle.NoParams, demangle.NoEnclosingParams, demangle.NoTemplateParams}
	case DemangleTemplates:
		return []demangle.Option{demangle.NoParams, demangle.NoEnclosingParams}
	default:
		return []demangle.Option{demangle.NoClones}
	}
}

// sectionName demangles the symbol suffix of per-function sections such as
// ".text._ZN3foo3barEv", produced by -ffunction-sections.
func (dt DemangleType) sectionName(name string) string {
	if dt == DemangleNone || name == "" {
		return name
	}
	i := strings.Index(name[1:], ".")
	if i < 0 {
		return name
	}
	prefix, sym := name[:i+2], name[i+2:]
	if !strings.HasPrefix(sym, "_Z") && !strings.HasPrefix(sym, "_R") {
		return name
	}
	return prefix + demangle.Filter(sym, dt.ToOptions()...)
}
