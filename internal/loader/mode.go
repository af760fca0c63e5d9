package loader

import (
	"fmt"
	"strings"
)

// Mode selects how candidate columns are laid out in a CSV file.
type Mode int

const (
	// ModeStandard has one column per candidate, named after the candidate.
	ModeStandard Mode = iota
	// ModeCompact has positional "{i} label" / "{i} votes" column pairs.
	ModeCompact
)

// ParseMode converts a config value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard":
		return ModeStandard, nil
	case "compact":
		return ModeCompact, nil
	default:
		return ModeStandard, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeCompact:
		return "compact"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}
