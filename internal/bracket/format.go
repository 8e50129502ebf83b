package bracket

import (
	"fmt"
	"log/slog"
	"strings"
)

type Format string

const (
	SingleElimination Format = "single_elimination"
	RoundRobin        Format = "round_robin"
	Swiss             Format = "swiss"
	DoubleElimination Format = "double_elimination"
	SaboDE16          Format = "sabo_de16"
	SaboDE32          Format = "sabo_de32"
)

var topologies = map[Format]Topology{
	SingleElimination: singleElimination{},
	RoundRobin:        roundRobin{},
	Swiss:             swiss{},
	DoubleElimination: doubleElimination{},
	SaboDE16:          saboDE16{},
	SaboDE32:          saboDE32{},
}

func (f Format) Valid() bool {
	_, ok := topologies[f]
	return ok
}

func (f Format) IsSabo() bool {
	return f == SaboDE16 || f == SaboDE32
}

// TopologyFor is the strict lookup, it never falls back.
func TopologyFor(f Format) (Topology, error) {
	t, ok := topologies[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	return t, nil
}

// ParseFormat normalizes a format tag the way organizers type it ("Double Elimination", "SABO-DE16", ...).
// Unknown tags degrade to single elimination with a warning instead of failing.
func ParseFormat(tag string) Format {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)

	switch normalized {
	case "single", "single_elim", "elimination":
		return SingleElimination
	case "double", "double_elim", "de":
		return DoubleElimination
	case "de16", "sabo16":
		return SaboDE16
	case "de32", "sabo32":
		return SaboDE32
	}

	f := Format(normalized)
	if f.Valid() {
		return f
	}

	slog.Warn("unknown tournament format, falling back to single elimination", "format", tag)
	return SingleElimination
}

var poolGameTypes = map[string]struct{}{
	"8-ball":  {},
	"9-ball":  {},
	"10-ball": {},
}

// FormatForGame picks a bracket for a pool game type when the organizer did not choose one.
// SABO brackets only exist for 16 and 32 players, anything else plays plain double elimination.
func FormatForGame(gameType string, participantCount int) Format {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(gameType), " ", "-"))
	if _, ok := poolGameTypes[normalized]; !ok {
		slog.Warn("unknown game type, falling back to single elimination", "game_type", gameType)
		return SingleElimination
	}

	switch participantCount {
	case 16:
		return SaboDE16
	case 32:
		return SaboDE32
	default:
		return DoubleElimination
	}
}
