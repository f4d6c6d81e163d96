package world

import "fmt"

// Faction is the allegiance of a unit or structure. The numeric values
// are part of the persisted state and must not change.
type Faction uint8

const (
	FactionInvalid Faction = 0

	FactionRed   Faction = 1
	FactionGreen Faction = 2
	FactionBlue  Faction = 3

	// FactionAncient marks neutral structures that take no part in
	// combat and are never valid targets.
	FactionAncient Faction = 4
)

func (f Faction) String() string {
	switch f {
	case FactionRed:
		return "r"
	case FactionGreen:
		return "g"
	case FactionBlue:
		return "b"
	case FactionAncient:
		return "a"
	default:
		return "invalid"
	}
}

// FactionFromString parses the short faction code used in scenario and
// catalog files.
func FactionFromString(s string) (Faction, error) {
	switch s {
	case "r":
		return FactionRed, nil
	case "g":
		return FactionGreen, nil
	case "b":
		return FactionBlue, nil
	case "a":
		return FactionAncient, nil
	default:
		return FactionInvalid, fmt.Errorf("invalid faction %q", s)
	}
}
