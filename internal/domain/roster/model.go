package roster

import (
	"errors"
	"fmt"
)

type Flag string

const (
	FlagCaptain     Flag = "captain"
	FlagViceCaptain Flag = "vicecaptain"
	FlagBench       Flag = "bench"
)

var ErrUnknownFlag = errors.New("unknown roster flag")

const (
	multiplierCaptain     = 2.0
	multiplierViceCaptain = 1.5
	multiplierRegular     = 1.0
)

// Entry links a player to a fantasy team with its role flags.
type Entry struct {
	TeamID        int64
	PlayerID      string
	IsCaptain     bool
	IsViceCaptain bool
	IsBench       bool
}

// ApplyRoleUpdate sets one flag and clears the flags it excludes in the same
// step: captain or vice-captain clears bench, bench clears both captaincies.
func ApplyRoleUpdate(entry Entry, flag Flag, value bool) (Entry, error) {
	switch flag {
	case FlagCaptain:
		entry.IsCaptain = value
		if value {
			entry.IsBench = false
		}
	case FlagViceCaptain:
		entry.IsViceCaptain = value
		if value {
			entry.IsBench = false
		}
	case FlagBench:
		entry.IsBench = value
		if value {
			entry.IsCaptain = false
			entry.IsViceCaptain = false
		}
	default:
		return entry, fmt.Errorf("%w: %q", ErrUnknownFlag, flag)
	}
	return entry, nil
}

// Demotions lists the other entries of the same team that lose the flag
// when updated holds it, keeping one captain and one vice-captain per team.
func Demotions(entries []Entry, updated Entry, flag Flag) []Entry {
	var holds func(Entry) bool
	switch flag {
	case FlagCaptain:
		if !updated.IsCaptain {
			return nil
		}
		holds = func(e Entry) bool { return e.IsCaptain }
	case FlagViceCaptain:
		if !updated.IsViceCaptain {
			return nil
		}
		holds = func(e Entry) bool { return e.IsViceCaptain }
	default:
		return nil
	}

	var out []Entry
	for _, entry := range entries {
		if entry.TeamID != updated.TeamID || entry.PlayerID == updated.PlayerID || !holds(entry) {
			continue
		}
		demoted, _ := ApplyRoleUpdate(entry, flag, false)
		out = append(out, demoted)
	}
	return out
}

// Multiplier is the weight applied to the player's raw match points.
// Bench players do not score.
func (e Entry) Multiplier() float64 {
	switch {
	case e.IsBench:
		return 0
	case e.IsCaptain:
		return multiplierCaptain
	case e.IsViceCaptain:
		return multiplierViceCaptain
	default:
		return multiplierRegular
	}
}
