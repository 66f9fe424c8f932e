package graph

import "errors"

//*******************************************
// enums
//*******************************************

type TransportMode byte

const (
	METRO TransportMode = iota
	BUS
	TRAIN
	AUTO
	WALK
	SHARED_AUTO
	CYCLE_RICKSHAW
	SHARED_TEMPO
	WALKING_SHORTCUT
)

var mode_names = [...]string{
	"metro", "bus", "train", "auto", "walk",
	"shared_auto", "cycle_rickshaw", "shared_tempo", "walking_shortcut",
}

func (self TransportMode) String() string {
	if int(self) < len(mode_names) {
		return mode_names[self]
	}
	return "unknown"
}

func ModeFromString(s string) (TransportMode, error) {
	for i, name := range mode_names {
		if name == s {
			return TransportMode(i), nil
		}
	}
	return 0, errors.New("unknown transport mode: " + s)
}

// IsWalking reports whether the mode is traversed on foot and thus
// needs no schedule.
func (self TransportMode) IsWalking() bool {
	return self == WALK || self == WALKING_SHORTCUT
}

// IsInformal reports whether the mode comes from the informal
// transport feed rather than the static schedule feed.
func (self TransportMode) IsInformal() bool {
	switch self {
	case SHARED_AUTO, CYCLE_RICKSHAW, SHARED_TEMPO, WALKING_SHORTCUT:
		return true
	}
	return false
}
