package simtemp

import "codeberg.org/mutker/simtempd/internal/errors"

// Mode selects the simulated signal source.
type Mode int

const (
	ModeNormal Mode = iota
	ModeNoisy
	ModeRamp
)

// Modes lists every valid mode in declaration order.
func Modes() []Mode {
	return []Mode{ModeNormal, ModeNoisy, ModeRamp}
}

// IsValid reports whether the mode is a member of the closed enumeration.
func (m Mode) IsValid() bool {
	switch m {
	case ModeNormal, ModeNoisy, ModeRamp:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeNoisy:
		return "noisy"
	case ModeRamp:
		return "ramp"
	default:
		return "invalid"
	}
}

// ParseMode maps a mode name to its Mode value. Unknown names are
// rejected with an invalid-mode error.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "normal":
		return ModeNormal, nil
	case "noisy":
		return ModeNoisy, nil
	case "ramp":
		return ModeRamp, nil
	default:
		errFactory := errors.New()
		return ModeNormal, errFactory.WithData(ErrInvalidMode, name)
	}
}
