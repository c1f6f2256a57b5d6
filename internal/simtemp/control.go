package simtemp

import (
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/mutker/simtempd/internal/errors"
)

// Attribute names of the textual key/value control surface. Whatever
// operator mechanism sits outside the core (sysfs-like files, CLI,
// TUI) talks to the device through these.
const (
	AttrSamplingMS  = "sampling_ms"
	AttrThresholdMC = "threshold_mC"
	AttrMode        = "mode"
	AttrStats       = "stats"
)

// Attrs lists every attribute the control surface exposes.
func Attrs() []string {
	return []string{AttrSamplingMS, AttrThresholdMC, AttrMode, AttrStats}
}

// Attr returns the textual value of one control attribute.
func (d *Device) Attr(name string) (string, error) {
	switch name {
	case AttrSamplingMS:
		return strconv.FormatUint(uint64(d.SamplingMS()), 10), nil
	case AttrThresholdMC:
		return strconv.FormatInt(int64(d.Threshold()), 10), nil
	case AttrMode:
		return d.Mode().String(), nil
	case AttrStats:
		st := d.Stats()
		return fmt.Sprintf("updates=%d alerts=%d last_error=%d", st.Updates, st.Alerts, st.LastError), nil
	default:
		errFactory := errors.New()
		return "", errFactory.WithData(ErrUnknownAttribute, name)
	}
}

// SetAttr parses and applies one textual control write. Malformed
// input is rejected before any state changes; the prior value and the
// stats counters are untouched.
func (d *Device) SetAttr(name, value string) error {
	errFactory := errors.New()
	value = strings.TrimSpace(value)

	switch name {
	case AttrSamplingMS:
		ms, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return errFactory.Wrap(ErrInvalidPeriod, err)
		}
		return d.SetSamplingMS(uint32(ms))
	case AttrThresholdMC:
		milliC, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return errFactory.Wrap(ErrInvalidThreshold, err)
		}
		d.SetThreshold(int32(milliC))
		return nil
	case AttrMode:
		mode, err := ParseMode(value)
		if err != nil {
			return err
		}
		return d.SetMode(mode)
	case AttrStats:
		return errFactory.WithData(ErrReadOnlyAttr, name)
	default:
		return errFactory.WithData(ErrUnknownAttribute, name)
	}
}
