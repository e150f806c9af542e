// Package settings holds the default analysis parameters and the stores that
// persist them.
//
// Parameters are loaded once at startup and passed explicitly to the
// components that need them; stores are only touched on load and on an
// explicit save.
package settings

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Flat keys used by every store.
const (
	KeySamplingInterval = "dt"
	KeyTimeUnit         = "time_unit"
	KeyCutOffPeriod     = "cut_off"
	KeyWindowSize       = "wsize"
	KeyPeriodMin        = "Tmin"
	KeyPeriodMax        = "Tmax"
	KeyPeriodCount      = "nT"
	KeyPowerMax         = "pow_max"
)

// Keys lists all parameter keys in display order.
var Keys = []string{
	KeySamplingInterval, KeyTimeUnit, KeyCutOffPeriod, KeyWindowSize,
	KeyPeriodMin, KeyPeriodMax, KeyPeriodCount, KeyPowerMax,
}

// Input limits taken over from the parameter dialog.
const (
	MaxSamplingInterval = 99999
	MaxPeriodCount      = 10000
)

// Parameters are the default values offered for a new analysis.
// Optional values are nil when unset.
type Parameters struct {
	// SamplingInterval is the time between two recordings.
	SamplingInterval float64 `json:"dt" yaml:"dt"`
	// TimeUnit labels the time axis.
	TimeUnit string `json:"time_unit" yaml:"time_unit"`

	// CutOffPeriod: larger periods are removed by the sinc filter.
	CutOffPeriod *float64 `json:"cut_off,omitempty" yaml:"cut_off,omitempty"`
	// WindowSize is used for amplitude envelope estimation.
	WindowSize *float64 `json:"wsize,omitempty" yaml:"wsize,omitempty"`

	// PeriodMin and PeriodMax bound the wavelet transform.
	PeriodMin *float64 `json:"Tmin,omitempty" yaml:"Tmin,omitempty"`
	PeriodMax *float64 `json:"Tmax,omitempty" yaml:"Tmax,omitempty"`
	// PeriodCount is the spectral resolution on the period axis.
	PeriodCount int `json:"nT" yaml:"nT"`

	// PowerMax scales the colormap of the spectra.
	PowerMax *float64 `json:"pow_max,omitempty" yaml:"pow_max,omitempty"`
}

// Defaults returns the parameters used when nothing has been stored.
func Defaults() Parameters {
	return Parameters{
		SamplingInterval: 1,
		TimeUnit:         "min",
		PeriodCount:      200,
	}
}

// Validate checks all values and reports every failure at once.
func (p Parameters) Validate() error {
	var errs []string

	if !finite(p.SamplingInterval) || p.SamplingInterval <= 0 || p.SamplingInterval > MaxSamplingInterval {
		errs = append(errs, fmt.Sprintf("%s (%g) must be in (0, %d]", KeySamplingInterval, p.SamplingInterval, MaxSamplingInterval))
	}
	if strings.TrimSpace(p.TimeUnit) == "" {
		errs = append(errs, fmt.Sprintf("%s must not be empty", KeyTimeUnit))
	}
	if p.PeriodCount < 0 || p.PeriodCount > MaxPeriodCount {
		errs = append(errs, fmt.Sprintf("%s (%d) must be in [0, %d]", KeyPeriodCount, p.PeriodCount, MaxPeriodCount))
	}

	for _, opt := range []struct {
		key string
		val *float64
	}{
		{KeyCutOffPeriod, p.CutOffPeriod},
		{KeyWindowSize, p.WindowSize},
		{KeyPeriodMin, p.PeriodMin},
		{KeyPeriodMax, p.PeriodMax},
		{KeyPowerMax, p.PowerMax},
	} {
		switch {
		case opt.val == nil:
		case !finite(*opt.val):
			errs = append(errs, fmt.Sprintf("%s (%g) must be a finite number", opt.key, *opt.val))
		case *opt.val <= 0:
			errs = append(errs, fmt.Sprintf("%s (%g) must be positive", opt.key, *opt.val))
		}
	}

	if p.PeriodMin != nil && p.PeriodMax != nil && finite(*p.PeriodMin) && finite(*p.PeriodMax) && *p.PeriodMin >= *p.PeriodMax {
		errs = append(errs, fmt.Sprintf("%s (%g) must be smaller than %s (%g)", KeyPeriodMin, *p.PeriodMin, KeyPeriodMax, *p.PeriodMax))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid parameters:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ToMap flattens p into string values. Unset optional values are omitted.
func (p Parameters) ToMap() map[string]string {
	m := map[string]string{
		KeySamplingInterval: formatFloat(p.SamplingInterval),
		KeyTimeUnit:         p.TimeUnit,
		KeyPeriodCount:      strconv.Itoa(p.PeriodCount),
	}
	setOpt := func(key string, v *float64) {
		if v != nil {
			m[key] = formatFloat(*v)
		}
	}
	setOpt(KeyCutOffPeriod, p.CutOffPeriod)
	setOpt(KeyWindowSize, p.WindowSize)
	setOpt(KeyPeriodMin, p.PeriodMin)
	setOpt(KeyPeriodMax, p.PeriodMax)
	setOpt(KeyPowerMax, p.PowerMax)
	return m
}

// FromMap builds parameters from flat values on top of Defaults.
// Unknown keys are ignored; an empty value clears an optional parameter.
func FromMap(m map[string]string) (Parameters, error) {
	p := Defaults()
	for key, raw := range m {
		if err := p.Set(key, raw); err != nil {
			return Parameters{}, err
		}
	}
	return p, nil
}

// Set assigns a single value by key. Unknown keys are ignored.
func (p *Parameters) Set(key, raw string) error {
	raw = strings.TrimSpace(raw)

	switch key {
	case KeySamplingInterval:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", key, raw, err)
		}
		p.SamplingInterval = v
	case KeyTimeUnit:
		p.TimeUnit = raw
	case KeyPeriodCount:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", key, raw, err)
		}
		p.PeriodCount = v
	case KeyCutOffPeriod:
		return setOptional(&p.CutOffPeriod, key, raw)
	case KeyWindowSize:
		return setOptional(&p.WindowSize, key, raw)
	case KeyPeriodMin:
		return setOptional(&p.PeriodMin, key, raw)
	case KeyPeriodMax:
		return setOptional(&p.PeriodMax, key, raw)
	case KeyPowerMax:
		return setOptional(&p.PowerMax, key, raw)
	}
	return nil
}

func setOptional(dst **float64, key, raw string) error {
	if raw == "" {
		*dst = nil
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s=%q: %w", key, raw, err)
	}
	*dst = &v
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
