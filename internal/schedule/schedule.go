// Package schedule resolves the sampling grid for each satellite.
package schedule

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/san-kum/sgp4check/internal/config"
	"github.com/san-kum/sgp4check/internal/epoch"
	"github.com/san-kum/sgp4check/internal/sgp4"
)

var (
	ErrInvalidGrid  = errors.New("invalid sampling grid")
	ErrManualInput  = errors.New("invalid manual input")
	ErrMissingInput = errors.New("manual grid not supplied")
)

// Grid is a sampling grid in minutes since epoch.
type Grid struct {
	Start float64 `json:"start" yaml:"start"`
	Stop  float64 `json:"stop" yaml:"stop"`
	Step  float64 `json:"step" yaml:"step"`
}

// CatalogGrid is used for every satellite in catalog-compare runs.
var CatalogGrid = Grid{Start: -1440.0, Stop: 1440.0, Step: 10.0}

func (g Grid) Validate() error {
	if !(g.Step > 0) {
		return fmt.Errorf("%w: step must be positive, got %f", ErrInvalidGrid, g.Step)
	}
	if g.Stop < g.Start {
		return fmt.Errorf("%w: stop %f before start %f", ErrInvalidGrid, g.Stop, g.Start)
	}
	return nil
}

// Offsets lists the sample offsets of g. They advance as Start+k*Step and
// the last one is clamped to Stop. An invalid grid has no offsets.
func (g Grid) Offsets() []float64 {
	if g.Validate() != nil {
		return nil
	}
	eps := g.Step * 1e-9
	out := []float64{g.Start}
	for k := 1; out[len(out)-1] < g.Stop; k++ {
		t := g.Start + float64(k)*g.Step
		if t > g.Stop-eps {
			t = g.Stop
		}
		out = append(out, t)
	}
	return out
}

func (g Grid) String() string {
	return fmt.Sprintf("[%.4f, %.4f] step %.4f", g.Start, g.Stop, g.Step)
}

// bound is one end of a manual grid: either minutes since epoch or an
// absolute split Julian date.
type bound struct {
	minutes  float64
	jd, frac float64
	absolute bool
}

func (b bound) minutesFrom(sat *sgp4.Satellite) float64 {
	if !b.absolute {
		return b.minutes
	}
	return epoch.MinutesBetween(sat.JDSatEpoch, sat.JDSatEpochF, b.jd, b.frac)
}

// ManualInput is a manual-mode grid whose bounds may be relative to each
// satellite's epoch or absolute instants.
type ManualInput struct {
	Mode        config.InputTimeMode
	start, stop bound
	Step        float64
	set         bool
}

// ParseManualInput reads start and stop according to mode:
//
//	minutes:     "-1440.0"
//	epoch:       "2000 06 28 00 00 00.0"
//	day of year: "2000 180.0"
//
// The step is minutes in every mode.
func ParseManualInput(mode config.InputTimeMode, start, stop, step string) (ManualInput, error) {
	in := ManualInput{Mode: mode, set: true}
	var err error

	if in.start, err = parseBound(mode, start); err != nil {
		return ManualInput{}, fmt.Errorf("start: %w", err)
	}
	if in.stop, err = parseBound(mode, stop); err != nil {
		return ManualInput{}, fmt.Errorf("stop: %w", err)
	}
	if in.Step, err = parseStep(step); err != nil {
		return ManualInput{}, err
	}
	return in, nil
}

// DefaultManualGrid is the manual grid of the default configuration.
var DefaultManualGrid = Grid{Start: -1440.0, Stop: 1440.0, Step: 60.0}

// ResolveManual reads mc like ParseManualInput but never fails. An unreadable
// or non-positive step keeps the default step; an unreadable start or stop
// puts both bounds back to the default minutes. Every rejected value is
// returned as a diagnostic and logged as a warning.
func ResolveManual(mode config.InputTimeMode, mc config.ManualConfig, log *slog.Logger) (ManualInput, []config.Diagnostic) {
	in := MinutesInput(DefaultManualGrid)
	var diags []config.Diagnostic

	reject := func(field, token string, kept float64, err error) {
		d := config.Diagnostic{
			Field: field,
			Token: token,
			Kept:  strconv.FormatFloat(kept, 'f', -1, 64),
			Err:   err,
		}
		diags = append(diags, d)
		d.Log(log)
	}

	start, errStart := parseBound(mode, mc.Start)
	stop, errStop := parseBound(mode, mc.Stop)
	if errStart != nil {
		reject("manual start", mc.Start, DefaultManualGrid.Start, errStart)
	}
	if errStop != nil {
		reject("manual stop", mc.Stop, DefaultManualGrid.Stop, errStop)
	}
	if errStart == nil && errStop == nil {
		in.Mode = mode
		in.start, in.stop = start, stop
	}

	step, err := parseStep(mc.Step)
	switch {
	case err != nil:
		reject("manual step", mc.Step, DefaultManualGrid.Step, err)
	case !(step > 0):
		reject("manual step", mc.Step, DefaultManualGrid.Step, fmt.Errorf("%w: step must be positive", ErrManualInput))
	default:
		in.Step = step
	}
	return in, diags
}

func parseStep(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: step %q", ErrManualInput, raw)
	}
	return v, nil
}

// MinutesInput builds a manual grid directly in minutes since epoch.
func MinutesInput(g Grid) ManualInput {
	return ManualInput{
		Mode:  config.MinutesSinceEpoch,
		start: bound{minutes: g.Start},
		stop:  bound{minutes: g.Stop},
		Step:  g.Step,
		set:   true,
	}
}

// GridFor converts the input to minutes from sat's epoch.
func (m ManualInput) GridFor(sat *sgp4.Satellite) Grid {
	return Grid{
		Start: m.start.minutesFrom(sat),
		Stop:  m.stop.minutesFrom(sat),
		Step:  m.Step,
	}
}

func parseBound(mode config.InputTimeMode, raw string) (bound, error) {
	fields := strings.Fields(raw)
	bad := fmt.Errorf("%w: %s value %q", ErrManualInput, mode, raw)

	switch mode {
	case config.MinutesSinceEpoch:
		if len(fields) != 1 {
			return bound{}, bad
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return bound{}, bad
		}
		return bound{minutes: v}, nil

	case config.CalendarEpoch:
		if len(fields) != 6 {
			return bound{}, bad
		}
		var parts [5]int
		for i := 0; i < 5; i++ {
			v, err := strconv.Atoi(fields[i])
			if err != nil {
				return bound{}, bad
			}
			parts[i] = v
		}
		sec, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return bound{}, bad
		}
		if parts[1] < 1 || parts[1] > 12 || parts[2] < 1 || parts[2] > 31 {
			return bound{}, bad
		}
		jd, frac := epoch.JDay(parts[0], parts[1], parts[2], parts[3], parts[4], sec)
		return bound{jd: jd, frac: frac, absolute: true}, nil

	case config.DayOfYear:
		if len(fields) != 2 {
			return bound{}, bad
		}
		year, err := strconv.Atoi(fields[0])
		if err != nil {
			return bound{}, bad
		}
		days, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || days < 1 || days >= 367 {
			return bound{}, bad
		}
		jd, frac := epoch.DayOfYearJD(year, days)
		return bound{jd: jd, frac: frac, absolute: true}, nil
	}
	return bound{}, bad
}

// Scheduler picks the grid for a satellite according to the run mode.
type Scheduler struct {
	run    config.RunMode
	manual ManualInput
}

func New(run config.RunMode, manual ManualInput) *Scheduler {
	return &Scheduler{run: run, manual: manual}
}

// Resolve returns the validated grid for one satellite. Verification runs
// read the window carried by the element set; manual runs use the supplied
// input unchanged apart from conversion to minutes.
func (s *Scheduler) Resolve(el sgp4.Elements, sat *sgp4.Satellite) (Grid, error) {
	var g Grid

	switch s.run {
	case config.CatalogCompare:
		g = CatalogGrid
	case config.Verification:
		start, stop, step, err := el.VerificationWindow()
		if err != nil {
			return Grid{}, err
		}
		g = Grid{Start: start, Stop: stop, Step: step}
	case config.Manual:
		if !s.manual.set {
			return Grid{}, ErrMissingInput
		}
		g = s.manual.GridFor(sat)
	default:
		return Grid{}, fmt.Errorf("unknown run mode %d", int(s.run))
	}

	if err := g.Validate(); err != nil {
		return Grid{}, fmt.Errorf("satellite %s: %w", el.Satnum, err)
	}
	return g, nil
}
