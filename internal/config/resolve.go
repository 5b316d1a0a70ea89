package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/san-kum/sgp4check/internal/sgp4"
)

var (
	ErrUnknownToken = errors.New("unknown token")
	ErrNotNumeric   = errors.New("not a number")
)

type RunMode int

const (
	CatalogCompare RunMode = iota
	Verification
	Manual
)

func (m RunMode) String() string {
	switch m {
	case CatalogCompare:
		return "catalog-compare"
	case Verification:
		return "verification"
	case Manual:
		return "manual"
	default:
		return fmt.Sprintf("runmode(%d)", int(m))
	}
}

// Token returns the single letter used on the command line.
func (m RunMode) Token() string {
	switch m {
	case CatalogCompare:
		return "c"
	case Manual:
		return "m"
	default:
		return "v"
	}
}

// OutputName is the verification file written for the mode.
func (m RunMode) OutputName() string {
	switch m {
	case CatalogCompare:
		return "sgp4all.out"
	case Manual:
		return "sgp4man.out"
	default:
		return "sgp4ver.out"
	}
}

type InputTimeMode int

const (
	MinutesSinceEpoch InputTimeMode = iota
	CalendarEpoch
	DayOfYear
)

func (m InputTimeMode) String() string {
	switch m {
	case MinutesSinceEpoch:
		return "minutes"
	case CalendarEpoch:
		return "epoch"
	case DayOfYear:
		return "day-of-year"
	default:
		return fmt.Sprintf("inputtime(%d)", int(m))
	}
}

func (m InputTimeMode) Token() string {
	switch m {
	case MinutesSinceEpoch:
		return "m"
	case DayOfYear:
		return "d"
	default:
		return "e"
	}
}

// RunConfig is built once at startup and passed to every component.
type RunConfig struct {
	Ops       sgp4.OpsMode
	Run       RunMode
	InputTime InputTimeMode
	Gravity   sgp4.Gravity
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Ops:       sgp4.OpsImproved,
		Run:       Verification,
		InputTime: CalendarEpoch,
		Gravity:   sgp4.WGS72,
	}
}

func (rc RunConfig) String() string {
	return fmt.Sprintf("ops=%s run=%s input=%s gravity=%s", rc.Ops, rc.Run, rc.InputTime, rc.Gravity)
}

// Tokens are the raw user answers before validation. Empty tokens keep the
// default.
type Tokens struct {
	Ops       string
	Run       string
	InputTime string
	Gravity   string
}

// Diagnostic records a token that was rejected and the value kept instead.
type Diagnostic struct {
	Field string
	Token string
	Kept  string
	Err   error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s %q: %v, keeping %s", d.Field, d.Token, d.Err, d.Kept)
}

func (d Diagnostic) Unwrap() error { return d.Err }

// Log reports d as a warning. A nil logger is ignored.
func (d Diagnostic) Log(log *slog.Logger) {
	if log == nil {
		return
	}
	log.Warn("config: token rejected", "field", d.Field, "token", d.Token, "kept", d.Kept, "err", d.Err)
}

// Resolve validates tokens into a RunConfig. Bad tokens never fail the run:
// each one is logged as a warning, returned as a Diagnostic, and the default
// is retained. The input-time mode is forced to calendar epoch unless the
// run mode is manual, where it defaults to minutes since epoch.
func Resolve(tok Tokens, log *slog.Logger) (RunConfig, []Diagnostic) {
	rc := DefaultRunConfig()
	var diags []Diagnostic

	reject := func(field, token, kept string, err error) {
		d := Diagnostic{Field: field, Token: token, Kept: kept, Err: err}
		diags = append(diags, d)
		d.Log(log)
	}

	switch t := strings.ToLower(strings.TrimSpace(tok.Ops)); t {
	case "":
	case "a":
		rc.Ops = sgp4.OpsAFSPC
	case "i":
		rc.Ops = sgp4.OpsImproved
	default:
		reject("ops mode", tok.Ops, rc.Ops.String(), ErrUnknownToken)
	}

	switch t := strings.ToLower(strings.TrimSpace(tok.Run)); t {
	case "":
	case "c":
		rc.Run = CatalogCompare
	case "v":
		rc.Run = Verification
	case "m":
		rc.Run = Manual
	default:
		reject("run mode", tok.Run, rc.Run.String(), ErrUnknownToken)
	}

	if rc.Run == Manual {
		rc.InputTime = MinutesSinceEpoch
		switch t := strings.ToLower(strings.TrimSpace(tok.InputTime)); t {
		case "":
		case "m":
			rc.InputTime = MinutesSinceEpoch
		case "e":
			rc.InputTime = CalendarEpoch
		case "d":
			rc.InputTime = DayOfYear
		default:
			reject("input time", tok.InputTime, rc.InputTime.String(), ErrUnknownToken)
		}
	} else {
		rc.InputTime = CalendarEpoch
	}

	if g := strings.TrimSpace(tok.Gravity); g != "" {
		n, err := strconv.Atoi(g)
		switch {
		case err != nil:
			reject("gravity", tok.Gravity, rc.Gravity.String(), ErrNotNumeric)
		case n == 721:
			rc.Gravity = sgp4.WGS72Old
		case n == 72:
			rc.Gravity = sgp4.WGS72
		case n == 84:
			rc.Gravity = sgp4.WGS84
		default:
			reject("gravity", tok.Gravity, rc.Gravity.String(), ErrUnknownToken)
		}
	}

	return rc, diags
}
