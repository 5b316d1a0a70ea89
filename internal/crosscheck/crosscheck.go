// Package crosscheck compares this module's propagator with
// github.com/joshuaferrara/go-satellite on the same element sets.
package crosscheck

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/san-kum/sgp4check/internal/catalog"
	"github.com/san-kum/sgp4check/internal/epoch"
	"github.com/san-kum/sgp4check/internal/schedule"
	"github.com/san-kum/sgp4check/internal/sgp4"
)

const tleLineLen = 69

var ErrReference = errors.New("crosscheck: reference propagator failed")

// Report holds the largest differences seen for one satellite.
type Report struct {
	Satnum    string
	Samples   int
	MaxPosKm  float64
	MaxVelKmS float64
	WorstAt   float64
	Err       error
}

type Checker struct {
	grav sgp4.Gravity
	grid schedule.Grid
	log  *slog.Logger
}

func New(grav sgp4.Gravity, grid schedule.Grid, log *slog.Logger) *Checker {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Checker{grav: grav, grid: grid, log: log}
}

func gravityName(g sgp4.Gravity) satellite.Gravity {
	switch g {
	case sgp4.WGS72Old:
		return satellite.GravityWGS72Old
	case sgp4.WGS84:
		return satellite.GravityWGS84
	default:
		return satellite.GravityWGS72
	}
}

// go-satellite exits the process on malformed input, so lines are checked
// before they reach it.
func validateTLELines(line1, line2 string) error {
	if len(line1) != tleLineLen {
		return fmt.Errorf("line1 length %d, expected %d", len(line1), tleLineLen)
	}
	if len(line2) != tleLineLen {
		return fmt.Errorf("line2 length %d, expected %d", len(line2), tleLineLen)
	}
	if line1[0] != '1' {
		return fmt.Errorf("line1 must start with '1', got '%c'", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line2 must start with '2', got '%c'", line2[0])
	}
	return nil
}

func trimLine(s string) string {
	s = strings.TrimRight(s, "\r\n")
	if len(s) > tleLineLen {
		s = s[:tleLineLen]
	}
	return strings.TrimRight(s, " ")
}

// Check propagates one element set with both propagators at whole-second
// instants of the grid.
func (c *Checker) Check(line1, line2 string) Report {
	line1, line2 = trimLine(line1), trimLine(line2)

	el, err := sgp4.ParseTLE(line1, line2)
	if err != nil {
		return Report{Err: err}
	}
	rep := Report{Satnum: el.Satnum}

	if err := validateTLELines(line1, line2); err != nil {
		rep.Err = err
		return rep
	}

	sat, err := sgp4.InitFromElements(c.grav, sgp4.OpsImproved, el)
	if err != nil {
		rep.Err = err
		return rep
	}
	ref := satellite.TLEToSat(line1, line2, gravityName(c.grav))
	if ref.Error != 0 {
		rep.Err = fmt.Errorf("%w: init code %d %s", ErrReference, ref.Error, ref.ErrorStr)
		return rep
	}

	for _, t := range c.grid.Offsets() {
		cal := epoch.ToCalendar(sat.JDSatEpoch, sat.JDSatEpochF+t/1440.0)
		sec := int(math.Floor(cal.Second))
		jd, frac := epoch.JDay(cal.Year, cal.Month, cal.Day, cal.Hour, cal.Minute, float64(sec))
		tsince := epoch.MinutesBetween(sat.JDSatEpoch, sat.JDSatEpochF, jd, frac)

		sv, code := sgp4.Propagate(sat, tsince)
		if code != 0 {
			rep.Err = fmt.Errorf("t=%.4f: %s", tsince, sgp4.ErrorText(code))
			break
		}
		pos, vel := satellite.Propagate(ref, cal.Year, cal.Month, cal.Day, cal.Hour, cal.Minute, sec)
		if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) {
			rep.Err = fmt.Errorf("%w: t=%.4f: output is NaN", ErrReference, tsince)
			break
		}

		dp := dist(sv.R, [3]float64{pos.X, pos.Y, pos.Z})
		dv := dist(sv.V, [3]float64{vel.X, vel.Y, vel.Z})
		if dp > rep.MaxPosKm {
			rep.MaxPosKm = dp
			rep.WorstAt = tsince
		}
		rep.MaxVelKmS = math.Max(rep.MaxVelKmS, dv)
		rep.Samples++
	}

	return rep
}

// CheckCatalog runs Check on every record of a catalog.
func (c *Checker) CheckCatalog(r io.Reader) ([]Report, error) {
	reader := catalog.NewReader(r)
	var reports []Report
	for {
		rec, ok := reader.Next()
		if !ok {
			break
		}
		rep := c.Check(rec.Line1, rec.Line2)
		if rep.Err != nil {
			c.log.Warn("crosscheck: satellite incomplete", "index", rec.Index, "satnum", rep.Satnum, "err", rep.Err)
		}
		reports = append(reports, rep)
	}
	return reports, reader.Err()
}

func dist(a, b [3]float64) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
