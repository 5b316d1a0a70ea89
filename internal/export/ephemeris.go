package export

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/sgp4check/internal/epoch"
	"github.com/san-kum/sgp4check/internal/sgp4"
)

const (
	EphemerisExt     = ".e"
	ephemerisVersion = "stk.v.4.3"
)

var ErrEphemerisFormat = errors.New("export: malformed ephemeris")

// EphemerisFileName names the ephemeris file of a record after the catalog
// number in columns 3-7 of line 2, or after satnum when those are blank.
func EphemerisFileName(line2, satnum string) string {
	var id string
	switch {
	case len(line2) >= 7:
		id = line2[2:7]
	case len(line2) > 2:
		id = line2[2:]
	}
	id = strings.TrimSpace(id)
	if id == "" {
		id = strings.TrimSpace(satnum)
	}
	return id + EphemerisExt
}

// EphemerisRecord formats one sample as seconds since the scenario epoch
// followed by TEME position and velocity.
func EphemerisRecord(tsince float64, sv sgp4.StateVector) string {
	return fmt.Sprintf("%16.6f %16.8f %16.8f %16.8f %12.9f %12.9f %12.9f",
		tsince*60.0, sv.R[0], sv.R[1], sv.R[2], sv.V[0], sv.V[1], sv.V[2])
}

// EphemerisSink holds the samples of one satellite. The header is built when
// the sink is written, so the point count is always the number of records.
type EphemerisSink struct {
	epoch  epoch.Calendar
	points int
	body   bytes.Buffer
}

func NewEphemerisSink() *EphemerisSink {
	return &EphemerisSink{}
}

// Begin discards anything buffered and sets the scenario epoch.
func (s *EphemerisSink) Begin(sat *sgp4.Satellite) {
	s.Reset()
	s.epoch = sat.Epoch()
}

func (s *EphemerisSink) OnSample(sat *sgp4.Satellite, tsince float64, sv sgp4.StateVector) {
	s.body.WriteString(EphemerisRecord(tsince, sv))
	s.body.WriteByte('\n')
	s.points++
}

func (s *EphemerisSink) Points() int { return s.points }

func (s *EphemerisSink) Reset() {
	s.body.Reset()
	s.points = 0
	s.epoch = epoch.Calendar{}
}

// WriteTo writes the complete file and resets the sink.
func (s *EphemerisSink) WriteTo(w io.Writer) (int64, error) {
	var head bytes.Buffer
	fmt.Fprintln(&head, ephemerisVersion)
	fmt.Fprintln(&head, "BEGIN Ephemeris")
	fmt.Fprintf(&head, "NumberOfEphemerisPoints %d\n", s.points)
	fmt.Fprintf(&head, "ScenarioEpoch %s\n", s.epoch.STK())
	fmt.Fprintln(&head, "InterpolationMethod Lagrange")
	fmt.Fprintln(&head, "InterpolationOrder 5")
	fmt.Fprintln(&head, "CentralBody Earth")
	fmt.Fprintln(&head, "CoordinateSystem TEME")
	fmt.Fprintln(&head, "DistanceUnit Kilometers")
	fmt.Fprintln(&head, "EphemerisTimePosVel")

	n, err := head.WriteTo(w)
	if err != nil {
		return n, err
	}
	m, err := s.body.WriteTo(w)
	n += m
	if err != nil {
		return n, err
	}
	k, err := io.WriteString(w, "END Ephemeris\n")
	n += int64(k)
	if err != nil {
		return n, err
	}

	s.Reset()
	return n, nil
}

// EphemerisPoint is one record read back from an ephemeris file.
type EphemerisPoint struct {
	Seconds float64
	R, V    [3]float64
}

func (p EphemerisPoint) Radius() float64 {
	return mag(p.R)
}

func (p EphemerisPoint) Speed() float64 {
	return mag(p.V)
}

type Ephemeris struct {
	Epoch    epoch.Calendar
	Declared int
	Points   []EphemerisPoint
}

// ReadEphemeris parses a file produced by EphemerisSink.
func ReadEphemeris(r io.Reader) (*Ephemeris, error) {
	eph := &Ephemeris{}
	sc := bufio.NewScanner(r)
	line := 0
	inData, ended := false, false

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)

		if inData {
			if text == "END Ephemeris" {
				ended = true
				break
			}
			p, err := parsePoint(fields)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrEphemerisFormat, line, err)
			}
			eph.Points = append(eph.Points, p)
			continue
		}

		switch fields[0] {
		case "NumberOfEphemerisPoints":
			if len(fields) != 2 {
				return nil, fmt.Errorf("%w: line %d: point count", ErrEphemerisFormat, line)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrEphemerisFormat, line, err)
			}
			eph.Declared = n
		case "ScenarioEpoch":
			c, err := parseScenarioEpoch(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrEphemerisFormat, line, err)
			}
			eph.Epoch = c
		case "EphemerisTimePosVel":
			inData = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !ended {
		return nil, fmt.Errorf("%w: missing END Ephemeris", ErrEphemerisFormat)
	}
	if eph.Declared != len(eph.Points) {
		return nil, fmt.Errorf("%w: declared %d points, found %d", ErrEphemerisFormat, eph.Declared, len(eph.Points))
	}
	return eph, nil
}

func parsePoint(fields []string) (EphemerisPoint, error) {
	if len(fields) != 7 {
		return EphemerisPoint{}, fmt.Errorf("expected 7 fields, got %d", len(fields))
	}
	var vals [7]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return EphemerisPoint{}, err
		}
		vals[i] = v
	}
	return EphemerisPoint{
		Seconds: vals[0],
		R:       [3]float64{vals[1], vals[2], vals[3]},
		V:       [3]float64{vals[4], vals[5], vals[6]},
	}, nil
}

// parseScenarioEpoch reads "27 Jun 2000 18:50:19.733568".
func parseScenarioEpoch(fields []string) (epoch.Calendar, error) {
	if len(fields) != 4 {
		return epoch.Calendar{}, fmt.Errorf("scenario epoch %q", strings.Join(fields, " "))
	}
	var c epoch.Calendar
	var err error
	if c.Day, err = strconv.Atoi(fields[0]); err != nil {
		return c, err
	}
	if c.Month, err = epoch.ParseMonth(fields[1]); err != nil {
		return c, err
	}
	if c.Year, err = strconv.Atoi(fields[2]); err != nil {
		return c, err
	}
	hms := strings.Split(fields[3], ":")
	if len(hms) != 3 {
		return c, fmt.Errorf("time of day %q", fields[3])
	}
	if c.Hour, err = strconv.Atoi(hms[0]); err != nil {
		return c, err
	}
	if c.Minute, err = strconv.Atoi(hms[1]); err != nil {
		return c, err
	}
	if c.Second, err = strconv.ParseFloat(hms[2], 64); err != nil {
		return c, err
	}
	return c, nil
}

func mag(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
