// Package export formats propagation samples as the verification log and as
// STK ephemeris files.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/san-kum/sgp4check/internal/config"
	"github.com/san-kum/sgp4check/internal/epoch"
	"github.com/san-kum/sgp4check/internal/sgp4"
)

// SampleTime is the calendar instant of a sample tsince minutes from the
// satellite epoch. The fraction is advanced rather than the whole day so the
// epoch keeps its sub-second precision.
func SampleTime(sat *sgp4.Satellite, tsince float64) epoch.Calendar {
	return epoch.ToCalendar(sat.JDSatEpoch, sat.JDSatEpochF+tsince/1440.0)
}

// BlockHeader starts each satellite's block in the verification log.
func BlockHeader(sat *sgp4.Satellite) string {
	return sat.Satnum + " xx"
}

// VerificationRecord formats one sample. Verification runs also carry the
// classical elements of the state.
func VerificationRecord(run config.RunMode, sat *sgp4.Satellite, tsince float64, sv sgp4.StateVector) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, " %16.8f %16.8f %16.8f %16.8f %12.9f %12.9f %12.9f",
		tsince, sv.R[0], sv.R[1], sv.R[2], sv.V[0], sv.V[1], sv.V[2])

	if run == config.Verification {
		coe := sgp4.RV2COE(sv.R, sv.V, sat.Mu())
		fmt.Fprintf(&b, " %14.6f %9.6f %11.6f %11.6f %11.6f %11.6f %11.6f",
			coe.A, coe.Ecc, deg(coe.Incl), deg(coe.Omega), deg(coe.Argp), deg(coe.Nu), deg(coe.M))
	}

	c := SampleTime(sat, tsince)
	fmt.Fprintf(&b, " %5d%3d%3d %2d:%2d:%9.6f", c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
	return b.String()
}

func deg(rad float64) float64 {
	if rad == sgp4.Undefined {
		return rad
	}
	return rad * sgp4.Rad2Deg
}

// VerificationSink accumulates the verification log for a whole run.
type VerificationSink struct {
	run config.RunMode
	buf bytes.Buffer
}

func NewVerificationSink(run config.RunMode) *VerificationSink {
	return &VerificationSink{run: run}
}

func (s *VerificationSink) Mode() config.RunMode { return s.run }

// Begin opens the block of a satellite.
func (s *VerificationSink) Begin(sat *sgp4.Satellite) {
	s.buf.WriteString(BlockHeader(sat))
	s.buf.WriteByte('\n')
}

func (s *VerificationSink) OnSample(sat *sgp4.Satellite, tsince float64, sv sgp4.StateVector) {
	s.buf.WriteString(VerificationRecord(s.run, sat, tsince, sv))
	s.buf.WriteByte('\n')
}

// Len is the number of buffered bytes.
func (s *VerificationSink) Len() int { return s.buf.Len() }

// WriteTo flushes the buffered log to w. The buffer is empty afterwards.
func (s *VerificationSink) WriteTo(w io.Writer) (int64, error) {
	return s.buf.WriteTo(w)
}
