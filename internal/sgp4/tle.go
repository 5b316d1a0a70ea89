package sgp4

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrLineLength = errors.New("tle: line too short")
	ErrLineNumber = errors.New("tle: wrong line number")
	ErrField      = errors.New("tle: bad field")
	ErrNoWindow   = errors.New("tle: no verification window on line 2")
)

const tleLineLen = 69

// Elements are the mean elements of one TLE in the units the format uses:
// degrees, rev/day, rev/day^2 and rev/day^3.
type Elements struct {
	Satnum         string
	CatalogNumber  int
	Classification byte
	IntlDesg       string
	EpochYear      int
	EpochDays      float64
	NDot           float64
	NDDot          float64
	Bstar          float64
	EphType        int
	ElNum          int
	Inclination    float64
	RAAN           float64
	Eccentricity   float64
	ArgPerigee     float64
	MeanAnomaly    float64
	MeanMotion     float64
	RevNum         int

	// Window is the start, stop and step (minutes) trailing line 2 in
	// verification catalogs.
	Window    [3]float64
	HasWindow bool
}

// ParseTLE reads the fixed-column fields of a two-line element set. Checksums
// are not verified.
func ParseTLE(line1, line2 string) (Elements, error) {
	var el Elements

	line1 = strings.TrimRight(line1, "\r\n")
	line2 = strings.TrimRight(line2, "\r\n")
	if len(line1) < 64 {
		return el, fmt.Errorf("%w: line 1 has %d chars", ErrLineLength, len(line1))
	}
	if len(line2) < 68 {
		return el, fmt.Errorf("%w: line 2 has %d chars", ErrLineLength, len(line2))
	}
	if line1[0] != '1' {
		return el, fmt.Errorf("%w: line 1 starts with %q", ErrLineNumber, line1[0])
	}
	if line2[0] != '2' {
		return el, fmt.Errorf("%w: line 2 starts with %q", ErrLineNumber, line2[0])
	}
	// pad the optional trailing columns of line 1
	if len(line1) < tleLineLen {
		line1 += strings.Repeat(" ", tleLineLen-len(line1))
	}

	p := fieldParser{}

	el.Satnum = strings.TrimSpace(line1[2:7])
	el.CatalogNumber = p.satnum("satnum", line1[2:7])
	el.Classification = line1[7]
	el.IntlDesg = strings.TrimSpace(line1[9:17])
	el.EpochYear = p.readInt("epoch year", line1[18:20])
	el.EpochDays = p.readFloat("epoch day", line1[20:32])
	el.NDot = p.readFloat("ndot", line1[33:43])
	el.NDDot = p.exp("nddot", line1[44:52])
	el.Bstar = p.exp("bstar", line1[53:61])
	el.EphType = p.optInt(line1[62:63])
	el.ElNum = p.optInt(line1[64:68])

	el.Inclination = p.readFloat("inclination", line2[8:16])
	el.RAAN = p.readFloat("raan", line2[17:25])
	el.Eccentricity = p.readFloat("eccentricity", "0."+strings.TrimSpace(line2[26:33]))
	el.ArgPerigee = p.readFloat("argument of perigee", line2[34:42])
	el.MeanAnomaly = p.readFloat("mean anomaly", line2[43:51])
	el.MeanMotion = p.readFloat("mean motion", line2[52:63])
	el.RevNum = p.optInt(line2[63:68])

	if p.err != nil {
		return el, fmt.Errorf("satellite %s: %w", el.Satnum, p.err)
	}

	if len(line2) > tleLineLen {
		fields := strings.Fields(line2[tleLineLen:])
		if len(fields) >= 3 {
			var w [3]float64
			ok := true
			for i := 0; i < 3; i++ {
				v, err := strconv.ParseFloat(fields[i], 64)
				if err != nil {
					ok = false
					break
				}
				w[i] = v
			}
			el.Window, el.HasWindow = w, ok
		}
	}
	return el, nil
}

// VerificationWindow returns the start, stop and step carried after column
// 69 of line 2.
func (el Elements) VerificationWindow() (start, stop, step float64, err error) {
	if !el.HasWindow {
		return 0, 0, 0, fmt.Errorf("satellite %s: %w", el.Satnum, ErrNoWindow)
	}
	return el.Window[0], el.Window[1], el.Window[2], nil
}

// fieldParser keeps the first error so the column reads stay flat.
type fieldParser struct {
	err error
}

func (p *fieldParser) fail(name, raw string) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s %q", ErrField, name, raw)
	}
}

func (p *fieldParser) readFloat(name, raw string) float64 {
	s := strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.fail(name, raw)
		return 0
	}
	return v
}

func (p *fieldParser) readInt(name, raw string) int {
	s := strings.TrimSpace(raw)
	v, err := strconv.Atoi(s)
	if err != nil {
		p.fail(name, raw)
		return 0
	}
	return v
}

// optInt reads bookkeeping fields that are often blank.
func (p *fieldParser) optInt(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return v
}

// exp reads an implied-decimal field with exponent, "sMMMMMsE" meaning
// s0.MMMMM x 10^sE.
func (p *fieldParser) exp(name, raw string) float64 {
	if len(raw) != 8 {
		p.fail(name, raw)
		return 0
	}
	sign := 1.0
	if raw[0] == '-' {
		sign = -1.0
	}
	mant := strings.TrimSpace(raw[1:6])
	if mant == "" {
		return 0
	}
	m, err := strconv.ParseFloat("0."+mant, 64)
	if err != nil {
		p.fail(name, raw)
		return 0
	}
	e, err := strconv.Atoi(strings.TrimSpace(strings.Replace(raw[6:8], "+", "", 1)))
	if err != nil {
		p.fail(name, raw)
		return 0
	}
	return sign * m * math.Pow(10, float64(e))
}

// satnum reads a catalog number, accepting the alpha-5 form where a leading
// letter (I and O skipped) stands for 10..33.
func (p *fieldParser) satnum(name, raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		p.fail(name, raw)
		return 0
	}
	c := s[0]
	if c >= 'A' && c <= 'Z' && c != 'I' && c != 'O' {
		lead := int(c-'A') + 10
		if c > 'I' {
			lead--
		}
		if c > 'O' {
			lead--
		}
		rest, err := strconv.Atoi(s[1:])
		if err != nil {
			p.fail(name, raw)
			return 0
		}
		return lead*10000 + rest
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		p.fail(name, raw)
		return 0
	}
	return v
}
