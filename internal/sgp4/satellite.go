package sgp4

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/sgp4check/internal/epoch"
)

const (
	Deg2Rad = math.Pi / 180.0
	Rad2Deg = 180.0 / math.Pi
	// XPDotP converts rev/day to rad/min.
	XPDotP = 1440.0 / (2.0 * math.Pi)

	// jd of 1949 Dec 31 00:00 UT, the model's internal epoch origin
	jd1950 = 2433281.5
)

var (
	ErrInitFailed = errors.New("sgp4: initialization failed")
	ErrEccentric  = errors.New("sgp4: eccentricity out of range")
	ErrMeanMotion = errors.New("sgp4: mean motion must be positive")
)

// StateVector is a TEME position (km) and velocity (km/s).
type StateVector struct {
	R [3]float64
	V [3]float64
}

// Fields are literal, already converted element values: angles in radians,
// mean motion in rad/min, ndot in rad/min^2, nddot in rad/min^3.
type Fields struct {
	Satnum         string
	Classification byte
	IntlDesg       string
	JD, JDFrac     float64
	Bstar          float64
	NDot, NDDot    float64
	Ecco           float64
	ArgPo          float64
	Inclo          float64
	Mo             float64
	NoKozai        float64
	Nodeo          float64
	EphType        int
	ElNum          int
	RevNum         int
}

// Satellite is the propagator state of one element set. A Satellite is
// mutated by Propagate and must not be shared between goroutines.
type Satellite struct {
	Satnum         string
	Classification byte
	IntlDesg       string
	EphType        int
	ElNum          int
	RevNum         int

	JDSatEpoch  float64
	JDSatEpochF float64

	Bstar   float64
	NDot    float64
	NDDot   float64
	Ecco    float64
	ArgPo   float64
	Inclo   float64
	Mo      float64
	NoKozai float64
	Nodeo   float64

	// NoUnkozai is the Brouwer mean motion in rad/min.
	NoUnkozai float64
	// A is the semi-major axis in earth radii.
	A float64

	// Error is 0 while healthy. Once set it is never cleared.
	Error int

	Gravity Gravity
	Ops     OpsMode

	grav   GravConst
	method byte
	t      float64

	// near earth
	isimp                                  bool
	aycof, con41, cc1, cc4, cc5            float64
	d2, d3, d4, delmo, eta, argpdot        float64
	omgcof, sinmao, t2cof, t3cof           float64
	t4cof, t5cof, x1mth2, x7thm1           float64
	mdot, nodedot, xlcof, xmcof, nodecf    float64
	gsto                                   float64

	// deep space
	irez                                   int
	d2201, d2211, d3210, d3222, d4410      float64
	d4422, d5220, d5232, d5421, d5433      float64
	dedt, del1, del2, del3, didt           float64
	dmdt, dnodt, domdt                     float64
	e3, ee2, peo, pgho, pho, pinco, plo    float64
	se2, se3, sgh2, sgh3, sgh4, sh2, sh3   float64
	si2, si3, sl2, sl3, sl4                float64
	xfact, xgh2, xgh3, xgh4, xh2, xh3      float64
	xi2, xi3, xl2, xl3, xl4, xlamo         float64
	zmol, zmos, atime, xli, xni            float64
}

// Epoch returns the element set epoch as a calendar timestamp.
func (s *Satellite) Epoch() epoch.Calendar {
	return epoch.ToCalendar(s.JDSatEpoch, s.JDSatEpochF)
}

// DeepSpace reports whether the satellite uses the SDP4 branch.
func (s *Satellite) DeepSpace() bool { return s.method == 'd' }

// Mu returns the gravitational parameter of the satellite's constant set.
func (s *Satellite) Mu() float64 { return s.grav.Mu }

// RadiusEarthKm returns the earth radius of the satellite's constant set.
func (s *Satellite) RadiusEarthKm() float64 { return s.grav.RadiusEarthKm }

// InitFromElements converts parsed TLE elements and initializes a satellite.
func InitFromElements(grav Gravity, ops OpsMode, el Elements) (*Satellite, error) {
	year := epoch.TLEYear(el.EpochYear)
	jd, frac := epoch.DayOfYearJD(year, el.EpochDays)

	f := Fields{
		Satnum:         el.Satnum,
		Classification: el.Classification,
		IntlDesg:       el.IntlDesg,
		JD:             jd,
		JDFrac:         frac,
		Bstar:          el.Bstar,
		NDot:           el.NDot / (XPDotP * 1440.0),
		NDDot:          el.NDDot / (XPDotP * 1440.0 * 1440.0),
		Ecco:           el.Eccentricity,
		ArgPo:          el.ArgPerigee * Deg2Rad,
		Inclo:          el.Inclination * Deg2Rad,
		Mo:             el.MeanAnomaly * Deg2Rad,
		NoKozai:        el.MeanMotion / XPDotP,
		Nodeo:          el.RAAN * Deg2Rad,
		EphType:        el.EphType,
		ElNum:          el.ElNum,
		RevNum:         el.RevNum,
	}
	return InitFromFields(grav, ops, f)
}

// InitFromFields initializes a satellite from literal converted values. The
// returned satellite may carry a nonzero Error when the elements decay or
// are otherwise unusable at epoch; the error return is reserved for inputs
// the model cannot start from at all.
func InitFromFields(grav Gravity, ops OpsMode, f Fields) (*Satellite, error) {
	if f.NoKozai <= 0 {
		return nil, fmt.Errorf("%w: satellite %s, no %g", ErrMeanMotion, f.Satnum, f.NoKozai)
	}
	if f.Ecco < 0 || f.Ecco >= 1 {
		return nil, fmt.Errorf("%w: satellite %s, ecc %g", ErrEccentric, f.Satnum, f.Ecco)
	}

	s := &Satellite{
		Satnum:         f.Satnum,
		Classification: f.Classification,
		IntlDesg:       f.IntlDesg,
		EphType:        f.EphType,
		ElNum:          f.ElNum,
		RevNum:         f.RevNum,
		JDSatEpoch:     f.JD,
		JDSatEpochF:    f.JDFrac,
		Bstar:          f.Bstar,
		NDot:           f.NDot,
		NDDot:          f.NDDot,
		Ecco:           f.Ecco,
		ArgPo:          f.ArgPo,
		Inclo:          f.Inclo,
		Mo:             f.Mo,
		NoKozai:        f.NoKozai,
		Nodeo:          f.Nodeo,
		Gravity:        grav,
		Ops:            ops,
		grav:           Constants(grav),
	}

	if !s.initialize((f.JD + f.JDFrac) - jd1950) {
		return nil, fmt.Errorf("%w: satellite %s", ErrInitFailed, f.Satnum)
	}
	return s, nil
}

// Propagate returns the state tsince minutes from epoch and the satellite's
// error code. Once the satellite holds a nonzero code no further state is
// computed and the code is returned unchanged.
func Propagate(s *Satellite, tsince float64) (StateVector, int) {
	if s.Error != 0 {
		return StateVector{}, s.Error
	}
	sv, code := s.propagate(tsince)
	if code != 0 {
		s.Error = code
	}
	return sv, code
}

// ErrorText describes a propagator error code.
func ErrorText(code int) string {
	switch code {
	case 0:
		return "ok"
	case 1:
		return "mean elements, ecc >= 1.0 or ecc < -0.001 or a < 0.95 er"
	case 2:
		return "mean motion less than 0.0"
	case 3:
		return "pert elements, ecc < 0.0 or ecc > 1.0"
	case 4:
		return "semi-latus rectum < 0.0"
	case 5:
		return "epoch elements are sub-orbital"
	case 6:
		return "satellite has decayed"
	default:
		return fmt.Sprintf("unknown error %d", code)
	}
}
