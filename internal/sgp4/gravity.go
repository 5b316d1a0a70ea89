package sgp4

import (
	"fmt"
	"math"
)

// Gravity selects the earth constant set used by the model.
type Gravity int

const (
	WGS72Old Gravity = iota
	WGS72
	WGS84
)

func (g Gravity) String() string {
	switch g {
	case WGS72Old:
		return "wgs72old"
	case WGS72:
		return "wgs72"
	case WGS84:
		return "wgs84"
	default:
		return fmt.Sprintf("gravity(%d)", int(g))
	}
}

// GravConst holds the earth constants of one model.
type GravConst struct {
	Mu            float64 // km^3/s^2
	RadiusEarthKm float64
	XKE           float64 // sqrt(mu) in earth radii^1.5 per minute
	TUMin         float64 // minutes in one time unit
	J2, J3, J4    float64
	J3OJ2         float64
}

// Constants returns the constant table for g. Unknown values fall back to
// WGS-72.
func Constants(g Gravity) GravConst {
	var c GravConst
	switch g {
	case WGS72Old:
		c.Mu = 398600.79964
		c.RadiusEarthKm = 6378.135
		c.XKE = 0.0743669161
		c.J2 = 0.001082616
		c.J3 = -0.00000253881
		c.J4 = -0.00000165597
	case WGS84:
		c.Mu = 398600.5
		c.RadiusEarthKm = 6378.137
		c.XKE = 60.0 / math.Sqrt(c.RadiusEarthKm*c.RadiusEarthKm*c.RadiusEarthKm/c.Mu)
		c.J2 = 0.00108262998905
		c.J3 = -0.00000253215306
		c.J4 = -0.00000161098761
	default:
		c.Mu = 398600.8
		c.RadiusEarthKm = 6378.135
		c.XKE = 60.0 / math.Sqrt(c.RadiusEarthKm*c.RadiusEarthKm*c.RadiusEarthKm/c.Mu)
		c.J2 = 0.001082616
		c.J3 = -0.00000253881
		c.J4 = -0.00000165597
	}
	c.TUMin = 1.0 / c.XKE
	c.J3OJ2 = c.J3 / c.J2
	return c
}

// OpsMode selects between the legacy AFSPC operation and the improved one.
type OpsMode byte

const (
	OpsAFSPC    OpsMode = 'a'
	OpsImproved OpsMode = 'i'
)

func (o OpsMode) String() string {
	switch o {
	case OpsAFSPC:
		return "afspc"
	case OpsImproved:
		return "improved"
	default:
		return fmt.Sprintf("ops(%c)", byte(o))
	}
}
