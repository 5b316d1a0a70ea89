package sgp4

import "math"

// Undefined marks a classical element that does not exist for the orbit
// type, for example the node of an equatorial orbit.
const Undefined = 999999.1

const (
	infinite = 999999.9
	small    = 0.00000001
)

// COE is the set of classical orbital elements. Angles are radians.
type COE struct {
	P       float64 // semi-latus rectum, km
	A       float64 // semi-major axis, km
	Ecc     float64
	Incl    float64
	Omega   float64 // right ascension of the ascending node
	Argp    float64
	Nu      float64 // true anomaly
	M       float64 // mean anomaly
	ArgLat  float64
	TrueLon float64
	LonPer  float64
}

// RV2COE converts a position (km) and velocity (km/s) to classical elements.
func RV2COE(r, v [3]float64, mu float64) COE {
	coe := COE{
		P: Undefined, A: Undefined, Ecc: Undefined, Incl: Undefined,
		Omega: Undefined, Argp: Undefined, Nu: Undefined, M: Undefined,
		ArgLat: Undefined, TrueLon: Undefined, LonPer: Undefined,
	}

	magr := mag(r)
	magv := mag(v)

	hbar := cross(r, v)
	magh := mag(hbar)
	if magh <= small {
		return coe
	}

	nbar := [3]float64{-hbar[1], hbar[0], 0.0}
	magn := mag(nbar)
	c1 := magv*magv - mu/magr
	rdotv := dot(r, v)
	var ebar [3]float64
	for i := range ebar {
		ebar[i] = (c1*r[i] - rdotv*v[i]) / mu
	}
	coe.Ecc = mag(ebar)

	sme := magv*magv*0.5 - mu/magr
	if math.Abs(sme) > small {
		coe.A = -mu / (2.0 * sme)
	} else {
		coe.A = infinite
	}
	coe.P = magh * magh / mu

	hk := hbar[2] / magh
	coe.Incl = math.Acos(hk)

	// elliptical inclined, circular equatorial, circular inclined or
	// elliptical equatorial
	equatorial := coe.Incl < small || math.Abs(coe.Incl-math.Pi) < small
	typeOrbit := "ei"
	if coe.Ecc < small {
		if equatorial {
			typeOrbit = "ce"
		} else {
			typeOrbit = "ci"
		}
	} else if equatorial {
		typeOrbit = "ee"
	}

	if magn > small {
		temp := clampUnit(nbar[0] / magn)
		coe.Omega = math.Acos(temp)
		if nbar[1] < 0.0 {
			coe.Omega = twoPi - coe.Omega
		}
	}

	if typeOrbit == "ei" {
		coe.Argp = angle(nbar, ebar)
		if ebar[2] < 0.0 {
			coe.Argp = twoPi - coe.Argp
		}
	}

	if typeOrbit[0] == 'e' {
		coe.Nu = angle(ebar, r)
		if rdotv < 0.0 {
			coe.Nu = twoPi - coe.Nu
		}
	}

	if typeOrbit == "ci" {
		coe.ArgLat = angle(nbar, r)
		if r[2] < 0.0 {
			coe.ArgLat = twoPi - coe.ArgLat
		}
		coe.M = coe.ArgLat
	}

	if coe.Ecc > small && typeOrbit == "ee" {
		temp := clampUnit(ebar[0] / coe.Ecc)
		coe.LonPer = math.Acos(temp)
		if ebar[1] < 0.0 {
			coe.LonPer = twoPi - coe.LonPer
		}
		if coe.Incl > 0.5*math.Pi {
			coe.LonPer = twoPi - coe.LonPer
		}
	}

	if magr > small && typeOrbit == "ce" {
		temp := clampUnit(r[0] / magr)
		coe.TrueLon = math.Acos(temp)
		if r[1] < 0.0 {
			coe.TrueLon = twoPi - coe.TrueLon
		}
		if coe.Incl > 0.5*math.Pi {
			coe.TrueLon = twoPi - coe.TrueLon
		}
		coe.M = coe.TrueLon
	}

	if typeOrbit[0] == 'e' {
		_, coe.M = NewtonNu(coe.Ecc, coe.Nu)
	}
	return coe
}

// NewtonNu returns the eccentric (or hyperbolic/parabolic) anomaly and the
// mean anomaly for a true anomaly nu.
func NewtonNu(ecc, nu float64) (e0, m float64) {
	e0 = infinite
	m = infinite

	switch {
	case math.Abs(ecc) < small:
		m = nu
		e0 = nu
	case ecc < 1.0-small:
		sine := (math.Sqrt(1.0-ecc*ecc) * math.Sin(nu)) / (1.0 + ecc*math.Cos(nu))
		cose := (ecc + math.Cos(nu)) / (1.0 + ecc*math.Cos(nu))
		e0 = math.Atan2(sine, cose)
		m = e0 - ecc*math.Sin(e0)
	case ecc > 1.0+small:
		if math.Abs(nu)+0.00001 < math.Pi-math.Acos(1.0/ecc) {
			sine := (math.Sqrt(ecc*ecc-1.0) * math.Sin(nu)) / (1.0 + ecc*math.Cos(nu))
			e0 = math.Asinh(sine)
			m = ecc*math.Sinh(e0) - e0
		}
	case math.Abs(nu) < 168.0*math.Pi/180.0:
		e0 = math.Tan(nu * 0.5)
		m = e0 + (e0*e0*e0)/3.0
	}

	if ecc < 1.0 {
		m = math.Mod(m, twoPi)
		if m < 0.0 {
			m += twoPi
		}
		e0 = math.Mod(e0, twoPi)
	}
	return e0, m
}

func mag(x [3]float64) float64 {
	return math.Sqrt(x[0]*x[0] + x[1]*x[1] + x[2]*x[2])
}

func dot(x, y [3]float64) float64 {
	return x[0]*y[0] + x[1]*y[1] + x[2]*y[2]
}

func cross(x, y [3]float64) [3]float64 {
	return [3]float64{
		x[1]*y[2] - x[2]*y[1],
		x[2]*y[0] - x[0]*y[2],
		x[0]*y[1] - x[1]*y[0],
	}
}

func clampUnit(x float64) float64 {
	if x > 1.0 {
		return 1.0
	}
	if x < -1.0 {
		return -1.0
	}
	return x
}

func angle(v1, v2 [3]float64) float64 {
	m1 := mag(v1)
	m2 := mag(v2)
	if m1*m2 <= small*small {
		return Undefined
	}
	return math.Acos(clampUnit(dot(v1, v2) / (m1 * m2)))
}
