package sgp4

import "math"

const (
	twoPi = 2.0 * math.Pi
	x2o3  = 2.0 / 3.0
	// divide by zero guard for 180 deg inclination
	temp4 = 1.5e-12
)

// GSTime returns Greenwich sidereal time in radians for a UT1 Julian date.
func GSTime(jdut1 float64) float64 {
	tut1 := (jdut1 - 2451545.0) / 36525.0
	temp := -6.2e-6*tut1*tut1*tut1 + 0.093104*tut1*tut1 +
		(876600.0*3600+8640184.812866)*tut1 + 67310.54841 // sec
	temp = math.Mod(temp*Deg2Rad/240.0, twoPi)
	if temp < 0.0 {
		temp += twoPi
	}
	return temp
}

// epochAux holds the quantities initl derives at epoch.
type epochAux struct {
	ainv, ao, con42, cosio, cosio2 float64
	eccsq, omeosq, posq, rp        float64
	rteosq, sinio                  float64
}

// initl un-kozais the mean motion and fills the epoch auxiliaries.
func (s *Satellite) initl(ep float64) epochAux {
	var a epochAux

	a.eccsq = s.Ecco * s.Ecco
	a.omeosq = 1.0 - a.eccsq
	a.rteosq = math.Sqrt(a.omeosq)
	a.cosio = math.Cos(s.Inclo)
	a.cosio2 = a.cosio * a.cosio

	ak := math.Pow(s.grav.XKE/s.NoKozai, x2o3)
	d1 := 0.75 * s.grav.J2 * (3.0*a.cosio2 - 1.0) / (a.rteosq * a.omeosq)
	del := d1 / (ak * ak)
	adel := ak * (1.0 - del*del - del*(1.0/3.0+134.0*del*del/81.0))
	del = d1 / (adel * adel)
	s.NoUnkozai = s.NoKozai / (1.0 + del)

	a.ao = math.Pow(s.grav.XKE/s.NoUnkozai, x2o3)
	a.sinio = math.Sin(s.Inclo)
	po := a.ao * a.omeosq
	a.con42 = 1.0 - 5.0*a.cosio2
	s.con41 = -a.con42 - a.cosio2 - a.cosio2
	a.ainv = 1.0 / a.ao
	a.posq = po * po
	a.rp = a.ao * (1.0 - s.Ecco)
	s.method = 'n'

	if s.Ops == OpsAFSPC {
		// days from 0 jan 1970
		ts70 := ep - 7305.0
		ds70 := math.Floor(ts70 + 1.0e-8)
		tfrac := ts70 - ds70
		const (
			c1     = 1.72027916940703639e-2
			thgr70 = 1.7321343856509374
			fk5r   = 5.07551419432269442e-15
		)
		c1p2p := c1 + twoPi
		s.gsto = math.Mod(thgr70+c1*ds70+c1p2p*tfrac+ts70*ts70*fk5r, twoPi)
		if s.gsto < 0.0 {
			s.gsto += twoPi
		}
	} else {
		s.gsto = GSTime(ep + jd1950)
	}
	return a
}

// initialize sets every model coefficient for epoch ep (days from
// 1949 Dec 31 00:00 UT) and propagates once to t = 0.
func (s *Satellite) initialize(ep float64) bool {
	c := s.grav
	ss := 78.0/c.RadiusEarthKm + 1.0
	qzms2ttemp := (120.0 - 78.0) / c.RadiusEarthKm
	qzms2t := qzms2ttemp * qzms2ttemp * qzms2ttemp * qzms2ttemp

	s.t = 0.0
	s.Error = 0

	a := s.initl(ep)
	if math.IsNaN(s.NoUnkozai) || s.NoUnkozai <= 0 {
		return false
	}
	s.A = math.Pow(s.NoUnkozai*c.TUMin, -2.0/3.0)

	if a.omeosq >= 0.0 || s.NoUnkozai >= 0.0 {
		s.isimp = a.rp < (220.0/c.RadiusEarthKm + 1.0)
		sfour := ss
		qzms24 := qzms2t
		perige := (a.rp - 1.0) * c.RadiusEarthKm

		// perigees below 156 km alter s and qoms2t
		if perige < 156.0 {
			sfour = perige - 78.0
			if perige < 98.0 {
				sfour = 20.0
			}
			qzms24temp := (120.0 - sfour) / c.RadiusEarthKm
			qzms24 = qzms24temp * qzms24temp * qzms24temp * qzms24temp
			sfour = sfour/c.RadiusEarthKm + 1.0
		}
		pinvsq := 1.0 / a.posq

		tsi := 1.0 / (a.ao - sfour)
		s.eta = a.ao * s.Ecco * tsi
		etasq := s.eta * s.eta
		eeta := s.Ecco * s.eta
		psisq := math.Abs(1.0 - etasq)
		coef := qzms24 * math.Pow(tsi, 4.0)
		coef1 := coef / math.Pow(psisq, 3.5)
		cc2 := coef1 * s.NoUnkozai * (a.ao*(1.0+1.5*etasq+eeta*(4.0+etasq)) +
			0.375*c.J2*tsi/psisq*s.con41*(8.0+3.0*etasq*(8.0+etasq)))
		s.cc1 = s.Bstar * cc2
		cc3 := 0.0
		if s.Ecco > 1.0e-4 {
			cc3 = -2.0 * coef * tsi * c.J3OJ2 * s.NoUnkozai * a.sinio / s.Ecco
		}
		s.x1mth2 = 1.0 - a.cosio2
		s.cc4 = 2.0 * s.NoUnkozai * coef1 * a.ao * a.omeosq *
			(s.eta*(2.0+0.5*etasq) + s.Ecco*(0.5+2.0*etasq) -
				c.J2*tsi/(a.ao*psisq)*
					(-3.0*s.con41*(1.0-2.0*eeta+etasq*(1.5-0.5*eeta))+
						0.75*s.x1mth2*(2.0*etasq-eeta*(1.0+etasq))*math.Cos(2.0*s.ArgPo)))
		s.cc5 = 2.0 * coef1 * a.ao * a.omeosq * (1.0 + 2.75*(etasq+eeta) + eeta*etasq)
		cosio4 := a.cosio2 * a.cosio2
		temp1 := 1.5 * c.J2 * pinvsq * s.NoUnkozai
		temp2 := 0.5 * temp1 * c.J2 * pinvsq
		temp3 := -0.46875 * c.J4 * pinvsq * pinvsq * s.NoUnkozai
		s.mdot = s.NoUnkozai + 0.5*temp1*a.rteosq*s.con41 +
			0.0625*temp2*a.rteosq*(13.0-78.0*a.cosio2+137.0*cosio4)
		s.argpdot = -0.5*temp1*a.con42 + 0.0625*temp2*(7.0-114.0*a.cosio2+395.0*cosio4) +
			temp3*(3.0-36.0*a.cosio2+49.0*cosio4)
		xhdot1 := -temp1 * a.cosio
		s.nodedot = xhdot1 + (0.5*temp2*(4.0-19.0*a.cosio2)+2.0*temp3*(3.0-7.0*a.cosio2))*a.cosio
		xpidot := s.argpdot + s.nodedot
		s.omgcof = s.Bstar * cc3 * math.Cos(s.ArgPo)
		s.xmcof = 0.0
		if s.Ecco > 1.0e-4 {
			s.xmcof = -x2o3 * coef * s.Bstar / eeta
		}
		s.nodecf = 3.5 * a.omeosq * xhdot1 * s.cc1
		s.t2cof = 1.5 * s.cc1
		if math.Abs(a.cosio+1.0) > 1.5e-12 {
			s.xlcof = -0.25 * c.J3OJ2 * a.sinio * (3.0 + 5.0*a.cosio) / (1.0 + a.cosio)
		} else {
			s.xlcof = -0.25 * c.J3OJ2 * a.sinio * (3.0 + 5.0*a.cosio) / temp4
		}
		s.aycof = -0.5 * c.J3OJ2 * a.sinio
		delmotemp := 1.0 + s.eta*math.Cos(s.Mo)
		s.delmo = delmotemp * delmotemp * delmotemp
		s.sinmao = math.Sin(s.Mo)
		s.x7thm1 = 7.0*a.cosio2 - 1.0

		// deep space
		if twoPi/s.NoUnkozai >= 225.0 {
			s.method = 'd'
			s.isimp = true
			tc := 0.0
			inclm := s.Inclo

			ds := s.dscom(ep, s.Ecco, s.ArgPo, tc, s.Inclo, s.Nodeo, s.NoUnkozai)

			ecco, inclo, nodeo, argpo, mo := s.dpper(s.t, true, s.Ecco, s.Inclo, s.Nodeo, s.ArgPo, s.Mo)
			s.Ecco, s.Inclo, s.Nodeo, s.ArgPo, s.Mo = ecco, inclo, nodeo, argpo, mo

			st := dsState{em: ds.em, inclm: inclm, nm: ds.nm}
			s.dsinit(&ds, &st, tc, xpidot, a.eccsq)
		}

		if !s.isimp {
			cc1sq := s.cc1 * s.cc1
			s.d2 = 4.0 * a.ao * tsi * cc1sq
			temp := s.d2 * tsi * s.cc1 / 3.0
			s.d3 = (17.0*a.ao + sfour) * temp
			s.d4 = 0.5 * temp * a.ao * tsi * (221.0*a.ao + 31.0*sfour) * s.cc1
			s.t3cof = s.d2 + 2.0*cc1sq
			s.t4cof = 0.25 * (3.0*s.d3 + s.cc1*(12.0*s.d2+10.0*cc1sq))
			s.t5cof = 0.2 * (3.0*s.d4 + 12.0*s.cc1*s.d3 + 6.0*s.d2*s.d2 +
				15.0*cc1sq*(2.0*s.d2+cc1sq))
		}
	}

	_, code := s.propagate(0.0)
	s.Error = code
	return true
}

// propagate runs the model at tsince minutes from epoch. It never reads the
// stored error code; callers decide whether to keep it.
func (s *Satellite) propagate(tsince float64) (StateVector, int) {
	var sv StateVector
	c := s.grav
	vkmpersec := c.RadiusEarthKm * c.XKE / 60.0

	s.t = tsince

	// secular gravity and atmospheric drag
	xmdf := s.Mo + s.mdot*s.t
	argpdf := s.ArgPo + s.argpdot*s.t
	nodedf := s.Nodeo + s.nodedot*s.t
	argpm := argpdf
	mm := xmdf
	t2 := s.t * s.t
	nodem := nodedf + s.nodecf*t2
	tempa := 1.0 - s.cc1*s.t
	tempe := s.Bstar * s.cc4 * s.t
	templ := s.t2cof * t2

	if !s.isimp {
		delomg := s.omgcof * s.t
		delmtemp := 1.0 + s.eta*math.Cos(xmdf)
		delm := s.xmcof * (delmtemp*delmtemp*delmtemp - s.delmo)
		temp := delomg + delm
		mm = xmdf + temp
		argpm = argpdf - temp
		t3 := t2 * s.t
		t4 := t3 * s.t
		tempa = tempa - s.d2*t2 - s.d3*t3 - s.d4*t4
		tempe = tempe + s.Bstar*s.cc5*(math.Sin(mm)-s.sinmao)
		templ = templ + s.t3cof*t3 + t4*(s.t4cof+s.t*s.t5cof)
	}

	nm := s.NoUnkozai
	em := s.Ecco
	inclm := s.Inclo
	if s.method == 'd' {
		st := dsState{em: em, argpm: argpm, inclm: inclm, mm: mm, nodem: nodem, nm: nm}
		s.dspace(&st, s.t)
		em, argpm, inclm, mm, nodem, nm = st.em, st.argpm, st.inclm, st.mm, st.nodem, st.nm
	}

	if nm <= 0.0 {
		return sv, 2
	}
	am := math.Pow(c.XKE/nm, x2o3) * tempa * tempa
	nm = c.XKE / math.Pow(am, 1.5)
	em -= tempe

	if em >= 1.0 || em < -0.001 {
		return sv, 1
	}
	if em < 1.0e-6 {
		em = 1.0e-6
	}
	mm += s.NoUnkozai * templ
	xlm := mm + argpm + nodem

	nodem = math.Mod(nodem, twoPi)
	argpm = math.Mod(argpm, twoPi)
	xlm = math.Mod(xlm, twoPi)
	mm = math.Mod(xlm-argpm-nodem, twoPi)

	sinim := math.Sin(inclm)
	cosim := math.Cos(inclm)

	// lunar-solar periodics
	ep := em
	xincp := inclm
	argpp := argpm
	nodep := nodem
	mp := mm
	sinip := sinim
	cosip := cosim
	if s.method == 'd' {
		ep, xincp, nodep, argpp, mp = s.dpper(s.t, false, ep, xincp, nodep, argpp, mp)
		if xincp < 0.0 {
			xincp = -xincp
			nodep += math.Pi
			argpp -= math.Pi
		}
		if ep < 0.0 || ep > 1.0 {
			return sv, 3
		}
	}

	// long period periodics
	if s.method == 'd' {
		sinip = math.Sin(xincp)
		cosip = math.Cos(xincp)
		s.aycof = -0.5 * c.J3OJ2 * sinip
		if math.Abs(cosip+1.0) > 1.5e-12 {
			s.xlcof = -0.25 * c.J3OJ2 * sinip * (3.0 + 5.0*cosip) / (1.0 + cosip)
		} else {
			s.xlcof = -0.25 * c.J3OJ2 * sinip * (3.0 + 5.0*cosip) / temp4
		}
	}
	axnl := ep * math.Cos(argpp)
	temp := 1.0 / (am * (1.0 - ep*ep))
	aynl := ep*math.Sin(argpp) + temp*s.aycof
	xl := mp + argpp + nodep + temp*s.xlcof*axnl

	// kepler's equation
	u := math.Mod(xl-nodep, twoPi)
	eo1 := u
	tem5 := 9999.9
	var sineo1, coseo1 float64
	for ktr := 1; math.Abs(tem5) >= 1.0e-12 && ktr <= 10; ktr++ {
		sineo1 = math.Sin(eo1)
		coseo1 = math.Cos(eo1)
		tem5 = 1.0 - coseo1*axnl - sineo1*aynl
		tem5 = (u - aynl*coseo1 + axnl*sineo1 - eo1) / tem5
		if math.Abs(tem5) >= 0.95 {
			if tem5 > 0.0 {
				tem5 = 0.95
			} else {
				tem5 = -0.95
			}
		}
		eo1 += tem5
	}

	// short period preliminary quantities
	ecose := axnl*coseo1 + aynl*sineo1
	esine := axnl*sineo1 - aynl*coseo1
	el2 := axnl*axnl + aynl*aynl
	pl := am * (1.0 - el2)
	if pl < 0.0 {
		return sv, 4
	}

	rl := am * (1.0 - ecose)
	rdotl := math.Sqrt(am) * esine / rl
	rvdotl := math.Sqrt(pl) / rl
	betal := math.Sqrt(1.0 - el2)
	temp = esine / (1.0 + betal)
	sinu := am / rl * (sineo1 - aynl - axnl*temp)
	cosu := am / rl * (coseo1 - axnl + aynl*temp)
	su := math.Atan2(sinu, cosu)
	sin2u := (cosu + cosu) * sinu
	cos2u := 1.0 - 2.0*sinu*sinu
	temp = 1.0 / pl
	temp1 := 0.5 * c.J2 * temp
	temp2 := temp1 * temp

	if s.method == 'd' {
		cosisq := cosip * cosip
		s.con41 = 3.0*cosisq - 1.0
		s.x1mth2 = 1.0 - cosisq
		s.x7thm1 = 7.0*cosisq - 1.0
	}
	mrt := rl*(1.0-1.5*temp2*betal*s.con41) + 0.5*temp1*s.x1mth2*cos2u
	su -= 0.25 * temp2 * s.x7thm1 * sin2u
	xnode := nodep + 1.5*temp2*cosip*sin2u
	xinc := xincp + 1.5*temp2*cosip*sinip*cos2u
	mvt := rdotl - nm*temp1*s.x1mth2*sin2u/c.XKE
	rvdot := rvdotl + nm*temp1*(s.x1mth2*cos2u+1.5*s.con41)/c.XKE

	// orientation vectors
	sinsu := math.Sin(su)
	cossu := math.Cos(su)
	snod := math.Sin(xnode)
	cnod := math.Cos(xnode)
	sini := math.Sin(xinc)
	cosi := math.Cos(xinc)
	xmx := -snod * cosi
	xmy := cnod * cosi
	ux := xmx*sinsu + cnod*cossu
	uy := xmy*sinsu + snod*cossu
	uz := sini * sinsu
	vx := xmx*cossu - cnod*sinsu
	vy := xmy*cossu - snod*sinsu
	vz := sini * cossu

	sv.R[0] = mrt * ux * c.RadiusEarthKm
	sv.R[1] = mrt * uy * c.RadiusEarthKm
	sv.R[2] = mrt * uz * c.RadiusEarthKm
	sv.V[0] = (mvt*ux + rvdot*vx) * vkmpersec
	sv.V[1] = (mvt*uy + rvdot*vy) * vkmpersec
	sv.V[2] = (mvt*uz + rvdot*vz) * vkmpersec

	// decayed
	if mrt < 1.0 {
		return sv, 6
	}
	return sv, 0
}
