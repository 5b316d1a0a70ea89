package sgp4

import "math"

// dsCommon carries the lunar-solar terms dscom hands to dsinit.
type dsCommon struct {
	snodm, cnodm, sinim, cosim, sinomm, cosomm float64
	day, em, emsq, gam, rtemsq, nm             float64

	s1, s2, s3, s4, s5, s6, s7        float64
	ss1, ss2, ss3, ss4, ss5, ss6, ss7 float64

	sz1, sz2, sz3, sz11, sz12, sz13 float64
	sz21, sz22, sz23, sz31, sz32    float64
	sz33                            float64

	z1, z2, z3, z11, z12, z13 float64
	z21, z22, z23, z31, z32   float64
	z33                       float64
}

// dsState is the set of mean elements the deep space routines update.
type dsState struct {
	em, argpm, inclm, mm, nm, nodem float64
}

// dscom computes the lunar-solar terms common to initialization and
// propagation and stores the periodic coefficients on s.
func (s *Satellite) dscom(ep, ecc, argpp, tc, inclp, nodep, np float64) dsCommon {
	const (
		zes    = 0.01675
		zel    = 0.05490
		c1ss   = 2.9864797e-6
		c1l    = 4.7968065e-7
		zsinis = 0.39785416
		zcosis = 0.91744867
		zcosgs = 0.1945905
		zsings = -0.98088458
	)

	var d dsCommon
	d.nm = np
	d.em = ecc
	d.snodm = math.Sin(nodep)
	d.cnodm = math.Cos(nodep)
	d.sinomm = math.Sin(argpp)
	d.cosomm = math.Cos(argpp)
	d.sinim = math.Sin(inclp)
	d.cosim = math.Cos(inclp)
	d.emsq = d.em * d.em
	betasq := 1.0 - d.emsq
	d.rtemsq = math.Sqrt(betasq)

	s.peo = 0.0
	s.pinco = 0.0
	s.plo = 0.0
	s.pgho = 0.0
	s.pho = 0.0
	d.day = ep + 18261.5 + tc/1440.0
	xnodce := math.Mod(4.5236020-9.2422029e-4*d.day, twoPi)
	stem := math.Sin(xnodce)
	ctem := math.Cos(xnodce)
	zcosil := 0.91375164 - 0.03568096*ctem
	zsinil := math.Sqrt(1.0 - zcosil*zcosil)
	zsinhl := 0.089683511 * stem / zsinil
	zcoshl := math.Sqrt(1.0 - zsinhl*zsinhl)
	d.gam = 5.8351514 + 0.0019443680*d.day
	zx := 0.39785416 * stem / zsinil
	zy := zcoshl*ctem + 0.91744867*zsinhl*stem
	zx = math.Atan2(zx, zy)
	zx = d.gam + zx - xnodce
	zcosgl := math.Cos(zx)
	zsingl := math.Sin(zx)

	// solar terms first, then lunar
	zcosg := zcosgs
	zsing := zsings
	zcosi := zcosis
	zsini := zsinis
	zcosh := d.cnodm
	zsinh := d.snodm
	cc := c1ss
	xnoi := 1.0 / d.nm

	for lsflg := 1; lsflg <= 2; lsflg++ {
		a1 := zcosg*zcosh + zsing*zcosi*zsinh
		a3 := -zsing*zcosh + zcosg*zcosi*zsinh
		a7 := -zcosg*zsinh + zsing*zcosi*zcosh
		a8 := zsing * zsini
		a9 := zsing*zsinh + zcosg*zcosi*zcosh
		a10 := zcosg * zsini
		a2 := d.cosim*a7 + d.sinim*a8
		a4 := d.cosim*a9 + d.sinim*a10
		a5 := -d.sinim*a7 + d.cosim*a8
		a6 := -d.sinim*a9 + d.cosim*a10

		x1 := a1*d.cosomm + a2*d.sinomm
		x2 := a3*d.cosomm + a4*d.sinomm
		x3 := -a1*d.sinomm + a2*d.cosomm
		x4 := -a3*d.sinomm + a4*d.cosomm
		x5 := a5 * d.sinomm
		x6 := a6 * d.sinomm
		x7 := a5 * d.cosomm
		x8 := a6 * d.cosomm

		d.z31 = 12.0*x1*x1 - 3.0*x3*x3
		d.z32 = 24.0*x1*x2 - 6.0*x3*x4
		d.z33 = 12.0*x2*x2 - 3.0*x4*x4
		d.z1 = 3.0*(a1*a1+a2*a2) + d.z31*d.emsq
		d.z2 = 6.0*(a1*a3+a2*a4) + d.z32*d.emsq
		d.z3 = 3.0*(a3*a3+a4*a4) + d.z33*d.emsq
		d.z11 = -6.0*a1*a5 + d.emsq*(-24.0*x1*x7-6.0*x3*x5)
		d.z12 = -6.0*(a1*a6+a3*a5) + d.emsq*(-24.0*(x2*x7+x1*x8)-6.0*(x3*x6+x4*x5))
		d.z13 = -6.0*a3*a6 + d.emsq*(-24.0*x2*x8-6.0*x4*x6)
		d.z21 = 6.0*a2*a5 + d.emsq*(24.0*x1*x5-6.0*x3*x7)
		d.z22 = 6.0*(a4*a5+a2*a6) + d.emsq*(24.0*(x2*x5+x1*x6)-6.0*(x4*x7+x3*x8))
		d.z23 = 6.0*a4*a6 + d.emsq*(24.0*x2*x6-6.0*x4*x8)
		d.z1 = d.z1 + d.z1 + betasq*d.z31
		d.z2 = d.z2 + d.z2 + betasq*d.z32
		d.z3 = d.z3 + d.z3 + betasq*d.z33
		d.s3 = cc * xnoi
		d.s2 = -0.5 * d.s3 / d.rtemsq
		d.s4 = d.s3 * d.rtemsq
		d.s1 = -15.0 * d.em * d.s4
		d.s5 = x1*x3 + x2*x4
		d.s6 = x2*x3 + x1*x4
		d.s7 = x2*x4 - x1*x3

		if lsflg == 1 {
			d.ss1, d.ss2, d.ss3, d.ss4 = d.s1, d.s2, d.s3, d.s4
			d.ss5, d.ss6, d.ss7 = d.s5, d.s6, d.s7
			d.sz1, d.sz2, d.sz3 = d.z1, d.z2, d.z3
			d.sz11, d.sz12, d.sz13 = d.z11, d.z12, d.z13
			d.sz21, d.sz22, d.sz23 = d.z21, d.z22, d.z23
			d.sz31, d.sz32, d.sz33 = d.z31, d.z32, d.z33
			zcosg = zcosgl
			zsing = zsingl
			zcosi = zcosil
			zsini = zsinil
			zcosh = zcoshl*d.cnodm + zsinhl*d.snodm
			zsinh = d.snodm*zcoshl - d.cnodm*zsinhl
			cc = c1l
		}
	}

	s.zmol = math.Mod(4.7199672+0.22997150*d.day-d.gam, twoPi)
	s.zmos = math.Mod(6.2565837+0.017201977*d.day, twoPi)

	// solar
	s.se2 = 2.0 * d.ss1 * d.ss6
	s.se3 = 2.0 * d.ss1 * d.ss7
	s.si2 = 2.0 * d.ss2 * d.sz12
	s.si3 = 2.0 * d.ss2 * (d.sz13 - d.sz11)
	s.sl2 = -2.0 * d.ss3 * d.sz2
	s.sl3 = -2.0 * d.ss3 * (d.sz3 - d.sz1)
	s.sl4 = -2.0 * d.ss3 * (-21.0 - 9.0*d.emsq) * zes
	s.sgh2 = 2.0 * d.ss4 * d.sz32
	s.sgh3 = 2.0 * d.ss4 * (d.sz33 - d.sz31)
	s.sgh4 = -18.0 * d.ss4 * zes
	s.sh2 = -2.0 * d.ss2 * d.sz22
	s.sh3 = -2.0 * d.ss2 * (d.sz23 - d.sz21)

	// lunar
	s.ee2 = 2.0 * d.s1 * d.s6
	s.e3 = 2.0 * d.s1 * d.s7
	s.xi2 = 2.0 * d.s2 * d.z12
	s.xi3 = 2.0 * d.s2 * (d.z13 - d.z11)
	s.xl2 = -2.0 * d.s3 * d.z2
	s.xl3 = -2.0 * d.s3 * (d.z3 - d.z1)
	s.xl4 = -2.0 * d.s3 * (-21.0 - 9.0*d.emsq) * zel
	s.xgh2 = 2.0 * d.s4 * d.z32
	s.xgh3 = 2.0 * d.s4 * (d.z33 - d.z31)
	s.xgh4 = -18.0 * d.s4 * zel
	s.xh2 = -2.0 * d.s2 * d.z22
	s.xh3 = -2.0 * d.s2 * (d.z23 - d.z21)

	return d
}

// dpper applies the lunar-solar periodics. During initialization only the
// periodic terms are evaluated and the elements come back unchanged.
func (s *Satellite) dpper(t float64, init bool, ep, inclp, nodep, argpp, mp float64) (float64, float64, float64, float64, float64) {
	const (
		zns = 1.19459e-5
		zes = 0.01675
		znl = 1.5835218e-4
		zel = 0.05490
	)

	zm := s.zmos + zns*t
	if init {
		zm = s.zmos
	}
	zf := zm + 2.0*zes*math.Sin(zm)
	sinzf := math.Sin(zf)
	f2 := 0.5*sinzf*sinzf - 0.25
	f3 := -0.5 * sinzf * math.Cos(zf)
	ses := s.se2*f2 + s.se3*f3
	sis := s.si2*f2 + s.si3*f3
	sls := s.sl2*f2 + s.sl3*f3 + s.sl4*sinzf
	sghs := s.sgh2*f2 + s.sgh3*f3 + s.sgh4*sinzf
	shs := s.sh2*f2 + s.sh3*f3

	zm = s.zmol + znl*t
	if init {
		zm = s.zmol
	}
	zf = zm + 2.0*zel*math.Sin(zm)
	sinzf = math.Sin(zf)
	f2 = 0.5*sinzf*sinzf - 0.25
	f3 = -0.5 * sinzf * math.Cos(zf)
	sel := s.ee2*f2 + s.e3*f3
	sil := s.xi2*f2 + s.xi3*f3
	sll := s.xl2*f2 + s.xl3*f3 + s.xl4*sinzf
	sghl := s.xgh2*f2 + s.xgh3*f3 + s.xgh4*sinzf
	shll := s.xh2*f2 + s.xh3*f3

	if init {
		return ep, inclp, nodep, argpp, mp
	}

	pe := ses + sel - s.peo
	pinc := sis + sil - s.pinco
	pl := sls + sll - s.plo
	pgh := sghs + sghl - s.pgho
	ph := shs + shll - s.pho
	inclp += pinc
	ep += pe
	sinip := math.Sin(inclp)
	cosip := math.Cos(inclp)

	// Lyddane modification below 0.2 rad, using the perturbed inclination
	if inclp >= 0.2 {
		ph /= sinip
		pgh -= cosip * ph
		argpp += pgh
		nodep += ph
		mp += pl
		return ep, inclp, nodep, argpp, mp
	}

	sinop := math.Sin(nodep)
	cosop := math.Cos(nodep)
	alfdp := sinip * sinop
	betdp := sinip * cosop
	dalf := ph*cosop + pinc*cosip*sinop
	dbet := -ph*sinop + pinc*cosip*cosop
	alfdp += dalf
	betdp += dbet
	nodep = math.Mod(nodep, twoPi)
	if nodep < 0.0 && s.Ops == OpsAFSPC {
		nodep += twoPi
	}
	xls := mp + argpp + cosip*nodep
	dls := pl + pgh - pinc*nodep*sinip
	xls += dls
	xnoh := nodep
	nodep = math.Atan2(alfdp, betdp)
	if nodep < 0.0 && s.Ops == OpsAFSPC {
		nodep += twoPi
	}
	if math.Abs(xnoh-nodep) > math.Pi {
		if nodep < xnoh {
			nodep += twoPi
		} else {
			nodep -= twoPi
		}
	}
	mp += pl
	argpp = xls - mp - cosip*nodep
	return ep, inclp, nodep, argpp, mp
}

const rptim = 4.37526908801129966e-3 // earth rotation, rad/min

// dsinit sets up the deep space secular rates and, for 12 and 24 hour
// orbits, the resonance integrator.
func (s *Satellite) dsinit(d *dsCommon, st *dsState, tc, xpidot, eccsq float64) {
	const (
		q22    = 1.7891679e-6
		q31    = 2.1460748e-6
		q33    = 2.2123015e-7
		root22 = 1.7891679e-6
		root44 = 7.3636953e-9
		root54 = 2.1765803e-9
		root32 = 3.7393792e-7
		root52 = 1.1428639e-7
		znl    = 1.5835218e-4
		zns    = 1.19459e-5
	)

	cosim, sinim := d.cosim, d.sinim
	emsq := d.emsq

	s.irez = 0
	if st.nm < 0.0052359877 && st.nm > 0.0034906585 {
		s.irez = 1
	}
	if st.nm >= 8.26e-3 && st.nm <= 9.24e-3 && st.em >= 0.5 {
		s.irez = 2
	}

	// solar
	ses := d.ss1 * zns * d.ss5
	sis := d.ss2 * zns * (d.sz11 + d.sz13)
	sls := -zns * d.ss3 * (d.sz1 + d.sz3 - 14.0 - 6.0*emsq)
	sghs := d.ss4 * zns * (d.sz31 + d.sz33 - 6.0)
	shs := -zns * d.ss2 * (d.sz21 + d.sz23)
	if st.inclm < 5.2359877e-2 || st.inclm > math.Pi-5.2359877e-2 {
		shs = 0.0
	}
	if sinim != 0.0 {
		shs /= sinim
	}
	sgs := sghs - cosim*shs

	// lunar
	s.dedt = ses + d.s1*znl*d.s5
	s.didt = sis + d.s2*znl*(d.z11+d.z13)
	s.dmdt = sls - znl*d.s3*(d.z1+d.z3-14.0-6.0*emsq)
	sghl := d.s4 * znl * (d.z31 + d.z33 - 6.0)
	shll := -znl * d.s2 * (d.z21 + d.z23)
	if st.inclm < 5.2359877e-2 || st.inclm > math.Pi-5.2359877e-2 {
		shll = 0.0
	}
	s.domdt = sgs + sghl
	s.dnodt = shs
	if sinim != 0.0 {
		s.domdt -= cosim / sinim * shll
		s.dnodt += shll / sinim
	}

	dndt := 0.0
	theta := math.Mod(s.gsto+tc*rptim, twoPi)
	st.em += s.dedt * s.t
	st.inclm += s.didt * s.t
	st.argpm += s.domdt * s.t
	st.nodem += s.dnodt * s.t
	st.mm += s.dmdt * s.t

	if s.irez == 0 {
		return
	}

	aonv := math.Pow(st.nm/s.grav.XKE, x2o3)

	// geopotential resonance for 12 hour orbits
	if s.irez == 2 {
		cosisq := cosim * cosim
		emo := st.em
		em := s.Ecco
		emsqo := emsq
		emsq = eccsq
		eoc := em * emsq
		g201 := -0.306 - (em-0.64)*0.440

		var g211, g310, g322, g410, g422, g520, g521, g532, g533 float64
		if em <= 0.65 {
			g211 = 3.616 - 13.2470*em + 16.2900*emsq
			g310 = -19.302 + 117.3900*em - 228.4190*emsq + 156.5910*eoc
			g322 = -18.9068 + 109.7927*em - 214.6334*emsq + 146.5816*eoc
			g410 = -41.122 + 242.6940*em - 471.0940*emsq + 313.9530*eoc
			g422 = -146.407 + 841.8800*em - 1629.014*emsq + 1083.4350*eoc
			g520 = -532.114 + 3017.977*em - 5740.032*emsq + 3708.2760*eoc
		} else {
			g211 = -72.099 + 331.819*em - 508.738*emsq + 266.724*eoc
			g310 = -346.844 + 1582.851*em - 2415.925*emsq + 1246.113*eoc
			g322 = -342.585 + 1554.908*em - 2366.899*emsq + 1215.972*eoc
			g410 = -1052.797 + 4758.686*em - 7193.992*emsq + 3651.957*eoc
			g422 = -3581.690 + 16178.110*em - 24462.770*emsq + 12422.520*eoc
			if em > 0.715 {
				g520 = -5149.66 + 29936.92*em - 54087.36*emsq + 31324.56*eoc
			} else {
				g520 = 1464.74 - 4664.75*em + 3763.64*emsq
			}
		}
		if em < 0.7 {
			g533 = -919.22770 + 4988.6100*em - 9064.7700*emsq + 5542.21*eoc
			g521 = -822.71072 + 4568.6173*em - 8491.4146*emsq + 5337.524*eoc
			g532 = -853.66600 + 4690.2500*em - 8624.7700*emsq + 5341.4*eoc
		} else {
			g533 = -37995.780 + 161616.52*em - 229838.20*emsq + 109377.94*eoc
			g521 = -51752.104 + 218913.95*em - 309468.16*emsq + 146349.42*eoc
			g532 = -40023.880 + 170470.89*em - 242699.48*emsq + 115605.82*eoc
		}

		sini2 := sinim * sinim
		f220 := 0.75 * (1.0 + 2.0*cosim + cosisq)
		f221 := 1.5 * sini2
		f321 := 1.875 * sinim * (1.0 - 2.0*cosim - 3.0*cosisq)
		f322 := -1.875 * sinim * (1.0 + 2.0*cosim - 3.0*cosisq)
		f441 := 35.0 * sini2 * f220
		f442 := 39.3750 * sini2 * sini2
		f522 := 9.84375 * sinim * (sini2*(1.0-2.0*cosim-5.0*cosisq) +
			0.33333333*(-2.0+4.0*cosim+6.0*cosisq))
		f523 := sinim * (4.92187512*sini2*(-2.0-4.0*cosim+10.0*cosisq) +
			6.56250012*(1.0+2.0*cosim-3.0*cosisq))
		f542 := 29.53125 * sinim * (2.0 - 8.0*cosim + cosisq*(-12.0+8.0*cosim+10.0*cosisq))
		f543 := 29.53125 * sinim * (-2.0 - 8.0*cosim + cosisq*(12.0+8.0*cosim-10.0*cosisq))
		xno2 := st.nm * st.nm
		ainv2 := aonv * aonv
		temp1 := 3.0 * xno2 * ainv2
		temp := temp1 * root22
		s.d2201 = temp * f220 * g201
		s.d2211 = temp * f221 * g211
		temp1 *= aonv
		temp = temp1 * root32
		s.d3210 = temp * f321 * g310
		s.d3222 = temp * f322 * g322
		temp1 *= aonv
		temp = 2.0 * temp1 * root44
		s.d4410 = temp * f441 * g410
		s.d4422 = temp * f442 * g422
		temp1 *= aonv
		temp = temp1 * root52
		s.d5220 = temp * f522 * g520
		s.d5232 = temp * f523 * g532
		temp = 2.0 * temp1 * root54
		s.d5421 = temp * f542 * g521
		s.d5433 = temp * f543 * g533
		s.xlamo = math.Mod(s.Mo+s.Nodeo+s.Nodeo-theta-theta, twoPi)
		s.xfact = s.mdot + s.dmdt + 2.0*(s.nodedot+s.dnodt-rptim) - s.NoUnkozai
		st.em = emo
		emsq = emsqo
	}

	// synchronous resonance
	if s.irez == 1 {
		g200 := 1.0 + emsq*(-2.5+0.8125*emsq)
		g310 := 1.0 + 2.0*emsq
		g300 := 1.0 + emsq*(-6.0+6.60937*emsq)
		f220 := 0.75 * (1.0 + cosim) * (1.0 + cosim)
		f311 := 0.9375*sinim*sinim*(1.0+3.0*cosim) - 0.75*(1.0+cosim)
		f330 := 1.0 + cosim
		f330 = 1.875 * f330 * f330 * f330
		s.del1 = 3.0 * st.nm * st.nm * aonv * aonv
		s.del2 = 2.0 * s.del1 * f220 * g200 * q22
		s.del3 = 3.0 * s.del1 * f330 * g300 * q33 * aonv
		s.del1 = s.del1 * f311 * g310 * q31 * aonv
		s.xlamo = math.Mod(s.Mo+s.Nodeo+s.ArgPo-theta, twoPi)
		s.xfact = s.mdot + xpidot - rptim + s.dmdt + s.domdt + s.dnodt - s.NoUnkozai
	}

	s.xli = s.xlamo
	s.xni = s.NoUnkozai
	s.atime = 0.0
	st.nm = s.NoUnkozai + dndt
}

// dspace integrates the deep space secular and resonance effects to t.
func (s *Satellite) dspace(st *dsState, t float64) {
	const (
		fasx2 = 0.13130908
		fasx4 = 2.8843198
		fasx6 = 0.37448087
		g22   = 5.7686396
		g32   = 0.95240898
		g44   = 1.8014998
		g52   = 1.0508330
		g54   = 4.4108898
		stepp = 720.0
		stepn = -720.0
		step2 = 259200.0
	)

	tc := t
	theta := math.Mod(s.gsto+tc*rptim, twoPi)
	st.em += s.dedt * t
	st.inclm += s.didt * t
	st.argpm += s.domdt * t
	st.nodem += s.dnodt * t
	st.mm += s.dmdt * t

	if s.irez == 0 {
		return
	}

	// euler-maclaurin integration, restarted from epoch when t moves
	// backwards past the last integration point
	if s.atime == 0.0 || t*s.atime <= 0.0 || math.Abs(t) < math.Abs(s.atime) {
		s.atime = 0.0
		s.xni = s.NoUnkozai
		s.xli = s.xlamo
	}
	delt := stepn
	if t > 0.0 {
		delt = stepp
	}

	var xndt, xldot, xnddt, ft float64
	for {
		if s.irez != 2 {
			// near synchronous
			xndt = s.del1*math.Sin(s.xli-fasx2) + s.del2*math.Sin(2.0*(s.xli-fasx4)) +
				s.del3*math.Sin(3.0*(s.xli-fasx6))
			xldot = s.xni + s.xfact
			xnddt = s.del1*math.Cos(s.xli-fasx2) +
				2.0*s.del2*math.Cos(2.0*(s.xli-fasx4)) +
				3.0*s.del3*math.Cos(3.0*(s.xli-fasx6))
			xnddt *= xldot
		} else {
			// near half day
			xomi := s.ArgPo + s.argpdot*s.atime
			x2omi := xomi + xomi
			x2li := s.xli + s.xli
			xndt = s.d2201*math.Sin(x2omi+s.xli-g22) + s.d2211*math.Sin(s.xli-g22) +
				s.d3210*math.Sin(xomi+s.xli-g32) + s.d3222*math.Sin(-xomi+s.xli-g32) +
				s.d4410*math.Sin(x2omi+x2li-g44) + s.d4422*math.Sin(x2li-g44) +
				s.d5220*math.Sin(xomi+s.xli-g52) + s.d5232*math.Sin(-xomi+s.xli-g52) +
				s.d5421*math.Sin(xomi+x2li-g54) + s.d5433*math.Sin(-xomi+x2li-g54)
			xldot = s.xni + s.xfact
			xnddt = s.d2201*math.Cos(x2omi+s.xli-g22) + s.d2211*math.Cos(s.xli-g22) +
				s.d3210*math.Cos(xomi+s.xli-g32) + s.d3222*math.Cos(-xomi+s.xli-g32) +
				s.d5220*math.Cos(xomi+s.xli-g52) + s.d5232*math.Cos(-xomi+s.xli-g52) +
				2.0*(s.d4410*math.Cos(x2omi+x2li-g44)+
					s.d4422*math.Cos(x2li-g44)+s.d5421*math.Cos(xomi+x2li-g54)+
					s.d5433*math.Cos(-xomi+x2li-g54))
			xnddt *= xldot
		}

		if math.Abs(t-s.atime) < stepp {
			ft = t - s.atime
			break
		}
		s.xli = s.xli + xldot*delt + xndt*step2
		s.xni = s.xni + xndt*delt + xnddt*step2
		s.atime += delt
	}

	st.nm = s.xni + xndt*ft + xnddt*ft*ft*0.5
	xl := s.xli + xldot*ft + xndt*ft*ft*0.5
	if s.irez != 1 {
		st.mm = xl - 2.0*st.nodem + 2.0*theta
	} else {
		st.mm = xl - st.nodem - st.argpm + theta
	}
	dndt := st.nm - s.NoUnkozai
	st.nm = s.NoUnkozai + dndt
}
