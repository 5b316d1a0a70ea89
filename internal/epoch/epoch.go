// Package epoch converts between split Julian dates and calendar timestamps.
//
// Julian dates are carried as two float64 values: a whole part aligned to
// midnight (x.5) and a day fraction. A single float64 near 2.46e6 only keeps
// about 40 microseconds of resolution, which is not enough for sub-second
// epoch bookkeeping.
package epoch

import (
	"fmt"
	"math"
)

// Calendar is a UTC calendar timestamp. Second may carry a fraction.
type Calendar struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second float64
}

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// JDay returns the Julian date of a calendar instant split into the midnight
// aligned whole part and the day fraction. Valid for years 1900 to 2100.
func JDay(year, mon, day, hr, minute int, sec float64) (jd, frac float64) {
	y := float64(year)
	m := float64(mon)
	jd = 367.0*y -
		math.Floor((7*(y+math.Floor((m+9)/12.0)))*0.25) +
		math.Floor(275*m/9.0) +
		float64(day) + 1721013.5
	frac = (sec + float64(minute)*60.0 + float64(hr)*3600.0) / 86400.0

	if math.Abs(frac) > 1.0 {
		dtt := math.Floor(frac)
		jd += dtt
		frac -= dtt
	}
	return jd, frac
}

// JD returns the split Julian date of c.
func (c Calendar) JD() (jd, frac float64) {
	return JDay(c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
}

// ToCalendar converts a split Julian date to a calendar timestamp.
//
// A negative fraction borrows one day from the whole part first. Any
// remaining fraction outside [0,1) is carried into the whole part before the
// month and day are resolved.
func ToCalendar(jd, frac float64) Calendar {
	if frac < 0.0 {
		jd -= 1.0
		frac += 1.0
	}

	// move any part of a day held in the whole value into the fraction
	dt := jd - math.Floor(jd) - 0.5
	if math.Abs(dt) > 1.0e-8 {
		jd -= dt
		frac += dt
	}
	jd, frac = carry(jd, frac)

	temp := jd - 2415019.5
	year := 1900 + int(math.Floor(temp/365.25))
	days := dayOfYear(temp, year)

	// beginning of a year
	if days+frac < 1.0 {
		year--
		days = dayOfYear(temp, year)
	}

	return DaysToMDHMS(year, days+frac)
}

func dayOfYear(temp float64, year int) float64 {
	leapyrs := math.Floor(float64(year-1901) * 0.25)
	return math.Floor(temp - (float64(year-1900)*365.0 + leapyrs))
}

func carry(jd, frac float64) (float64, float64) {
	if frac >= 1.0 || frac < 0.0 {
		whole := math.Floor(frac)
		jd += whole
		frac -= whole
	}
	return jd, frac
}

const microsPerDay = 86_400_000_000

func yearDays(year int) int {
	if year%4 == 0 {
		return 366
	}
	return 365
}

// DaysToMDHMS resolves a fractional day of year (1.0 is Jan 1 00:00) into a
// calendar timestamp. The time of day is rounded to whole microseconds first
// and any overflow carried into the next day, so Second stays below 60 when
// printed with six decimals.
func DaysToMDHMS(year int, days float64) Calendar {
	dayofyr := int(math.Floor(days))
	us := int64(math.Round((days - float64(dayofyr)) * microsPerDay))
	if us >= microsPerDay {
		us -= microsPerDay
		dayofyr++
	}
	if dayofyr > yearDays(year) {
		dayofyr -= yearDays(year)
		year++
	}

	lmonth := monthDays
	if year%4 == 0 {
		lmonth[1] = 29
	}

	i := 1
	inttemp := 0
	for dayofyr > inttemp+lmonth[i-1] && i < 12 {
		inttemp += lmonth[i-1]
		i++
	}

	c := Calendar{Year: year, Month: i, Day: dayofyr - inttemp}
	c.Hour = int(us / 3_600_000_000)
	us %= 3_600_000_000
	c.Minute = int(us / 60_000_000)
	us %= 60_000_000
	c.Second = float64(us) / 1e6
	return c
}

// DayOfYearJD returns the split Julian date for a year and fractional day of
// year.
func DayOfYearJD(year int, days float64) (jd, frac float64) {
	return DaysToMDHMS(year, days).JD()
}

// TLEYear expands a two digit TLE epoch year. 57..99 map to the 1900s.
func TLEYear(yy int) int {
	if yy < 57 {
		return yy + 2000
	}
	return yy + 1900
}

// MinutesBetween returns b - a in minutes for two split Julian dates.
func MinutesBetween(aJD, aFrac, bJD, bFrac float64) float64 {
	return ((bJD - aJD) + (bFrac - aFrac)) * 1440.0
}

// String renders c as "YYYY-MM-DD hh:mm:ss.ssssss".
func (c Calendar) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%09.6f", c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
}

// STK renders c in the layout STK expects for ScenarioEpoch, for example
// "27 Jun 2000 18:50:19.733568".
func (c Calendar) STK() string {
	name := "???"
	if c.Month >= 1 && c.Month <= 12 {
		name = monthNames[c.Month-1]
	}
	return fmt.Sprintf("%d %s %d %02d:%02d:%09.6f", c.Day, name, c.Year, c.Hour, c.Minute, c.Second)
}

// ParseMonth returns the month number for a three letter abbreviation.
func ParseMonth(abbr string) (int, error) {
	for i, n := range monthNames {
		if n == abbr {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("epoch: unknown month %q", abbr)
}
