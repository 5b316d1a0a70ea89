package epoch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJDay(t *testing.T) {
	jd, frac := JDay(2000, 1, 1, 12, 0, 0)
	assert.Equal(t, 2451544.5, jd)
	assert.InDelta(t, 0.5, frac, 1e-15)

	jd, frac = JDay(2024, 6, 1, 0, 0, 0)
	assert.Equal(t, 2460462.5, jd)
	assert.Zero(t, frac)
}

func TestToCalendar(t *testing.T) {
	c := ToCalendar(2451544.5, 0.5)
	assert.Equal(t, 2000, c.Year)
	assert.Equal(t, 1, c.Month)
	assert.Equal(t, 1, c.Day)
	assert.Equal(t, 12, c.Hour)
	assert.Equal(t, 0, c.Minute)
	assert.InDelta(t, 0.0, c.Second, 1e-6)
}

func TestToCalendar_NegativeFraction(t *testing.T) {
	cases := []struct {
		jd, frac float64
	}{
		{2451544.5, -0.25},
		{2460310.5, -0.9},
		{2453911.5, -1e-6},
	}

	for _, tc := range cases {
		got := ToCalendar(tc.jd, tc.frac)
		want := ToCalendar(tc.jd-1, tc.frac+1.0)
		assert.Equal(t, want, got)
	}

	// 2000-01-01 00:00 minus six hours
	c := ToCalendar(2451544.5, -0.25)
	assert.Equal(t, 1999, c.Year)
	assert.Equal(t, 12, c.Month)
	assert.Equal(t, 31, c.Day)
	assert.Equal(t, 18, c.Hour)
}

func TestToCalendar_FractionCarry(t *testing.T) {
	c := ToCalendar(2451544.5, 1.25)
	assert.Equal(t, 2000, c.Year)
	assert.Equal(t, 1, c.Month)
	assert.Equal(t, 2, c.Day)
	assert.Equal(t, 6, c.Hour)

	// whole part not aligned to midnight
	c = ToCalendar(2451545.0, 0.0)
	assert.Equal(t, 1, c.Day)
	assert.Equal(t, 12, c.Hour)
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		jd, frac float64
	}{
		{2451722.5, 0.78495062},
		{2460310.5, 0.123456789},
		{2460462.5, 0.999},
		{2453911.5, 0.3321544402},
		{2451603.5, 0.5}, // 2000-02-29
	}

	for _, tc := range cases {
		c := ToCalendar(tc.jd, tc.frac)
		jd, frac := c.JD()
		got := (jd - tc.jd) + (frac - tc.frac)
		require.InDelta(t, 0.0, got, 1e-9, "jd %.1f frac %.9f -> %s", tc.jd, tc.frac, c)
	}
}

func TestDaysToMDHMS(t *testing.T) {
	c := DaysToMDHMS(2000, 179.78495062)
	assert.Equal(t, 6, c.Month)
	assert.Equal(t, 27, c.Day)
	assert.Equal(t, 18, c.Hour)
	assert.Equal(t, 50, c.Minute)
	assert.InDelta(t, 19.733568, c.Second, 1e-4)

	c = DaysToMDHMS(2001, 60.0)
	assert.Equal(t, 3, c.Month)
	assert.Equal(t, 1, c.Day)

	c = DaysToMDHMS(2000, 60.0)
	assert.Equal(t, 2, c.Month)
	assert.Equal(t, 29, c.Day)
}

func TestDayOfYearJD(t *testing.T) {
	jd, frac := DayOfYearJD(2000, 179.78495062)
	assert.Equal(t, 2451722.5, jd)
	assert.InDelta(t, 0.78495062, frac, 1e-9)
}

func TestTLEYear(t *testing.T) {
	assert.Equal(t, 2000, TLEYear(0))
	assert.Equal(t, 2056, TLEYear(56))
	assert.Equal(t, 1957, TLEYear(57))
	assert.Equal(t, 1999, TLEYear(99))
}

func TestMinutesBetween(t *testing.T) {
	got := MinutesBetween(2451722.5, 0.78495062, 2451723.5, 0.78495062)
	assert.InDelta(t, 1440.0, got, 1e-9)

	got = MinutesBetween(2451722.5, 0.5, 2451722.5, 0.25)
	assert.InDelta(t, -360.0, got, 1e-9)
}

func TestCalendarSTK(t *testing.T) {
	c := Calendar{Year: 2000, Month: 6, Day: 27, Hour: 18, Minute: 50, Second: 19.733568}
	assert.Equal(t, "27 Jun 2000 18:50:19.733568", c.STK())
	assert.Equal(t, "2000-06-27 18:50:19.733568", c.String())

	m, err := ParseMonth("Jun")
	require.NoError(t, err)
	assert.Equal(t, 6, m)

	_, err = ParseMonth("June")
	assert.Error(t, err)
}

func TestFractionStaysInRange(t *testing.T) {
	for f := -0.999; f < 2.0; f += 0.0371 {
		c := ToCalendar(2460000.5, f)
		secs := float64(c.Hour)*3600 + float64(c.Minute)*60 + c.Second
		if secs < 0 || secs >= 86400+1e-6 || math.IsNaN(secs) {
			t.Fatalf("fraction %f produced time of day %f", f, secs)
		}
	}
}

func TestDaysToMDHMS_MinuteCarry(t *testing.T) {
	c := DaysToMDHMS(2024, 1.025)
	assert.Equal(t, 0, c.Hour)
	assert.Equal(t, 36, c.Minute)
	assert.Zero(t, c.Second)
	assert.Equal(t, "1 Jan 2024 00:36:00.000000", c.STK())

	// half a microsecond before midnight rolls into the next year
	c = DaysToMDHMS(2023, 366.0-0.4e-6/86400)
	assert.Equal(t, "2024-01-01 00:00:00.000000", c.String())
}

func TestToCalendar_SecondsBelowSixty(t *testing.T) {
	jd, _ := JDay(2024, 1, 1, 0, 0, 0)
	for i := 1; i <= 1440; i++ {
		for _, eps := range []float64{-1e-11, 0, 1e-11} {
			c := ToCalendar(jd, float64(i)/1440+eps)
			s := c.String()
			require.Less(t, c.Second, 60.0, "minute %d: %s", i, s)
			require.NotContains(t, s, ":60.", "minute %d", i)
		}
	}
}
