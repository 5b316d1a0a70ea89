package crosscheck

import (
	"strings"
	"testing"

	"github.com/san-kum/sgp4check/internal/schedule"
	"github.com/san-kum/sgp4check/internal/sgp4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	vanguard1 = "1 00005U 58002B   00179.78495062  .00000023  00000-0  28098-4 0  4753"
	vanguard2 = "2 00005  34.2682 348.7242 1859667 331.7664  19.3264 10.82419157413667     0.00      4320.0        360.00"
)

func TestCheck_Agrees(t *testing.T) {
	c := New(sgp4.WGS72, schedule.Grid{Start: 0, Stop: 360, Step: 60}, nil)

	rep := c.Check(vanguard1, vanguard2)
	require.NoError(t, rep.Err)
	assert.Equal(t, "00005", rep.Satnum)
	assert.Equal(t, 7, rep.Samples)
	assert.Less(t, rep.MaxPosKm, 1.0)
	assert.Less(t, rep.MaxVelKmS, 1e-3)
}

func TestCheck_ReachesStop(t *testing.T) {
	c := New(sgp4.WGS72, schedule.Grid{Start: 0, Stop: 1, Step: 0.1}, nil)

	rep := c.Check(vanguard1, vanguard2)
	require.NoError(t, rep.Err)
	assert.Equal(t, 11, rep.Samples)

	c = New(sgp4.WGS72, schedule.Grid{Start: 0, Stop: 100, Step: 30}, nil)
	rep = c.Check(vanguard1, vanguard2)
	require.NoError(t, rep.Err)
	assert.Equal(t, 5, rep.Samples)
}

func TestCheck_RejectsShortLines(t *testing.T) {
	c := New(sgp4.WGS72, schedule.Grid{Start: 0, Stop: 10, Step: 10}, nil)

	rep := c.Check(vanguard1[:66], vanguard2)
	require.Error(t, rep.Err)
	assert.Zero(t, rep.Samples)
}

func TestCheckCatalog(t *testing.T) {
	c := New(sgp4.WGS72, schedule.Grid{Start: 0, Stop: 120, Step: 60}, nil)
	text := strings.Join([]string{"# one record", vanguard1, vanguard2, "1 00006"}, "\n")

	reports, err := c.CheckCatalog(strings.NewReader(text))
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 3, reports[0].Samples)
}

func TestValidateTLELines(t *testing.T) {
	assert.NoError(t, validateTLELines(vanguard1, trimLine(vanguard2)))
	assert.Error(t, validateTLELines(trimLine(vanguard2), vanguard1))
}
