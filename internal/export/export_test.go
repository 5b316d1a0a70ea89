package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/sgp4check/internal/config"
	"github.com/san-kum/sgp4check/internal/sgp4"
)

const (
	line1 = "1 00005U 58002B   00179.78495062  .00000023  00000-0  28098-4 0  4753"
	line2 = "2 00005  34.2682 348.7242 1859667 331.7664  19.3264 10.82419157413667     0.00      4320.0        360.00"
)

func testSatellite(t *testing.T) *sgp4.Satellite {
	t.Helper()
	return initSatellite(t, line1)
}

func initSatellite(t *testing.T, l1 string) *sgp4.Satellite {
	t.Helper()
	el, err := sgp4.ParseTLE(l1, line2)
	if err != nil {
		t.Fatal(err)
	}
	sat, err := sgp4.InitFromElements(sgp4.WGS72, sgp4.OpsImproved, el)
	if err != nil {
		t.Fatal(err)
	}
	return sat
}

func propagate(t *testing.T, sat *sgp4.Satellite, tsince float64) sgp4.StateVector {
	t.Helper()
	sv, code := sgp4.Propagate(sat, tsince)
	if code != 0 {
		t.Fatalf("propagate %f: code %d", tsince, code)
	}
	return sv
}

func TestEphemerisFileName(t *testing.T) {
	tests := []struct {
		line2  string
		satnum string
		want   string
	}{
		{line2, "00005", "00005.e"},
		{"2 28057  98.7", "28057", "28057.e"},
		{"2 A0005  34.2682", "A0005", "A0005.e"},
		{"2  123", "00123", "123.e"},
		{"2        34.2682 348.7242", "00005", "00005.e"},
		{"2", "00007", "00007.e"},
	}
	for _, tt := range tests {
		if got := EphemerisFileName(tt.line2, tt.satnum); got != tt.want {
			t.Errorf("EphemerisFileName(%q, %q) = %q, want %q", tt.line2, tt.satnum, got, tt.want)
		}
	}
}

func TestSampleTime(t *testing.T) {
	sat := testSatellite(t)

	c := SampleTime(sat, 0)
	if c.Year != 2000 || c.Month != 6 || c.Day != 27 || c.Hour != 18 || c.Minute != 50 {
		t.Errorf("unexpected epoch %s", c)
	}

	c = SampleTime(sat, 1440)
	if c.Month != 6 || c.Day != 28 || c.Hour != 18 || c.Minute != 50 {
		t.Errorf("unexpected epoch + 1 day %s", c)
	}

	c = SampleTime(sat, -19*60)
	if c.Day != 26 || c.Hour != 23 || c.Minute != 50 {
		t.Errorf("unexpected epoch - 19h %s", c)
	}
}

func TestVerificationRecord(t *testing.T) {
	sat := testSatellite(t)
	sv := propagate(t, sat, 0)

	rec := VerificationRecord(config.CatalogCompare, sat, 0, sv)
	fields := strings.Fields(rec)
	if len(fields) != 11 {
		t.Fatalf("expected 11 fields, got %d: %q", len(fields), rec)
	}
	if fields[0] != "0.00000000" {
		t.Errorf("unexpected offset field %q", fields[0])
	}
	if !strings.HasPrefix(fields[1], "7022.46") {
		t.Errorf("unexpected x field %q", fields[1])
	}
	if fields[7] != "2000" || fields[8] != "6" || fields[9] != "27" || !strings.HasPrefix(fields[10], "18:50:19.73") {
		t.Errorf("unexpected timestamp %q", fields[7:])
	}

	rec = VerificationRecord(config.Verification, sat, 0, sv)
	fields = strings.Fields(rec)
	if len(fields) != 18 {
		t.Fatalf("expected 18 fields with elements, got %d: %q", len(fields), rec)
	}
	if !strings.HasPrefix(fields[8], "0.18") {
		t.Errorf("unexpected eccentricity field %q", fields[8])
	}
	if !strings.HasPrefix(fields[9], "34.2") {
		t.Errorf("unexpected inclination field %q", fields[9])
	}
}

func TestVerificationSink(t *testing.T) {
	sat := testSatellite(t)
	sink := NewVerificationSink(config.CatalogCompare)

	sink.Begin(sat)
	for _, ts := range []float64{0, 360, 720} {
		sink.OnSample(sat, ts, propagate(t, sat, ts))
	}

	var out bytes.Buffer
	if _, err := sink.WriteTo(&out); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0] != "00005 xx" {
		t.Errorf("unexpected block header %q", lines[0])
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[2]), "360.00000000") {
		t.Errorf("unexpected record %q", lines[2])
	}
	if sink.Len() != 0 {
		t.Error("sink should be empty after a flush")
	}
}

func TestEphemerisSinkRoundTrip(t *testing.T) {
	sat := testSatellite(t)
	sink := NewEphemerisSink()

	sink.Begin(sat)
	offsets := []float64{0, 360, 720}
	for _, ts := range offsets {
		sink.OnSample(sat, ts, propagate(t, sat, ts))
	}
	if sink.Points() != 3 {
		t.Fatalf("expected 3 points, got %d", sink.Points())
	}

	var out bytes.Buffer
	if _, err := sink.WriteTo(&out); err != nil {
		t.Fatal(err)
	}
	text := out.String()

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	wantHead := []string{
		"stk.v.4.3",
		"BEGIN Ephemeris",
		"NumberOfEphemerisPoints 3",
	}
	for i, want := range wantHead {
		if lines[i] != want {
			t.Errorf("header line %d = %q, want %q", i, lines[i], want)
		}
	}
	if !strings.HasPrefix(lines[3], "ScenarioEpoch 27 Jun 2000 18:50:19.73") {
		t.Errorf("unexpected epoch line %q", lines[3])
	}
	if lines[9] != "EphemerisTimePosVel" {
		t.Errorf("unexpected data marker %q", lines[9])
	}
	if lines[len(lines)-1] != "END Ephemeris" {
		t.Errorf("unexpected footer %q", lines[len(lines)-1])
	}
	if sink.Points() != 0 {
		t.Error("sink should reset after writing")
	}

	eph, err := ReadEphemeris(strings.NewReader(text))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(eph.Points) != 3 || eph.Declared != 3 {
		t.Fatalf("expected 3 points, got %d (declared %d)", len(eph.Points), eph.Declared)
	}
	for i, p := range eph.Points {
		if p.Seconds != offsets[i]*60 {
			t.Errorf("point %d: seconds %f, want %f", i, p.Seconds, offsets[i]*60)
		}
		if p.Radius() < 6378 {
			t.Errorf("point %d: radius %f below earth surface", i, p.Radius())
		}
	}
	if eph.Epoch.Year != 2000 || eph.Epoch.Month != 6 || eph.Epoch.Day != 27 || eph.Epoch.Hour != 18 {
		t.Errorf("unexpected epoch %s", eph.Epoch)
	}
}

func TestTimestampsNeverShowSixtySeconds(t *testing.T) {
	// 24001.025 is 00:36:00 on Jan 1 2024, just past a minute boundary
	sat := initSatellite(t, strings.Replace(line1, "00179.78495062", "24001.02500000", 1))

	sink := NewEphemerisSink()
	sink.Begin(sat)
	var out bytes.Buffer
	if _, err := sink.WriteTo(&out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "ScenarioEpoch 1 Jan 2024 00:36:00.000000\n") {
		t.Errorf("unexpected header:\n%s", out.String())
	}

	var sv sgp4.StateVector
	for ts := -1440.0; ts <= 1440.0; ts += 1.0 {
		rec := VerificationRecord(config.CatalogCompare, sat, ts, sv)
		if strings.Contains(rec, ":60.") {
			t.Fatalf("t=%.1f: %q", ts, rec)
		}
	}
}

func TestReadEphemeris_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"count mismatch", "stk.v.4.3\nBEGIN Ephemeris\nNumberOfEphemerisPoints 2\nEphemerisTimePosVel\n0 1 2 3 4 5 6\nEND Ephemeris\n"},
		{"missing end", "stk.v.4.3\nBEGIN Ephemeris\nNumberOfEphemerisPoints 1\nEphemerisTimePosVel\n0 1 2 3 4 5 6\n"},
		{"short record", "NumberOfEphemerisPoints 1\nEphemerisTimePosVel\n0 1 2 3\nEND Ephemeris\n"},
		{"bad epoch", "ScenarioEpoch 27 Foo 2000 00:00:00.0\n"},
	}
	for _, tt := range tests {
		if _, err := ReadEphemeris(strings.NewReader(tt.text)); !errors.Is(err, ErrEphemerisFormat) {
			t.Errorf("%s: expected ErrEphemerisFormat, got %v", tt.name, err)
		}
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]Point{{0, 1}}, 100, 50, "#fff") != "" {
		t.Error("expected empty svg for a single point")
	}

	svg := SeriesToSVG([]Point{{0, 7000}, {1, 7100}, {2, 7050}}, 100, 50, "#00ff00")
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Errorf("unexpected svg %q", svg)
	}
	if strings.Count(svg, " L") != 2 {
		t.Errorf("expected 2 line segments in %q", svg)
	}
}
