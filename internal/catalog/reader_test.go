package catalog

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

const (
	l1a = "1 00005U 58002B   00179.78495062  .00000023  00000-0  28098-4 0  4753"
	l2a = "2 00005  34.2682 348.7242 1859667 331.7664  19.3264 10.82419157413667"
	l1b = "1 04632U 70093B   04031.91070959 -.00000084  00000-0  10000-3 0  9955"
	l2b = "2 04632  11.4628 273.1101 1450506 207.6000 143.9350  1.20231981 44145"
)

func TestReader_SkipsComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"none", l1a + "\n" + l2a + "\n" + l1b + "\n" + l2b + "\n"},
		{"leading", "# header\n#\n" + l1a + "\n" + l2a + "\n" + l1b + "\n" + l2b + "\n"},
		{"between", l1a + "\n" + l2a + "\n# comment\n" + l1b + "\n" + l2b + "\n"},
		{"inside record", l1a + "\n# split\n" + l2a + "\n" + l1b + "\n" + l2b + "\n"},
		{"trailing", l1a + "\n" + l2a + "\n" + l1b + "\n" + l2b + "\n# end\n"},
		{"crlf and blanks", l1a + "\r\n\r\n" + l2a + "\r\n" + l1b + "\r\n" + l2b},
		{"inline marker", "1 junk # not a record\n" + l1a + "\n" + l2a + "\n" + l1b + "\n" + l2b + "\n"},
	}

	for _, tt := range tests {
		recs, err := ReadAll(strings.NewReader(tt.input))
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if len(recs) != 2 {
			t.Fatalf("%s: expected 2 records, got %d", tt.name, len(recs))
		}
		if recs[0].Line1 != l1a || recs[0].Line2 != l2a {
			t.Errorf("%s: first record wrong: %+v", tt.name, recs[0])
		}
		if recs[1].Line1 != l1b || recs[1].Line2 != l2b {
			t.Errorf("%s: second record wrong: %+v", tt.name, recs[1])
		}
		if recs[0].Index != 0 || recs[1].Index != 1 {
			t.Errorf("%s: bad indices %d %d", tt.name, recs[0].Index, recs[1].Index)
		}
	}
}

func TestReader_UnpairedTail(t *testing.T) {
	input := l1a + "\n" + l2a + "\n" + l1b + "\n# only a comment follows\n"
	r := NewReader(strings.NewReader(input))

	rec, ok := r.Next()
	if !ok || rec.Line1 != l1a {
		t.Fatalf("expected first record, got %+v %v", rec, ok)
	}
	if _, ok := r.Next(); ok {
		t.Fatal("unpaired line 1 should end the catalog")
	}
	if _, ok := r.Next(); ok {
		t.Fatal("reader should stay at end")
	}
	if r.Err() != nil {
		t.Errorf("unexpected error %v", r.Err())
	}
}

func TestReader_LineNumbers(t *testing.T) {
	input := "# a\n" + l1a + "\n" + l2a + "\n\n" + l1b + "\n" + l2b + "\n"
	recs, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if recs[0].Line != 2 || recs[1].Line != 5 {
		t.Errorf("expected lines 2 and 5, got %d and %d", recs[0].Line, recs[1].Line)
	}
}

func TestReader_Empty(t *testing.T) {
	recs, err := ReadAll(strings.NewReader(""))
	if err != nil || len(recs) != 0 {
		t.Errorf("expected no records, got %d (%v)", len(recs), err)
	}
}

func TestReader_ReadError(t *testing.T) {
	boom := errors.New("disk gone")
	r := NewReader(iotest.ErrReader(boom))
	if _, ok := r.Next(); ok {
		t.Fatal("expected no record")
	}
	if !errors.Is(r.Err(), boom) {
		t.Errorf("expected wrapped read error, got %v", r.Err())
	}
}
