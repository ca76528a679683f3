package solidity

import "testing"

func TestScanRegionsLineComment(t *testing.T) {
	src := "uint x; // trailing note\nuint y;"
	mask := ScanRegions(src)

	if mask.Masked(0) {
		t.Error("code byte reported masked")
	}
	if !mask.Masked(8) || !mask.Masked(23) {
		t.Error("line comment bytes not masked")
	}
	if mask.Masked(25) {
		t.Error("byte after newline should not be masked")
	}
}

func TestScanRegionsBlockComment(t *testing.T) {
	src := "a /* one\ntwo */ b"
	mask := ScanRegions(src)

	for i := 2; i < 15; i++ {
		if !mask.Masked(i) {
			t.Errorf("offset %d inside block comment not masked", i)
		}
	}
	if mask.Masked(16) {
		t.Error("byte after block comment masked")
	}
	if got := len(mask.Comments()); got != 1 {
		t.Fatalf("comments = %d, want 1", got)
	}
	if c := mask.Comments()[0]; c.Start != 2 || c.End != 15 {
		t.Errorf("comment span = %+v, want [2,15)", c)
	}
}

func TestScanRegionsStrings(t *testing.T) {
	src := `f("function foo(") + g('bar')`
	mask := ScanRegions(src)

	if !mask.Masked(3) {
		t.Error("double-quoted contents not masked")
	}
	if !mask.Masked(24) {
		t.Error("single-quoted contents not masked")
	}
	if mask.Masked(0) || mask.Masked(19) {
		t.Error("code around strings masked")
	}
}

func TestScanRegionsEscapedQuote(t *testing.T) {
	src := `x = "a\"b"; y = 1;`
	mask := ScanRegions(src)

	// The escaped quote must not terminate the string early.
	if !mask.Masked(8) {
		t.Error("byte after escaped quote not masked")
	}
	if mask.Masked(12) {
		t.Error("code after string masked")
	}
}

func TestScanRegionsCommentMarkersInString(t *testing.T) {
	src := `s = "// not a comment"; t = 1;`
	mask := ScanRegions(src)

	if mask.Masked(24) {
		t.Error("code after string with comment markers masked")
	}
}

func TestScanRegionsUnterminated(t *testing.T) {
	src := "code /* never closed"
	mask := ScanRegions(src)

	if !mask.Masked(len(src) - 1) {
		t.Error("unterminated block comment should mask to EOF")
	}
	if got := mask.Comments()[0].End; got != len(src) {
		t.Errorf("open comment end = %d, want %d", got, len(src))
	}
}

func TestSpanContains(t *testing.T) {
	s := Span{Start: 3, End: 7}
	if s.Contains(2) || s.Contains(7) {
		t.Error("span boundaries wrong")
	}
	if !s.Contains(3) || !s.Contains(6) {
		t.Error("span interior wrong")
	}
	if s.Len() != 4 {
		t.Errorf("Len = %d, want 4", s.Len())
	}
}
