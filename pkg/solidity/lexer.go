// Package solidity provides lexical analysis of Solidity source text:
// comment/string region detection and function declaration extraction.
// It is deliberately not a parser; the input is not assumed to compile.
package solidity

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Span is a half-open byte range [Start, End) into a source snapshot.
type Span struct {
	Start int `json:"start" toon:"start"`
	End   int `json:"end" toon:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether the byte offset falls inside the span.
func (s Span) Contains(off int) bool {
	return off >= s.Start && off < s.End
}

// RegionMask records which byte offsets of a source file lie inside
// comments or string literals. Both the extractor and the reference
// scanner consult the mask so that identifier-looking text in comments
// and strings never produces declarations or reference counts.
type RegionMask struct {
	masked   *roaring.Bitmap
	comments []Span
}

// lexState is the scanner state for region detection.
type lexState int

const (
	stateCode lexState = iota
	stateLineComment
	stateBlockComment
	stateString
)

// ScanRegions walks the source once and returns the mask of byte
// offsets inside comments and string literals. Unterminated block
// comments and strings run to end of input; that is not an error here,
// the mask simply covers the tail.
func ScanRegions(src string) *RegionMask {
	m := &RegionMask{masked: roaring.New()}

	state := stateCode
	var quote byte
	regionStart := 0

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch state {
		case stateCode:
			if c == '/' && i+1 < len(src) && src[i+1] == '/' {
				state = stateLineComment
				regionStart = i
				i++ // consume second slash
			} else if c == '/' && i+1 < len(src) && src[i+1] == '*' {
				state = stateBlockComment
				regionStart = i
				i++
			} else if c == '"' || c == '\'' {
				state = stateString
				quote = c
				regionStart = i
			}

		case stateLineComment:
			if c == '\n' {
				m.addRegion(regionStart, i, true)
				state = stateCode
			}

		case stateBlockComment:
			if c == '*' && i+1 < len(src) && src[i+1] == '/' {
				i++
				m.addRegion(regionStart, i+1, true)
				state = stateCode
			}

		case stateString:
			if c == '\\' {
				i++ // escaped character, including \" \' \\
			} else if c == quote {
				m.addRegion(regionStart, i+1, false)
				state = stateCode
			}
		}
	}

	// Region still open at EOF.
	if state != stateCode {
		m.addRegion(regionStart, len(src), state != stateString)
	}

	return m
}

func (m *RegionMask) addRegion(start, end int, comment bool) {
	if end > start {
		m.masked.AddRange(uint64(start), uint64(end))
	}
	if comment {
		m.comments = append(m.comments, Span{Start: start, End: end})
	}
}

// Masked reports whether the byte at off is inside a comment or string.
func (m *RegionMask) Masked(off int) bool {
	return m.masked.Contains(uint32(off))
}

// MaskedCount returns the total number of masked bytes.
func (m *RegionMask) MaskedCount() uint64 {
	return m.masked.GetCardinality()
}

// Comments returns comment spans (line and block) in file order.
func (m *RegionMask) Comments() []Span {
	return m.comments
}

// isIdentByte reports whether b may appear in a Solidity identifier.
func isIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// isIdentStart reports whether b may begin a Solidity identifier.
func isIdentStart(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}

// isSpace reports whether b is horizontal or vertical whitespace.
func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
