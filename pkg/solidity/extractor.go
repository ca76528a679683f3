package solidity

import (
	"fmt"
	"strings"
)

// Visibility is the declared visibility of a function, or empty when
// the header does not state one.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityExternal Visibility = "external"
	VisibilityInternal Visibility = "internal"
	VisibilityPrivate  Visibility = "private"
)

// FunctionDeclaration is a named function found in a single source file.
// SignatureRange covers the header from the function keyword up to (not
// including) the body's opening brace or the terminating semicolon.
// FullRange covers the whole declaration including any directly
// preceding NatSpec block, the indentation of its first line, the body,
// and one trailing newline.
type FunctionDeclaration struct {
	Name           string     `json:"name" toon:"name"`
	Line           int        `json:"line" toon:"line"`
	Visibility     Visibility `json:"visibility,omitempty" toon:"visibility,omitempty"`
	Override       bool       `json:"override,omitempty" toon:"override,omitempty"`
	SignatureRange Span       `json:"signature_range" toon:"signature_range"`
	FullRange      Span       `json:"full_range" toon:"full_range"`
}

// MalformedSourceError reports a function body whose braces never
// balance before end of input. It poisons only the file it names.
type MalformedSourceError struct {
	Path   string
	Offset int
}

func (e *MalformedSourceError) Error() string {
	return fmt.Sprintf("malformed source %s: unbalanced braces at offset %d", e.Path, e.Offset)
}

// ExtractFunctions scans src and returns every named function
// declaration in file order. path is used only for error reporting.
// The scan is lexical: it recognizes the function keyword at identifier
// boundaries outside comments and strings, so it tolerates source that
// would not compile. Function types (a "function" keyword not followed
// by a name) are not declarations and are skipped.
func ExtractFunctions(path, src string) ([]FunctionDeclaration, error) {
	mask := ScanRegions(src)
	return ExtractFunctionsMasked(path, src, mask)
}

// ExtractFunctionsMasked is ExtractFunctions with a precomputed mask,
// for callers that already scanned the file's regions.
func ExtractFunctionsMasked(path, src string, mask *RegionMask) ([]FunctionDeclaration, error) {
	var decls []FunctionDeclaration

	for i := 0; i+len("function") <= len(src); i++ {
		if mask.Masked(i) || src[i] != 'f' {
			continue
		}
		if !strings.HasPrefix(src[i:], "function") {
			continue
		}
		// Keyword must sit at identifier boundaries.
		if i > 0 && isIdentByte(src[i-1]) {
			continue
		}
		after := i + len("function")
		if after < len(src) && isIdentByte(src[after]) {
			continue
		}

		decl, err := parseDeclaration(path, src, mask, i, after)
		if err != nil {
			return nil, err
		}
		if decl == nil {
			continue
		}

		// Absorb surrounding trivia, but never cross into the
		// previous declaration.
		floor := 0
		if n := len(decls); n > 0 {
			floor = decls[n-1].FullRange.End
		}
		decl.FullRange.Start = extendBack(src, mask, decl.SignatureRange.Start, floor)
		decl.FullRange.End = extendForward(src, decl.FullRange.End)

		decl.Line = lineAt(src, decl.SignatureRange.Start)
		decls = append(decls, *decl)
		i = decl.FullRange.End - 1
	}

	return decls, nil
}

// parseDeclaration parses one declaration whose function keyword starts
// at kw and ends at after. Returns a nil declaration when the keyword
// introduces a function type rather than a named function.
func parseDeclaration(path, src string, mask *RegionMask, kw, after int) (*FunctionDeclaration, error) {
	i := skipSpace(src, after)
	if i >= len(src) || !isIdentStart(src[i]) {
		return nil, nil
	}
	nameStart := i
	for i < len(src) && isIdentByte(src[i]) {
		i++
	}
	name := src[nameStart:i]

	i = skipSpace(src, i)
	if i >= len(src) || src[i] != '(' {
		return nil, nil
	}

	// Parameter list: track paren depth, ignoring masked bytes.
	depth := 0
	for ; i < len(src); i++ {
		if mask.Masked(i) {
			continue
		}
		switch src[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 {
			i++
			break
		}
	}
	if depth != 0 {
		return nil, &MalformedSourceError{Path: path, Offset: kw}
	}

	decl := &FunctionDeclaration{Name: name}

	// Header tail: modifiers and return clause up to the body or a
	// bodiless terminator.
	bodyStart := -1
	end := -1
	word := func(start, stop int) {
		switch src[start:stop] {
		case "public":
			decl.Visibility = VisibilityPublic
		case "external":
			decl.Visibility = VisibilityExternal
		case "internal":
			decl.Visibility = VisibilityInternal
		case "private":
			decl.Visibility = VisibilityPrivate
		case "override":
			decl.Override = true
		}
	}
	for ; i < len(src); i++ {
		if mask.Masked(i) {
			continue
		}
		c := src[i]
		switch {
		case c == '(':
			depth++
		case c == ')':
			depth--
		case depth == 0 && c == '{':
			bodyStart = i
		case depth == 0 && c == ';':
			end = i + 1
		case depth == 0 && isIdentStart(c) && (i == 0 || !isIdentByte(src[i-1])):
			j := i
			for j < len(src) && isIdentByte(src[j]) {
				j++
			}
			word(i, j)
			i = j - 1
		}
		if bodyStart >= 0 || end >= 0 {
			break
		}
	}

	switch {
	case bodyStart >= 0:
		decl.SignatureRange = Span{Start: kw, End: bodyStart}
		bodyEnd, err := matchBody(path, src, mask, bodyStart)
		if err != nil {
			return nil, err
		}
		decl.FullRange = Span{Start: kw, End: bodyEnd}
	case end >= 0:
		decl.SignatureRange = Span{Start: kw, End: end - 1}
		decl.FullRange = Span{Start: kw, End: end}
	default:
		return nil, &MalformedSourceError{Path: path, Offset: kw}
	}

	return decl, nil
}

// matchBody returns the offset one past the brace that closes the body
// opened at open. Braces inside comments and strings do not count.
func matchBody(path, src string, mask *RegionMask, open int) (int, error) {
	depth := 0
	for i := open; i < len(src); i++ {
		if mask.Masked(i) {
			continue
		}
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, &MalformedSourceError{Path: path, Offset: open}
}

// extendBack widens the deletion start over a directly preceding
// NatSpec block (/** ... */ with only whitespace before the keyword)
// and then to the start of the line, never below floor.
func extendBack(src string, mask *RegionMask, start, floor int) int {
	probe := start
	for probe > floor && isSpace(src[probe-1]) {
		probe--
	}
	if probe >= floor+4 && probe >= 4 && src[probe-2] == '*' && src[probe-1] == '/' {
		for _, c := range mask.Comments() {
			if c.End == probe && c.Start >= floor &&
				strings.HasPrefix(src[c.Start:c.End], "/**") {
				start = c.Start
				break
			}
		}
	}
	// Back to line start over indentation only.
	for start > floor && (src[start-1] == ' ' || src[start-1] == '\t') {
		start--
	}
	return start
}

// extendForward consumes one trailing newline (with any \r) after end.
func extendForward(src string, end int) int {
	if end < len(src) && src[end] == '\r' {
		end++
	}
	if end < len(src) && src[end] == '\n' {
		end++
	}
	return end
}

func skipSpace(src string, i int) int {
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	return i
}

// lineAt returns the 1-based line number of the byte at off.
func lineAt(src string, off int) int {
	return 1 + strings.Count(src[:off], "\n")
}
