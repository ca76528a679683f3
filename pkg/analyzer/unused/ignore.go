package unused

import "regexp"

// DefaultIgnore matches conventional test helpers so they survive
// vacuuming even when nothing references them.
var DefaultIgnore = []string{"^test"}

// IgnoreSet is a compiled set of name patterns.
type IgnoreSet struct {
	patterns []*regexp.Regexp
}

// CompileIgnores compiles patterns up front so a bad pattern fails the
// run before any file is touched.
func CompileIgnores(patterns []string) (*IgnoreSet, error) {
	s := &IgnoreSet{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, &PatternError{Pattern: p, Err: err}
		}
		s.patterns = append(s.patterns, re)
	}
	return s, nil
}

// Match reports whether any pattern matches the function name.
// Patterns are unanchored unless they anchor themselves.
func (s *IgnoreSet) Match(name string) bool {
	for _, re := range s.patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
