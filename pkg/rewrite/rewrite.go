// Package rewrite removes byte ranges from source files. All ranges
// are computed against a single immutable snapshot of the original
// text, so deletion is one splice pass with no re-searching.
package rewrite

import (
	"fmt"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Range is a half-open byte range [Start, End) slated for removal.
type Range struct {
	Start int
	End   int
}

// StaleFileError reports that a file changed on disk between analysis
// and deletion. The file is left untouched.
type StaleFileError struct {
	Path string
}

func (e *StaleFileError) Error() string {
	return fmt.Sprintf("%s changed since analysis, refusing to modify", e.Path)
}

// Excise returns text with the given ranges removed. Ranges must be
// sorted ascending, pairwise disjoint, and within bounds; offsets
// always refer to the original text.
func Excise(text string, ranges []Range) (string, error) {
	if err := validate(len(text), ranges); err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(text))
	cursor := 0
	for _, r := range ranges {
		b.WriteString(text[cursor:r.Start])
		cursor = r.End
	}
	b.WriteString(text[cursor:])
	return b.String(), nil
}

func validate(n int, ranges []Range) error {
	prev := 0
	for i, r := range ranges {
		if r.Start < 0 || r.End > n || r.Start > r.End {
			return fmt.Errorf("range %d [%d,%d) out of bounds for %d bytes", i, r.Start, r.End, n)
		}
		if r.Start < prev {
			return fmt.Errorf("range %d [%d,%d) overlaps or is unsorted", i, r.Start, r.End)
		}
		prev = r.End
	}
	return nil
}

// Apply excises ranges from the file at path and writes the result
// back in place, preserving the file mode. checksum is the xxhash64 of
// the content the ranges were computed against; a mismatch aborts with
// StaleFileError.
func Apply(path string, ranges []Range, checksum uint64) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if xxhash.Sum64(data) != checksum {
		return &StaleFileError{Path: path}
	}

	out, err := Excise(string(data), ranges)
	if err != nil {
		return fmt.Errorf("excise %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
