package unused

import "fmt"

// InvalidRootError means the scan root is unusable: it does not exist,
// cannot be read, or contains no Solidity files. It is fatal; no
// analysis runs.
type InvalidRootError struct {
	Root string
	Err  error
}

func (e *InvalidRootError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid root %s: %v", e.Root, e.Err)
	}
	return fmt.Sprintf("invalid root %s: no Solidity files found", e.Root)
}

func (e *InvalidRootError) Unwrap() error { return e.Err }

// PatternError means an ignore pattern failed to compile. It is fatal;
// no analysis runs.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid ignore pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }
