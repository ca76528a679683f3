package unused

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/okalenik/solvac/pkg/solidity"
)

// snapshotFile is one Solidity file frozen at analysis start. All
// reference counting and all deletion offsets refer to this content,
// never to whatever is on disk later.
type snapshotFile struct {
	path    string
	content string
	mask    *solidity.RegionMask
	sum     uint64
}

// projectSnapshot is the reference universe: every Solidity file under
// the root, read once. Immutable after load, safe for concurrent reads.
type projectSnapshot struct {
	root   string
	files  []*snapshotFile
	byPath map[string]*snapshotFile
}

// listSolidityFiles walks root and returns every .sol file. Reference
// counting covers the whole tree; exclusion rules apply only to which
// files get reported, not to which files count as users.
func listSolidityFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".sol") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// loadSnapshot reads every Solidity file under root. A missing or
// unreadable root, or a root with no Solidity files at all, is an
// InvalidRootError. Individual unreadable files are skipped here and
// surface later as target errors if they were targets. onFile, if
// non-nil, is invoked once per file read.
//
// The root is made absolute before walking so snapshot keys, target
// lookup, and the own-file comparison in countReferences all use one
// canonical path form. Targets arrive absolute; a snapshot keyed by a
// relative root (the default ".") would otherwise never match them,
// and a declaration's own signature would count as a reference.
func loadSnapshot(root string, onFile func()) (*projectSnapshot, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &InvalidRootError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &InvalidRootError{Root: root, Err: fs.ErrInvalid}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &InvalidRootError{Root: root, Err: err}
	}

	paths, err := listSolidityFiles(absRoot)
	if err != nil {
		return nil, &InvalidRootError{Root: root, Err: err}
	}
	if len(paths) == 0 {
		return nil, &InvalidRootError{Root: root}
	}

	snap := &projectSnapshot{
		root:   absRoot,
		files:  make([]*snapshotFile, 0, len(paths)),
		byPath: make(map[string]*snapshotFile, len(paths)),
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if onFile != nil {
			onFile()
		}
		sf := newSnapshotFile(p, data)
		snap.files = append(snap.files, sf)
		snap.byPath[p] = sf
	}
	if len(snap.files) == 0 {
		return nil, &InvalidRootError{Root: root}
	}
	return snap, nil
}

// newSnapshotFile builds one snapshot entry; also used for targets
// that sit outside the root.
func newSnapshotFile(path string, data []byte) *snapshotFile {
	return &snapshotFile{
		path:    path,
		content: string(data),
		mask:    solidity.ScanRegions(string(data)),
		sum:     xxhash.Sum64(data),
	}
}

// lookup returns the snapshot entry for a path. Snapshot keys are
// absolute; a relative argument is resolved before matching.
func (s *projectSnapshot) lookup(path string) *snapshotFile {
	if sf, ok := s.byPath[path]; ok {
		return sf
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil
	}
	if sf, ok := s.byPath[abs]; ok {
		return sf
	}
	return s.byPath[filepath.Clean(abs)]
}

// countReferences counts identifier-boundary occurrences of name
// across the whole snapshot, excluding masked regions and excluding
// the declaration's own signature in its own file. A recursive call in
// the body still counts, so a self-recursive function is not unused.
func (s *projectSnapshot) countReferences(name string, declFile string, sig solidity.Span) int {
	total := 0
	for _, sf := range s.files {
		own := sf.path == declFile
		for off := 0; ; {
			idx := strings.Index(sf.content[off:], name)
			if idx < 0 {
				break
			}
			pos := off + idx
			off = pos + 1

			if !identBounded(sf.content, pos, len(name)) {
				continue
			}
			if sf.mask.Masked(pos) {
				continue
			}
			if own && sig.Contains(pos) {
				continue
			}
			total++
		}
	}
	return total
}

// identBounded reports whether the occurrence at [pos, pos+n) is a
// whole identifier rather than a substring of a longer one.
func identBounded(src string, pos, n int) bool {
	if pos > 0 && identByte(src[pos-1]) {
		return false
	}
	if pos+n < len(src) && identByte(src[pos+n]) {
		return false
	}
	return true
}

func identByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
