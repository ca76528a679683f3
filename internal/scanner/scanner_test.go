package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/okalenik/solvac/pkg/config"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestIsSolidity(t *testing.T) {
	if !IsSolidity("Token.sol") || !IsSolidity("X.SOL") {
		t.Error("solidity extensions not detected")
	}
	if IsSolidity("token.go") || IsSolidity("solfile") {
		t.Error("non-solidity path detected")
	}
}

func TestScanDirFindsSolidityOnly(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Token.sol":           "contract Token {}",
		"sub/Lib.sol":         "library Lib {}",
		"readme.md":           "docs",
		"script/deploy.js":    "js",
		"contracts/Vault.sol": "contract Vault {}",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false
	files, err := New(cfg).ScanDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("files = %v, want 3 .sol files", files)
	}
	for _, f := range files {
		if !IsSolidity(f) {
			t.Errorf("non-solidity file returned: %s", f)
		}
	}
}

func TestScanDirExcludedDirs(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Token.sol":               "contract Token {}",
		"node_modules/dep/X.sol":  "contract X {}",
		"artifacts/build/Out.sol": "contract Out {}",
		"contracts/srcs/Keep.sol": "contract Keep {}",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false
	files, err := New(cfg).ScanDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %v, want Token.sol and Keep.sol", files)
	}
	for _, f := range files {
		if filepath.Base(f) == "X.sol" || filepath.Base(f) == "Out.sol" {
			t.Errorf("excluded dir not skipped: %s", f)
		}
	}
}

func TestScanDirConfigPatterns(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Token.sol":      "contract Token {}",
		"Token.t.sol":    "contract TokenTest {}",
		"mocks/Mock.sol": "contract Mock {}",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false
	cfg.Exclude.Patterns = []string{"*.t.sol", "mocks/"}
	files, err := New(cfg).ScanDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "Token.sol" {
		t.Fatalf("files = %v, want only Token.sol", files)
	}
}

func TestScanFile(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Token.sol": "contract Token {}",
		"notes.txt": "x",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false
	s := New(cfg)

	ok, err := s.ScanFile(filepath.Join(root, "Token.sol"))
	if err != nil || !ok {
		t.Errorf("Token.sol: ok=%v err=%v", ok, err)
	}
	ok, err = s.ScanFile(filepath.Join(root, "notes.txt"))
	if err != nil || ok {
		t.Errorf("notes.txt: ok=%v err=%v", ok, err)
	}
	if _, err = s.ScanFile(filepath.Join(root, "missing.sol")); err == nil {
		t.Error("missing file should error")
	}
}

func TestScanFileDirExclusions(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Token.sol":      "contract Token {}",
		"mocks/Mock.sol": "contract Mock {}",
	})
	t.Chdir(root)

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false
	cfg.Exclude.Dirs = append(cfg.Exclude.Dirs, "mocks")
	s := New(cfg)

	// An explicitly named file under an excluded directory is skipped,
	// both by relative and absolute path.
	ok, err := s.ScanFile(filepath.Join("mocks", "Mock.sol"))
	if err != nil || ok {
		t.Errorf("relative mocks/Mock.sol: ok=%v err=%v", ok, err)
	}
	ok, err = s.ScanFile(filepath.Join(root, "mocks", "Mock.sol"))
	if err != nil || ok {
		t.Errorf("absolute mocks/Mock.sol: ok=%v err=%v", ok, err)
	}
	ok, err = s.ScanFile("Token.sol")
	if err != nil || !ok {
		t.Errorf("Token.sol: ok=%v err=%v", ok, err)
	}
}

func TestFilterBySize(t *testing.T) {
	root := writeTree(t, map[string]string{
		"small.sol": "contract S {}",
		"big.sol":   string(make([]byte, 4096)),
	})

	files := []string{filepath.Join(root, "small.sol"), filepath.Join(root, "big.sol")}
	filtered, skipped := FilterBySize(files, 1024)
	if len(filtered) != 1 || skipped != 1 {
		t.Errorf("filtered = %v, skipped = %d", filtered, skipped)
	}

	all, skipped := FilterBySize(files, 0)
	if len(all) != 2 || skipped != 0 {
		t.Error("no limit should pass everything")
	}
}
