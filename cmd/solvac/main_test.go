package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

// TestGetPaths verifies path handling from CLI arguments.
func TestGetPaths(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "no args defaults to current dir",
			args:     []string{},
			expected: []string{"."},
		},
		{
			name:     "single path",
			args:     []string{"/foo/bar"},
			expected: []string{"/foo/bar"},
		},
		{
			name:     "multiple paths",
			args:     []string{"/foo", "/bar"},
			expected: []string{"/foo", "/bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &cli.App{
				Action: func(c *cli.Context) error {
					result := getPaths(c)
					if len(result) != len(tt.expected) {
						t.Errorf("getPaths() = %v, want %v", result, tt.expected)
						return nil
					}
					for i := range result {
						if result[i] != tt.expected[i] {
							t.Errorf("getPaths()[%d] = %q, want %q", i, result[i], tt.expected[i])
						}
					}
					return nil
				},
			}
			args := append([]string{"test"}, tt.args...)
			_ = app.Run(args)
		})
	}
}

// TestGenerateDefaultConfig verifies the init template round-trips the
// default settings.
func TestGenerateDefaultConfig(t *testing.T) {
	content, err := generateDefaultConfig()
	if err != nil {
		t.Fatalf("generateDefaultConfig: %v", err)
	}
	if !strings.HasPrefix(content, "# Solvac Configuration") {
		t.Error("missing header comment")
	}
	for _, want := range []string{"^test", "node_modules", "text"} {
		if !strings.Contains(content, want) {
			t.Errorf("generated config missing %q", want)
		}
	}
}

func testApp() *cli.App {
	return &cli.App{
		Name: "solvac",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}},
			&cli.BoolFlag{Name: "verbose"},
		},
		Commands: []*cli.Command{vacuumCmd(), initCmd(), configCmd()},
	}
}

// TestVacuumCommandE2E runs the vacuum command against a throwaway
// project and checks it completes.
func TestVacuumCommandE2E(t *testing.T) {
	tmpDir := t.TempDir()
	src := `contract Token {
    function transfer() public {
        _move();
    }

    function _move() internal {}

    function leftover() private {}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, "Token.sol"), []byte(src), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	outFile := filepath.Join(tmpDir, "report.json")
	err := testApp().Run([]string{
		"solvac", "-f", "json", "-o", outFile,
		"vacuum", "--root", tmpDir, tmpDir,
	})
	if err != nil {
		t.Fatalf("vacuum command failed: %v", err)
	}

	report, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(report), "leftover") {
		t.Error("report does not mention the unused function")
	}
}

// TestVacuumDefaultRootE2E runs the command the way a user does: from
// inside the project, no --root, no path arguments. The relative root
// and the absolute expanded targets must still resolve to the same
// snapshot files.
func TestVacuumDefaultRootE2E(t *testing.T) {
	tmpDir := t.TempDir()
	src := `contract A {
    function ping() public {
        pong();
    }

    function pong() internal {
        ping();
    }

    function leftover() private {}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, "A.sol"), []byte(src), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	t.Chdir(tmpDir)

	outFile := filepath.Join(tmpDir, "report.json")
	err := testApp().Run([]string{"solvac", "-f", "json", "-o", outFile, "vacuum"})
	if err != nil {
		t.Fatalf("vacuum command failed: %v", err)
	}

	report, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(report), "leftover") {
		t.Error("unused function not found with default relative root")
	}
	// Exactly one finding: fingerprints appear only on findings.
	if n := strings.Count(string(report), `"fingerprint"`); n != 1 {
		t.Errorf("findings in report = %d, want 1 (leftover only)", n)
	}
}

// TestVacuumDeleteE2E verifies --delete rewrites the file in place.
func TestVacuumDeleteE2E(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "A.sol")
	src := `contract A {
    function keep() public {
        keepHelper();
    }

    function keepHelper() internal {}

    function gone() private {}
}
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	err := testApp().Run([]string{
		"solvac", "vacuum", "--delete", "--root", tmpDir, tmpDir,
	})
	if err != nil {
		t.Fatalf("vacuum --delete failed: %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(after), "gone") {
		t.Error("unused function not removed")
	}
	if !strings.Contains(string(after), "keepHelper") {
		t.Error("referenced function removed")
	}
}

// TestInitCommandE2E verifies init writes a loadable config file.
func TestInitCommandE2E(t *testing.T) {
	tmpDir := t.TempDir()
	out := filepath.Join(tmpDir, "solvac.toml")

	if err := testApp().Run([]string{"solvac", "init", "-o", out}); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("config not created: %v", err)
	}

	// Second run without --force must refuse to overwrite.
	if err := testApp().Run([]string{"solvac", "init", "-o", out}); err == nil {
		t.Error("init overwrote existing config without --force")
	}
	if err := testApp().Run([]string{"solvac", "init", "-o", out, "--force"}); err != nil {
		t.Errorf("init --force failed: %v", err)
	}
}

// TestVacuumEmptyDir verifies an empty directory is handled gracefully.
func TestVacuumEmptyDir(t *testing.T) {
	tmpDir := t.TempDir()

	err := testApp().Run([]string{"solvac", "vacuum", "--root", tmpDir, tmpDir})
	if err != nil {
		t.Fatalf("vacuum on empty dir failed: %v", err)
	}
}

// TestVersionVariable verifies version variables are defined.
func TestVersionVariable(t *testing.T) {
	// These are set via ldflags at build time
	if version == "" {
		t.Error("version variable should have a default value")
	}
}
