package cargo

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakeCargo writes a shell script that records its arguments, one per line,
// to args.txt in the crate root and then runs body.
func fakeCargo(t *testing.T, body string) (bin, root string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake cargo is a shell script")
	}
	root = t.TempDir()
	bin = filepath.Join(t.TempDir(), "cargo")
	script := "#!/bin/sh\nfor a in \"$@\"; do echo \"$a\"; done > args.txt\n" + body + "\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake cargo: %v", err)
	}
	return bin, root
}

func recordedArgs(t *testing.T, root string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, "args.txt"))
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestBuildArgs(t *testing.T) {
	bin, root := fakeCargo(t, "exit 0")

	c := New(root).Bin(bin).Locked(true).Feature("uniffi,ffi", "alsa")
	res, err := c.Build(context.Background(), "--quiet")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !res.Success() {
		t.Fatalf("Build exit = %d, want 0", res.ExitCode)
	}

	want := "build --release --locked --features alsa,ffi,uniffi --quiet"
	if got := strings.Join(recordedArgs(t, root), " "); got != want {
		t.Errorf("args = %q, want %q", got, want)
	}
}

func TestBuildFailureIsResult(t *testing.T) {
	bin, root := fakeCargo(t, "echo 'error: could not compile `aurex`' >&2; exit 101")

	res, err := New(root).Bin(bin).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Success() {
		t.Fatal("Build succeeded, want failure")
	}
	if res.ExitCode != 101 {
		t.Errorf("exit = %d, want 101", res.ExitCode)
	}
	if !strings.Contains(res.Output(), "could not compile") {
		t.Errorf("output = %q, want compiler error", res.Output())
	}
}

func TestRunBinArgs(t *testing.T) {
	bin, root := fakeCargo(t, "exit 0")

	c := New(root).Bin(bin).TargetDir("/tmp/shared-target").Feature("ignored-for-run")
	if _, err := c.RunBin(context.Background(), "uniffi-bindgen", "generate", "--language", "kotlin"); err != nil {
		t.Fatalf("RunBin: %v", err)
	}

	want := "run --bin uniffi-bindgen --target-dir /tmp/shared-target -- generate --language kotlin"
	if got := strings.Join(recordedArgs(t, root), " "); got != want {
		t.Errorf("args = %q, want %q", got, want)
	}
}

func TestEnvIsPassed(t *testing.T) {
	bin, root := fakeCargo(t, `echo "$RUSTFLAGS"`)

	c := New(root).Bin(bin)
	c.Env("RUSTFLAGS", "-C target-cpu=native")
	res, err := c.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := strings.TrimSpace(string(res.Stdout)); got != "-C target-cpu=native" {
		t.Errorf("RUSTFLAGS = %q", got)
	}
}

func TestVersion(t *testing.T) {
	bin, root := fakeCargo(t, "echo 'cargo 1.79.0 (ffa9cf99a 2024-06-03)'")

	v, err := New(root).Bin(bin).Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != "cargo 1.79.0 (ffa9cf99a 2024-06-03)" {
		t.Errorf("Version = %q", v)
	}
}

func TestVersionFailure(t *testing.T) {
	bin, root := fakeCargo(t, "exit 1")

	if _, err := New(root).Bin(bin).Version(context.Background()); err == nil {
		t.Fatal("Version succeeded, want error")
	}
}

func TestOutputDir(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(t.TempDir(), "target")

	tests := []struct {
		name      string
		targetDir string
		want      string
	}{
		{"default", "", filepath.Join(root, "target", "release")},
		{"relative", "build/target", filepath.Join(root, "build", "target", "release")},
		{"absolute", abs, filepath.Join(abs, "release")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(root).TargetDir(tt.targetDir)
			if got := c.OutputDir(); got != tt.want {
				t.Errorf("OutputDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBinIgnoresEmpty(t *testing.T) {
	c := New(".").Bin("")
	if c.bin != "cargo" {
		t.Errorf("bin = %q, want cargo", c.bin)
	}
}
