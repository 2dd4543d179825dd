package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses the user cache dir on windows")
	}
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got == "" {
		t.Fatal("Dir() returned empty path")
	}

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := filepath.Join(os.TempDir(), fmt.Sprintf("winhide-%d", os.Getuid()))
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestSocketPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	socket, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if !strings.HasSuffix(socket, string(filepath.Separator)+"winhide.sock") {
		t.Fatalf("SocketPath() = %q, missing suffix", socket)
	}
}

func TestResolveSocket_PrefersOverride(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	got, err := ResolveSocket("/custom/winhide.sock")
	if err != nil {
		t.Fatalf("ResolveSocket() error: %v", err)
	}
	if got != "/custom/winhide.sock" {
		t.Fatalf("ResolveSocket() = %q", got)
	}

	got, err = ResolveSocket("")
	if err != nil {
		t.Fatalf("ResolveSocket() error: %v", err)
	}
	want, _ := SocketPath()
	if got != want {
		t.Fatalf("ResolveSocket(\"\") = %q, want %q", got, want)
	}
}
