package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// SocketName is the daemon socket's file name inside Dir.
const SocketName = "winhide.sock"

// Dir returns the per-user directory that holds the IPC socket:
// $XDG_RUNTIME_DIR, /run/user/<uid>, %LocalAppData%\winhide on Windows,
// and finally a private directory under the temp dir.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	if runtime.GOOS == "windows" {
		if base, err := os.UserCacheDir(); err == nil {
			return ensureDir(filepath.Join(base, "winhide"))
		}
	} else if dir := fmt.Sprintf("/run/user/%d", os.Getuid()); isDir(dir) {
		return dir, nil
	}

	return ensureDir(filepath.Join(os.TempDir(), fmt.Sprintf("winhide-%d", os.Getuid())))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func ensureDir(path string) (string, error) {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return path, nil
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SocketName), nil
}

// ResolveSocket returns override when set, otherwise SocketPath.
func ResolveSocket(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return SocketPath()
}
