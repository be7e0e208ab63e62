package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
)

func warningMarkerPath() string {
	return filepath.Join(xdg.DataHome, ServiceName, ".file-store-warning-shown")
}

func warningShown() bool {
	_, err := os.Stat(warningMarkerPath())
	return err == nil
}

func markWarningShown() {
	_ = os.WriteFile(warningMarkerPath(), []byte("1"), 0600)
}

// quietMode reports whether the user suppressed warnings via PADLOCK_QUIET.
func quietMode() bool {
	v := os.Getenv("PADLOCK_QUIET")
	return v == "1" || v == "true"
}

// warnOnce prints msg to stderr the first time only; a marker file keeps
// later commands quiet.
func warnOnce(msg string) {
	if quietMode() || warningShown() {
		return
	}
	fmt.Fprintln(os.Stderr, msg)
}

func markWarningsDone() {
	if !warningShown() {
		markWarningShown()
	}
}

// NewStore creates a Store using the platform-appropriate backend: OS keyring
// where available, encrypted file otherwise. WSL and headless Linux go
// straight to the file backend since their keyrings are unreliable.
func NewStore() (Store, error) {
	if IsWSL() || IsHeadless() {
		warnOnce("Detected WSL/headless environment, using encrypted file storage")
		store, err := NewFileStore(os.Getenv("PADLOCK_STORE_PASSWORD"))
		if err != nil {
			return nil, err
		}
		markWarningsDone()
		return store, nil
	}

	store, err := NewKeyringStore()
	if err != nil {
		warnOnce(fmt.Sprintf("Keyring unavailable (%v), falling back to encrypted file", err))
		fstore, ferr := NewFileStore(os.Getenv("PADLOCK_STORE_PASSWORD"))
		if ferr != nil {
			return nil, ferr
		}
		markWarningsDone()
		return fstore, nil
	}

	return store, nil
}

// IsWSL reports whether we are running under Windows Subsystem for Linux.
func IsWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}

	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}

// IsHeadless reports whether no display server is present. Only meaningful
// on Linux; macOS and Windows are assumed to have a GUI.
func IsHeadless() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	return os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}
