// Package lock keeps a single calibration session per machine with a PID
// lockfile. A lockfile whose process is gone is treated as stale.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"
)

var (
	ErrLocked = errors.New("another calibration session is running")

	findProcessFunc = ps.FindProcess
	getpid          = os.Getpid
)

// Lock is a held lockfile.
type Lock struct {
	path string
	pid  int
}

// Owner describes the process recorded in a lockfile.
type Owner struct {
	PID  int
	Addr string
}

// Acquire creates the lockfile at path, recording this process and the
// address it serves on. It returns ErrLocked when a live process holds it.
func Acquire(path, addr string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	owner, err := Read(path)
	switch {
	case err == nil && alive(owner.PID):
		return nil, fmt.Errorf("%w (pid %d, %s)", ErrLocked, owner.PID, owner.Addr)
	case err == nil || !errors.Is(err, os.ErrNotExist):
		// dead owner or unreadable content
		_ = os.Remove(path)
	}

	pid := getpid()
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("failed to create lockfile: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%d|%s\n", pid, addr); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path, pid: pid}, nil
}

// Read parses the lockfile at path.
func Read(path string) (Owner, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Owner{}, err
	}

	parts := strings.SplitN(strings.TrimSpace(string(content)), "|", 2)
	if len(parts) != 2 {
		return Owner{}, errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Owner{}, errors.New("invalid process ID in lockfile")
	}
	return Owner{PID: pid, Addr: parts[1]}, nil
}

func alive(pid int) bool {
	process, err := findProcessFunc(pid)
	return err == nil && process != nil
}

// Release removes the lockfile if this lock still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	owner, err := Read(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if owner.PID != l.pid {
		return nil
	}
	return os.Remove(l.path)
}

func (l *Lock) Path() string {
	return l.path
}
