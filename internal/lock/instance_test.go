package lock

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()

	guard, err := Acquire(dir, time.Second)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !strings.HasPrefix(guard.Path(), dir) {
		t.Errorf("lock file %s not inside %s", guard.Path(), dir)
	}
	if err := guard.Release(); err != nil {
		t.Errorf("Release failed: %v", err)
	}
}

func TestAcquireRefusesSecondInstance(t *testing.T) {
	dir := t.TempDir()

	first, err := Acquire(dir, time.Second)
	if err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	defer first.Release()

	if _, err := Acquire(dir, 50*time.Millisecond); !errors.Is(err, ErrLockTimeout) {
		t.Errorf("second Acquire = %v, want ErrLockTimeout", err)
	}
}

func TestAcquireAfterRelease(t *testing.T) {
	dir := t.TempDir()

	first, err := Acquire(dir, time.Second)
	if err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	second, err := Acquire(dir, time.Second)
	if err != nil {
		t.Fatalf("Acquire after release failed: %v", err)
	}
	second.Release()
}

func TestReleaseNilGuard(t *testing.T) {
	var guard *Guard
	if err := guard.Release(); err != nil {
		t.Errorf("Release on nil guard = %v, want nil", err)
	}
}
