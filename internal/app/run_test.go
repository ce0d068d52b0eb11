package app

import (
	"errors"
	"testing"
	"time"
)

func TestNewRun(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)
	r := NewRun("serve", now)

	if r.ID != "20240615T143045Z" {
		t.Errorf("ID = %q, want %q", r.ID, "20240615T143045Z")
	}
	if r.Command != "serve" {
		t.Errorf("Command = %q, want %q", r.Command, "serve")
	}
	if r.Status != "success" {
		t.Errorf("Status = %q, want %q", r.Status, "success")
	}
	if got := r.Elapsed(now.Add(3 * time.Second)); got != 3*time.Second {
		t.Errorf("Elapsed() = %v, want 3s", got)
	}
}

func TestRun_Fail(t *testing.T) {
	r := NewRun("attestations expire", time.Now())

	r.Fail(nil)
	if r.Status != "success" {
		t.Errorf("Fail(nil) changed Status to %q", r.Status)
	}

	boom := errors.New("boom")
	r.Fail(boom)
	if r.Status != "error" {
		t.Errorf("Status = %q, want %q", r.Status, "error")
	}
	if !errors.Is(r.Err, boom) {
		t.Errorf("Err = %v, want %v", r.Err, boom)
	}
}
