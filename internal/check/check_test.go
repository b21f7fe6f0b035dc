package check

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/jberkman/foilrun/internal/batch"
	"github.com/jberkman/foilrun/internal/config"
)

func TestVersion(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			"banner",
			"\n ===================================================\n" +
				"  XFOIL Version 6.99\n" +
				"  Copyright (C) 2000   Mark Drela, Harold Youngren\n",
			"6.99",
		},
		{"spacing", "       XFOIL         Version 6.97", "6.97"},
		{"absent", "some other tool v1.2", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Version(tt.output); got != tt.want {
				t.Errorf("Version = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve_Missing(t *testing.T) {
	_, err := Resolve("definitely-not-a-real-binary-4821")
	if !errors.Is(err, batch.ErrEnvironment) {
		t.Fatalf("err = %v, want ErrEnvironment", err)
	}
}

func TestResolve_AbsolutePath(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	got, err := Resolve(sh)
	if err != nil {
		t.Fatalf("Resolve(%q): %v", sh, err)
	}
	if got != sh {
		t.Errorf("Resolve = %q, want %q", got, sh)
	}
}

func TestCheckDeps(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	// A stand-in binary that consumes stdin and exits cleanly passes.
	dir := t.TempDir()
	ok := filepath.Join(dir, "fake-xfoil")
	if err := os.WriteFile(ok, []byte("#!/bin/sh\ncat >/dev/null\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.XfoilPath = ok
	if err := CheckDeps(context.Background(), &cfg); err != nil {
		t.Errorf("CheckDeps: %v", err)
	}

	// One that fails the trivial session is an environment error.
	bad := filepath.Join(dir, "broken-xfoil")
	if err := os.WriteFile(bad, []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg.XfoilPath = bad
	err := CheckDeps(context.Background(), &cfg)
	if !errors.Is(err, batch.ErrEnvironment) {
		t.Errorf("err = %v, want ErrEnvironment", err)
	}

	cfg.XfoilPath = "definitely-not-a-real-binary-4821"
	if err := CheckDeps(context.Background(), &cfg); !errors.Is(err, batch.ErrEnvironment) {
		t.Errorf("err = %v, want ErrEnvironment for unresolvable binary", err)
	}
}
