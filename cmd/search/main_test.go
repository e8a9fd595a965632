package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestRunWritesProfileOnError(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	err := run([]string{"-cpuprofile", "-profiledir", dir, "-strategy", "annealing", "-loglevel", "error"}, &out)
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	if _, err := os.Stat(filepath.Join(dir, "cpu.pprof")); err != nil {
		t.Errorf("profile should be written even when the search fails: %v", err)
	}
}

func TestRunSmallGridSearch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.json")
	body := `{"strategy": "grid", "rounds": 1, "steps": 5, "width": 6, "height": 8, "grid_baseline": 0,
		"grid": [{"min": 1, "max": 2}, {"min": 1, "max": 2}, {"min": 1, "max": 2}, {"min": 1, "max": 2}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out bytes.Buffer
	if err := run([]string{"-config", path, "-workers", "1", "-loglevel", "error"}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("Parameters: 1,1,1,1")) {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
