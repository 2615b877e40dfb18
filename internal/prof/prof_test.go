package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Mem:   filepath.Join(dir, "mem.pprof"),
		Trace: filepath.Join(dir, "run.trace"),
	}
	s, err := Start(opts)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	for _, path := range []string{opts.CPU, opts.Mem, opts.Trace} {
		st, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if st.Size() == 0 {
			t.Errorf("%s is empty", filepath.Base(path))
		}
	}
}

func TestStartBadPathLeavesNothingRunning(t *testing.T) {
	dir := t.TempDir()
	_, err := Start(Options{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Trace: filepath.Join(dir, "missing", "run.trace"),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	// профиль CPU должен быть остановлен, иначе новый старт упадёт
	s, err := Start(Options{CPU: filepath.Join(dir, "again.pprof")})
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Stop()
}

func TestNilAndEmptySession(t *testing.T) {
	var s *Session
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if (Options{}).Enabled() {
		t.Fatal("empty options must be disabled")
	}
	empty, err := Start(Options{})
	if err != nil || empty.Stop() != nil {
		t.Fatal("empty session must start and stop cleanly")
	}
}
