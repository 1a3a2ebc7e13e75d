package main

import "testing"

func TestRunSmoke(t *testing.T) {
	code := run([]string{"--nodes=5", "--cycles=3", "--threshold=256", "--verbosity=0"})
	if code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}
}

func TestRunHelp(t *testing.T) {
	code := run([]string{"-h"})
	if code != 0 {
		t.Fatalf("run([-h]) = %d, want 0", code)
	}
}
