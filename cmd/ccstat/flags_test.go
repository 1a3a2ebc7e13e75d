package main

import "testing"

func TestParseFlagsDefaults(t *testing.T) {
	opts, exit, code := parseFlags(nil)
	if exit {
		t.Fatalf("parseFlags(nil) should not request exit, got code %d", code)
	}
	if opts.Nodes != 200 || opts.Cycles != 50 || opts.Threshold != 4096 || opts.Verbosity != 3 {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}

func TestParseFlagsOverrides(t *testing.T) {
	opts, exit, _ := parseFlags([]string{"--nodes=10", "--cycles=5", "--threshold=999", "--verbosity=5"})
	if exit {
		t.Fatal("parseFlags should not request exit for valid flags")
	}
	if opts.Nodes != 10 || opts.Cycles != 5 || opts.Threshold != 999 || opts.Verbosity != 5 {
		t.Fatalf("unexpected overrides: %+v", opts)
	}
}

func TestParseFlagsHelp(t *testing.T) {
	_, exit, code := parseFlags([]string{"-h"})
	if !exit || code != 0 {
		t.Fatalf("-h should request exit with code 0, got exit=%v code=%d", exit, code)
	}
}

func TestParseFlagsInvalid(t *testing.T) {
	_, exit, code := parseFlags([]string{"--threshold=not-a-number"})
	if !exit || code != 2 {
		t.Fatalf("an invalid flag value should request exit with code 2, got exit=%v code=%d", exit, code)
	}
}
