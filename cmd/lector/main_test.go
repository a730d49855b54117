package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lector/internal/report"
)

const testConfig = `[checkers]
enabled = ["wordlist", "repeat"]

[wordlist]
words = ["fun", "facets", "shall", "cause", "some", "errors"]

[cache]
disabled = true
`

func writeProject(t *testing.T) (dir, cfgPath, lib string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "lector.toml")
	lib = filepath.Join(dir, "lib.rs")
	if err := os.WriteFile(cfgPath, []byte(testConfig), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(lib, []byte("/// Fun facets shalld cause some erroris.\nfn x() {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir, cfgPath, lib
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--ui", "off", "--color", "off"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheckThenFix(t *testing.T) {
	dir, cfgPath, lib := writeProject(t)

	out, err := runCLI(t, "--format", "pretty", "check", "--config", cfgPath, dir)
	if !errors.Is(err, errFindings) {
		t.Fatalf("check err = %v\n%s", err, out)
	}
	if !strings.Contains(out, "SPL1001") || !strings.Contains(out, `help: "shall"`) {
		t.Fatalf("check output:\n%s", out)
	}

	out, err = runCLI(t, "--format", "json", "fix", "--config", cfgPath, lib)
	if err != nil {
		t.Fatalf("fix err = %v\n%s", err, out)
	}
	var doc report.Output
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("fix output is not JSON: %v\n%s", err, out)
	}
	if doc.Mode != "fix" || doc.Applied != 2 || doc.Remaining != 0 {
		t.Fatalf("fix document %+v", doc)
	}
	got, err := os.ReadFile(lib)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "/// Fun facets shall cause some errors.\nfn x() {}\n" {
		t.Fatalf("file after fix %q", got)
	}
}

func TestResolveColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	cases := []struct {
		in   string
		tty  bool
		want bool
	}{
		{"auto", true, true},
		{"auto", false, false},
		{"on", false, true},
		{"never", true, false},
	}
	for _, tc := range cases {
		got, err := resolveColor(tc.in, tc.tty)
		if err != nil || got != tc.want {
			t.Errorf("resolveColor(%q, %v) = %v, %v", tc.in, tc.tty, got, err)
		}
	}
	if _, err := resolveColor("rainbow", true); err == nil {
		t.Fatal("expected error")
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, " ON ": uiModeOn, "off": uiModeOff} {
		if got, err := readUIMode(in); err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Fatal("expected error")
	}
}
