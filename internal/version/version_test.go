package version

import (
	"runtime"
	"testing"
)

func TestColoredPlain(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	cases := map[string]string{
		"0.1.0-dev":            "0.1.0-dev",
		"1.2.3":                "1.2.3",
		"1.2.3-rc.1+build.123": "1.2.3-rc.1+build.123",
		"nightly":              "nightly",
	}
	for in, want := range cases {
		Version = in
		if got := Colored(false); got != want {
			t.Errorf("Colored(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStringIncludesBuildInfo(t *testing.T) {
	origV, origC, origD := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origV, origC, origD }()

	Version = "1.2.3"
	GitCommit = "1234567890abcdef1234"
	BuildDate = "2024-01-15"
	want := "lector 1.2.3 (1234567890ab) built 2024-01-15 " + runtime.GOOS + "/" + runtime.GOARCH
	if got := String(false); got != want {
		t.Fatalf("String = %q, want %q", got, want)
	}

	GitCommit, BuildDate = "", ""
	if got := String(false); got != "lector 1.2.3 "+runtime.GOOS+"/"+runtime.GOARCH {
		t.Fatalf("String = %q", got)
	}
}
