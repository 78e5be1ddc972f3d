package version

import (
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit := Version, GitCommit
	return func() {
		Version = origVersion
		GitCommit = origCommit
	}
}

func TestGetDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"
	GitCommit = ""

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
}

func TestShortIncludesCommit(t *testing.T) {
	defer saveAndRestore()()
	Version = "v1.2.3"
	GitCommit = "abc1234"

	short := Short()
	if !strings.HasPrefix(short, "v1.2.3-abc1234") {
		t.Errorf("expected short version to start with 'v1.2.3-abc1234', got %q", short)
	}
}

func TestInfoString(t *testing.T) {
	info := Info{Version: "v1.0.0", GitCommit: "abc1234", GoVersion: "go1.26"}
	got := info.String()
	if !strings.Contains(got, "v1.0.0") || !strings.Contains(got, "abc1234") {
		t.Errorf("unexpected string: %q", got)
	}
}
