package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestBanner(t *testing.T) {
	origNoColor, origVersion, origCommit, origDate := color.NoColor, Version, GitCommit, BuildDate
	defer func() {
		color.NoColor, Version, GitCommit, BuildDate = origNoColor, origVersion, origCommit, origDate
	}()
	color.NoColor = true

	cases := []struct {
		version, commit, date string
		want                  string
	}{
		{"0.1.0-dev", "", "", "asmemit 0.1.0-dev"},
		{"1.2.3", "abc123", "", "asmemit 1.2.3 (abc123)"},
		{"1.2.3-rc.1", "abc123", "2024-01-15", "asmemit 1.2.3-rc.1 (abc123) built 2024-01-15"},
		{"custom", "", "", "asmemit custom"},
	}
	for _, tc := range cases {
		Version, GitCommit, BuildDate = tc.version, tc.commit, tc.date
		if got := Banner(); got != tc.want {
			t.Errorf("Banner() = %q, want %q", got, tc.want)
		}
	}
}
