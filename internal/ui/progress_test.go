package ui

import (
	"strings"
	"testing"

	"asmemit/internal/buildpipeline"
)

func TestProgressModelTracksModules(t *testing.T) {
	m := NewProgressModel("emit App", nil).(*progressModel)
	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageModules, Status: buildpipeline.StatusWorking})
	m.applyEvent(buildpipeline.Event{Module: "Good.netmodule", Stage: buildpipeline.StageLift, Status: buildpipeline.StatusQueued})
	m.applyEvent(buildpipeline.Event{Module: "Bad.netmodule", Stage: buildpipeline.StageLift, Status: buildpipeline.StatusQueued})
	m.applyEvent(buildpipeline.Event{Module: "Bad.netmodule", Stage: buildpipeline.StageLift, Status: buildpipeline.StatusError})

	if len(m.items) != 2 || m.items[1].status != "error" || m.items[0].status != "queued" {
		t.Fatalf("items = %+v", m.items)
	}
	if m.stageLabel != "opening" {
		t.Fatalf("stageLabel = %q", m.stageLabel)
	}
	if p := m.percent(); p <= 0 || p >= 1 {
		t.Fatalf("percent = %v, want strictly between 0 and 1", p)
	}
	view := m.View()
	if !strings.Contains(view, "Good.netmodule") || !strings.Contains(view, "emit App (opening)") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a-very-long-module-name.netmodule", 10, "a-very-..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
