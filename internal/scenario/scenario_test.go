package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/spectrum"
)

const squall = `
name: squall
description: calm morning, passing squall, long swell
steps:
  - preset: calm
    duration: 10
  - preset: storm
    duration: 5
    overrides:
      wind_speed: 30
      swell_wind_direction: 90
  - preset: swell
    duration: 20
`

func TestParseResolvesSegments(t *testing.T) {
	s, err := Parse([]byte(squall))
	if err != nil {
		t.Fatal(err)
	}
	if s.Duration() != 35 {
		t.Errorf("expected duration 35, got %f", s.Duration())
	}

	want := []struct{ start, end float64 }{{0, 10}, {10, 15}, {15, 35}}
	for i, seg := range s.Segments() {
		if seg.Start != want[i].start || seg.End != want[i].end {
			t.Errorf("segment %d: expected [%f, %f), got [%f, %f)", i, want[i].start, want[i].end, seg.Start, seg.End)
		}
	}

	storm := *config.GetPreset("storm")
	storm.Local.WindSpeed = 30
	storm.Swell.WindDirection = 90
	if diff := cmp.Diff(storm, s.Segments()[1].Settings); diff != "" {
		t.Errorf("override mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsAt(t *testing.T) {
	s, err := Parse([]byte(squall))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		t     float64
		index int
	}{
		{0, 0}, {9.99, 0}, {10, 1}, {14.5, 1}, {15, 2}, {100, 2},
	}
	for _, tt := range tests {
		if got := s.SettingsAt(tt.t).Index; got != tt.index {
			t.Errorf("t=%f: expected segment %d, got %d", tt.t, tt.index, got)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"no steps":        "name: empty\n",
		"unknown preset":  "steps:\n  - preset: hurricane\n    duration: 1\n",
		"zero duration":   "steps:\n  - preset: calm\n    duration: 0\n",
		"unknown param":   "steps:\n  - preset: calm\n    duration: 1\n    overrides:\n      vorticity: 2\n",
		"invalid physics": "steps:\n  - preset: calm\n    duration: 1\n    overrides:\n      wind_speed: 0\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSetParam(t *testing.T) {
	var s spectrum.Settings
	for k, v := range map[string]float64{
		"depth": 12, "lambda": 0.5, "fetch": 1000, "swell_fetch": 2000, "swell_scale": 0.3,
	} {
		if err := SetParam(&s, k, v); err != nil {
			t.Fatalf("%s: %v", k, err)
		}
	}
	want := spectrum.Settings{
		Constants: spectrum.Constants{Depth: 12, Lambda: 0.5},
		Local:     spectrum.DisplaySettings{Fetch: 1000},
		Swell:     spectrum.DisplaySettings{Fetch: 2000, Scale: 0.3},
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "squall.yaml")
	if err := os.WriteFile(path, []byte(squall), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "squall" || len(s.Segments()) != 3 {
		t.Errorf("unexpected scenario %+v", s)
	}
}
