package fleet_test

import (
	"encoding/json"
	"testing"

	"traki/internal/fleet"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want fleet.Status
	}{
		{"TO_DO", fleet.StatusToDo},
		{"SCHEDULED", fleet.StatusToDo},
		{"scheduled", fleet.StatusToDo},
		{" to_do ", fleet.StatusToDo},
		{"IN_PROGRESS", fleet.StatusInProgress},
		{"in_progress", fleet.StatusInProgress},
		{"DONE", fleet.StatusDone},
		{"COMPLETED", fleet.StatusDone},
		{"Completed", fleet.StatusDone},
		{"paused", fleet.Status("PAUSED")},
	}

	for _, tt := range tests {
		if got := fleet.NormalizeStatus(tt.raw); got != tt.want {
			t.Errorf("NormalizeStatus(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if s, ok := fleet.ParseStatus("completed"); !ok || s != fleet.StatusDone {
		t.Errorf("ParseStatus(completed) = %s, %v; want DONE, true", s, ok)
	}
	if _, ok := fleet.ParseStatus("PAUSED"); ok {
		t.Error("ParseStatus accepted a value outside the enum")
	}
	if _, ok := fleet.ParseStatus(""); ok {
		t.Error("ParseStatus accepted the empty string")
	}
}

// An alias arriving from the server and its canonical form must be
// indistinguishable once decoded.
func TestStatusUnmarshalNormalizes(t *testing.T) {
	var legacy, canonical fleet.Trip
	if err := json.Unmarshal([]byte(`{"_id":"t1","status":"SCHEDULED"}`), &legacy); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"_id":"t1","status":"TO_DO"}`), &canonical); err != nil {
		t.Fatal(err)
	}
	if legacy.Status != canonical.Status {
		t.Errorf("alias decoded to %s, canonical to %s", legacy.Status, canonical.Status)
	}
}

func TestStatusClassify(t *testing.T) {
	tests := []struct {
		status fleet.Status
		want   fleet.Phase
	}{
		{fleet.StatusToDo, fleet.PhasePending},
		{fleet.Status("SCHEDULED"), fleet.PhasePending},
		{fleet.StatusInProgress, fleet.PhaseActive},
		{fleet.StatusDone, fleet.PhaseComplete},
		{fleet.Status("COMPLETED"), fleet.PhaseComplete},
		{fleet.Status("PAUSED"), fleet.PhaseUnknown},
	}

	for _, tt := range tests {
		if got := tt.status.Classify(); got != tt.want {
			t.Errorf("Classify(%s) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	if got := fleet.StatusInProgress.Label(); got != "In Progress" {
		t.Errorf("got %q, want In Progress", got)
	}
	if got := fleet.Status("VERY_LATE").Label(); got != "VERY LATE" {
		t.Errorf("got %q, want VERY LATE", got)
	}
}
