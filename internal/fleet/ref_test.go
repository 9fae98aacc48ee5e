package fleet_test

import (
	"encoding/json"
	"testing"

	"traki/internal/fleet"
)

func TestRefUnmarshal(t *testing.T) {
	t.Run("bare id", func(t *testing.T) {
		var trip fleet.Trip
		if err := json.Unmarshal([]byte(`{"_id":"t1","driver":"d1"}`), &trip); err != nil {
			t.Fatal(err)
		}
		if got := trip.Driver.ID(); got != "d1" {
			t.Errorf("got id %q, want d1", got)
		}
		if _, ok := trip.Driver.Record(); ok {
			t.Error("bare id should not carry a record")
		}
	})

	t.Run("embedded record", func(t *testing.T) {
		var trip fleet.Trip
		raw := `{"_id":"t1","driver":{"_id":"d1","name":"Dana","role":"DRIVER"}}`
		if err := json.Unmarshal([]byte(raw), &trip); err != nil {
			t.Fatal(err)
		}
		if got := trip.Driver.ID(); got != "d1" {
			t.Errorf("got id %q, want d1", got)
		}
		d, ok := trip.Driver.Record()
		if !ok {
			t.Fatal("embedded record was not decoded")
		}
		if d.Name != "Dana" {
			t.Errorf("got name %q, want Dana", d.Name)
		}
	})

	t.Run("null", func(t *testing.T) {
		var trip fleet.Trip
		if err := json.Unmarshal([]byte(`{"_id":"t1","driver":null}`), &trip); err != nil {
			t.Fatal(err)
		}
		if !trip.Driver.IsZero() {
			t.Error("null relation should be zero")
		}
		if got := trip.Driver.ID(); got != "" {
			t.Errorf("got id %q, want empty", got)
		}
	})
}

func TestRefMarshal(t *testing.T) {
	t.Run("id round-trips as a string", func(t *testing.T) {
		raw, err := json.Marshal(fleet.RefID[fleet.Driver]("d1"))
		if err != nil {
			t.Fatal(err)
		}
		if string(raw) != `"d1"` {
			t.Errorf("got %s, want \"d1\"", raw)
		}
	})

	t.Run("record round-trips as an object", func(t *testing.T) {
		ref := fleet.RefTo(fleet.Driver{ID: "d1", Name: "Dana"})
		raw, err := json.Marshal(ref)
		if err != nil {
			t.Fatal(err)
		}
		var decoded fleet.Ref[fleet.Driver]
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatal(err)
		}
		d, ok := decoded.Record()
		if !ok || d.Name != "Dana" {
			t.Errorf("got %+v, want embedded Dana", d)
		}
	})

	t.Run("zero marshals as null", func(t *testing.T) {
		raw, err := json.Marshal(fleet.Ref[fleet.Driver]{})
		if err != nil {
			t.Fatal(err)
		}
		if string(raw) != "null" {
			t.Errorf("got %s, want null", raw)
		}
	})
}

func TestTripAssignedTo(t *testing.T) {
	trip := fleet.Trip{ID: "t1", Driver: fleet.RefID[fleet.Driver]("d1")}

	tests := []struct {
		name string
		user *fleet.User
		want bool
	}{
		{"assigned driver", &fleet.User{ID: "d1", Role: fleet.RoleDriver}, true},
		{"other driver", &fleet.User{ID: "d2", Role: fleet.RoleDriver}, false},
		{"admin with matching id", &fleet.User{ID: "d1", Role: fleet.RoleAdmin}, false},
		{"nobody", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trip.AssignedTo(tt.user); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("embedded driver matches too", func(t *testing.T) {
		populated := fleet.Trip{ID: "t1", Driver: fleet.RefTo(fleet.Driver{ID: "d1", Name: "Dana"})}
		if !populated.AssignedTo(&fleet.User{ID: "d1", Role: fleet.RoleDriver}) {
			t.Error("embedded relation should pass the gate")
		}
	})

	t.Run("unset driver never matches", func(t *testing.T) {
		unassigned := fleet.Trip{ID: "t1"}
		if unassigned.AssignedTo(&fleet.User{ID: "", Role: fleet.RoleDriver}) {
			t.Error("empty ids must not match each other")
		}
	})
}
