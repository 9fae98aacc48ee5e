package state_test

import (
	"testing"
	"time"

	"traki/internal/state"
	"traki/internal/testutil"
)

func newTestDB(t *testing.T) (*state.DB, *testutil.StubClock) {
	t.Helper()

	clock := testutil.FixedClock()
	db, err := state.Open(":memory:", clock)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, clock
}

func TestKeyValue(t *testing.T) {
	db, _ := newTestDB(t)

	t.Run("missing key", func(t *testing.T) {
		_, ok, err := db.GetValue("user")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if ok {
			t.Error("missing key reported as present")
		}
	})

	t.Run("set and get", func(t *testing.T) {
		if err := db.SetValue("user", `{"_id":"u1"}`); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		v, ok, err := db.GetValue("user")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !ok || v != `{"_id":"u1"}` {
			t.Errorf("got %q (ok=%v), want the stored value", v, ok)
		}
	})

	t.Run("set overwrites", func(t *testing.T) {
		if err := db.SetValue("user", `{"_id":"u2"}`); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		v, _, err := db.GetValue("user")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if v != `{"_id":"u2"}` {
			t.Errorf("got %q, want the new value", v)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := db.DeleteValue("user"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, ok, _ := db.GetValue("user"); ok {
			t.Error("deleted key still present")
		}
		// Deleting a missing key is not an error.
		if err := db.DeleteValue("user"); err != nil {
			t.Errorf("second delete failed: %v", err)
		}
	})
}

func TestOperationsJournal(t *testing.T) {
	db, clock := newTestDB(t)

	first, err := db.CreateOperation("Login", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if first.ID == 0 {
		t.Error("operation has no assigned id")
	}

	clock.Advance(3 * time.Second)
	if err := db.FinishOperation(first.ID, "success"); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	clock.Advance(time.Minute)
	second, err := db.CreateOperation("ListTrips", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := db.FinishOperation(second.ID, "error"); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	ops, err := db.RecentOperations(10)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("got %d operations, want 2", len(ops))
	}

	// Newest first.
	if ops[0].Operation != "ListTrips" || ops[1].Operation != "Login" {
		t.Errorf("wrong order: %s, %s", ops[0].Operation, ops[1].Operation)
	}
	if ops[0].Status != "error" || ops[1].Status != "success" {
		t.Errorf("wrong statuses: %s, %s", ops[0].Status, ops[1].Status)
	}
	if !ops[1].FinishedAt.Valid {
		t.Error("finished operation has no finish time")
	}
	if got := ops[1].FinishedAt.Time.Sub(ops[1].StartedAt); got != 3*time.Second {
		t.Errorf("got duration %v, want 3s", got)
	}

	t.Run("limit", func(t *testing.T) {
		ops, err := db.RecentOperations(1)
		if err != nil {
			t.Fatalf("listing failed: %v", err)
		}
		if len(ops) != 1 || ops[0].Operation != "ListTrips" {
			t.Errorf("got %v, want only the newest", ops)
		}
	})
}
