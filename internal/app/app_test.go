package app

import (
	"path/filepath"
	"testing"

	"traki/internal/config"
	"traki/internal/fleet"
	"traki/internal/state"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.NewConfig("http://localhost:5000/api", base)
	cfg.Archive = config.ArchiveConfig{Type: "memory"}
	return cfg
}

func TestNewAppWiring(t *testing.T) {
	cfg := testConfig(t)

	a, err := NewApp(cfg, "ListTrucks")
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	if a.Service() == nil || a.Session() == nil || a.Client() == nil || a.Archive() == nil {
		t.Error("app wiring left a dependency nil")
	}
	if a.Session().IsAuthenticated() {
		t.Error("fresh app should start without a session")
	}

	ops, err := a.History(10)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(ops) != 1 || ops[0].Operation != "ListTrucks" {
		t.Errorf("got %v, want the journaled run", ops)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestAppJournalsOutcome(t *testing.T) {
	cfg := testConfig(t)

	a, err := NewApp(cfg, "Login")
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	a.Fail()
	if err := a.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	b, err := NewApp(cfg, "GetHistory")
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer b.Close()

	ops, err := b.History(10)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("got %d operations, want 2", len(ops))
	}
	// Newest first: the current run, then the failed login.
	if ops[1].Operation != "Login" || ops[1].Status != "error" {
		t.Errorf("got %s/%s, want Login/error", ops[1].Operation, ops[1].Status)
	}
	if !ops[1].FinishedAt.Valid {
		t.Error("closed run has no finish time")
	}
}

func TestAppPersistsSessionAcrossRuns(t *testing.T) {
	cfg := testConfig(t)

	// Seed a persisted user the way a successful login would.
	db, err := state.Open(filepath.Join(cfg.Database.DataDir, "state.db"), fleet.RealClock{})
	if err != nil {
		t.Fatalf("opening state db: %v", err)
	}
	if err := db.SetValue("user", `{"_id":"u1","name":"Dana","role":"DRIVER"}`); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	a, err := NewApp(cfg, "WhoAmI")
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer a.Close()

	u := a.Session().Current()
	if u == nil || u.ID != "u1" {
		t.Errorf("got %v, want persisted user u1", u)
	}
}

func TestOpenStateDB(t *testing.T) {
	t.Run("unknown type", func(t *testing.T) {
		if _, err := openStateDB(config.DatabaseConfig{Type: "postgres"}); err == nil {
			t.Error("unknown database type accepted")
		}
	})

	t.Run("sqlite requires data dir", func(t *testing.T) {
		if _, err := openStateDB(config.DatabaseConfig{Type: "sqlite"}); err == nil {
			t.Error("sqlite without data_dir accepted")
		}
	})

	t.Run("memory", func(t *testing.T) {
		db, err := openStateDB(config.DatabaseConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("open failed: %v", err)
		}
		db.Close()
	})
}
