package fleet_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"traki/internal/archive"
	"traki/internal/fleet"
	"traki/internal/testutil"
	"traki/internal/validate"
)

func TestTripsListingByRole(t *testing.T) {
	ctx := context.Background()

	t.Run("admin sees the whole fleet", func(t *testing.T) {
		fake, svc := tripFixture(t, "admin@fleet.test")
		fake.Trips = append(fake.Trips, fleet.Trip{ID: "t2", Driver: fleet.RefID[fleet.Driver]("d2")})

		if err := svc.Trips().Load(ctx); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got := svc.Trips().Len(); got != 2 {
			t.Errorf("got %d trips, want 2", got)
		}
		if countCalls(fake, "ListTrips") != 1 || countCalls(fake, "ListMyTrips") != 0 {
			t.Error("admin listing did not use the fleet-wide endpoint")
		}
	})

	t.Run("driver sees only their own", func(t *testing.T) {
		fake, svc := tripFixture(t, "dana@fleet.test")
		fake.Me = "d1"
		fake.Trips = append(fake.Trips, fleet.Trip{ID: "t2", Driver: fleet.RefID[fleet.Driver]("d2")})

		if err := svc.Trips().Load(ctx); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		items := svc.Trips().Items()
		if len(items) != 1 || items[0].ID != "t1" {
			t.Errorf("got %v, want only t1", items)
		}
		if countCalls(fake, "ListMyTrips") != 1 {
			t.Error("driver listing did not use the my-trips endpoint")
		}
	})
}

func TestRegisterDriver(t *testing.T) {
	ctx := context.Background()

	t.Run("generates a compliant password when blank", func(t *testing.T) {
		fake := testutil.NewFakeAPI()
		svc := newService(fake)

		d, password, err := svc.RegisterDriver(ctx, "Dana", "dana@fleet.test", "")
		if err != nil {
			t.Fatalf("register failed: %v", err)
		}
		if d.Role != fleet.RoleDriver {
			t.Errorf("got role %s, want DRIVER", d.Role)
		}
		if len(password) != 12 {
			t.Errorf("got password length %d, want 12", len(password))
		}
		if r := validate.Password(password); !r.Valid {
			t.Errorf("generated password fails the rules: %v", r.Messages)
		}
		if fake.Passwords["dana@fleet.test"] != password {
			t.Error("registered password does not match the returned one")
		}
	})

	t.Run("keeps an explicit password", func(t *testing.T) {
		fake := testutil.NewFakeAPI()
		svc := newService(fake)

		_, password, err := svc.RegisterDriver(ctx, "Omar", "omar@fleet.test", "Chosen1!pass")
		if err != nil {
			t.Fatalf("register failed: %v", err)
		}
		if password != "Chosen1!pass" {
			t.Errorf("got %q, want the provided password", password)
		}
	})
}

func TestGeneratePassword(t *testing.T) {
	classes := []string{
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		"abcdefghijklmnopqrstuvwxyz",
		"0123456789",
		"@$!%*?&",
	}

	for i := 0; i < 20; i++ {
		pw, err := fleet.GeneratePassword(12)
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if len(pw) != 12 {
			t.Fatalf("got length %d, want 12", len(pw))
		}
		for _, class := range classes {
			if !strings.ContainsAny(pw, class) {
				t.Errorf("password %q missing a character from %q", pw, class)
			}
		}
	}

	t.Run("short lengths are raised to the minimum", func(t *testing.T) {
		pw, err := fleet.GeneratePassword(3)
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if len(pw) != 8 {
			t.Errorf("got length %d, want 8", len(pw))
		}
	})
}

// failingArchive rejects every write.
type failingArchive struct{}

func (failingArchive) Put(string, io.Reader, int64) error { return errors.New("archive down") }
func (failingArchive) Get(string, io.Writer) error        { return errors.New("archive down") }
func (failingArchive) List() ([]string, error)            { return nil, errors.New("archive down") }
func (failingArchive) ValidateSetup() error               { return errors.New("archive down") }

func TestDownloadReport(t *testing.T) {
	ctx := context.Background()

	t.Run("streams and archives a copy", func(t *testing.T) {
		fake := testutil.NewFakeAPI()
		fake.Report = []byte("%PDF-1.4 trip report")
		arch := archive.NewMemoryArchive()
		session := fleet.NewSession(testutil.NewMemoryStateStore(), nil)
		svc := fleet.NewService(fake, session, arch, nil, testutil.FixedClock(), testutil.NewStubIDGenerator())

		var out bytes.Buffer
		n, err := svc.DownloadReport(ctx, "t1", &out)
		if err != nil {
			t.Fatalf("download failed: %v", err)
		}
		if n != int64(len(fake.Report)) {
			t.Errorf("got %d bytes, want %d", n, len(fake.Report))
		}
		if !bytes.Equal(out.Bytes(), fake.Report) {
			t.Error("streamed report does not match the server payload")
		}

		names, err := arch.List()
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(names) != 1 || names[0] != "trip-t1.pdf" {
			t.Fatalf("got archived names %v, want [trip-t1.pdf]", names)
		}
		var archived bytes.Buffer
		if err := arch.Get("trip-t1.pdf", &archived); err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !bytes.Equal(archived.Bytes(), fake.Report) {
			t.Error("archived copy does not match the server payload")
		}
	})

	t.Run("archive failure does not fail the download", func(t *testing.T) {
		fake := testutil.NewFakeAPI()
		fake.Report = []byte("report")
		session := fleet.NewSession(testutil.NewMemoryStateStore(), nil)
		svc := fleet.NewService(fake, session, failingArchive{}, nil, testutil.FixedClock(), testutil.NewStubIDGenerator())

		var out bytes.Buffer
		n, err := svc.DownloadReport(ctx, "t1", &out)
		if err != nil {
			t.Fatalf("download failed: %v", err)
		}
		if n != int64(len(fake.Report)) {
			t.Errorf("got %d bytes, want %d", n, len(fake.Report))
		}
	})

	t.Run("download failure is returned", func(t *testing.T) {
		fake := testutil.NewFakeAPI()
		boom := errors.New("boom")
		fake.FailWith("DownloadTrip", boom)
		session := fleet.NewSession(testutil.NewMemoryStateStore(), nil)
		svc := fleet.NewService(fake, session, archive.NewMemoryArchive(), nil, testutil.FixedClock(), testutil.NewStubIDGenerator())

		if _, err := svc.DownloadReport(ctx, "t1", io.Discard); !errors.Is(err, boom) {
			t.Errorf("got %v, want boom", err)
		}
	})
}

func TestServiceClose(t *testing.T) {
	svc := newService(testutil.NewFakeAPI())
	svc.Close()

	if err := svc.Trucks().Load(context.Background()); !errors.Is(err, fleet.ErrStoreClosed) {
		t.Errorf("got %v, want ErrStoreClosed after service close", err)
	}
}
