package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"traki/internal/api"
	"traki/internal/fleet"
	"traki/internal/testutil"
)

// newTestClient starts a server for handler and returns a client pointed at
// it. Both are torn down with the test.
func newTestClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := api.NewClient(srv.URL, 0, nil, testutil.NewStubIDGenerator())
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	return c
}

// respond writes a {data: ...} envelope.
func respond(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func TestClientEnvelope(t *testing.T) {
	ctx := context.Background()

	t.Run("unwraps the data envelope", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /trucks", func(w http.ResponseWriter, r *http.Request) {
			respond(w, []fleet.Truck{{ID: "t1", PlateNumber: "B-12-ABC"}})
		})
		c := newTestClient(t, mux)

		trucks, err := c.ListTrucks(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(trucks) != 1 || trucks[0].PlateNumber != "B-12-ABC" {
			t.Errorf("got %v, want one truck B-12-ABC", trucks)
		}
	})

	t.Run("rejects a bare body", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /trucks", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]fleet.Truck{{ID: "t1"}})
		})
		c := newTestClient(t, mux)

		if _, err := c.ListTrucks(ctx); err == nil {
			t.Fatal("expected error for a response without the data envelope")
		}
	})

	t.Run("tags every request with an id", func(t *testing.T) {
		var gotID string
		mux := http.NewServeMux()
		mux.HandleFunc("GET /trucks", func(w http.ResponseWriter, r *http.Request) {
			gotID = r.Header.Get("X-Request-Id")
			respond(w, []fleet.Truck{})
		})
		c := newTestClient(t, mux)

		if _, err := c.ListTrucks(ctx); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if gotID != "id-1" {
			t.Errorf("got request id %q, want id-1", gotID)
		}
	})
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()

	statusHandler := func(status int, body string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			fmt.Fprint(w, body)
		})
	}

	t.Run("surfaces the server message verbatim", func(t *testing.T) {
		c := newTestClient(t, statusHandler(422, `{"message":"plateNumber already exists"}`))

		_, err := c.GetTruck(ctx, "t1")
		var apiErr *api.Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("got %T, want *api.Error", err)
		}
		if apiErr.Status != 422 {
			t.Errorf("got status %d, want 422", apiErr.Status)
		}
		if apiErr.Error() != "plateNumber already exists" {
			t.Errorf("got message %q, want server message verbatim", apiErr.Error())
		}
		if apiErr.Retryable() {
			t.Error("a validation failure is terminal, not retryable")
		}
	})

	t.Run("reads the legacy error field", func(t *testing.T) {
		c := newTestClient(t, statusHandler(400, `{"error":"bad request"}`))

		_, err := c.GetTruck(ctx, "t1")
		var apiErr *api.Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("got %T, want *api.Error", err)
		}
		if apiErr.Message != "bad request" {
			t.Errorf("got message %q, want bad request", apiErr.Message)
		}
	})

	t.Run("retryable split", func(t *testing.T) {
		tests := []struct {
			status    int
			retryable bool
		}{
			{401, false},
			{403, false},
			{404, false},
			{422, false},
			{429, true},
			{500, true},
			{503, true},
		}
		for _, tt := range tests {
			c := newTestClient(t, statusHandler(tt.status, `{}`))
			_, err := c.GetTruck(ctx, "t1")
			var apiErr *api.Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("status %d: got %T, want *api.Error", tt.status, err)
			}
			if apiErr.Retryable() != tt.retryable {
				t.Errorf("status %d: retryable = %v, want %v", tt.status, apiErr.Retryable(), tt.retryable)
			}
		}
	})

	t.Run("not found helper", func(t *testing.T) {
		c := newTestClient(t, statusHandler(404, `{"message":"no such truck"}`))
		_, err := c.GetTruck(ctx, "t1")
		if !api.IsNotFound(err) {
			t.Errorf("IsNotFound(%v) = false, want true", err)
		}
		if api.IsNotFound(errors.New("other")) {
			t.Error("IsNotFound matched a non-API error")
		}
	})
}

func TestClientCreateTripDefaultsStatus(t *testing.T) {
	ctx := context.Background()

	var got fleet.TripInput
	mux := http.NewServeMux()
	mux.HandleFunc("POST /trips", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		respond(w, fleet.Trip{ID: "t1", Status: got.Status})
	})
	c := newTestClient(t, mux)

	if _, err := c.CreateTrip(ctx, fleet.TripInput{Title: "Milk run"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if got.Status != fleet.StatusToDo {
		t.Errorf("got status %q, want TO_DO default", got.Status)
	}
}

func TestClientCookies(t *testing.T) {
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok-1", HttpOnly: true})
		respond(w, fleet.User{ID: "u1", Role: fleet.RoleAdmin})
	})
	var gotCookie string
	mux.HandleFunc("GET /trucks", func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("session"); err == nil {
			gotCookie = ck.Value
		}
		respond(w, []fleet.Truck{})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store := testutil.NewMemoryStateStore()

	first, err := api.NewClient(srv.URL, 0, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := first.Login(ctx, "a@b.test", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := first.ListTrucks(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if gotCookie != "tok-1" {
		t.Fatalf("got cookie %q, want tok-1 on the follow-up request", gotCookie)
	}

	if err := first.SaveCookies(store); err != nil {
		t.Fatalf("saving cookies: %v", err)
	}

	// A fresh client (fresh run) restores the session cookie from the store.
	gotCookie = ""
	second, err := api.NewClient(srv.URL, 0, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := second.RestoreCookies(store); err != nil {
		t.Fatalf("restoring cookies: %v", err)
	}
	if _, err := second.ListTrucks(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if gotCookie != "tok-1" {
		t.Errorf("got cookie %q after restore, want tok-1", gotCookie)
	}

	t.Run("clear drops the session", func(t *testing.T) {
		if err := second.ClearCookies(); err != nil {
			t.Fatal(err)
		}
		gotCookie = ""
		if _, err := second.ListTrucks(ctx); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if gotCookie != "" {
			t.Errorf("cookie %q still sent after clear", gotCookie)
		}
		if err := second.SaveCookies(store); err != nil {
			t.Fatal(err)
		}
		if _, ok, _ := store.GetValue("cookies"); ok {
			t.Error("persisted cookies survived an empty jar save")
		}
	})
}

func TestClientDownload(t *testing.T) {
	ctx := context.Background()
	payload := []byte("%PDF-1.4 report body")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /trips/t1/download", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	})
	c := newTestClient(t, mux)

	var out bytes.Buffer
	n, err := c.DownloadTrip(ctx, "t1", &out)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if n != int64(len(payload)) {
		t.Errorf("got %d bytes, want %d", n, len(payload))
	}
	if !bytes.Equal(out.Bytes(), payload) {
		t.Error("downloaded body does not match")
	}

	t.Run("error status does not stream", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /trips/t1/download", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(404)
			fmt.Fprint(w, `{"message":"no report"}`)
		})
		c := newTestClient(t, mux)

		var out bytes.Buffer
		if _, err := c.DownloadTrip(ctx, "t1", &out); !api.IsNotFound(err) {
			t.Errorf("got %v, want not-found API error", err)
		}
		if out.Len() != 0 {
			t.Error("error body leaked into the writer")
		}
	})
}

func TestNewClientValidation(t *testing.T) {
	if _, err := api.NewClient("not a url", 0, nil, nil); err == nil {
		t.Error("relative base URL accepted")
	}
	if _, err := api.NewClient("", 0, nil, nil); err == nil {
		t.Error("empty base URL accepted")
	}
}
