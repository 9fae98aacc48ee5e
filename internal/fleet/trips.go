package fleet

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ErrNotAssigned is returned when someone other than the trip's assigned
// driver invokes a driver-only operation. This mirrors the server's own
// check; passing here is never a substitute for server-side authorization.
var ErrNotAssigned = errors.New("only the assigned driver can update this trip")

// FuelLogForm carries the raw text of the fuel-log entry fields.
type FuelLogForm struct {
	Liters   string
	Odometer string
	Notes    string
}

// CloseForm carries the raw text of the trip-closing fields. Blank fields
// mean "no change", not "clear": they are omitted from the update payload so
// an empty input never overwrites a previously saved value.
type CloseForm struct {
	StartKm    string
	EndKm      string
	FuelVolume string
	Remarks    string
}

// Workflow is the detail view over a single trip: the driver-only status
// mutation, fuel logging, and trip-closing operations, gated on the caller
// being the trip's assigned driver.
//
// Status transitions are deliberately unconstrained: the server accepts any
// of the three states at any time, including DONE back to TO_DO, and the
// client does not second-guess it.
type Workflow struct {
	svc *Service

	mu   sync.Mutex
	trip Trip
}

// OpenTrip fetches the trip and returns a workflow over it.
func (s *Service) OpenTrip(ctx context.Context, id string) (*Workflow, error) {
	t, err := s.api.GetTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Workflow{svc: s, trip: t}, nil
}

// Trip returns the current snapshot of the trip.
func (w *Workflow) Trip() Trip {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.trip
}

// CanOperate reports whether the session user passes the driver gate for
// this trip. The CLI uses it to decide which actions to offer, the same way
// the detail view decides which controls to render.
func (w *Workflow) CanOperate() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.trip.AssignedTo(w.svc.session.Current())
}

// refetch reloads the trip so server-side side effects of a mutation are
// reflected in the snapshot.
func (w *Workflow) refetch(ctx context.Context) error {
	t, err := w.svc.api.GetTrip(ctx, w.Trip().ID)
	if err != nil {
		return fmt.Errorf("refreshing trip: %w", err)
	}
	w.mu.Lock()
	w.trip = t
	w.mu.Unlock()
	return nil
}

// ChangeStatus sets the trip's status through the trips store and refetches
// the trip to pick up any server-side side effects of the change.
func (w *Workflow) ChangeStatus(ctx context.Context, raw string) error {
	if !w.CanOperate() {
		return ErrNotAssigned
	}
	status, ok := ParseStatus(raw)
	if !ok {
		return fmt.Errorf("unknown trip status %q", raw)
	}
	if _, err := w.svc.trips.Update(ctx, w.Trip().ID, Partial{"status": status}); err != nil {
		return err
	}
	return w.refetch(ctx)
}

// AddFuelLog records a refuelling against the trip. The parent trip is not
// refetched: any trip-level aggregates the server maintains stay stale until
// the trip is reopened. That window is accepted, not a bug.
func (w *Workflow) AddFuelLog(ctx context.Context, form FuelLogForm) (FuelLog, error) {
	if !w.CanOperate() {
		return FuelLog{}, ErrNotAssigned
	}

	liters, err := parseNumber("liters", form.Liters)
	if err != nil {
		return FuelLog{}, err
	}
	if liters == nil {
		return FuelLog{}, fmt.Errorf("liters is required")
	}
	odometer, err := parseNumber("odometer", form.Odometer)
	if err != nil {
		return FuelLog{}, err
	}
	if odometer == nil {
		return FuelLog{}, fmt.Errorf("odometer is required")
	}

	return w.svc.fuelLogs.Create(ctx, FuelLogInput{
		Trip:     w.Trip().ID,
		Liters:   *liters,
		Odometer: *odometer,
		Notes:    strings.TrimSpace(form.Notes),
	})
}

// SaveDetails updates the trip-closing fields. String inputs are converted
// to numbers where present; blank fields are omitted from the payload
// entirely. The trip is refetched on success to pick up server-computed
// fields.
func (w *Workflow) SaveDetails(ctx context.Context, form CloseForm) error {
	if !w.CanOperate() {
		return ErrNotAssigned
	}

	payload, err := form.payload()
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		// Nothing to save.
		return nil
	}

	if _, err := w.svc.trips.Update(ctx, w.Trip().ID, payload); err != nil {
		return err
	}
	return w.refetch(ctx)
}

// payload builds the partial update, skipping blank fields.
func (f CloseForm) payload() (Partial, error) {
	p := Partial{}

	for _, field := range []struct {
		key string
		raw string
	}{
		{"startKm", f.StartKm},
		{"endKm", f.EndKm},
		{"fuelVolume", f.FuelVolume},
	} {
		v, err := parseNumber(field.key, field.raw)
		if err != nil {
			return nil, err
		}
		if v != nil {
			p[field.key] = *v
		}
	}

	if remarks := strings.TrimSpace(f.Remarks); remarks != "" {
		p["remarks"] = remarks
	}

	return p, nil
}

// parseNumber parses an optional numeric form field. Blank returns nil.
func parseNumber(name, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number: %q", name, raw)
	}
	return &v, nil
}
