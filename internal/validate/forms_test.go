package validate

import (
	"testing"
	"time"

	"traki/internal/fleet"
)

func TestTruckFormPayload(t *testing.T) {
	t.Run("valid form", func(t *testing.T) {
		form := TruckForm{
			PlateNumber: " B-12-ABC ",
			VIN:         "WDB123",
			Make:        "Volvo",
			Model:       "FH16",
			Year:        "2021",
			Capacity:    "24000",
		}
		input, errs := form.Payload()
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if input.PlateNumber != "B-12-ABC" {
			t.Errorf("got plate %q, want trimmed", input.PlateNumber)
		}
		if input.Year != 2021 || input.Capacity != 24000 {
			t.Errorf("got year %d capacity %d", input.Year, input.Capacity)
		}
		if input.Status != fleet.TruckActive {
			t.Errorf("got status %s, want ACTIVE default", input.Status)
		}
	})

	t.Run("collects errors per field", func(t *testing.T) {
		form := TruckForm{Year: "soon", Capacity: "-1"}
		_, errs := form.Payload()
		for _, field := range []string{"plateNumber", "make", "model", "year", "capacity"} {
			if _, ok := errs[field]; !ok {
				t.Errorf("missing error for %s", field)
			}
		}
	})
}

func TestTripFormPayload(t *testing.T) {
	t.Run("valid form", func(t *testing.T) {
		form := TripForm{
			Title:        "Milk run",
			Truck:        "tr1",
			Driver:       "d1",
			Origin:       "Cluj",
			Destination:  "Oradea",
			PlannedStart: "2025-06-01T08:00:00Z",
			PlannedEnd:   "2025-06-01T16:00:00Z",
			Status:       "scheduled",
		}
		input, errs := form.Payload()
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if input.Status != fleet.StatusToDo {
			t.Errorf("got status %s, want legacy alias normalized to TO_DO", input.Status)
		}
		want := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
		if !input.PlannedStart.Equal(want) {
			t.Errorf("got start %v, want %v", input.PlannedStart, want)
		}
		if input.PlannedEnd == nil {
			t.Error("planned end was dropped")
		}
	})

	t.Run("status defaults to TO_DO", func(t *testing.T) {
		form := TripForm{
			Title: "x", Truck: "t", Driver: "d", Origin: "a", Destination: "b",
			PlannedStart: "2025-06-01T08:00:00Z",
		}
		input, errs := form.Payload()
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if input.Status != fleet.StatusToDo {
			t.Errorf("got status %s, want TO_DO", input.Status)
		}
	})

	t.Run("rejects bad timestamps and statuses", func(t *testing.T) {
		form := TripForm{
			Title: "x", Truck: "t", Driver: "d", Origin: "a", Destination: "b",
			PlannedStart: "tomorrow morning",
			Status:       "PAUSED",
		}
		_, errs := form.Payload()
		if _, ok := errs["plannedStart"]; !ok {
			t.Error("missing error for plannedStart")
		}
		if _, ok := errs["status"]; !ok {
			t.Error("missing error for status")
		}
	})
}

func TestTrailerFormPayload(t *testing.T) {
	t.Run("capacity is optional", func(t *testing.T) {
		form := TrailerForm{PlateNumber: "B-77-TRL", Make: "Schmitz", Model: "S.CS"}
		input, errs := form.Payload()
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if input.Capacity != nil {
			t.Error("blank capacity should stay unset")
		}
		if input.Status != "ACTIVE" {
			t.Errorf("got status %q, want ACTIVE default", input.Status)
		}
	})

	t.Run("bad capacity is rejected", func(t *testing.T) {
		form := TrailerForm{PlateNumber: "B-77-TRL", Make: "Schmitz", Model: "S.CS", Capacity: "-3"}
		if _, errs := form.Payload(); len(errs) == 0 {
			t.Error("negative capacity accepted")
		}
	})
}

func TestTireFormPayload(t *testing.T) {
	t.Run("position is a closed set", func(t *testing.T) {
		form := TireForm{SerialNumber: "SN-1", Position: "FRONT-LEFT"}
		input, errs := form.Payload()
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if input.Position != fleet.TireFrontLeft {
			t.Errorf("got position %s, want front-left", input.Position)
		}

		form.Position = "middle"
		if _, errs := form.Payload(); len(errs) == 0 {
			t.Error("unknown position accepted")
		}
	})
}

func TestDriverFormValidate(t *testing.T) {
	t.Run("blank password is allowed", func(t *testing.T) {
		form := DriverForm{Name: "Dana", Email: "dana@fleet.test"}
		if errs := form.Validate(); errs != nil {
			t.Errorf("unexpected errors: %v", errs)
		}
	})

	t.Run("weak explicit password is rejected", func(t *testing.T) {
		form := DriverForm{Name: "Dana", Email: "dana@fleet.test", Password: "abc"}
		errs := form.Validate()
		if errs == nil {
			t.Fatal("weak password accepted")
		}
		if _, ok := errs["password"]; !ok {
			t.Error("missing error for password")
		}
	})
}
