package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"

	"traki/internal/fleet"
)

// FakeAPI is an in-memory implementation of the remote layer. Records live in
// slices in insertion order and ids are assigned sequentially, so tests can
// predict them. Any endpoint can be made to fail by name through FailWith.
type FakeAPI struct {
	mu    sync.Mutex
	idgen *StubIDGenerator

	Users     map[string]fleet.User // keyed by email
	Passwords map[string]string     // keyed by email

	Trucks   []fleet.Truck
	Trips    []fleet.Trip
	Trailers []fleet.Trailer
	Tires    []fleet.Tire
	FuelLogs []fleet.FuelLog
	Drivers  []fleet.Driver

	// Me is the driver id ListMyTrips filters on.
	Me string

	// Report is the payload DownloadTrip streams.
	Report []byte

	failures map[string]error
	Calls    []string
}

func NewFakeAPI() *FakeAPI {
	return &FakeAPI{
		idgen:     NewStubIDGenerator(),
		Users:     make(map[string]fleet.User),
		Passwords: make(map[string]string),
		failures:  make(map[string]error),
	}
}

// FailWith makes the named endpoint (e.g. "ListTrucks") return err.
// Passing nil clears the failure.
func (f *FakeAPI) FailWith(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, op)
		return
	}
	f.failures[op] = err
}

// NextID returns the id the next created record will receive.
func (f *FakeAPI) NextID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fmt.Sprintf("id-%d", f.idgen.counter+1)
}

// call records the invocation and returns the injected failure, if any.
// Must be called with the lock held.
func (f *FakeAPI) call(op string) error {
	f.Calls = append(f.Calls, op)
	return f.failures[op]
}

// Auth

func (f *FakeAPI) Login(_ context.Context, email, password string) (fleet.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("Login"); err != nil {
		return fleet.User{}, err
	}
	if pw, ok := f.Passwords[email]; !ok || pw != password {
		return fleet.User{}, fmt.Errorf("invalid credentials")
	}
	return f.Users[email], nil
}

func (f *FakeAPI) Register(_ context.Context, input fleet.RegisterInput) (fleet.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("Register"); err != nil {
		return fleet.Driver{}, err
	}
	d := fleet.Driver{
		ID:    f.idgen.New(),
		Name:  input.Name,
		Email: input.Email,
		Role:  input.Role,
	}
	f.Drivers = append(f.Drivers, d)
	f.Users[input.Email] = fleet.User{ID: d.ID, Name: d.Name, Email: d.Email, Role: d.Role}
	f.Passwords[input.Email] = input.Password
	return d, nil
}

// Trucks

func (f *FakeAPI) ListTrucks(_ context.Context) ([]fleet.Truck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListTrucks"); err != nil {
		return nil, err
	}
	return append([]fleet.Truck(nil), f.Trucks...), nil
}

func (f *FakeAPI) GetTruck(_ context.Context, id string) (fleet.Truck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetTruck"); err != nil {
		return fleet.Truck{}, err
	}
	for _, t := range f.Trucks {
		if t.ID == id {
			return t, nil
		}
	}
	return fleet.Truck{}, fmt.Errorf("truck %s not found", id)
}

func (f *FakeAPI) CreateTruck(_ context.Context, input fleet.TruckInput) (fleet.Truck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateTruck"); err != nil {
		return fleet.Truck{}, err
	}
	t := fleet.Truck{
		ID:          f.idgen.New(),
		PlateNumber: input.PlateNumber,
		VIN:         input.VIN,
		Make:        input.Make,
		Model:       input.Model,
		Year:        input.Year,
		Capacity:    input.Capacity,
		Status:      input.Status,
	}
	f.Trucks = append(f.Trucks, t)
	return t, nil
}

func (f *FakeAPI) UpdateTruck(_ context.Context, id string, partial fleet.Partial) (fleet.Truck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateTruck"); err != nil {
		return fleet.Truck{}, err
	}
	for i, t := range f.Trucks {
		if t.ID != id {
			continue
		}
		if v, ok := partial["plateNumber"].(string); ok {
			t.PlateNumber = v
		}
		if v, ok := partial["vin"].(string); ok {
			t.VIN = v
		}
		if v, ok := partial["make"].(string); ok {
			t.Make = v
		}
		if v, ok := partial["model"].(string); ok {
			t.Model = v
		}
		if v, ok := asInt(partial["year"]); ok {
			t.Year = v
		}
		if v, ok := asInt(partial["capacity"]); ok {
			t.Capacity = v
		}
		if v, ok := asString(partial["status"]); ok {
			t.Status = fleet.TruckStatus(v)
		}
		f.Trucks[i] = t
		return t, nil
	}
	return fleet.Truck{}, fmt.Errorf("truck %s not found", id)
}

func (f *FakeAPI) DeleteTruck(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteTruck"); err != nil {
		return err
	}
	for i, t := range f.Trucks {
		if t.ID == id {
			f.Trucks = append(f.Trucks[:i], f.Trucks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("truck %s not found", id)
}

// Trips

func (f *FakeAPI) ListTrips(_ context.Context) ([]fleet.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListTrips"); err != nil {
		return nil, err
	}
	return append([]fleet.Trip(nil), f.Trips...), nil
}

func (f *FakeAPI) ListMyTrips(_ context.Context) ([]fleet.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListMyTrips"); err != nil {
		return nil, err
	}
	var mine []fleet.Trip
	for _, t := range f.Trips {
		if t.Driver.ID() == f.Me {
			mine = append(mine, t)
		}
	}
	return mine, nil
}

func (f *FakeAPI) GetTrip(_ context.Context, id string) (fleet.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetTrip"); err != nil {
		return fleet.Trip{}, err
	}
	for _, t := range f.Trips {
		if t.ID == id {
			return t, nil
		}
	}
	return fleet.Trip{}, fmt.Errorf("trip %s not found", id)
}

func (f *FakeAPI) CreateTrip(_ context.Context, input fleet.TripInput) (fleet.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateTrip"); err != nil {
		return fleet.Trip{}, err
	}
	t := fleet.Trip{
		ID:           f.idgen.New(),
		Title:        input.Title,
		Description:  input.Description,
		Truck:        fleet.RefID[fleet.Truck](input.Truck),
		Driver:       fleet.RefID[fleet.Driver](input.Driver),
		Origin:       input.Origin,
		Destination:  input.Destination,
		PlannedStart: input.PlannedStart,
		PlannedEnd:   input.PlannedEnd,
		Status:       input.Status,
	}
	f.Trips = append(f.Trips, t)
	return t, nil
}

func (f *FakeAPI) UpdateTrip(_ context.Context, id string, partial fleet.Partial) (fleet.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateTrip"); err != nil {
		return fleet.Trip{}, err
	}
	for i, t := range f.Trips {
		if t.ID != id {
			continue
		}
		if v, ok := partial["title"].(string); ok {
			t.Title = v
		}
		if v, ok := asString(partial["status"]); ok {
			t.Status = fleet.NormalizeStatus(v)
		}
		if v, ok := asFloat(partial["startKm"]); ok {
			t.StartKm = &v
		}
		if v, ok := asFloat(partial["endKm"]); ok {
			t.EndKm = &v
		}
		if v, ok := asFloat(partial["fuelVolume"]); ok {
			t.FuelVolume = &v
		}
		if v, ok := partial["remarks"].(string); ok {
			t.Remarks = v
		}
		f.Trips[i] = t
		return t, nil
	}
	return fleet.Trip{}, fmt.Errorf("trip %s not found", id)
}

func (f *FakeAPI) DeleteTrip(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteTrip"); err != nil {
		return err
	}
	for i, t := range f.Trips {
		if t.ID == id {
			f.Trips = append(f.Trips[:i], f.Trips[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("trip %s not found", id)
}

func (f *FakeAPI) DownloadTrip(_ context.Context, id string, w io.Writer) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DownloadTrip"); err != nil {
		return 0, err
	}
	n, err := w.Write(f.Report)
	return int64(n), err
}

// Trailers

func (f *FakeAPI) ListTrailers(_ context.Context) ([]fleet.Trailer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListTrailers"); err != nil {
		return nil, err
	}
	return append([]fleet.Trailer(nil), f.Trailers...), nil
}

func (f *FakeAPI) GetTrailer(_ context.Context, id string) (fleet.Trailer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetTrailer"); err != nil {
		return fleet.Trailer{}, err
	}
	for _, t := range f.Trailers {
		if t.ID == id {
			return t, nil
		}
	}
	return fleet.Trailer{}, fmt.Errorf("trailer %s not found", id)
}

func (f *FakeAPI) CreateTrailer(_ context.Context, input fleet.TrailerInput) (fleet.Trailer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateTrailer"); err != nil {
		return fleet.Trailer{}, err
	}
	t := fleet.Trailer{
		ID:          f.idgen.New(),
		PlateNumber: input.PlateNumber,
		Make:        input.Make,
		Model:       input.Model,
		Status:      input.Status,
		Capacity:    input.Capacity,
	}
	f.Trailers = append(f.Trailers, t)
	return t, nil
}

func (f *FakeAPI) UpdateTrailer(_ context.Context, id string, partial fleet.Partial) (fleet.Trailer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateTrailer"); err != nil {
		return fleet.Trailer{}, err
	}
	for i, t := range f.Trailers {
		if t.ID != id {
			continue
		}
		if v, ok := partial["plateNumber"].(string); ok {
			t.PlateNumber = v
		}
		if v, ok := partial["status"].(string); ok {
			t.Status = v
		}
		if v, ok := asInt(partial["capacity"]); ok {
			t.Capacity = &v
		}
		f.Trailers[i] = t
		return t, nil
	}
	return fleet.Trailer{}, fmt.Errorf("trailer %s not found", id)
}

func (f *FakeAPI) DeleteTrailer(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteTrailer"); err != nil {
		return err
	}
	for i, t := range f.Trailers {
		if t.ID == id {
			f.Trailers = append(f.Trailers[:i], f.Trailers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("trailer %s not found", id)
}

// Tires

func (f *FakeAPI) ListTires(_ context.Context) ([]fleet.Tire, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListTires"); err != nil {
		return nil, err
	}
	return append([]fleet.Tire(nil), f.Tires...), nil
}

func (f *FakeAPI) GetTire(_ context.Context, id string) (fleet.Tire, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetTire"); err != nil {
		return fleet.Tire{}, err
	}
	for _, t := range f.Tires {
		if t.ID == id {
			return t, nil
		}
	}
	return fleet.Tire{}, fmt.Errorf("tire %s not found", id)
}

func (f *FakeAPI) CreateTire(_ context.Context, input fleet.TireInput) (fleet.Tire, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateTire"); err != nil {
		return fleet.Tire{}, err
	}
	t := fleet.Tire{
		ID:            f.idgen.New(),
		SerialNumber:  input.SerialNumber,
		Position:      input.Position,
		InstalledAtKm: input.InstalledAtKm,
		Status:        input.Status,
	}
	f.Tires = append(f.Tires, t)
	return t, nil
}

func (f *FakeAPI) UpdateTire(_ context.Context, id string, partial fleet.Partial) (fleet.Tire, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateTire"); err != nil {
		return fleet.Tire{}, err
	}
	for i, t := range f.Tires {
		if t.ID != id {
			continue
		}
		if v, ok := partial["serialNumber"].(string); ok {
			t.SerialNumber = v
		}
		if v, ok := partial["position"].(string); ok {
			t.Position = fleet.TirePosition(v)
		}
		if v, ok := asFloat(partial["installedAtKm"]); ok {
			t.InstalledAtKm = &v
		}
		if v, ok := partial["status"].(string); ok {
			t.Status = v
		}
		f.Tires[i] = t
		return t, nil
	}
	return fleet.Tire{}, fmt.Errorf("tire %s not found", id)
}

func (f *FakeAPI) DeleteTire(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteTire"); err != nil {
		return err
	}
	for i, t := range f.Tires {
		if t.ID == id {
			f.Tires = append(f.Tires[:i], f.Tires[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("tire %s not found", id)
}

// Fuel logs

func (f *FakeAPI) ListFuelLogs(_ context.Context) ([]fleet.FuelLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListFuelLogs"); err != nil {
		return nil, err
	}
	return append([]fleet.FuelLog(nil), f.FuelLogs...), nil
}

func (f *FakeAPI) GetFuelLog(_ context.Context, id string) (fleet.FuelLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetFuelLog"); err != nil {
		return fleet.FuelLog{}, err
	}
	for _, l := range f.FuelLogs {
		if l.ID == id {
			return l, nil
		}
	}
	return fleet.FuelLog{}, fmt.Errorf("fuel log %s not found", id)
}

func (f *FakeAPI) CreateFuelLog(_ context.Context, input fleet.FuelLogInput) (fleet.FuelLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateFuelLog"); err != nil {
		return fleet.FuelLog{}, err
	}
	l := fleet.FuelLog{
		ID:       f.idgen.New(),
		Trip:     fleet.RefID[fleet.Trip](input.Trip),
		Liters:   input.Liters,
		Odometer: input.Odometer,
		Notes:    input.Notes,
	}
	f.FuelLogs = append(f.FuelLogs, l)
	return l, nil
}

func (f *FakeAPI) DeleteFuelLog(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteFuelLog"); err != nil {
		return err
	}
	for i, l := range f.FuelLogs {
		if l.ID == id {
			f.FuelLogs = append(f.FuelLogs[:i], f.FuelLogs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("fuel log %s not found", id)
}

// Drivers

func (f *FakeAPI) ListDrivers(_ context.Context) ([]fleet.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListDrivers"); err != nil {
		return nil, err
	}
	return append([]fleet.Driver(nil), f.Drivers...), nil
}

func (f *FakeAPI) GetDriver(_ context.Context, id string) (fleet.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetDriver"); err != nil {
		return fleet.Driver{}, err
	}
	for _, d := range f.Drivers {
		if d.ID == id {
			return d, nil
		}
	}
	return fleet.Driver{}, fmt.Errorf("driver %s not found", id)
}

// asInt accepts the numeric shapes a partial payload may carry.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

// asFloat accepts the numeric shapes a partial payload may carry.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// asString accepts plain strings and the string-backed enum types.
func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case fleet.Status:
		return string(s), true
	case fleet.TruckStatus:
		return string(s), true
	}
	return "", false
}

// Compile-time check that the fake matches the remote layer contract.
var _ fleet.API = (*FakeAPI)(nil)
