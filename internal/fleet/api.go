package fleet

import (
	"context"
	"io"
	"time"
)

// TruckInput is the payload for creating a truck.
type TruckInput struct {
	PlateNumber string      `json:"plateNumber"`
	VIN         string      `json:"vin"`
	Make        string      `json:"make"`
	Model       string      `json:"model"`
	Year        int         `json:"year"`
	Capacity    int         `json:"capacity"`
	Status      TruckStatus `json:"status"`
}

// TripInput is the payload for creating a trip. Truck and Driver are ids.
// Status defaults to TO_DO when left empty, matching the create form.
type TripInput struct {
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Truck        string     `json:"truck"`
	Driver       string     `json:"driver"`
	Origin       string     `json:"origin"`
	Destination  string     `json:"destination"`
	PlannedStart time.Time  `json:"plannedStart"`
	PlannedEnd   *time.Time `json:"plannedEnd,omitempty"`
	Status       Status     `json:"status"`
}

// TrailerInput is the payload for creating a trailer.
type TrailerInput struct {
	PlateNumber string `json:"plateNumber"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Status      string `json:"status"`
	Capacity    *int   `json:"capacity,omitempty"`
}

// TireInput is the payload for creating a tire.
type TireInput struct {
	SerialNumber  string       `json:"serialNumber"`
	Position      TirePosition `json:"position"`
	InstalledAtKm *float64     `json:"installedAtKm,omitempty"`
	Status        string       `json:"status,omitempty"`
}

// FuelLogInput is the payload for recording a refuelling against a trip.
type FuelLogInput struct {
	Trip     string  `json:"trip"`
	Liters   float64 `json:"liters"`
	Odometer float64 `json:"odometer"`
	Notes    string  `json:"notes,omitempty"`
}

// RegisterInput is the payload for the auth registration endpoint.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Partial is a partial-update payload for PUT endpoints. Only the keys
// present are sent; a blank field is omitted, never written as empty.
type Partial map[string]any

// API is the remote layer: one method per REST endpoint. Implementations are
// pure request/response wrappers with no retry and no caching.
type API interface {
	// Auth
	Login(ctx context.Context, email, password string) (User, error)
	Register(ctx context.Context, input RegisterInput) (Driver, error)

	// Trucks
	ListTrucks(ctx context.Context) ([]Truck, error)
	GetTruck(ctx context.Context, id string) (Truck, error)
	CreateTruck(ctx context.Context, input TruckInput) (Truck, error)
	UpdateTruck(ctx context.Context, id string, partial Partial) (Truck, error)
	DeleteTruck(ctx context.Context, id string) error

	// Trips
	ListTrips(ctx context.Context) ([]Trip, error)
	ListMyTrips(ctx context.Context) ([]Trip, error)
	GetTrip(ctx context.Context, id string) (Trip, error)
	CreateTrip(ctx context.Context, input TripInput) (Trip, error)
	UpdateTrip(ctx context.Context, id string, partial Partial) (Trip, error)
	DeleteTrip(ctx context.Context, id string) error
	// DownloadTrip streams the trip's PDF report to w and returns the
	// number of bytes written.
	DownloadTrip(ctx context.Context, id string, w io.Writer) (int64, error)

	// Trailers
	ListTrailers(ctx context.Context) ([]Trailer, error)
	GetTrailer(ctx context.Context, id string) (Trailer, error)
	CreateTrailer(ctx context.Context, input TrailerInput) (Trailer, error)
	UpdateTrailer(ctx context.Context, id string, partial Partial) (Trailer, error)
	DeleteTrailer(ctx context.Context, id string) error

	// Tires
	ListTires(ctx context.Context) ([]Tire, error)
	GetTire(ctx context.Context, id string) (Tire, error)
	CreateTire(ctx context.Context, input TireInput) (Tire, error)
	UpdateTire(ctx context.Context, id string, partial Partial) (Tire, error)
	DeleteTire(ctx context.Context, id string) error

	// Fuel logs (no update endpoint exists)
	ListFuelLogs(ctx context.Context) ([]FuelLog, error)
	GetFuelLog(ctx context.Context, id string) (FuelLog, error)
	CreateFuelLog(ctx context.Context, input FuelLogInput) (FuelLog, error)
	DeleteFuelLog(ctx context.Context, id string) error

	// Drivers (created via Register only)
	ListDrivers(ctx context.Context) ([]Driver, error)
	GetDriver(ctx context.Context, id string) (Driver, error)
}

// Archive stores downloaded trip reports for audit.
type Archive interface {
	// Put stores a named report. size is the number of bytes that will be
	// read from r, or -1 when unknown. Storing the same name twice
	// overwrites.
	Put(name string, r io.Reader, size int64) error

	// Get retrieves a named report and writes it to w.
	Get(name string, w io.Writer) error

	// List returns the names of all archived reports.
	List() ([]string, error)

	// ValidateSetup verifies the archive is accessible and configured.
	ValidateSetup() error
}

// StateStore is durable local key/value storage. Used for the persisted
// session and cookies.
type StateStore interface {
	GetValue(key string) (value string, ok bool, err error)
	SetValue(key, value string) error
	DeleteValue(key string) error
}
