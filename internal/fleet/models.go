package fleet

import (
	"time"
)

// Entity is anything identified by a server-assigned id.
// The client never mints ids; records without one have not been persisted.
type Entity interface {
	EntityID() string
}

// Role is the access level attached to a user account.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleDriver  Role = "DRIVER"
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

// User is the authenticated account, as returned by the login endpoint.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u User) EntityID() string { return u.ID }

// TruckStatus is the operational state of a truck. Transitions are not
// validated client-side; any value the server accepts can be written.
type TruckStatus string

const (
	TruckActive      TruckStatus = "ACTIVE"
	TruckMaintenance TruckStatus = "MAINTENANCE"
	TruckInactive    TruckStatus = "INACTIVE"
)

// Truck is a fleet vehicle. Uniqueness of PlateNumber and VIN is
// server-enforced, not checked locally.
type Truck struct {
	ID          string      `json:"_id"`
	PlateNumber string      `json:"plateNumber"`
	VIN         string      `json:"vin"`
	Make        string      `json:"make"`
	Model       string      `json:"model"`
	Year        int         `json:"year"`
	Capacity    int         `json:"capacity"`
	Status      TruckStatus `json:"status"`
}

func (t Truck) EntityID() string { return t.ID }

// Driver is a user account with the DRIVER role. Drivers are created only
// through the auth registration endpoint and are not mutable from this client.
type Driver struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (d Driver) EntityID() string { return d.ID }

// Trip is a planned or executed haul. Truck and Driver arrive as either bare
// ids or embedded records depending on which endpoint produced the trip.
type Trip struct {
	ID          string      `json:"_id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Truck       Ref[Truck]  `json:"truck"`
	Driver      Ref[Driver] `json:"driver"`
	Origin      string      `json:"origin"`
	Destination string      `json:"destination"`
	PlannedStart time.Time  `json:"plannedStart"`
	PlannedEnd  *time.Time  `json:"plannedEnd,omitempty"`
	Status      Status      `json:"status"`
	StartKm     *float64    `json:"startKm,omitempty"`
	EndKm       *float64    `json:"endKm,omitempty"`
	FuelVolume  *float64    `json:"fuelVolume,omitempty"`
	Remarks     string      `json:"remarks,omitempty"`
}

func (t Trip) EntityID() string { return t.ID }

// AssignedTo reports whether user is the driver assigned to this trip.
// Only DRIVER accounts pass; an admin is never "assigned". The driver field
// is matched through the ref so both the bare-id and embedded shapes work.
func (t Trip) AssignedTo(user *User) bool {
	if user == nil || user.Role != RoleDriver {
		return false
	}
	id := t.Driver.ID()
	return id != "" && id == user.ID
}

// Trailer is towed equipment. Status is free text on the server side, so it
// stays a plain string here.
type Trailer struct {
	ID          string `json:"_id"`
	PlateNumber string `json:"plateNumber"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Status      string `json:"status"`
	Capacity    *int   `json:"capacity,omitempty"`
}

func (t Trailer) EntityID() string { return t.ID }

// TirePosition is where a tire is mounted.
type TirePosition string

const (
	TireFrontLeft  TirePosition = "front-left"
	TireFrontRight TirePosition = "front-right"
	TireRearLeft   TirePosition = "rear-left"
	TireRearRight  TirePosition = "rear-right"
	TireSpare      TirePosition = "spare"
)

// Tire is a tracked tire.
type Tire struct {
	ID           string       `json:"_id"`
	SerialNumber string       `json:"serialNumber"`
	Position     TirePosition `json:"position"`
	InstalledAtKm *float64    `json:"installedAtKm,omitempty"`
	Status       string       `json:"status,omitempty"`
}

func (t Tire) EntityID() string { return t.ID }

// FuelLog records a refuelling against a trip.
type FuelLog struct {
	ID        string    `json:"_id"`
	Trip      Ref[Trip] `json:"trip"`
	Liters    float64   `json:"liters"`
	Odometer  float64   `json:"odometer"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (f FuelLog) EntityID() string { return f.ID }
