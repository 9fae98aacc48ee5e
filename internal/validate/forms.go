package validate

import (
	"strconv"
	"strings"
	"time"

	"traki/internal/fleet"
)

// Forms collect raw text input, validate it, and produce the typed payload
// the service layer persists. A form never talks to the network itself; its
// only outputs are a validated payload and the collected field errors.

// TruckForm is the raw input for creating a truck.
type TruckForm struct {
	PlateNumber string
	VIN         string
	Make        string
	Model       string
	Year        string
	Capacity    string
	Status      string
}

// Payload validates the form and builds the create payload. On failure the
// returned FieldErrors is non-empty and the payload must not be used.
func (f TruckForm) Payload() (fleet.TruckInput, FieldErrors) {
	errs := FieldErrors{}
	errs.Add("plateNumber", PlateNumber(f.PlateNumber))
	errs.Add("make", Make(f.Make))
	errs.Add("model", Model(f.Model))
	errs.Add("year", Year(f.Year))
	errs.Add("capacity", Capacity(f.Capacity))
	if len(errs) > 0 {
		return fleet.TruckInput{}, errs
	}

	year, _ := strconv.Atoi(strings.TrimSpace(f.Year))
	capacity, _ := strconv.Atoi(strings.TrimSpace(f.Capacity))

	status := fleet.TruckStatus(strings.ToUpper(strings.TrimSpace(f.Status)))
	if status == "" {
		status = fleet.TruckActive
	}

	return fleet.TruckInput{
		PlateNumber: strings.TrimSpace(f.PlateNumber),
		VIN:         strings.TrimSpace(f.VIN),
		Make:        strings.TrimSpace(f.Make),
		Model:       strings.TrimSpace(f.Model),
		Year:        year,
		Capacity:    capacity,
		Status:      status,
	}, nil
}

// TripForm is the raw input for creating a trip. Times are RFC 3339.
type TripForm struct {
	Title        string
	Description  string
	Truck        string
	Driver       string
	Origin       string
	Destination  string
	PlannedStart string
	PlannedEnd   string
	Status       string
}

func (f TripForm) Payload() (fleet.TripInput, FieldErrors) {
	errs := FieldErrors{}
	for field, value := range map[string]string{
		"title":       f.Title,
		"truck":       f.Truck,
		"driver":      f.Driver,
		"origin":      f.Origin,
		"destination": f.Destination,
	} {
		if strings.TrimSpace(value) == "" {
			errs.Add(field, invalid(capitalize(field)+" is required."))
		}
	}

	var start time.Time
	if strings.TrimSpace(f.PlannedStart) == "" {
		errs.Add("plannedStart", invalid("Planned start is required."))
	} else {
		var err error
		start, err = time.Parse(time.RFC3339, strings.TrimSpace(f.PlannedStart))
		if err != nil {
			errs.Add("plannedStart", invalid("Planned start must be an RFC 3339 timestamp."))
		}
	}

	var end *time.Time
	if raw := strings.TrimSpace(f.PlannedEnd); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			errs.Add("plannedEnd", invalid("Planned end must be an RFC 3339 timestamp."))
		} else {
			end = &t
		}
	}

	status := fleet.StatusToDo
	if raw := strings.TrimSpace(f.Status); raw != "" {
		parsed, ok := fleet.ParseStatus(raw)
		if !ok {
			errs.Add("status", invalid("Status must be one of TO_DO, IN_PROGRESS, DONE."))
		} else {
			status = parsed
		}
	}

	if len(errs) > 0 {
		return fleet.TripInput{}, errs
	}

	return fleet.TripInput{
		Title:        strings.TrimSpace(f.Title),
		Description:  strings.TrimSpace(f.Description),
		Truck:        strings.TrimSpace(f.Truck),
		Driver:       strings.TrimSpace(f.Driver),
		Origin:       strings.TrimSpace(f.Origin),
		Destination:  strings.TrimSpace(f.Destination),
		PlannedStart: start,
		PlannedEnd:   end,
		Status:       status,
	}, nil
}

// TrailerForm is the raw input for creating a trailer.
type TrailerForm struct {
	PlateNumber string
	Make        string
	Model       string
	Status      string
	Capacity    string
}

func (f TrailerForm) Payload() (fleet.TrailerInput, FieldErrors) {
	errs := FieldErrors{}
	errs.Add("plateNumber", PlateNumber(f.PlateNumber))
	errs.Add("make", Make(f.Make))
	errs.Add("model", Model(f.Model))

	var capacity *int
	if raw := strings.TrimSpace(f.Capacity); raw != "" {
		r := Capacity(raw)
		if !r.Valid {
			errs.Add("capacity", r)
		} else {
			c, _ := strconv.Atoi(raw)
			capacity = &c
		}
	}

	if len(errs) > 0 {
		return fleet.TrailerInput{}, errs
	}

	status := strings.TrimSpace(f.Status)
	if status == "" {
		status = "ACTIVE"
	}

	return fleet.TrailerInput{
		PlateNumber: strings.TrimSpace(f.PlateNumber),
		Make:        strings.TrimSpace(f.Make),
		Model:       strings.TrimSpace(f.Model),
		Status:      status,
		Capacity:    capacity,
	}, nil
}

// tirePositions is the closed set of mount positions.
var tirePositions = map[fleet.TirePosition]bool{
	fleet.TireFrontLeft:  true,
	fleet.TireFrontRight: true,
	fleet.TireRearLeft:   true,
	fleet.TireRearRight:  true,
	fleet.TireSpare:      true,
}

// TireForm is the raw input for creating a tire.
type TireForm struct {
	SerialNumber  string
	Position      string
	InstalledAtKm string
	Status        string
}

func (f TireForm) Payload() (fleet.TireInput, FieldErrors) {
	errs := FieldErrors{}

	if strings.TrimSpace(f.SerialNumber) == "" {
		errs.Add("serialNumber", invalid("Serial number is required."))
	}

	position := fleet.TirePosition(strings.ToLower(strings.TrimSpace(f.Position)))
	if !tirePositions[position] {
		errs.Add("position", invalid("Position must be one of front-left, front-right, rear-left, rear-right, spare."))
	}

	var installedAt *float64
	if raw := strings.TrimSpace(f.InstalledAtKm); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs.Add("installedAtKm", invalid("Installed-at km must be a number."))
		} else {
			installedAt = &v
		}
	}

	if len(errs) > 0 {
		return fleet.TireInput{}, errs
	}

	return fleet.TireInput{
		SerialNumber:  strings.TrimSpace(f.SerialNumber),
		Position:      position,
		InstalledAtKm: installedAt,
		Status:        strings.TrimSpace(f.Status),
	}, nil
}

// DriverForm is the raw input for registering a driver. A blank password is
// allowed; the service generates one that passes the password rules.
type DriverForm struct {
	Name     string
	Email    string
	Password string
}

func (f DriverForm) Validate() FieldErrors {
	errs := FieldErrors{}
	errs.Add("name", Name(f.Name))
	errs.Add("email", Email(f.Email))
	if f.Password != "" {
		errs.Add("password", Password(f.Password))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
