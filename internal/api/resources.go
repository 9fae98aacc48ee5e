package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"traki/internal/fleet"
)

// Auth

func (c *Client) Login(ctx context.Context, email, password string) (fleet.User, error) {
	var u fleet.User
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/auth/login", body, &u)
	return u, err
}

func (c *Client) Register(ctx context.Context, input fleet.RegisterInput) (fleet.Driver, error) {
	var d fleet.Driver
	err := c.do(ctx, http.MethodPost, "/auth/register", input, &d)
	return d, err
}

// Trucks

func (c *Client) ListTrucks(ctx context.Context) ([]fleet.Truck, error) {
	var out []fleet.Truck
	err := c.do(ctx, http.MethodGet, "/trucks", nil, &out)
	return out, err
}

func (c *Client) GetTruck(ctx context.Context, id string) (fleet.Truck, error) {
	var out fleet.Truck
	err := c.do(ctx, http.MethodGet, "/trucks/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) CreateTruck(ctx context.Context, input fleet.TruckInput) (fleet.Truck, error) {
	var out fleet.Truck
	err := c.do(ctx, http.MethodPost, "/trucks", input, &out)
	return out, err
}

func (c *Client) UpdateTruck(ctx context.Context, id string, partial fleet.Partial) (fleet.Truck, error) {
	var out fleet.Truck
	err := c.do(ctx, http.MethodPut, "/trucks/"+url.PathEscape(id), partial, &out)
	return out, err
}

func (c *Client) DeleteTruck(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/trucks/"+url.PathEscape(id), nil, nil)
}

// Trips

func (c *Client) ListTrips(ctx context.Context) ([]fleet.Trip, error) {
	var out []fleet.Trip
	err := c.do(ctx, http.MethodGet, "/trips", nil, &out)
	return out, err
}

func (c *Client) ListMyTrips(ctx context.Context) ([]fleet.Trip, error) {
	var out []fleet.Trip
	err := c.do(ctx, http.MethodGet, "/trips/my", nil, &out)
	return out, err
}

func (c *Client) GetTrip(ctx context.Context, id string) (fleet.Trip, error) {
	var out fleet.Trip
	err := c.do(ctx, http.MethodGet, "/trips/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) CreateTrip(ctx context.Context, input fleet.TripInput) (fleet.Trip, error) {
	// The create form defaults new trips to TO_DO.
	if input.Status == "" {
		input.Status = fleet.StatusToDo
	}
	var out fleet.Trip
	err := c.do(ctx, http.MethodPost, "/trips", input, &out)
	return out, err
}

func (c *Client) UpdateTrip(ctx context.Context, id string, partial fleet.Partial) (fleet.Trip, error) {
	var out fleet.Trip
	err := c.do(ctx, http.MethodPut, "/trips/"+url.PathEscape(id), partial, &out)
	return out, err
}

func (c *Client) DeleteTrip(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/trips/"+url.PathEscape(id), nil, nil)
}

func (c *Client) DownloadTrip(ctx context.Context, id string, w io.Writer) (int64, error) {
	return c.download(ctx, fmt.Sprintf("/trips/%s/download", url.PathEscape(id)), w)
}

// Trailers

func (c *Client) ListTrailers(ctx context.Context) ([]fleet.Trailer, error) {
	var out []fleet.Trailer
	err := c.do(ctx, http.MethodGet, "/trailers", nil, &out)
	return out, err
}

func (c *Client) GetTrailer(ctx context.Context, id string) (fleet.Trailer, error) {
	var out fleet.Trailer
	err := c.do(ctx, http.MethodGet, "/trailers/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) CreateTrailer(ctx context.Context, input fleet.TrailerInput) (fleet.Trailer, error) {
	var out fleet.Trailer
	err := c.do(ctx, http.MethodPost, "/trailers", input, &out)
	return out, err
}

func (c *Client) UpdateTrailer(ctx context.Context, id string, partial fleet.Partial) (fleet.Trailer, error) {
	var out fleet.Trailer
	err := c.do(ctx, http.MethodPut, "/trailers/"+url.PathEscape(id), partial, &out)
	return out, err
}

func (c *Client) DeleteTrailer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/trailers/"+url.PathEscape(id), nil, nil)
}

// Tires

func (c *Client) ListTires(ctx context.Context) ([]fleet.Tire, error) {
	var out []fleet.Tire
	err := c.do(ctx, http.MethodGet, "/tires", nil, &out)
	return out, err
}

func (c *Client) GetTire(ctx context.Context, id string) (fleet.Tire, error) {
	var out fleet.Tire
	err := c.do(ctx, http.MethodGet, "/tires/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) CreateTire(ctx context.Context, input fleet.TireInput) (fleet.Tire, error) {
	var out fleet.Tire
	err := c.do(ctx, http.MethodPost, "/tires", input, &out)
	return out, err
}

func (c *Client) UpdateTire(ctx context.Context, id string, partial fleet.Partial) (fleet.Tire, error) {
	var out fleet.Tire
	err := c.do(ctx, http.MethodPut, "/tires/"+url.PathEscape(id), partial, &out)
	return out, err
}

func (c *Client) DeleteTire(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tires/"+url.PathEscape(id), nil, nil)
}

// Fuel logs

func (c *Client) ListFuelLogs(ctx context.Context) ([]fleet.FuelLog, error) {
	var out []fleet.FuelLog
	err := c.do(ctx, http.MethodGet, "/fuellogs", nil, &out)
	return out, err
}

func (c *Client) GetFuelLog(ctx context.Context, id string) (fleet.FuelLog, error) {
	var out fleet.FuelLog
	err := c.do(ctx, http.MethodGet, "/fuellogs/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) CreateFuelLog(ctx context.Context, input fleet.FuelLogInput) (fleet.FuelLog, error) {
	var out fleet.FuelLog
	err := c.do(ctx, http.MethodPost, "/fuellogs", input, &out)
	return out, err
}

func (c *Client) DeleteFuelLog(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/fuellogs/"+url.PathEscape(id), nil, nil)
}

// Drivers

func (c *Client) ListDrivers(ctx context.Context) ([]fleet.Driver, error) {
	var out []fleet.Driver
	err := c.do(ctx, http.MethodGet, "/drivers", nil, &out)
	return out, err
}

func (c *Client) GetDriver(ctx context.Context, id string) (fleet.Driver, error) {
	var out fleet.Driver
	err := c.do(ctx, http.MethodGet, "/drivers/"+url.PathEscape(id), nil, &out)
	return out, err
}
