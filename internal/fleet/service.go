package fleet

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Service is the orchestration layer between the CLI and the remote API.
// It owns one store per resource and the page-level operations built on top
// of them: the role-aware trip listing, driver registration, and report
// download/archival.
type Service struct {
	api     API
	session *Session
	archive Archive
	log     Logger
	clock   Clock
	idgen   IDGenerator

	trucks   *Store[Truck]
	trips    *Store[Trip]
	trailers *Store[Trailer]
	tires    *Store[Tire]
	fuelLogs *Store[FuelLog]
	drivers  *Store[Driver]
}

// NewService creates a Service with the provided dependencies and wires the
// per-resource stores to their endpoints.
func NewService(api API, session *Session, archive Archive, log Logger, clock Clock, idgen IDGenerator) *Service {
	if log == nil {
		log = NewNopLogger()
	}
	s := &Service{
		api:     api,
		session: session,
		archive: archive,
		log:     log,
		clock:   clock,
		idgen:   idgen,
	}

	s.trucks = NewStore("trucks", StoreFuncs[Truck]{
		List:   api.ListTrucks,
		Create: createFunc(api.CreateTruck),
		Update: api.UpdateTruck,
		Remove: api.DeleteTruck,
	}, log)

	s.trips = NewStore("trips", StoreFuncs[Trip]{
		// Admins list the whole fleet; everyone else gets their own trips.
		List: func(ctx context.Context) ([]Trip, error) {
			if u := session.Current(); u != nil && u.Role == RoleAdmin {
				return api.ListTrips(ctx)
			}
			return api.ListMyTrips(ctx)
		},
		Create: createFunc(api.CreateTrip),
		Update: api.UpdateTrip,
		Remove: api.DeleteTrip,
	}, log)

	s.trailers = NewStore("trailers", StoreFuncs[Trailer]{
		List:   api.ListTrailers,
		Create: createFunc(api.CreateTrailer),
		Update: api.UpdateTrailer,
		Remove: api.DeleteTrailer,
	}, log)

	s.tires = NewStore("tires", StoreFuncs[Tire]{
		List:   api.ListTires,
		Create: createFunc(api.CreateTire),
		Update: api.UpdateTire,
		Remove: api.DeleteTire,
	}, log)

	s.fuelLogs = NewStore("fuellogs", StoreFuncs[FuelLog]{
		List:   api.ListFuelLogs,
		Create: createFunc(api.CreateFuelLog),
		Remove: api.DeleteFuelLog,
	}, log)

	s.drivers = NewStore("drivers", StoreFuncs[Driver]{
		List: api.ListDrivers,
	}, log)

	return s
}

// createFunc adapts a typed create endpoint to the store's payload-carrying
// signature.
func createFunc[T Entity, I any](create func(context.Context, I) (T, error)) func(context.Context, any) (T, error) {
	return func(ctx context.Context, payload any) (T, error) {
		input, ok := payload.(I)
		if !ok {
			var zero T
			return zero, fmt.Errorf("unexpected payload type %T", payload)
		}
		return create(ctx, input)
	}
}

func (s *Service) Trucks() *Store[Truck]     { return s.trucks }
func (s *Service) Trips() *Store[Trip]       { return s.trips }
func (s *Service) Trailers() *Store[Trailer] { return s.trailers }
func (s *Service) Tires() *Store[Tire]       { return s.tires }
func (s *Service) FuelLogs() *Store[FuelLog] { return s.fuelLogs }
func (s *Service) Drivers() *Store[Driver]   { return s.drivers }

// Session returns the auth singleton.
func (s *Service) Session() *Session { return s.session }

// Close detaches all stores. Responses still in flight are dropped.
func (s *Service) Close() {
	s.trucks.Close()
	s.trips.Close()
	s.trailers.Close()
	s.tires.Close()
	s.fuelLogs.Close()
	s.drivers.Close()
}

// RegisterDriver creates a driver account through the auth registration
// endpoint. When password is empty a random one satisfying the password
// rules is generated; the used password is returned alongside the driver so
// it can be handed to the new account holder.
func (s *Service) RegisterDriver(ctx context.Context, name, email, password string) (Driver, string, error) {
	if password == "" {
		generated, err := GeneratePassword(12)
		if err != nil {
			return Driver{}, "", fmt.Errorf("generating password: %w", err)
		}
		password = generated
	}

	d, err := s.api.Register(ctx, RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     RoleDriver,
	})
	if err != nil {
		return Driver{}, "", err
	}
	s.log.Info("driver registered", "id", d.ID, "email", email)
	return d, password, nil
}

// DownloadReport fetches the trip's PDF report, streams it to w, and files a
// copy in the archive. An archive failure is logged but does not fail the
// download the caller already received.
func (s *Service) DownloadReport(ctx context.Context, tripID string, w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if _, err := s.api.DownloadTrip(ctx, tripID, &buf); err != nil {
		return 0, err
	}

	n, err := io.Copy(w, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return n, fmt.Errorf("writing report: %w", err)
	}

	if s.archive != nil {
		name := fmt.Sprintf("trip-%s.pdf", tripID)
		if err := s.archive.Put(name, bytes.NewReader(buf.Bytes()), int64(buf.Len())); err != nil {
			s.log.Warn("archiving report failed", "trip", tripID, "error", err)
		} else {
			s.log.Info("report archived", "trip", tripID, "name", name)
		}
	}

	return n, nil
}

// passwordAlphabet groups the character classes the password rules require.
// The symbol set is the fixed one the validator accepts.
var passwordAlphabet = []string{
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"abcdefghijklmnopqrstuvwxyz",
	"0123456789",
	"@$!%*?&",
}

// GeneratePassword produces a random password of the given length that
// contains at least one character from each required class. length values
// below 8 are raised to 8 to satisfy the minimum-length rule.
func GeneratePassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	all := ""
	for _, set := range passwordAlphabet {
		all += set
	}

	out := make([]byte, length)
	// One guaranteed pick per class, the rest from the full alphabet.
	for i := range out {
		set := all
		if i < len(passwordAlphabet) {
			set = passwordAlphabet[i]
		}
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return "", err
		}
		out[i] = set[idx.Int64()]
	}

	// Shuffle so the guaranteed picks are not always the first four bytes.
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}

	return string(out), nil
}
