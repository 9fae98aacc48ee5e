package main

import (
	"fmt"
	"strings"

	"traki/internal/app"
	"traki/internal/fleet"
	"traki/internal/validate"

	"github.com/spf13/cobra"
)

// formatCapacity renders an optional capacity column.
func formatCapacity(c *int) string {
	if c == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *c)
}

// formatKm renders an optional kilometre reading.
func formatKm(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

// trucks command
var trucksCmd = &cobra.Command{
	Use:   "trucks",
	Short: "Manage trucks",
}

var trucksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trucks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("ListTrucks", func(a *app.App) error {
			store := a.Service().Trucks()
			if err := store.Load(cmd.Context()); err != nil {
				return err
			}

			items := store.Items()
			if len(items) == 0 {
				fmt.Println("No trucks.")
				return nil
			}
			for _, t := range items {
				fmt.Printf("%s  %-10s  %s %s (%d)  cap:%d  %s\n",
					t.ID, t.PlateNumber, t.Make, t.Model, t.Year, t.Capacity, t.Status)
			}
			return nil
		})
	},
}

var trucksShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one truck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("GetTruck", func(a *app.App) error {
			t, err := a.Client().GetTruck(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("ID:       %s\n", t.ID)
			fmt.Printf("Plate:    %s\n", t.PlateNumber)
			fmt.Printf("VIN:      %s\n", t.VIN)
			fmt.Printf("Make:     %s %s (%d)\n", t.Make, t.Model, t.Year)
			fmt.Printf("Capacity: %d\n", t.Capacity)
			fmt.Printf("Status:   %s\n", t.Status)
			return nil
		})
	},
}

var trucksCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a truck",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := validate.TruckForm{}
		form.PlateNumber, _ = cmd.Flags().GetString("plate")
		form.VIN, _ = cmd.Flags().GetString("vin")
		form.Make, _ = cmd.Flags().GetString("make")
		form.Model, _ = cmd.Flags().GetString("model")
		form.Year, _ = cmd.Flags().GetString("year")
		form.Capacity, _ = cmd.Flags().GetString("capacity")
		form.Status, _ = cmd.Flags().GetString("status")

		input, errs := form.Payload()
		if len(errs) > 0 {
			return errs
		}

		return run("CreateTruck", func(a *app.App) error {
			t, err := a.Service().Trucks().Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Printf("Created truck %s (%s)\n", t.ID, t.PlateNumber)
			return nil
		})
	},
}

var trucksUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update a truck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		partial, err := partialFromFlags(cmd, map[string]string{
			"plate":    "plateNumber",
			"vin":      "vin",
			"make":     "make",
			"model":    "model",
			"year":     "year",
			"capacity": "capacity",
			"status":   "status",
		})
		if err != nil {
			return err
		}
		if len(partial) == 0 {
			return fmt.Errorf("nothing to update; pass at least one field flag")
		}

		return run("UpdateTruck", func(a *app.App) error {
			t, err := a.Service().Trucks().Update(cmd.Context(), args[0], partial)
			if err != nil {
				return err
			}
			fmt.Printf("Updated truck %s\n", t.ID)
			return nil
		})
	},
}

var trucksDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a truck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("DeleteTruck", func(a *app.App) error {
			if err := a.Service().Trucks().Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted truck %s\n", args[0])
			return nil
		})
	},
}

// trailers command
var trailersCmd = &cobra.Command{
	Use:   "trailers",
	Short: "Manage trailers",
}

var trailersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trailers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("ListTrailers", func(a *app.App) error {
			store := a.Service().Trailers()
			if err := store.Load(cmd.Context()); err != nil {
				return err
			}

			items := store.Items()
			if len(items) == 0 {
				fmt.Println("No trailers.")
				return nil
			}
			for _, t := range items {
				fmt.Printf("%s  %-10s  %s %s  cap:%s  %s\n",
					t.ID, t.PlateNumber, t.Make, t.Model, formatCapacity(t.Capacity), t.Status)
			}
			return nil
		})
	},
}

var trailersShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one trailer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("GetTrailer", func(a *app.App) error {
			t, err := a.Client().GetTrailer(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("ID:       %s\n", t.ID)
			fmt.Printf("Plate:    %s\n", t.PlateNumber)
			fmt.Printf("Make:     %s %s\n", t.Make, t.Model)
			fmt.Printf("Capacity: %s\n", formatCapacity(t.Capacity))
			fmt.Printf("Status:   %s\n", t.Status)
			return nil
		})
	},
}

var trailersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a trailer",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := validate.TrailerForm{}
		form.PlateNumber, _ = cmd.Flags().GetString("plate")
		form.Make, _ = cmd.Flags().GetString("make")
		form.Model, _ = cmd.Flags().GetString("model")
		form.Status, _ = cmd.Flags().GetString("status")
		form.Capacity, _ = cmd.Flags().GetString("capacity")

		input, errs := form.Payload()
		if len(errs) > 0 {
			return errs
		}

		return run("CreateTrailer", func(a *app.App) error {
			t, err := a.Service().Trailers().Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Printf("Created trailer %s (%s)\n", t.ID, t.PlateNumber)
			return nil
		})
	},
}

var trailersUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update a trailer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		partial, err := partialFromFlags(cmd, map[string]string{
			"plate":    "plateNumber",
			"make":     "make",
			"model":    "model",
			"status":   "status",
			"capacity": "capacity",
		})
		if err != nil {
			return err
		}
		if len(partial) == 0 {
			return fmt.Errorf("nothing to update; pass at least one field flag")
		}

		return run("UpdateTrailer", func(a *app.App) error {
			t, err := a.Service().Trailers().Update(cmd.Context(), args[0], partial)
			if err != nil {
				return err
			}
			fmt.Printf("Updated trailer %s\n", t.ID)
			return nil
		})
	},
}

var trailersDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a trailer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("DeleteTrailer", func(a *app.App) error {
			if err := a.Service().Trailers().Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted trailer %s\n", args[0])
			return nil
		})
	},
}

// tires command
var tiresCmd = &cobra.Command{
	Use:   "tires",
	Short: "Manage tires",
}

var tiresListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tires",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("ListTires", func(a *app.App) error {
			store := a.Service().Tires()
			if err := store.Load(cmd.Context()); err != nil {
				return err
			}

			items := store.Items()
			if len(items) == 0 {
				fmt.Println("No tires.")
				return nil
			}
			for _, t := range items {
				fmt.Printf("%s  %-15s  %-11s  installed:%s  %s\n",
					t.ID, t.SerialNumber, t.Position, formatKm(t.InstalledAtKm), t.Status)
			}
			return nil
		})
	},
}

var tiresShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one tire",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("GetTire", func(a *app.App) error {
			t, err := a.Client().GetTire(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("ID:        %s\n", t.ID)
			fmt.Printf("Serial:    %s\n", t.SerialNumber)
			fmt.Printf("Position:  %s\n", t.Position)
			fmt.Printf("Installed: %s km\n", formatKm(t.InstalledAtKm))
			fmt.Printf("Status:    %s\n", t.Status)
			return nil
		})
	},
}

var tiresCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a tire",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := validate.TireForm{}
		form.SerialNumber, _ = cmd.Flags().GetString("serial")
		form.Position, _ = cmd.Flags().GetString("position")
		form.InstalledAtKm, _ = cmd.Flags().GetString("installed-at")
		form.Status, _ = cmd.Flags().GetString("status")

		input, errs := form.Payload()
		if len(errs) > 0 {
			return errs
		}

		return run("CreateTire", func(a *app.App) error {
			t, err := a.Service().Tires().Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Printf("Created tire %s (%s)\n", t.ID, t.SerialNumber)
			return nil
		})
	},
}

var tiresUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update a tire",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		partial, err := partialFromFlags(cmd, map[string]string{
			"serial":       "serialNumber",
			"position":     "position",
			"installed-at": "installedAtKm",
			"status":       "status",
		})
		if err != nil {
			return err
		}
		if len(partial) == 0 {
			return fmt.Errorf("nothing to update; pass at least one field flag")
		}

		return run("UpdateTire", func(a *app.App) error {
			t, err := a.Service().Tires().Update(cmd.Context(), args[0], partial)
			if err != nil {
				return err
			}
			fmt.Printf("Updated tire %s\n", t.ID)
			return nil
		})
	},
}

var tiresDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a tire",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("DeleteTire", func(a *app.App) error {
			if err := a.Service().Tires().Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted tire %s\n", args[0])
			return nil
		})
	},
}

// fuellogs command
var fuelLogsCmd = &cobra.Command{
	Use:   "fuellogs",
	Short: "Manage fuel logs",
}

var fuelLogsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fuel logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("ListFuelLogs", func(a *app.App) error {
			store := a.Service().FuelLogs()
			if err := store.Load(cmd.Context()); err != nil {
				return err
			}

			items := store.Items()
			if len(items) == 0 {
				fmt.Println("No fuel logs.")
				return nil
			}
			for _, f := range items {
				fmt.Printf("%s  trip:%s  %.1f L @ %.1f km  %s\n",
					f.ID, f.Trip.ID(), f.Liters, f.Odometer, f.Notes)
			}
			return nil
		})
	},
}

var fuelLogsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one fuel log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("GetFuelLog", func(a *app.App) error {
			f, err := a.Client().GetFuelLog(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("ID:       %s\n", f.ID)
			fmt.Printf("Trip:     %s\n", f.Trip.ID())
			fmt.Printf("Liters:   %.1f\n", f.Liters)
			fmt.Printf("Odometer: %.1f km\n", f.Odometer)
			if f.Notes != "" {
				fmt.Printf("Notes:    %s\n", f.Notes)
			}
			return nil
		})
	},
}

var fuelLogsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a refuelling against a trip",
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, _ := cmd.Flags().GetString("trip")
		if tripID == "" {
			return fmt.Errorf("--trip is required")
		}

		form := fleet.FuelLogForm{}
		form.Liters, _ = cmd.Flags().GetString("liters")
		form.Odometer, _ = cmd.Flags().GetString("odometer")
		form.Notes, _ = cmd.Flags().GetString("notes")

		return run("AddFuelLog", func(a *app.App) error {
			w, err := a.Service().OpenTrip(cmd.Context(), tripID)
			if err != nil {
				return err
			}
			f, err := w.AddFuelLog(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Printf("Recorded fuel log %s (%.1f L)\n", f.ID, f.Liters)
			return nil
		})
	},
}

var fuelLogsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a fuel log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("DeleteFuelLog", func(a *app.App) error {
			if err := a.Service().FuelLogs().Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted fuel log %s\n", args[0])
			return nil
		})
	},
}

// drivers command
var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "Manage drivers",
}

var driversListCmd = &cobra.Command{
	Use:   "list",
	Short: "List drivers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("ListDrivers", func(a *app.App) error {
			store := a.Service().Drivers()
			if err := store.Load(cmd.Context()); err != nil {
				return err
			}

			items := store.Items()
			if len(items) == 0 {
				fmt.Println("No drivers.")
				return nil
			}
			for _, d := range items {
				fmt.Printf("%s  %-20s  %s\n", d.ID, d.Name, d.Email)
			}
			return nil
		})
	},
}

var driversCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a driver account",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := validate.DriverForm{}
		form.Name, _ = cmd.Flags().GetString("name")
		form.Email, _ = cmd.Flags().GetString("email")
		form.Password, _ = cmd.Flags().GetString("password")

		if errs := form.Validate(); errs != nil {
			return errs
		}

		return run("RegisterDriver", func(a *app.App) error {
			d, password, err := a.Service().RegisterDriver(cmd.Context(), form.Name, form.Email, form.Password)
			if err != nil {
				return err
			}
			fmt.Printf("Registered driver %s (%s)\n", d.ID, d.Email)
			if form.Password == "" {
				fmt.Printf("Generated password: %s\n", password)
			}
			return nil
		})
	},
}

// partialFromFlags builds a partial-update payload from the flags the user
// actually set. Numeric flags are converted so the server receives numbers,
// not strings.
func partialFromFlags(cmd *cobra.Command, fields map[string]string) (fleet.Partial, error) {
	numeric := map[string]bool{
		"year":         true,
		"capacity":     true,
		"installed-at": true,
	}

	p := fleet.Partial{}
	for flag, key := range fields {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		raw, _ := cmd.Flags().GetString(flag)
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if numeric[flag] {
			v, err := parseFlagNumber(flag, raw)
			if err != nil {
				return nil, err
			}
			p[key] = v
			continue
		}
		p[key] = raw
	}
	return p, nil
}

// parseFlagNumber parses a numeric flag value, preferring an integer when the
// input has no fractional part.
func parseFlagNumber(flag, raw string) (any, error) {
	var i int
	if _, err := fmt.Sscanf(raw, "%d", &i); err == nil && fmt.Sprintf("%d", i) == raw {
		return i, nil
	}
	var f float64
	if _, err := fmt.Sscanf(raw, "%g", &f); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("--%s must be a number: %q", flag, raw)
}

func init() {
	// trucks subcommands
	trucksCmd.AddCommand(trucksListCmd)
	trucksCmd.AddCommand(trucksShowCmd)
	trucksCmd.AddCommand(trucksCreateCmd)
	addTruckFlags(trucksCreateCmd)
	trucksCmd.AddCommand(trucksUpdateCmd)
	addTruckFlags(trucksUpdateCmd)
	trucksCmd.AddCommand(trucksDeleteCmd)

	// trailers subcommands
	trailersCmd.AddCommand(trailersListCmd)
	trailersCmd.AddCommand(trailersShowCmd)
	trailersCmd.AddCommand(trailersCreateCmd)
	addTrailerFlags(trailersCreateCmd)
	trailersCmd.AddCommand(trailersUpdateCmd)
	addTrailerFlags(trailersUpdateCmd)
	trailersCmd.AddCommand(trailersDeleteCmd)

	// tires subcommands
	tiresCmd.AddCommand(tiresListCmd)
	tiresCmd.AddCommand(tiresShowCmd)
	tiresCmd.AddCommand(tiresCreateCmd)
	addTireFlags(tiresCreateCmd)
	tiresCmd.AddCommand(tiresUpdateCmd)
	addTireFlags(tiresUpdateCmd)
	tiresCmd.AddCommand(tiresDeleteCmd)

	// fuellogs subcommands
	fuelLogsCmd.AddCommand(fuelLogsListCmd)
	fuelLogsCmd.AddCommand(fuelLogsShowCmd)
	fuelLogsCmd.AddCommand(fuelLogsAddCmd)
	fuelLogsAddCmd.Flags().String("trip", "", "Trip id the refuelling belongs to")
	fuelLogsAddCmd.Flags().String("liters", "", "Liters refuelled")
	fuelLogsAddCmd.Flags().String("odometer", "", "Odometer reading in km")
	fuelLogsAddCmd.Flags().String("notes", "", "Free-text notes")
	fuelLogsCmd.AddCommand(fuelLogsDeleteCmd)

	// drivers subcommands
	driversCmd.AddCommand(driversListCmd)
	driversCmd.AddCommand(driversCreateCmd)
	driversCreateCmd.Flags().String("name", "", "Driver name")
	driversCreateCmd.Flags().String("email", "", "Driver email")
	driversCreateCmd.Flags().String("password", "", "Initial password (generated when omitted)")

	// root commands
	rootCmd.AddCommand(trucksCmd)
	rootCmd.AddCommand(trailersCmd)
	rootCmd.AddCommand(tiresCmd)
	rootCmd.AddCommand(fuelLogsCmd)
	rootCmd.AddCommand(driversCmd)
}

func addTruckFlags(cmd *cobra.Command) {
	cmd.Flags().String("plate", "", "Plate number")
	cmd.Flags().String("vin", "", "Vehicle identification number")
	cmd.Flags().String("make", "", "Manufacturer")
	cmd.Flags().String("model", "", "Model")
	cmd.Flags().String("year", "", "Model year")
	cmd.Flags().String("capacity", "", "Load capacity")
	cmd.Flags().String("status", "", "Status (ACTIVE, MAINTENANCE, INACTIVE)")
}

func addTrailerFlags(cmd *cobra.Command) {
	cmd.Flags().String("plate", "", "Plate number")
	cmd.Flags().String("make", "", "Manufacturer")
	cmd.Flags().String("model", "", "Model")
	cmd.Flags().String("status", "", "Status")
	cmd.Flags().String("capacity", "", "Load capacity")
}

func addTireFlags(cmd *cobra.Command) {
	cmd.Flags().String("serial", "", "Serial number")
	cmd.Flags().String("position", "", "Mount position (front-left, front-right, rear-left, rear-right, spare)")
	cmd.Flags().String("installed-at", "", "Odometer reading at installation, km")
	cmd.Flags().String("status", "", "Status")
}
