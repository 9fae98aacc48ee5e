package main

import (
	"fmt"
	"os"
	"time"

	"traki/internal/app"
	"traki/internal/fleet"
	"traki/internal/validate"

	"github.com/spf13/cobra"
)

// truckLabel prefers the plate number when the relation arrived populated.
func truckLabel(r fleet.Ref[fleet.Truck]) string {
	if t, ok := r.Record(); ok {
		return t.PlateNumber
	}
	if r.IsZero() {
		return "-"
	}
	return r.ID()
}

// driverLabel prefers the name when the relation arrived populated.
func driverLabel(r fleet.Ref[fleet.Driver]) string {
	if d, ok := r.Record(); ok {
		return d.Name
	}
	if r.IsZero() {
		return "-"
	}
	return r.ID()
}

// trips command
var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "Manage trips",
}

var tripsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trips (admins see the whole fleet, drivers their own)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("ListTrips", func(a *app.App) error {
			store := a.Service().Trips()
			if err := store.Load(cmd.Context()); err != nil {
				return err
			}

			items := store.Items()
			if len(items) == 0 {
				fmt.Println("No trips.")
				return nil
			}
			for _, t := range items {
				fmt.Printf("%s  %-12s  %-25s  %s -> %s  truck:%s driver:%s\n",
					t.ID, t.Status.Label(), t.Title, t.Origin, t.Destination,
					truckLabel(t.Truck), driverLabel(t.Driver))
			}
			return nil
		})
	},
}

var tripsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one trip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("GetTrip", func(a *app.App) error {
			w, err := a.Service().OpenTrip(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			t := w.Trip()

			fmt.Printf("ID:          %s\n", t.ID)
			fmt.Printf("Title:       %s\n", t.Title)
			if t.Description != "" {
				fmt.Printf("Description: %s\n", t.Description)
			}
			fmt.Printf("Route:       %s -> %s\n", t.Origin, t.Destination)
			fmt.Printf("Truck:       %s\n", truckLabel(t.Truck))
			fmt.Printf("Driver:      %s\n", driverLabel(t.Driver))
			fmt.Printf("Status:      %s\n", t.Status.Label())
			fmt.Printf("Start:       %s\n", t.PlannedStart.Format(time.RFC3339))
			if t.PlannedEnd != nil {
				fmt.Printf("End:         %s\n", t.PlannedEnd.Format(time.RFC3339))
			}
			if t.StartKm != nil {
				fmt.Printf("Start km:    %.1f\n", *t.StartKm)
			}
			if t.EndKm != nil {
				fmt.Printf("End km:      %.1f\n", *t.EndKm)
			}
			if t.FuelVolume != nil {
				fmt.Printf("Fuel:        %.1f L\n", *t.FuelVolume)
			}
			if t.Remarks != "" {
				fmt.Printf("Remarks:     %s\n", t.Remarks)
			}
			if w.CanOperate() {
				fmt.Println("\nYou are the assigned driver for this trip.")
			}
			return nil
		})
	},
}

var tripsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a trip",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := validate.TripForm{}
		form.Title, _ = cmd.Flags().GetString("title")
		form.Description, _ = cmd.Flags().GetString("description")
		form.Truck, _ = cmd.Flags().GetString("truck")
		form.Driver, _ = cmd.Flags().GetString("driver")
		form.Origin, _ = cmd.Flags().GetString("origin")
		form.Destination, _ = cmd.Flags().GetString("destination")
		form.PlannedStart, _ = cmd.Flags().GetString("start")
		form.PlannedEnd, _ = cmd.Flags().GetString("end")
		form.Status, _ = cmd.Flags().GetString("status")

		input, errs := form.Payload()
		if len(errs) > 0 {
			return errs
		}

		return run("CreateTrip", func(a *app.App) error {
			t, err := a.Service().Trips().Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Printf("Created trip %s (%s)\n", t.ID, t.Title)
			return nil
		})
	},
}

var tripsUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update a trip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		partial, err := partialFromFlags(cmd, map[string]string{
			"title":       "title",
			"description": "description",
			"truck":       "truck",
			"driver":      "driver",
			"origin":      "origin",
			"destination": "destination",
			"start":       "plannedStart",
			"end":         "plannedEnd",
		})
		if err != nil {
			return err
		}
		if len(partial) == 0 {
			return fmt.Errorf("nothing to update; pass at least one field flag")
		}

		return run("UpdateTrip", func(a *app.App) error {
			t, err := a.Service().Trips().Update(cmd.Context(), args[0], partial)
			if err != nil {
				return err
			}
			fmt.Printf("Updated trip %s\n", t.ID)
			return nil
		})
	},
}

var tripsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a trip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("DeleteTrip", func(a *app.App) error {
			if err := a.Service().Trips().Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted trip %s\n", args[0])
			return nil
		})
	},
}

var tripsStatusCmd = &cobra.Command{
	Use:   "status ID STATUS",
	Short: "Change a trip's status (assigned driver only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("ChangeTripStatus", func(a *app.App) error {
			w, err := a.Service().OpenTrip(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := w.ChangeStatus(cmd.Context(), args[1]); err != nil {
				return err
			}
			fmt.Printf("Trip %s is now %s\n", args[0], w.Trip().Status.Label())
			return nil
		})
	},
}

var tripsFuelCmd = &cobra.Command{
	Use:   "fuel ID",
	Short: "Record a refuelling against a trip (assigned driver only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		form := fleet.FuelLogForm{}
		form.Liters, _ = cmd.Flags().GetString("liters")
		form.Odometer, _ = cmd.Flags().GetString("odometer")
		form.Notes, _ = cmd.Flags().GetString("notes")

		return run("AddFuelLog", func(a *app.App) error {
			w, err := a.Service().OpenTrip(cmd.Context(), args[0])
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

var tripsCloseCmd = &cobra.Command{
	Use:   "close ID",
	Short: "Save trip-closing details (assigned driver only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		form := fleet.CloseForm{}
		form.StartKm, _ = cmd.Flags().GetString("start-km")
		form.EndKm, _ = cmd.Flags().GetString("end-km")
		form.FuelVolume, _ = cmd.Flags().GetString("fuel")
		form.Remarks, _ = cmd.Flags().GetString("remarks")

		return run("CloseTrip", func(a *app.App) error {
			w, err := a.Service().OpenTrip(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := w.SaveDetails(cmd.Context(), form); err != nil {
				return err
			}
			fmt.Printf("Saved details for trip %s\n", args[0])
			return nil
		})
	},
}

var tripsDownloadCmd = &cobra.Command{
	Use:   "download ID",
	Short: "Download a trip's PDF report and file it in the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = fmt.Sprintf("trip-%s.pdf", args[0])
		}

		return run("DownloadReport", func(a *app.App) error {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()

			n, err := a.Service().DownloadReport(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%d bytes)\n", out, n)
			return nil
		})
	},
}

func init() {
	tripsCmd.AddCommand(tripsListCmd)
	tripsCmd.AddCommand(tripsShowCmd)
	tripsCmd.AddCommand(tripsCreateCmd)
	addTripFlags(tripsCreateCmd)
	tripsCmd.AddCommand(tripsUpdateCmd)
	addTripFlags(tripsUpdateCmd)
	tripsCmd.AddCommand(tripsDeleteCmd)
	tripsCmd.AddCommand(tripsStatusCmd)

	tripsCmd.AddCommand(tripsFuelCmd)
	tripsFuelCmd.Flags().String("liters", "", "Liters refuelled")
	tripsFuelCmd.Flags().String("odometer", "", "Odometer reading in km")
	tripsFuelCmd.Flags().String("notes", "", "Free-text notes")

	tripsCmd.AddCommand(tripsCloseCmd)
	tripsCloseCmd.Flags().String("start-km", "", "Odometer at trip start")
	tripsCloseCmd.Flags().String("end-km", "", "Odometer at trip end")
	tripsCloseCmd.Flags().String("fuel", "", "Total fuel volume in liters")
	tripsCloseCmd.Flags().String("remarks", "", "Closing remarks")

	tripsCmd.AddCommand(tripsDownloadCmd)
	tripsDownloadCmd.Flags().StringP("output", "o", "", "Output file (default: trip-ID.pdf)")

	rootCmd.AddCommand(tripsCmd)
}

func addTripFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Trip title")
	cmd.Flags().String("description", "", "Description")
	cmd.Flags().String("truck", "", "Truck id")
	cmd.Flags().String("driver", "", "Driver id")
	cmd.Flags().String("origin", "", "Origin")
	cmd.Flags().String("destination", "", "Destination")
	cmd.Flags().String("start", "", "Planned start (RFC 3339)")
	cmd.Flags().String("end", "", "Planned end (RFC 3339)")
	cmd.Flags().String("status", "", "Initial status (TO_DO, IN_PROGRESS, DONE)")
}
