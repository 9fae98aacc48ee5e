package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"traki/internal/app"
	"traki/internal/config"
	"traki/internal/validate"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "Login", "ListTrucks").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// run wires an App for one command, executes fn, and records the outcome in
// the operations journal.
func run(operation string, fn func(a *app.App) error) error {
	a, err := newApp(operation)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := fn(a); err != nil {
		a.Fail()
		return err
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:   "traki",
	Short: "Fleet management client",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL, _ := cmd.Flags().GetString("api")

		// Get application defaults
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Create config with defaults
		cfg := config.NewConfig(baseURL, defaults["base_dir"])

		// Initialize config file
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("API:      %s\n", cfg.API.BaseURL)
		fmt.Printf("Base Dir: %s\n", cfg.DataDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get application defaults
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Read config
		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		// Display config
		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("API:       %s (timeout %ds)\n", cfg.API.BaseURL, cfg.API.TimeoutSeconds)
		fmt.Printf("Base Dir:  %s\n", cfg.DataDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Database:  %s\n", cfg.Database.Type)
		fmt.Printf("Archive:   %s\n", cfg.Archive.Type)
		if cfg.Archive.Type == "filesystem" {
			fmt.Printf("  Root:    %s\n", cfg.Archive.FSRoot)
		}
		if cfg.Archive.Type == "s3" {
			fmt.Printf("  Bucket:  %s\n", cfg.Archive.S3Bucket)
		}
		fmt.Printf("Encryption: %s\n", cfg.Encryption.Type)
		return nil
	},
}

// login command
var loginCmd = &cobra.Command{
	Use:   "login EMAIL",
	Short: "Authenticate against the fleet API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]
		if r := validate.Email(email); !r.Valid {
			return fmt.Errorf("%s", strings.Join(r.Messages, " "))
		}

		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password := string(raw)
		if password == "" {
			return fmt.Errorf("password is required")
		}

		return run("Login", func(a *app.App) error {
			u, err := a.Session().Login(cmd.Context(), a.Client(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			fmt.Printf("Logged in as %s (%s)\n", u.Name, u.Role)
			return nil
		})
	},
}

// logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("Logout", func(a *app.App) error {
			if err := a.Session().Logout(); err != nil {
				return err
			}
			if err := a.Client().ClearCookies(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		})
	},
}

// whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("WhoAmI", func(a *app.App) error {
			u := a.Session().Current()
			if u == nil {
				fmt.Println("Not logged in.")
				return nil
			}
			fmt.Printf("%s <%s>  %s\n", u.Name, u.Email, u.Role)
			return nil
		})
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View command history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		return run("GetHistory", func(a *app.App) error {
			ops, err := a.History(limit)
			if err != nil {
				return err
			}

			if len(ops) == 0 {
				fmt.Println("No operations recorded.")
				return nil
			}

			for _, op := range ops {
				duration := ""
				if op.FinishedAt.Valid {
					d := op.FinishedAt.Time.Sub(op.StartedAt)
					duration = d.Truncate(time.Millisecond).String()
				}
				fmt.Printf("#%d  %-15s  %s  %-10s  %s\n",
					op.ID,
					op.Operation,
					op.StartedAt.Format("2006-01-02 15:04:05"),
					op.Status,
					duration,
				)
			}
			return nil
		})
	},
}

// reports command
var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Manage archived trip reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("ListReports", func(a *app.App) error {
			names, err := a.Archive().List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("No archived reports.")
				return nil
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		})
	},
}

var reportsGetCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Retrieve an archived report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = args[0]
		}

		return run("GetReport", func(a *app.App) error {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()

			if err := a.Archive().Get(args[0], f); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		})
	},
}

var reportsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the archive is accessible",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("CheckArchive", func(a *app.App) error {
			if err := a.Archive().ValidateSetup(); err != nil {
				return fmt.Errorf("archive check failed: %w", err)
			}
			fmt.Println("Archive OK.")
			return nil
		})
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().String("api", "http://localhost:5000/api", "Fleet API base URL")
	configCmd.AddCommand(configListCmd)

	// reports subcommands
	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsGetCmd)
	reportsGetCmd.Flags().StringP("output", "o", "", "Output file (default: report name)")
	reportsCmd.AddCommand(reportsCheckCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
	rootCmd.AddCommand(reportsCmd)
}
