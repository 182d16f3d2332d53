// main.go - Admin control tool for Cyberdock
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cyberdock/internal"
	"cyberdock/internal/analytics"
	"cyberdock/internal/filters"
	"cyberdock/internal/format"
	"cyberdock/internal/seeder"
)

const (
	defaultShutdownTimeout = 30 * time.Second
	defaultSeedCount       = 2000
)

// Command defines the interface for all command implementations
type Command interface {
	// Name returns the command name
	Name() string
	// Description returns the command description
	Description() string
	// Execute runs the command with the given app and args
	Execute(ctx context.Context, app *internal.Application, args []string) error
}

// The set of available commands
var commands = []Command{
	&MigrateCommand{},
	&SeedCommand{},
	&StatusCommand{},
	&RollupCommand{},
	&HelpCommand{},
}

func main() {
	flag.Parse()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v, initiating cleanup...", sig)
		cancel()
	}()

	cmdName, args := parseArgs()

	cmd := findCommand(cmdName)
	if cmd == nil {
		showUsageAndExit()
	}

	app, err := internal.NewApp()
	if err != nil {
		log.Printf("Warning: Failed to initialize app: %v", err)
		log.Println("Proceeding with limited functionality...")
	}

	defer func() {
		if app != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
			defer cancel()
			if err := app.Shutdown(shutdownCtx); err != nil {
				log.Printf("Warning: Cleanup error: %v", err)
			}
		}
	}()

	if err := cmd.Execute(ctx, app, args); err != nil {
		log.Fatalf("Command failed: %v", err)
	}

	log.Printf("Command %s completed successfully", cmd.Name())
}

// MigrateCommand runs database migrations
type MigrateCommand struct{}

func (c *MigrateCommand) Name() string        { return "migrate" }
func (c *MigrateCommand) Description() string { return "Runs database migrations" }

func (c *MigrateCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	if app == nil {
		return fmt.Errorf("app initialization failed, cannot run migrations")
	}
	if app.DBManager == nil {
		return fmt.Errorf("migrations only apply to the local sqlite store")
	}

	log.Println("Running database migrations...")
	if err := app.DBManager.MigrateDatabase(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Println("Migrations completed successfully")
	return nil
}

// SeedCommand populates the DB with demo sales
type SeedCommand struct{}

func (c *SeedCommand) Name() string        { return "seed" }
func (c *SeedCommand) Description() string { return "Seeds the database with demo sales" }

func (c *SeedCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	count := fs.Int("sales", defaultSeedCount, "number of sales to generate")
	seed := fs.Uint64("seed", 0, "random seed (random when 0)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if app == nil {
		return fmt.Errorf("unable to initialise app")
	}
	if app.DBManager == nil {
		return fmt.Errorf("seeding only applies to the local sqlite store")
	}

	if err := app.DBManager.MigrateDatabase(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	se := seeder.NewSeeder(app.DBManager, app.Logger, *count)
	if *seed != 0 {
		se = se.WithSeed(*seed)
	}
	return se.SeedSales(ctx)
}

// StatusCommand implements a command to check the system status
type StatusCommand struct{}

// Name returns the command name
func (c *StatusCommand) Name() string {
	return "status"
}

// Description returns the command description
func (c *StatusCommand) Description() string {
	return "Shows the current system status"
}

// Execute implements the status command
func (c *StatusCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	if app == nil {
		return fmt.Errorf("cannot check status: app initialization failed")
	}

	records, err := app.Source.ListSales(ctx, "")
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	accounts, err := app.Source.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	backend := "sqlite"
	if app.Config.UsesPostgres() {
		backend = "postgres"
	}

	log.Println("System Status:")
	log.Printf("- Database: %s (connected)", backend)
	log.Printf("- Accounts: %d", len(accounts))
	log.Printf("- Sales: %d", len(records))

	if app.DBManager == nil {
		return nil
	}

	sqlDB, err := app.DBManager.GetConnection().DB()
	if err != nil {
		return fmt.Errorf("failed to get SQL DB: %w", err)
	}

	log.Printf("- Max Open Connections: %d", sqlDB.Stats().MaxOpenConnections)
	log.Printf("- Open Connections: %d", sqlDB.Stats().OpenConnections)
	log.Printf("- In Use: %d", sqlDB.Stats().InUse)
	log.Printf("- Idle: %d", sqlDB.Stats().Idle)

	return nil
}

// RollupCommand prints the all-time rollup of one dimension.
type RollupCommand struct{}

func (c *RollupCommand) Name() string { return "rollup" }
func (c *RollupCommand) Description() string {
	return "Prints units and orders grouped by a dimension (account, status, level1, level2, shipment_type)"
}

func (c *RollupCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	fs := flag.NewFlagSet("rollup", flag.ContinueOnError)
	account := fs.String("account", "", "restrict to one account id")
	order := fs.String("sort", string(analytics.RollupSortUnitsDesc), "row order: units_desc, label_asc or empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: cdctl rollup [-account id] [-sort order] <dimension>")
	}

	if app == nil {
		return fmt.Errorf("unable to initialise app")
	}

	dim := filters.Dimension(fs.Arg(0))
	if !isDimension(dim) {
		return fmt.Errorf("unknown dimension %q", dim)
	}
	sortBy, err := analytics.ParseRollupSort(*order)
	if err != nil {
		return err
	}

	records, err := app.Source.ListSales(ctx, *account)
	if err != nil {
		return err
	}

	table := app.Engine.Begin().Rollup(records, dim, sortBy)
	fmt.Printf("%-40s %12s %8s\n", dim, "units", "orders")
	for _, row := range table.WithTotal() {
		fmt.Printf("%-40s %12s %8s\n",
			row.Label,
			format.Integer(row.Units),
			format.Integer(float64(row.Orders)))
	}
	return nil
}

func isDimension(d filters.Dimension) bool {
	for _, known := range filters.Dimensions {
		if d == known {
			return true
		}
	}
	return false
}

// HelpCommand implements a command to show usage information
type HelpCommand struct{}

// Name returns the command name
func (c *HelpCommand) Name() string {
	return "help"
}

// Description returns the command description
func (c *HelpCommand) Description() string {
	return "Shows usage information"
}

// Execute implements the help command
func (c *HelpCommand) Execute(ctx context.Context, app *internal.Application, args []string) error {
	printUsage()
	return nil
}

// parseArgs parses the command name and arguments
func parseArgs() (string, []string) {
	args := os.Args[1:]
	if len(args) == 0 {
		return "help", []string{}
	}
	return args[0], args[1:]
}

// findCommand finds a command by name
func findCommand(name string) Command {
	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd
		}
	}
	return nil
}

func printUsage() {
	fmt.Println("Usage: cdctl [command] [args...]")
	fmt.Println("Available commands:")

	for _, cmd := range commands {
		fmt.Printf("  %s: %s\n", cmd.Name(), cmd.Description())
	}
}

// showUsageAndExit shows usage information and exits
func showUsageAndExit() {
	printUsage()
	os.Exit(1)
}
