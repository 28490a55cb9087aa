// Package cli defines the cobra command tree for propdesk.
package cli

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/propdesk/backoffice/internal/apiclient"
	"github.com/propdesk/backoffice/internal/db"
)

var (
	flagFormat string
	flagDB     string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pd",
		Short:         "Real-estate back office",
		Long:          "Manage properties, clients, agents, sales, rentals and visits. Server commands work on the local database; everything else talks to a running server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path for serve and migrate (default: ~/.propdesk/propdesk.db)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newPropertyCmd(),
		newClientCmd(),
		newAgentCmd(),
		newContractCmd(),
		newSaleCmd(),
		newRentalCmd(),
		newVisitCmd(),
		newStatusesCmd(),
		newStatusCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the SQLite database at path, or the default path when empty.
func openDB(path string) (*sql.DB, error) {
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return db.Open(path)
}

// newAPIClient creates an HTTP client for the propdesk API.
func newAPIClient() *apiclient.Client {
	return apiclient.New(getServerURL())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}

// parseID parses a positive numeric ID argument.
func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", what, arg)
	}
	return id, nil
}

// optionalID returns a pointer to the flag value when the flag was set.
func optionalID(cmd *cobra.Command, name string, v int64) *int64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

// optionalAmount returns a pointer to the flag value when the flag was set.
func optionalAmount(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}
