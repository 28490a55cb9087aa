package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/propdesk/backoffice/internal/engine"
	"github.com/propdesk/backoffice/internal/rental"
)

func newRentalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rental",
		Aliases: []string{"rentals"},
		Short:   "Manage leases",
		Long: `Manage leases.

Status transitions:
  active      -> terminated, delinquent, overdue
  overdue     -> terminated, active
  delinquent  -> active, terminated
  terminated  (final)

Only terminated or overdue rentals can be deleted.`,
	}
	cmd.AddCommand(
		newRentalWriteCmd("create", engine.ActionRentalCreate),
		newRentalWriteCmd("update <id>", engine.ActionRentalUpdate),
		newRentalStatusCmd(),
		newRentalDeleteCmd(),
		newRentalListCmd(),
		newRentalExpiringCmd(),
		newRentalShowCmd(),
	)
	return cmd
}

// newRentalWriteCmd builds create and update, which share every field.
func newRentalWriteCmd(use string, action engine.Action) *cobra.Command {
	var in engine.RentalInput
	var agentID int64
	var rent, deposit float64

	var posArgs cobra.PositionalArgs = cobra.NoArgs
	short := "Register a lease"
	if action == engine.ActionRentalUpdate {
		posArgs = cobra.ExactArgs(1)
		short = "Change a lease's details"
	}

	cmd := actionCmd(use, short, posArgs, action, func(cmd *cobra.Command, args []string) (any, error) {
		if len(args) == 1 {
			id, err := parseID(args[0], "rental")
			if err != nil {
				return nil, err
			}
			in.ID = id
		}
		in.AgentID = optionalID(cmd, "agent", agentID)
		in.MonthlyRent = optionalAmount(cmd, "rent", rent)
		in.Deposit = optionalAmount(cmd, "deposit", deposit)
		in.Status = strings.ToLower(in.Status)
		return in, nil
	})

	cmd.Flags().Int64Var(&in.PropertyID, "property", 0, "property ID")
	cmd.Flags().Int64Var(&in.ClientID, "client", 0, "tenant client ID")
	cmd.Flags().Int64Var(&agentID, "agent", 0, "agent ID")
	cmd.Flags().StringVar(&in.StartDate, "start", "", "lease start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.EndDate, "end", "", "lease end (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&rent, "rent", 0, "monthly rent")
	cmd.Flags().Float64Var(&deposit, "deposit", 0, "security deposit")
	cmd.Flags().StringVar(&in.Status, "status", "", "status (default active)")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "notes")

	return cmd
}

func newRentalStatusCmd() *cobra.Command {
	return actionCmd("status <id> <status>", "Move a lease to another status", cobra.ExactArgs(2), engine.ActionRentalUpdateStatus,
		func(cmd *cobra.Command, args []string) (any, error) {
			id, err := parseID(args[0], "rental")
			if err != nil {
				return nil, err
			}
			return engine.StatusInput{ID: id, Status: strings.ToLower(args[1])}, nil
		})
}

func newRentalDeleteCmd() *cobra.Command {
	return actionCmd("delete <id>", "Delete a terminated or overdue lease", cobra.ExactArgs(1), engine.ActionRentalDelete,
		func(cmd *cobra.Command, args []string) (any, error) {
			id, err := parseID(args[0], "rental")
			if err != nil {
				return nil, err
			}
			return engine.IDInput{ID: id}, nil
		})
}

func newRentalListCmd() *cobra.Command {
	var opts rental.SearchOptions
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search leases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Status = rental.Status(strings.ToLower(status))
			if opts.Status != "" && !opts.Status.IsValid() {
				return fmt.Errorf("invalid status: %s (must be one of %s)", status, strings.Join(rental.StatusStrings(), ", "))
			}
			rentals, err := newAPIClient().SearchRentals(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printRentals(cmd.OutOrStdout(), rentals)
		},
	}

	cmd.Flags().StringVarP(&opts.Term, "search", "q", "", "match address or tenant name")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().Int64Var(&opts.PropertyID, "property", 0, "filter by property ID")
	cmd.Flags().StringVar(&opts.DateFrom, "from", "", "earliest start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.DateTo, "to", "", "latest start date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&opts.MinRent, "min-rent", 0, "minimum monthly rent")
	cmd.Flags().Float64Var(&opts.MaxRent, "max-rent", 0, "maximum monthly rent")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum results (default 10, max 50)")

	return cmd
}

func newRentalExpiringCmd() *cobra.Command {
	var days, limit int

	cmd := &cobra.Command{
		Use:   "expiring",
		Short: "List leases ending soon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rentals, err := newAPIClient().ExpiringRentals(cmd.Context(), days, limit)
			if err != nil {
				return err
			}
			return printRentals(cmd.OutOrStdout(), rentals)
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "window in days (default 30)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (max 90)")

	return cmd
}

func newRentalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a lease and its possible next statuses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "rental")
			if err != nil {
				return err
			}
			r, err := newAPIClient().GetRental(cmd.Context(), id)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), r)
			}

			next := make([]string, 0, len(r.AllowedStatuses))
			for _, st := range r.AllowedStatuses {
				next = append(next, string(st))
			}
			if len(next) == 0 {
				next = append(next, "none")
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Rental #%d\n", r.ID)
			fmt.Fprintf(w, "  Property:  %d\n", r.PropertyID)
			fmt.Fprintf(w, "  Tenant:    %d\n", r.ClientID)
			fmt.Fprintf(w, "  Agent:     %s\n", idOrDash(r.AgentID))
			fmt.Fprintf(w, "  Period:    %s to %s\n", r.StartDate, r.EndDate)
			fmt.Fprintf(w, "  Rent:      %s\n", formatMoney(r.MonthlyRent))
			fmt.Fprintf(w, "  Deposit:   %s\n", moneyOrDash(r.Deposit))
			fmt.Fprintf(w, "  Status:    %s\n", r.Status.Label())
			fmt.Fprintf(w, "  Next:      %s\n", strings.Join(next, ", "))
			if r.Notes != "" {
				fmt.Fprintf(w, "  Notes:     %s\n", r.Notes)
			}
			return nil
		},
	}
}

func printRentals(w io.Writer, rentals []*rental.Rental) error {
	if isJSON() {
		return printJSON(w, rentals)
	}
	rows := make([][]string, 0, len(rentals))
	for _, r := range rentals {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			strconv.FormatInt(r.PropertyID, 10),
			strconv.FormatInt(r.ClientID, 10),
			r.StartDate,
			r.EndDate,
			formatMoney(r.MonthlyRent),
			r.Status.Label(),
		})
	}
	return printList(w, "rentals", []string{"ID", "PROPERTY", "TENANT", "START", "END", "RENT", "STATUS"}, rows)
}
