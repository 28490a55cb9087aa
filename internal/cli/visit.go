package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/propdesk/backoffice/internal/engine"
	"github.com/propdesk/backoffice/internal/visit"
)

func newVisitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "visit",
		Aliases: []string{"visits"},
		Short:   "Schedule and track property visits",
		Long: `Schedule and track property visits.

Visits happen between 08:00 and 18:00. An agent cannot hold two
scheduled or rescheduled visits at the same date and time.

Examples:
  pd visit create --property 3 --client 7 --agent 2 --date 2026-02-08 --time 10:30
  pd visit status 12 completed`,
	}
	cmd.AddCommand(
		newVisitWriteCmd("create", engine.ActionVisitCreate),
		newVisitWriteCmd("update <id>", engine.ActionVisitUpdate),
		newVisitStatusCmd(),
		newVisitDeleteCmd(),
		newVisitListCmd(),
		newVisitUpcomingCmd(),
		newVisitShowCmd(),
	)
	return cmd
}

func newVisitWriteCmd(use string, action engine.Action) *cobra.Command {
	var in engine.VisitInput
	var rating int

	var posArgs cobra.PositionalArgs = cobra.NoArgs
	short := "Schedule a visit"
	if action == engine.ActionVisitUpdate {
		posArgs = cobra.ExactArgs(1)
		short = "Change a visit's details"
	}

	cmd := actionCmd(use, short, posArgs, action, func(cmd *cobra.Command, args []string) (any, error) {
		if len(args) == 1 {
			id, err := parseID(args[0], "visit")
			if err != nil {
				return nil, err
			}
			in.ID = id
		}
		if cmd.Flags().Changed("rating") {
			in.InterestRating = &rating
		}
		in.Status = strings.ToLower(in.Status)
		return in, nil
	})

	cmd.Flags().Int64Var(&in.PropertyID, "property", 0, "property ID")
	cmd.Flags().Int64Var(&in.ClientID, "client", 0, "client ID")
	cmd.Flags().Int64Var(&in.AgentID, "agent", 0, "agent ID")
	cmd.Flags().StringVar(&in.VisitDate, "date", "", "visit date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.VisitTime, "time", "", "visit time (HH:MM, 08:00-18:00)")
	cmd.Flags().StringVar(&in.Status, "status", "", "status (default scheduled)")
	cmd.Flags().IntVar(&rating, "rating", 0, "client interest (1-5)")
	cmd.Flags().StringVarP(&in.Notes, "notes", "n", "", "notes")

	return cmd
}

func newVisitStatusCmd() *cobra.Command {
	return actionCmd("status <id> <status>", "Set a visit's status", cobra.ExactArgs(2), engine.ActionVisitUpdateStatus,
		func(cmd *cobra.Command, args []string) (any, error) {
			id, err := parseID(args[0], "visit")
			if err != nil {
				return nil, err
			}
			return engine.StatusInput{ID: id, Status: strings.ToLower(args[1])}, nil
		})
}

func newVisitDeleteCmd() *cobra.Command {
	return actionCmd("delete <id>", "Delete a visit", cobra.ExactArgs(1), engine.ActionVisitDelete,
		func(cmd *cobra.Command, args []string) (any, error) {
			id, err := parseID(args[0], "visit")
			if err != nil {
				return nil, err
			}
			return engine.IDInput{ID: id}, nil
		})
}

func newVisitListCmd() *cobra.Command {
	var opts visit.SearchOptions
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search visits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Status = visit.Status(strings.ToLower(status))
			if opts.Status != "" && !opts.Status.IsValid() {
				return fmt.Errorf("invalid status: %s (must be one of %s)", status, strings.Join(visit.StatusStrings(), ", "))
			}
			visits, err := newAPIClient().SearchVisits(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printVisits(cmd.OutOrStdout(), visits)
		},
	}

	cmd.Flags().StringVarP(&opts.Term, "search", "q", "", "match address or client name")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().Int64Var(&opts.AgentID, "agent", 0, "filter by agent ID")
	cmd.Flags().Int64Var(&opts.PropertyID, "property", 0, "filter by property ID")
	cmd.Flags().StringVar(&opts.DateFrom, "from", "", "earliest visit date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.DateTo, "to", "", "latest visit date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum results (default 10, max 50)")

	return cmd
}

func newVisitUpcomingCmd() *cobra.Command {
	var days, limit int

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List pending visits in the next days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			visits, err := newAPIClient().UpcomingVisits(cmd.Context(), days, limit)
			if err != nil {
				return err
			}
			return printVisits(cmd.OutOrStdout(), visits)
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "window in days (default 7)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (max 30)")

	return cmd
}

func newVisitShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a visit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "visit")
			if err != nil {
				return err
			}
			v, err := newAPIClient().GetVisit(cmd.Context(), id)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), v)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Visit #%d\n", v.ID)
			fmt.Fprintf(w, "  Property:  %d\n", v.PropertyID)
			fmt.Fprintf(w, "  Client:    %d\n", v.ClientID)
			fmt.Fprintf(w, "  Agent:     %d\n", v.AgentID)
			fmt.Fprintf(w, "  When:      %s %s\n", v.VisitDate, v.VisitTime)
			fmt.Fprintf(w, "  Status:    %s\n", v.Status.Label())
			if v.InterestRating != nil {
				fmt.Fprintf(w, "  Interest:  %d/5\n", *v.InterestRating)
			}
			if v.Notes != "" {
				fmt.Fprintf(w, "  Notes:     %s\n", v.Notes)
			}
			return nil
		},
	}
}

// printVisits prints visits as a table, or JSON.
func printVisits(w io.Writer, visits []*visit.Visit) error {
	if isJSON() {
		return printJSON(w, visits)
	}
	rows := make([][]string, 0, len(visits))
	for _, v := range visits {
		rows = append(rows, []string{
			strconv.FormatInt(v.ID, 10),
			v.VisitDate,
			v.VisitTime,
			strconv.FormatInt(v.PropertyID, 10),
			strconv.FormatInt(v.ClientID, 10),
			strconv.FormatInt(v.AgentID, 10),
			v.Status.Label(),
		})
	}
	return printList(w, "visits", []string{"ID", "DATE", "TIME", "PROPERTY", "CLIENT", "AGENT", "STATUS"}, rows)
}
