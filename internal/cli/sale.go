package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/propdesk/backoffice/internal/engine"
	"github.com/propdesk/backoffice/internal/sale"
)

func newSaleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sale",
		Aliases: []string{"sales"},
		Short:   "Register, search and delete sales",
		Long: `Register, search and delete sales.

Registering a sale marks the property as sold. Deleting it makes the
property available again, unless a sale contract exists for the same
property and client.`,
	}
	cmd.AddCommand(newSaleCreateCmd(), newSaleDeleteCmd(), newSaleListCmd(), newSaleShowCmd())
	return cmd
}

func newSaleCreateCmd() *cobra.Command {
	var in engine.CreateSaleInput
	var agentID int64
	var value, commission float64

	cmd := actionCmd("create", "Register a sale", cobra.NoArgs, engine.ActionSaleCreate,
		func(cmd *cobra.Command, args []string) (any, error) {
			in.AgentID = optionalID(cmd, "agent", agentID)
			in.Value = optionalAmount(cmd, "value", value)
			in.Commission = optionalAmount(cmd, "commission", commission)
			return in, nil
		})

	cmd.Flags().Int64Var(&in.PropertyID, "property", 0, "property ID")
	cmd.Flags().Int64Var(&in.ClientID, "client", 0, "buyer client ID")
	cmd.Flags().Int64Var(&agentID, "agent", 0, "agent ID")
	cmd.Flags().Float64Var(&value, "value", 0, "sale value")
	cmd.Flags().Float64Var(&commission, "commission", 0, "agent commission")
	cmd.Flags().StringVar(&in.SaleDate, "date", "", "sale date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "notes")

	return cmd
}

func newSaleDeleteCmd() *cobra.Command {
	return actionCmd("delete <id>", "Delete a sale and release its property", cobra.ExactArgs(1), engine.ActionSaleDelete,
		func(cmd *cobra.Command, args []string) (any, error) {
			id, err := parseID(args[0], "sale")
			if err != nil {
				return nil, err
			}
			return engine.IDInput{ID: id}, nil
		})
}

func newSaleListCmd() *cobra.Command {
	var opts sale.SearchOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search sales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sales, err := newAPIClient().SearchSales(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), sales)
			}

			rows := make([][]string, 0, len(sales))
			for _, s := range sales {
				rows = append(rows, []string{
					strconv.FormatInt(s.ID, 10),
					s.SaleDate,
					strconv.FormatInt(s.PropertyID, 10),
					strconv.FormatInt(s.ClientID, 10),
					idOrDash(s.AgentID),
					formatMoney(s.Value),
					moneyOrDash(s.Commission),
				})
			}
			return printList(cmd.OutOrStdout(), "sales", []string{"ID", "DATE", "PROPERTY", "CLIENT", "AGENT", "VALUE", "COMMISSION"}, rows)
		},
	}

	cmd.Flags().StringVarP(&opts.Term, "search", "q", "", "match address or client name")
	cmd.Flags().Int64Var(&opts.AgentID, "agent", 0, "filter by agent ID")
	cmd.Flags().StringVar(&opts.DateFrom, "from", "", "earliest sale date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.DateTo, "to", "", "latest sale date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&opts.MinValue, "min-value", 0, "minimum sale value")
	cmd.Flags().Float64Var(&opts.MaxValue, "max-value", 0, "maximum sale value")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum results (default 10, max 50)")

	return cmd
}

func newSaleShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "sale")
			if err != nil {
				return err
			}
			s, err := newAPIClient().GetSale(cmd.Context(), id)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), s)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Sale #%d\n", s.ID)
			fmt.Fprintf(w, "  Property:    %d\n", s.PropertyID)
			fmt.Fprintf(w, "  Client:      %d\n", s.ClientID)
			fmt.Fprintf(w, "  Agent:       %s\n", idOrDash(s.AgentID))
			fmt.Fprintf(w, "  Date:        %s\n", s.SaleDate)
			fmt.Fprintf(w, "  Value:       %s\n", formatMoney(s.Value))
			fmt.Fprintf(w, "  Commission:  %s\n", moneyOrDash(s.Commission))
			if s.Notes != "" {
				fmt.Fprintf(w, "  Notes:       %s\n", s.Notes)
			}
			return nil
		},
	}
}
