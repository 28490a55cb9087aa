package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/propdesk/backoffice/internal/property"
)

func newPropertyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "property",
		Aliases: []string{"properties"},
		Short:   "Manage properties",
	}
	cmd.AddCommand(newPropertyListCmd(), newPropertyAddCmd(), newPropertyShowCmd())
	return cmd
}

func newPropertyListCmd() *cobra.Command {
	var opts property.ListOptions
	var state string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.State = property.AvailabilityState(strings.ToLower(state))
			if opts.State != "" && !opts.State.IsValid() {
				return fmt.Errorf("invalid state: %s (must be available, sold or rented)", state)
			}

			props, err := newAPIClient().ListProperties(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), props)
			}

			rows := make([][]string, 0, len(props))
			for _, p := range props {
				rows = append(rows, []string{
					strconv.FormatInt(p.ID, 10),
					truncate(p.Address, 40),
					orDash(p.PropertyType),
					priceOrDash(p.Price),
					p.AvailabilityState.Label(),
				})
			}
			return printList(cmd.OutOrStdout(), "properties", []string{"ID", "ADDRESS", "TYPE", "PRICE", "STATE"}, rows)
		},
	}

	cmd.Flags().StringVarP(&opts.Term, "search", "q", "", "match address text")
	cmd.Flags().StringVar(&state, "state", "", "filter by state (available|sold|rented)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum results")

	return cmd
}

func newPropertyAddCmd() *cobra.Command {
	var propertyType string
	var price int64

	cmd := &cobra.Command{
		Use:   "add <address>",
		Short: "Register a property",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pricePtr *int64
			if cmd.Flags().Changed("price") {
				pricePtr = &price
			}

			p, err := newAPIClient().AddProperty(cmd.Context(), strings.Join(args, " "), propertyType, pricePtr)
			if err != nil {
				return fmt.Errorf("adding property: %w", err)
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), p)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Property added successfully!")
			printPropertySummary(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.Flags().StringVar(&propertyType, "type", "", "property type (house, apartment, ...)")
	cmd.Flags().Int64Var(&price, "price", 0, "asking price")

	return cmd
}

func newPropertyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a property and its contracts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "property")
			if err != nil {
				return err
			}

			resp, err := newAPIClient().GetProperty(cmd.Context(), id)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			w := cmd.OutOrStdout()
			printPropertySummary(w, &resp.Property)
			fmt.Fprintln(w)
			if len(resp.Contracts) == 0 {
				fmt.Fprintln(w, "No contracts.")
				return nil
			}
			fmt.Fprintf(w, "Contracts (%d):\n", len(resp.Contracts))
			for _, c := range resp.Contracts {
				fmt.Fprintf(w, "  #%d %s client=%d %s %s\n", c.ID, c.ContractType, c.ClientID, orDash(c.Number), orDash(c.SignedDate))
			}
			return nil
		},
	}
}

// printPropertySummary prints a single property summary in text format.
func printPropertySummary(w io.Writer, p *property.Property) {
	fmt.Fprintf(w, "Property #%d\n", p.ID)
	fmt.Fprintf(w, "  Address:  %s\n", p.Address)
	if p.PropertyType != "" {
		fmt.Fprintf(w, "  Type:     %s\n", p.PropertyType)
	}
	if p.Price != nil {
		fmt.Fprintf(w, "  Price:    %s\n", formatPrice(*p.Price))
	}
	fmt.Fprintf(w, "  State:    %s\n", p.AvailabilityState.Label())
}

func priceOrDash(v *int64) string {
	if v == nil {
		return "-"
	}
	return formatPrice(*v)
}
