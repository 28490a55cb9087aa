package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/propdesk/backoffice/internal/apiclient"
	"github.com/propdesk/backoffice/internal/engine"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable writes rows under a header as aligned columns.
func printTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	seps := make([]string, len(header))
	for i, h := range header {
		seps[i] = strings.Repeat("-", len(h))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(seps, "\t")); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}

// printList prints rows as a table with a total, or a notice when empty.
func printList(w io.Writer, noun string, header []string, rows [][]string) error {
	if len(rows) == 0 {
		fmt.Fprintf(w, "No %s found.\n", noun)
		return nil
	}
	if err := printTable(w, header, rows); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nTotal: %d %s\n", len(rows), noun)
	return nil
}

// runAction sends an engine action and prints its outcome. A refused
// action prints its envelope in JSON mode and returns the failure.
func runAction(ctx context.Context, w io.Writer, action engine.Action, payload any) error {
	env, err := newAPIClient().Action(ctx, action, payload)
	var ae *apiclient.ActionError
	if errors.As(err, &ae) {
		if isJSON() {
			if perr := printJSON(w, env); perr != nil {
				return perr
			}
		}
		return ae
	}
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(w, env)
	}
	fmt.Fprintln(w, env.Message)
	return nil
}

// actionCmd builds a command that sends action with the payload built
// from its arguments.
func actionCmd(use, short string, args cobra.PositionalArgs, action engine.Action, payload func(cmd *cobra.Command, args []string) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := payload(cmd, args)
			if err != nil {
				return err
			}
			return runAction(cmd.Context(), cmd.OutOrStdout(), action, in)
		},
	}
}

// formatPrice formats a whole amount with thousands separators.
func formatPrice(dollars int64) string {
	s := strconv.FormatInt(dollars, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	if len(s) > 3 {
		var parts []string
		for len(s) > 3 {
			parts = append([]string{s[len(s)-3:]}, parts...)
			s = s[:len(s)-3]
		}
		s = strings.Join(append([]string{s}, parts...), ",")
	}

	if neg {
		return "-" + s
	}
	return s
}

// formatMoney formats an amount with separators and two decimals.
func formatMoney(v float64) string {
	cents := int64(v*100 + 0.5)
	if v < 0 {
		cents = int64(v*100 - 0.5)
	}
	whole, frac := cents/100, cents%100
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%s.%02d", formatPrice(whole), frac)
}

func moneyOrDash(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatMoney(*v)
}

func idOrDash(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
