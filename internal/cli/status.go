package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the connection to the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Server:  %s\n", getServerURL())

			if err := newAPIClient().Health(cmd.Context()); err != nil {
				fmt.Fprintf(w, "Status:  ✗ cannot reach server (%v)\n", err)
				return nil
			}
			fmt.Fprintln(w, "Status:  ✓ connected")
			return nil
		},
	}
}

func newStatusesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "List the status codes the server accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogs, err := newAPIClient().Statuses(cmd.Context())
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), catalogs)
			}

			w := cmd.OutOrStdout()
			names := make([]string, 0, len(catalogs))
			for name := range catalogs {
				names = append(names, name)
			}
			slices.Sort(names)

			for i, name := range names {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "%s:\n", name)
				codes := make([]string, 0, len(catalogs[name]))
				for code := range catalogs[name] {
					codes = append(codes, code)
				}
				slices.Sort(codes)
				for _, code := range codes {
					fmt.Fprintf(w, "  %-12s %s\n", code, catalogs[name][code])
				}
			}
			return nil
		},
	}
}
