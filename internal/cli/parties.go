package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/propdesk/backoffice/internal/agent"
	"github.com/propdesk/backoffice/internal/client"
	"github.com/propdesk/backoffice/internal/contract"
)

func newClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "client",
		Aliases: []string{"clients"},
		Short:   "Manage clients",
	}

	var term string
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, err := newAPIClient().ListClients(cmd.Context(), term, limit)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), clients)
			}
			rows := make([][]string, 0, len(clients))
			for _, c := range clients {
				rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.Name, orDash(c.Email), orDash(c.Phone), orDash(c.DocumentID)})
			}
			return printList(cmd.OutOrStdout(), "clients", []string{"ID", "NAME", "EMAIL", "PHONE", "DOCUMENT"}, rows)
		},
	}
	list.Flags().StringVarP(&term, "search", "q", "", "match name text")
	list.Flags().IntVar(&limit, "limit", 0, "maximum results")

	var in client.Client
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a client",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = strings.Join(args, " ")
			c, err := newAPIClient().AddClient(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("adding client: %w", err)
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Client #%d added: %s\n", c.ID, c.Name)
			return nil
		},
	}
	add.Flags().StringVar(&in.Email, "email", "", "email address")
	add.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	add.Flags().StringVar(&in.DocumentID, "document", "", "identity document number")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "client")
			if err != nil {
				return err
			}
			c, err := newAPIClient().GetClient(cmd.Context(), id)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Client #%d\n  Name:      %s\n  Email:     %s\n  Phone:     %s\n  Document:  %s\n",
				c.ID, c.Name, orDash(c.Email), orDash(c.Phone), orDash(c.DocumentID))
			return nil
		},
	}

	cmd.AddCommand(list, add, show)
	return cmd
}

func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "agent",
		Aliases: []string{"agents"},
		Short:   "Manage agents",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			agents, err := newAPIClient().ListAgents(cmd.Context())
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), agents)
			}
			rows := make([][]string, 0, len(agents))
			for _, a := range agents {
				rows = append(rows, []string{strconv.FormatInt(a.ID, 10), a.Name, orDash(a.Email), orDash(a.Phone)})
			}
			return printList(cmd.OutOrStdout(), "agents", []string{"ID", "NAME", "EMAIL", "PHONE"}, rows)
		},
	}

	var in agent.Agent
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Register an agent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = strings.Join(args, " ")
			a, err := newAPIClient().AddAgent(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("adding agent: %w", err)
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), a)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Agent #%d added: %s\n", a.ID, a.Name)
			return nil
		},
	}
	add.Flags().StringVar(&in.Email, "email", "", "email address")
	add.Flags().StringVar(&in.Phone, "phone", "", "phone number")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "agent")
			if err != nil {
				return err
			}
			a, err := newAPIClient().GetAgent(cmd.Context(), id)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), a)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Agent #%d\n  Name:   %s\n  Email:  %s\n  Phone:  %s\n",
				a.ID, a.Name, orDash(a.Email), orDash(a.Phone))
			return nil
		},
	}

	cmd.AddCommand(list, add, show)
	return cmd
}

func newContractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contract",
		Aliases: []string{"contracts"},
		Short:   "Manage contracts",
	}

	var propertyID int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List the contracts of a property",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if propertyID <= 0 {
				return fmt.Errorf("--property is required")
			}
			contracts, err := newAPIClient().ListContracts(cmd.Context(), propertyID)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), contracts)
			}
			rows := make([][]string, 0, len(contracts))
			for _, c := range contracts {
				rows = append(rows, []string{
					strconv.FormatInt(c.ID, 10),
					string(c.ContractType),
					strconv.FormatInt(c.ClientID, 10),
					orDash(c.Number),
					orDash(c.SignedDate),
				})
			}
			return printList(cmd.OutOrStdout(), "contracts", []string{"ID", "TYPE", "CLIENT", "NUMBER", "SIGNED"}, rows)
		},
	}
	list.Flags().Int64Var(&propertyID, "property", 0, "property ID")

	var in contract.Contract
	var contractType string
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.ContractType = contract.Type(strings.ToLower(contractType))
			c, err := newAPIClient().AddContract(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("adding contract: %w", err)
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Contract #%d recorded (%s, property %d, client %d)\n", c.ID, c.ContractType, c.PropertyID, c.ClientID)
			return nil
		},
	}
	add.Flags().Int64Var(&in.PropertyID, "property", 0, "property ID")
	add.Flags().Int64Var(&in.ClientID, "client", 0, "client ID")
	add.Flags().StringVar(&contractType, "type", "", "contract type (sale|rental)")
	add.Flags().StringVar(&in.Number, "number", "", "contract number")
	add.Flags().StringVar(&in.SignedDate, "signed", "", "signing date (YYYY-MM-DD)")
	add.Flags().StringVar(&in.Notes, "notes", "", "notes")

	cmd.AddCommand(list, add)
	return cmd
}
