package directory

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/upkeephq/upkeep/pkg/client"
)

type ClientFn func() (*client.Client, error)

type PrintFn func(v any) bool

// Command groups directory listings (buildings, units, tenants, staff).
func Command(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Directory listings",
	}

	cmd.AddCommand(
		buildingsCommand(newClient, printJSON),
		unitsCommand(newClient, printJSON),
		tenantsCommand(newClient, printJSON),
		staffCommand(newClient, printJSON),
	)
	return cmd
}

func buildingsCommand(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	return &cobra.Command{
		Use:   "buildings",
		Short: "List buildings",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			list, err := api.ListBuildings(context.Background())
			if err != nil {
				return err
			}
			if printJSON(list) {
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tADDRESS\tCITY")
			for _, b := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.Name, b.Address, b.City)
			}
			return w.Flush()
		},
	}
}

func unitsCommand(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	var buildingID string

	c := &cobra.Command{
		Use:   "units",
		Short: "List units",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			list, err := api.ListUnits(context.Background(), buildingID)
			if err != nil {
				return err
			}
			if printJSON(list) {
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tBUILDING\tUNIT")
			for _, u := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.BuildingID, u.UnitNumber)
			}
			return w.Flush()
		},
	}

	c.Flags().StringVar(&buildingID, "building-id", "", "filter by building")
	return c
}

func tenantsCommand(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	var unitID string

	c := &cobra.Command{
		Use:   "tenants",
		Short: "List tenants",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			list, err := api.ListTenants(context.Background(), unitID)
			if err != nil {
				return err
			}
			if printJSON(list) {
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tUNIT")
			for _, t := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.FullName, t.Email, t.UnitID)
			}
			return w.Flush()
		},
	}

	c.Flags().StringVar(&unitID, "unit-id", "", "filter by unit")
	return c
}

func staffCommand(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	var active string

	c := &cobra.Command{
		Use:   "staff",
		Short: "List staff members",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			list, err := api.ListStaff(context.Background(), active)
			if err != nil {
				return err
			}
			if printJSON(list) {
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tROLE\tSPECIALTIES\tACTIVE")
			for _, s := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n", s.ID, s.FullName, s.Role, strings.Join(s.Specialties, ","), s.Active)
			}
			return w.Flush()
		},
	}

	c.Flags().StringVar(&active, "active", "", "filter by active flag (true or false)")
	return c
}
