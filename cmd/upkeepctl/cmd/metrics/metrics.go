package metrics

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/upkeephq/upkeep/pkg/client"
)

type ClientFn func() (*client.Client, error)

type PrintFn func(v any) bool

// Command groups the dashboard metrics endpoints.
func Command(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Dashboard metrics",
	}

	cmd.AddCommand(
		overviewCommand(newClient, printJSON),
		byStatusCommand(newClient, printJSON),
		byPriorityCommand(newClient, printJSON),
		overTimeCommand(newClient, printJSON),
		buildingPerformanceCommand(newClient, printJSON),
		staffPerformanceCommand(newClient, printJSON),
	)
	return cmd
}

func overviewCommand(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Aggregate request totals and resolution stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			ov, err := api.MetricsOverview(context.Background())
			if err != nil {
				return err
			}
			if printJSON(ov) {
				return nil
			}

			fmt.Printf("open: %d  closed: %d  total: %d\n", ov.TotalOpenRequests, ov.TotalClosedRequests, ov.TotalRequests)
			fmt.Printf("avg resolution: %.2fh  completion: %.2f%%  sla breaches: %d\n",
				ov.AverageResolutionTime, ov.CompletionRate, ov.SLABreachCount)
			for _, t := range ov.TopIssueTypes {
				fmt.Printf("  %-14s %d\n", t.IssueType, t.Count)
			}
			return nil
		},
	}
}

func byStatusCommand(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	return &cobra.Command{
		Use:   "by-status",
		Short: "Request counts grouped by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			rows, err := api.RequestsByStatus(context.Background())
			if err != nil {
				return err
			}
			if printJSON(rows) {
				return nil
			}
			for _, row := range rows {
				fmt.Printf("%-14s %d\n", row.Status, row.Count)
			}
			return nil
		},
	}
}

func byPriorityCommand(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	return &cobra.Command{
		Use:   "by-priority",
		Short: "Request counts grouped by priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			rows, err := api.RequestsByPriority(context.Background())
			if err != nil {
				return err
			}
			if printJSON(rows) {
				return nil
			}
			for _, row := range rows {
				fmt.Printf("%-10s %d\n", row.Priority, row.Count)
			}
			return nil
		},
	}
}

func overTimeCommand(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	var days int

	c := &cobra.Command{
		Use:   "over-time",
		Short: "Daily request counts for a trailing window",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			rows, err := api.RequestsOverTime(context.Background(), days)
			if err != nil {
				return err
			}
			if printJSON(rows) {
				return nil
			}
			for _, row := range rows {
				fmt.Printf("%s  %d\n", row.Date, row.Count)
			}
			return nil
		},
	}

	c.Flags().IntVar(&days, "days", 30, "trailing window in days")
	return c
}

func buildingPerformanceCommand(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	return &cobra.Command{
		Use:   "building-performance",
		Short: "Per-building request totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			rows, err := api.BuildingPerformance(context.Background())
			if err != nil {
				return err
			}
			if printJSON(rows) {
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "BUILDING\tTOTAL\tOPEN\tCLOSED")
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", row.BuildingName, row.TotalRequests, row.OpenRequests, row.ClosedRequests)
			}
			return w.Flush()
		},
	}
}

func staffPerformanceCommand(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	return &cobra.Command{
		Use:   "staff-performance",
		Short: "Per-staff assignment totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			rows, err := api.StaffPerformance(context.Background())
			if err != nil {
				return err
			}
			if printJSON(rows) {
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STAFF\tROLE\tTOTAL\tCOMPLETED\tACTIVE")
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", row.StaffName, row.StaffRole, row.TotalAssignments, row.CompletedAssignments, row.ActiveAssignments)
			}
			return w.Flush()
		},
	}
}
