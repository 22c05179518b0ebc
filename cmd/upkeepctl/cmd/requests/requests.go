package requests

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

// Command groups maintenance-request operations.
func Command(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Maintenance request operations",
	}

	cmd.AddCommand(
		listCommand(newClient, printJSON),
		getCommand(newClient, printJSON),
		createCommand(newClient, printJSON),
		statusCommand(newClient, printJSON),
		assignCommand(newClient, printJSON),
		noteCommand(newClient, printJSON),
		completeCommand(newClient, printJSON),
	)
	return cmd
}

func listCommand(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	var filter client.RequestFilter

	c := &cobra.Command{
		Use:   "list",
		Short: "List maintenance requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			list, err := api.ListRequests(context.Background(), filter)
			if err != nil {
				return err
			}
			if printJSON(list) {
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tISSUE\tDESCRIPTION")
			for _, r := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Status, r.Priority, r.IssueType, truncate(r.Description, 50))
			}
			return w.Flush()
		},
	}

	c.Flags().StringVar(&filter.Status, "status", "", "filter by status")
	c.Flags().StringVar(&filter.TenantID, "tenant-id", "", "filter by tenant")
	c.Flags().StringVar(&filter.BuildingID, "building-id", "", "filter by building")
	c.Flags().StringVar(&filter.IssueType, "issue-type", "", "filter by issue type")
	c.Flags().StringVar(&filter.Priority, "priority", "", "filter by priority")
	return c
}

func getCommand(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one request with assignments and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			req, err := api.GetRequest(context.Background(), args[0])
			if err != nil {
				return err
			}
			if printJSON(req) {
				return nil
			}
			printRequest(req)
			return nil
		},
	}
}

func createCommand(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	var in client.CreateRequestInput

	c := &cobra.Command{
		Use:   "create",
		Short: "Create a maintenance request",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			req, err := api.CreateRequest(context.Background(), in)
			if err != nil {
				return err
			}
			if printJSON(req) {
				return nil
			}
			fmt.Printf("Created request %s (status %s)\n", req.ID, req.Status)
			return nil
		},
	}

	c.Flags().StringVar(&in.TenantID, "tenant-id", "", "tenant id")
	c.Flags().StringVar(&in.UnitID, "unit-id", "", "unit id")
	c.Flags().StringVar(&in.BuildingID, "building-id", "", "building id")
	c.Flags().StringVar(&in.IssueType, "issue-type", "", "issue type")
	c.Flags().StringVar(&in.Priority, "priority", "Medium", "priority")
	c.Flags().StringVar(&in.Description, "description", "", "description")
	c.Flags().IntVar(&in.TargetSLAHours, "target-sla-hours", 0, "target SLA hours (server default when omitted)")
	_ = c.MarkFlagRequired("tenant-id")
	_ = c.MarkFlagRequired("unit-id")
	_ = c.MarkFlagRequired("building-id")
	_ = c.MarkFlagRequired("issue-type")
	_ = c.MarkFlagRequired("description")
	return c
}

func statusCommand(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	var resolutionNotes string

	c := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Overwrite a request's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			req, err := api.UpdateStatus(context.Background(), args[0], args[1], resolutionNotes)
			if err != nil {
				return err
			}
			if printJSON(req) {
				return nil
			}
			fmt.Printf("Request %s is now %s\n", req.ID, req.Status)
			return nil
		},
	}

	c.Flags().StringVar(&resolutionNotes, "resolution-notes", "", "resolution notes (omitted when blank)")
	return c
}

func assignCommand(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	var notes string

	c := &cobra.Command{
		Use:   "assign <id> <staff-id>",
		Short: "Assign a staff member to a request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			req, err := api.AssignStaff(context.Background(), args[0], args[1], notes)
			if err != nil {
				return err
			}
			if printJSON(req) {
				return nil
			}
			fmt.Printf("Request %s assigned (%d assignment(s), status %s)\n", req.ID, len(req.Assignments), req.Status)
			return nil
		},
	}

	c.Flags().StringVar(&notes, "notes", "", "assignment notes (omitted when blank)")
	return c
}

func noteCommand(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	var (
		authorType string
		staffID    string
		authorName string
	)

	c := &cobra.Command{
		Use:   "note <id> <body>",
		Short: "Append a communication note to a request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			ctx := context.Background()

			req, err := api.GetRequest(ctx, args[0])
			if err != nil {
				return err
			}
			updated, err := api.AddNote(ctx, req, authorType, staffID, authorName, args[1])
			if err != nil {
				return err
			}
			if printJSON(updated) {
				return nil
			}
			fmt.Printf("Request %s now has %d note(s)\n", updated.ID, len(updated.Notes))
			return nil
		},
	}

	c.Flags().StringVar(&authorType, "author-type", "staff", "note author type (staff or tenant)")
	c.Flags().StringVar(&staffID, "staff-id", "", "authoring staff id (author-type staff)")
	c.Flags().StringVar(&authorName, "author-name", "", "display name for the note author")
	_ = c.MarkFlagRequired("author-name")
	return c
}

func completeCommand(newClient ClientFn, printJSON PrintFn) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id> <staff-id>",
		Short: "Mark a staff member's assignment completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			req, err := api.CompleteAssignment(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			if printJSON(req) {
				return nil
			}
			fmt.Printf("Request %s status %s\n", req.ID, req.Status)
			return nil
		},
	}
}

func printRequest(r *client.Request) {
	fmt.Printf("Request %s\n", r.ID)
	fmt.Printf("  status: %s  priority: %s  issue: %s\n", r.Status, r.Priority, r.IssueType)
	fmt.Printf("  tenant: %s  unit: %s  building: %s\n", r.TenantID, r.UnitID, r.BuildingID)
	fmt.Printf("  sla: %dh  breached: %v  created: %s\n", r.TargetSLAHours, r.SLABreached, r.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("  description: %s\n", r.Description)
	if r.ResolutionNotes != nil {
		fmt.Printf("  resolution: %s\n", *r.ResolutionNotes)
	}
	if len(r.Assignments) > 0 {
		fmt.Println("  assignments:")
		for _, a := range r.Assignments {
			state := "active"
			if a.CompletedAt != nil {
				state = "completed " + a.CompletedAt.Format("2006-01-02 15:04")
			}
			fmt.Printf("    - staff %s (%s)\n", a.StaffID, state)
		}
	}
	if len(r.Notes) > 0 {
		fmt.Println("  notes:")
		for _, n := range r.Notes {
			fmt.Printf("    - [%s] %s: %s\n", n.AuthorType, n.AuthorName, truncate(n.Body, 80))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
