package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/frontdesk/frontdesk/pkg/fdctl/client"
	"github.com/frontdesk/frontdesk/pkg/fdctl/output"
)

func NewRequestsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "requests",
		Aliases: []string{"request", "req"},
		Short:   "Inspect and resolve help requests",
	}
	cmd.AddCommand(
		newRequestsListCommand(),
		newRequestsGetCommand(),
		newRequestsResolveCommand(),
	)
	return cmd
}

func newRequestsListCommand() *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List help requests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			format, err := rt.OutputFormat()
			if err != nil {
				return err
			}
			c, err := buildClient(rt)
			if err != nil {
				return err
			}

			requests, err := c.Requests().List(cmd.Context(), client.RequestListOptions{State: state})
			if err != nil {
				return err
			}
			if format == output.FormatTable {
				output.WriteRequestTable(rt.Writer(), requests)
				return nil
			}
			return output.WriteObject(rt.Writer(), format, requests)
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "Filter by state: pending, resolved, unresolved")
	return cmd
}

func newRequestsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one help request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			format, err := rt.OutputFormat()
			if err != nil {
				return err
			}
			id, err := parseRequestID(args[0])
			if err != nil {
				return err
			}
			c, err := buildClient(rt)
			if err != nil {
				return err
			}

			req, err := c.Requests().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if format == output.FormatTable {
				output.WriteRequestDetail(rt.Writer(), req)
				return nil
			}
			return output.WriteObject(rt.Writer(), format, req)
		},
	}
}

func newRequestsResolveCommand() *cobra.Command {
	var (
		answer       string
		supervisorID int64
	)

	cmd := &cobra.Command{
		Use:   "resolve <id>",
		Short: "Answer a help request as the supervisor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			id, err := parseRequestID(args[0])
			if err != nil {
				return err
			}
			if answer == "" {
				return fmt.Errorf("--answer is required")
			}
			c, err := buildClient(rt)
			if err != nil {
				return err
			}

			body := client.RespondRequest{Answer: answer}
			if cmd.Flags().Changed("supervisor") {
				body.SupervisorID = &supervisorID
			}

			result, err := c.Requests().Resolve(cmd.Context(), id, body)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Request %d resolved, knowledge entry %d created\n", id, result.KBID)
			return nil
		},
	}

	cmd.Flags().StringVar(&answer, "answer", "", "The answer to record")
	cmd.Flags().Int64Var(&supervisorID, "supervisor", 0, "Supervisor id to attribute the answer to")
	return cmd
}

func parseRequestID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid request id %q", arg)
	}
	return id, nil
}
