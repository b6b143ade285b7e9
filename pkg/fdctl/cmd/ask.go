package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frontdesk/frontdesk/pkg/fdctl/client"
	"github.com/frontdesk/frontdesk/pkg/helpdesk"
)

func NewAskCommand() *cobra.Command {
	var (
		name  string
		phone string
	)

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Submit a question as if a customer called in",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if phone == "" {
				return fmt.Errorf("--phone is required")
			}
			c, err := buildClient(rt)
			if err != nil {
				return err
			}

			outcome, err := c.Ask(cmd.Context(), client.AskRequest{
				Caller:   helpdesk.Caller{Name: name, Phone: phone},
				Question: strings.Join(args, " "),
			})
			if err != nil {
				return err
			}

			if outcome.Action == helpdesk.ActionResponded {
				_, _ = fmt.Fprintf(rt.Writer(), "Answer: %s\n", outcome.Answer)
				return nil
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Escalated to supervisor as request %d\n", outcome.RequestID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Caller name")
	cmd.Flags().StringVar(&phone, "phone", "", "Caller phone number")
	return cmd
}
