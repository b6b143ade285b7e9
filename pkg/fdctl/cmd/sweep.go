package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire overdue pending requests immediately",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			c, err := buildClient(rt)
			if err != nil {
				return err
			}

			result, err := c.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			if len(result.Expired) == 0 {
				_, _ = fmt.Fprintln(rt.Writer(), "Nothing to expire")
				return nil
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Expired %d request(s): %v\n", len(result.Expired), result.Expired)
			return nil
		},
	}
}
