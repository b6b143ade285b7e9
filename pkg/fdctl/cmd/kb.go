package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frontdesk/frontdesk/pkg/fdctl/client"
	"github.com/frontdesk/frontdesk/pkg/fdctl/output"
)

func NewKBCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Inspect and extend the knowledge base",
	}
	cmd.AddCommand(newKBListCommand(), newKBAddCommand())
	return cmd
}

func newKBListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List knowledge base entries",
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

			entries, err := c.Knowledge().List(cmd.Context())
			if err != nil {
				return err
			}
			if format == output.FormatTable {
				output.WriteKnowledgeTable(rt.Writer(), entries)
				return nil
			}
			return output.WriteObject(rt.Writer(), format, entries)
		},
	}
}

func newKBAddCommand() *cobra.Command {
	var (
		question  string
		answer    string
		createdBy string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a knowledge base entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if question == "" || answer == "" {
				return fmt.Errorf("--question and --answer are required")
			}
			c, err := buildClient(rt)
			if err != nil {
				return err
			}

			result, err := c.Knowledge().Add(cmd.Context(), client.AddEntryRequest{
				QuestionText: question,
				AnswerText:   answer,
				CreatedBy:    createdBy,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Knowledge entry %d created\n", result.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&question, "question", "", "The question text")
	cmd.Flags().StringVar(&answer, "answer", "", "The answer text")
	cmd.Flags().StringVar(&createdBy, "created-by", "operator", "Who this entry is attributed to")
	return cmd
}
