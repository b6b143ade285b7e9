// Package cmd implements the fdctl command tree.
package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/frontdesk/frontdesk/pkg/fdctl/client"
	"github.com/frontdesk/frontdesk/pkg/fdctl/output"
)

type Config struct {
	OutputWriter io.Writer
}

type runtimeState struct {
	serverOverride string
	outputFormat   string
	timeout        time.Duration
	writer         io.Writer
}

type runtimeKey struct{}

func DefaultConfig() Config {
	return Config{OutputWriter: os.Stdout}
}

func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{writer: cfg.OutputWriter}

	root := &cobra.Command{
		Use:   "fdctl",
		Short: "Frontdesk CLI",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			if rt.serverOverride == "" {
				rt.serverOverride = os.Getenv("FDCTL_SERVER")
			}
			if rt.outputFormat == "" {
				rt.outputFormat = os.Getenv("FDCTL_OUTPUT")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rt.serverOverride, "server", "", "Frontdesk server URL (or FDCTL_SERVER)")
	root.PersistentFlags().StringVarP(&rt.outputFormat, "output", "o", "", "Output format: table, json, yaml")
	root.PersistentFlags().DurationVar(&rt.timeout, "timeout", 30*time.Second, "Request timeout")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		NewAskCommand(),
		NewRequestsCommand(),
		NewKBCommand(),
		NewSweepCommand(),
	)

	return root
}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

func (rt *runtimeState) OutputFormat() (output.Format, error) {
	return output.ParseFormat(rt.outputFormat)
}

func buildClient(rt *runtimeState) (*client.Client, error) {
	if rt.serverOverride == "" {
		return nil, errors.New("server is required; pass --server or set FDCTL_SERVER")
	}
	return client.New(
		client.WithServer(rt.serverOverride),
		client.WithTimeout(rt.timeout),
		client.WithUserAgent("fdctl"),
	)
}
