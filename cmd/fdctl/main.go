package main

import (
	"os"

	fdctlcmd "github.com/frontdesk/frontdesk/pkg/fdctl/cmd"
)

func main() {
	root := fdctlcmd.NewRootCommand(fdctlcmd.DefaultConfig())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
