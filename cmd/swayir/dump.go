package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Natalie359738/sway/internal/ir"
	"github.com/Natalie359738/sway/internal/irenc"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] module.swir",
	Short: "Print a textual listing of an IR module file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func runDump(_ *cobra.Command, args []string) error {
	m, tys, err := irenc.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load module: %w", err)
	}
	return ir.DumpModule(os.Stdout, m, tys, ir.DumpOptions{})
}
