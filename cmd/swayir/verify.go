package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Natalie359738/sway/internal/ir"
	"github.com/Natalie359738/sway/internal/irenc"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [flags] module.swir",
	Short: "Check module invariants and the folding fixed point",
	Long:  `Verify validates structural invariants and reports any insert_value left on a fully concrete constant base`,
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func runVerify(_ *cobra.Command, args []string) error {
	m, tys, err := irenc.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load module: %w", err)
	}
	return errors.Join(
		ir.Validate(m, tys),
		ir.VerifyModuleFolded(m),
	)
}
