package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/School-of-Solana/program-rishipunna/internal/auth"
)

func newKeygenCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new player keypair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(cfg.Keypair); err == nil && !force {
				return fmt.Errorf("keypair already exists at %s (use --force to overwrite)", cfg.Keypair)
			}

			kp, err := auth.GenerateKeypair()
			if err != nil {
				return err
			}
			if err := kp.Save(cfg.Keypair); err != nil {
				return fmt.Errorf("failed to save keypair: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(KeyResult{Address: kp.Address(), Path: cfg.Keypair})
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing keypair")
	return cmd
}
