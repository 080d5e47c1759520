package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/School-of-Solana/program-rishipunna/internal/auth"
)

// ChallengeResult is the response of /auth/challenge
type ChallengeResult struct {
	Player  string `json:"player"`
	Message string `json:"message"`
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign a login challenge with your keypair and save the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := auth.LoadKeypair(cfg.Keypair)
			if err != nil {
				return fmt.Errorf("failed to load keypair (run `wordlectl keygen` first): %w", err)
			}
			player := kp.Address()

			var challenge ChallengeResult
			if err := client.Post("/auth/challenge", map[string]string{"player": player}, &challenge); err != nil {
				return err
			}

			req := map[string]string{
				"player":    player,
				"signature": kp.Sign(challenge.Message),
			}
			var result LoginResult
			if err := client.Post("/auth/verify", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ClearToken(); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage("Logged out")
			return nil
		},
	}
}

// currentPlayer asks the server who the saved token belongs to.
func currentPlayer() (string, error) {
	if cfg.Token == "" {
		return "", fmt.Errorf("not logged in (run `wordlectl login`)")
	}
	var me struct {
		Player string `json:"player"`
	}
	if err := client.Get("/auth/me", &me); err != nil {
		return "", err
	}
	return me.Player, nil
}
