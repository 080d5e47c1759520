package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func gamePath(player string) string {
	return "/games/" + url.PathEscape(player)
}

func newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new game (pays the record deposit)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := currentPlayer()
			if err != nil {
				return err
			}

			var result GameResult
			if err := client.Post(gamePath(player), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <word>",
		Short: "Submit a five-letter guess",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := currentPlayer()
			if err != nil {
				return err
			}

			req := map[string]string{"guess": args[0]}
			var result GameResult
			if err := client.Post(gamePath(player)+"/guesses", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [player]",
		Short: "Show a game board (yours by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var player string
			if len(args) == 1 {
				player = args[0]
			} else {
				p, err := currentPlayer()
				if err != nil {
					return err
				}
				player = p
			}

			var result GameResult
			if err := client.Get(gamePath(player), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Close your game and start a fresh one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := currentPlayer()
			if err != nil {
				return err
			}

			var result GameResult
			if err := client.Post(gamePath(player)+"/reset", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newQuitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quit",
		Short: "Close your game and reclaim the deposit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := currentPlayer()
			if err != nil {
				return err
			}

			var result RemoveResult
			if err := client.Delete(gamePath(player), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}
