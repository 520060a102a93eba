package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGameLeaveCmd())
	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGamePlaceCmd())
	cmd.AddCommand(newGameEndCmd())
	cmd.AddCommand(newGameAbandonCmd())
	cmd.AddCommand(newGameBoardCmd())

	return cmd
}

func gamePath(id string, action ...string) string {
	p := "/api/v1/games/" + url.PathEscape(id)
	for _, a := range action {
		p += "/" + a
	}
	return p
}

func newGameCreateCmd() *cobra.Command {
	var (
		creator    string
		difficulty string
		gridSize   int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"creatorId": creator}
			if difficulty != "" {
				req["difficulty"] = difficulty
			}
			if gridSize != 0 {
				req["gridSize"] = gridSize
			}
			var result Game

			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&creator, "creator", "", "Creating player's ID (required)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Difficulty: easy, medium, hard (default easy)")
	cmd.Flags().IntVar(&gridSize, "grid-size", 0, "Grid size 3-10 (default 5)")
	_ = cmd.MarkFlagRequired("creator")

	return cmd
}

func newGameListCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games with a free seat, or a player's open games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/games"
			if playerID != "" {
				path += "?playerId=" + url.QueryEscape(playerID)
			}
			var result []Game

			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Only list this player's waiting and active games")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Get(gamePath(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGameJoinCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "join <id>",
		Short: "Join a waiting game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"playerId": playerID}
			var result Game

			if err := client.Post(gamePath(args[0], "join"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Joining player's ID (required)")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newGameLeaveCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "leave <id>",
		Short: "Leave a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"playerId": playerID}
			var result GameResult

			if err := client.Post(gamePath(args[0], "leave"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Leaving player's ID (required)")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newGameStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start a waiting game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post(gamePath(args[0], "start"), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGamePlaceCmd() *cobra.Command {
	var playerID, itemID string

	cmd := &cobra.Command{
		Use:   "place <id> <x> <y>",
		Short: "Place an item on the garden grid",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid x: %w", err)
			}

			y, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid y: %w", err)
			}

			req := map[string]any{
				"playerId": playerID,
				"itemId":   itemID,
				"x":        x,
				"y":        y,
			}
			var result GameResult

			if err := client.Post(gamePath(args[0], "place-item"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Moving player's ID (required)")
	cmd.Flags().StringVar(&itemID, "item", "", "Item ID such as cat_1 or flower_2 (required)")
	_ = cmd.MarkFlagRequired("player")
	_ = cmd.MarkFlagRequired("item")

	return cmd
}

func newGameEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <id>",
		Short: "End an active game and award scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameResult

			if err := client.Post(gamePath(args[0], "end"), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGameAbandonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon <id>",
		Short: "Abandon a game without scoring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post(gamePath(args[0], "abandon"), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGameBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board <id>",
		Short: "Show the garden grid and its happiness",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Board

			if err := client.Get(gamePath(args[0], "board"), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}
