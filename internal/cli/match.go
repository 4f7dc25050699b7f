package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match capture and confirmation commands",
	}

	cmd.AddCommand(newMatchListCmd())
	cmd.AddCommand(newMatchGetCmd())
	cmd.AddCommand(newMatchCaptureCmd())
	cmd.AddCommand(newMatchConfirmCmd())
	cmd.AddCommand(newMatchIgnoreCmd())

	return cmd
}

func newMatchListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Match
			if err := client.Get("/api/v1/matches", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <match-id>",
		Short: "Show match details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Match
			if err := client.Get("/api/v1/matches/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchCaptureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capture <match-id>",
		Short: "Capture your opponent",
		Long:  "Capture your opponent. Show them the confirmation code so they can confirm the meeting.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Match
			if err := client.Post("/api/v1/matches/"+args[0]+"/capture", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchConfirmCmd() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "confirm <match-id>",
		Short: "Confirm a capture with the code you were shown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if code == "" {
				return fmt.Errorf("--code is required")
			}

			req := map[string]string{"confirmation_code": code}
			var result Match
			if err := client.Post("/api/v1/matches/"+args[0]+"/confirm", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Confirmation code (required)")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}

func newMatchIgnoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ignore <match-id>",
		Short: "Abandon a pending match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Match
			if err := client.Post("/api/v1/matches/"+args[0]+"/ignore", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
