package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newArenaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arena",
		Short: "Arena discovery and presence commands",
	}

	cmd.AddCommand(newArenaNearbyCmd())
	cmd.AddCommand(newArenaGetCmd())
	cmd.AddCommand(newArenaCreateCmd())
	cmd.AddCommand(newArenaPlayCmd())
	cmd.AddCommand(newArenaLeaveCmd())
	cmd.AddCommand(newArenaRequestMatchCmd())

	return cmd
}

func newArenaNearbyCmd() *cobra.Command {
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List arenas near a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/arenas?latitude=%f&longitude=%f", lat, lon)

			var result []Arena
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude (required)")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude (required)")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}

func newArenaGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <arena-id>",
		Short: "Show arena details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Arena
			if err := client.Get("/api/v1/arenas/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newArenaCreateCmd() *cobra.Command {
	var name, street, city, state, zip string
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new arena",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			req := map[string]any{
				"location_name":    name,
				"latitude":         lat,
				"longitude":        lon,
				"street_address_1": street,
				"city":             city,
				"state":            state,
				"zip_code":         zip,
			}

			var result Arena
			if err := client.Post("/api/v1/arenas", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Location name (required)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude (required)")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude (required)")
	cmd.Flags().StringVar(&street, "street", "", "Street address")
	cmd.Flags().StringVar(&city, "city", "", "City")
	cmd.Flags().StringVar(&state, "state", "", "State")
	cmd.Flags().StringVar(&zip, "zip", "", "Zip code")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}

func newArenaPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <arena-id>",
		Short: "Start playing in an arena",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Arena
			if err := client.Post("/api/v1/arenas/"+args[0]+"/players", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newArenaLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <arena-id>",
		Short: "Stop playing in an arena",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/arenas/" + args[0] + "/players"); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Left arena " + args[0])
			return nil
		},
	}
}

func newArenaRequestMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <arena-id>",
		Short: "Request a match in an arena",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Match
			err := client.Do(http.MethodPost, "/api/v1/arenas/"+args[0]+"/matches", nil, &result)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if result.ID == "" {
				out.PrintMessage("Nobody to play with right now")
				return nil
			}
			out.Print(result)
			return nil
		},
		Args: cobra.ExactArgs(1),
	}
}
