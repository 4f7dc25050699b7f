package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Push device registration commands",
	}

	cmd.AddCommand(newDeviceRegisterCmd())
	cmd.AddCommand(newDeviceUnregisterCmd())

	return cmd
}

func newDeviceRegisterCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a device token for push notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("--device-token is required")
			}

			req := map[string]string{"token": token}
			var result Device
			if err := client.Post("/api/v1/devices", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "device-token", "", "Device push token (required)")
	_ = cmd.MarkFlagRequired("device-token")

	return cmd
}

func newDeviceUnregisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unregister <device-token>",
		Short: "Remove a registered device token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/devices/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Device unregistered")
			return nil
		},
	}
}
