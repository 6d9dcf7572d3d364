package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nadavyigal/Running-coach--sub004/logger"
	"github.com/nadavyigal/Running-coach--sub004/wearable"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Manage registered wearable devices",
}

var deviceType string

var devicesLsCmd = &cobra.Command{
	Use:   "ls <user-id>",
	Short: "List a user's devices",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDatabase()
		if err != nil {
			return err
		}
		defer conn.Close()

		directory := wearable.NewDirectory(conn, logger.Logger)
		devices, err := directory.ListByUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if len(devices) == 0 {
			fmt.Println("No devices registered.")
			return nil
		}

		for _, dev := range devices {
			lastSync := "never"
			if dev.LastSyncAt != nil {
				lastSync = dev.LastSyncAt.Format(time.RFC3339)
			}
			fmt.Printf("%s  %-12s %-12s last_sync=%s\n",
				dev.ID, dev.Type, dev.ConnectionStatus, lastSync)
		}
		return nil
	},
}

var devicesAddCmd = &cobra.Command{
	Use:   "add <user-id>",
	Short: "Register a new device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDatabase()
		if err != nil {
			return err
		}
		defer conn.Close()

		directory := wearable.NewDirectory(conn, logger.Logger)
		dev := &wearable.Device{
			ID:     uuid.New().String(),
			UserID: args[0],
			Type:   wearable.DeviceType(deviceType),
		}
		if err := directory.Register(cmd.Context(), dev); err != nil {
			return err
		}

		fmt.Printf("Registered %s device %s\n", dev.Type, dev.ID)
		return nil
	},
}

var devicesConnectCmd = &cobra.Command{
	Use:   "connect <device-id>",
	Short: "Mark a device as connected",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDeviceStatus(cmd, args[0], wearable.StatusConnected)
	},
}

var devicesDisconnectCmd = &cobra.Command{
	Use:   "disconnect <device-id>",
	Short: "Mark a device as disconnected",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDeviceStatus(cmd, args[0], wearable.StatusDisconnected)
	},
}

func setDeviceStatus(cmd *cobra.Command, deviceID string, status wearable.ConnectionStatus) error {
	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	directory := wearable.NewDirectory(conn, logger.Logger)
	if err := directory.SetConnectionStatus(cmd.Context(), deviceID, status); err != nil {
		return err
	}
	fmt.Printf("Device %s is now %s\n", deviceID, status)
	return nil
}

func init() {
	devicesAddCmd.Flags().StringVar(&deviceType, "type", string(wearable.DeviceGarmin),
		"device type: garmin, apple_watch, fitbit, polar, suunto, coros")

	devicesCmd.AddCommand(devicesLsCmd)
	devicesCmd.AddCommand(devicesAddCmd)
	devicesCmd.AddCommand(devicesConnectCmd)
	devicesCmd.AddCommand(devicesDisconnectCmd)
}
