package cmd

import (
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matjam/loopwall/internal/ipc"
)

func NewVolumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "volume [0.0-1.0]",
		Short: "Set the playback volume on every display",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil || v < 0 || v > 1 {
				log.Fatalf("Volume must be a number between 0.0 and 1.0, got %q", args[0])
			}

			if err := ipc.SendVolume(v); err != nil {
				log.Fatalf("Failed to send 'volume' command: %v", err)
			}
			log.Infof("Volume set to %.2f", v)
		},
	}
}
