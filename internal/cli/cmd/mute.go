package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matjam/loopwall/internal/ipc"
)

func NewMuteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mute",
		Short: "Toggle audio mute on every display",
		Run: func(cmd *cobra.Command, args []string) {
			if err := ipc.SendMute(); err != nil {
				log.Fatalf("Failed to send 'mute' command: %v", err)
			}
			log.Info("Mute toggled")
		},
	}
}
