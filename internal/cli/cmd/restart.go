package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matjam/loopwall/internal/ipc"
)

func NewRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Restart playback from the beginning on every display",
		Run: func(cmd *cobra.Command, args []string) {
			if err := ipc.SendRestart(); err != nil {
				log.Fatalf("Failed to send 'restart' command: %v", err)
			}
			log.Info("Restart command sent")
		},
	}
}
