package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matjam/loopwall/internal/ipc"
)

func NewRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Re-enumerate displays and rebuild every surface",
		Long: `Tears down all surfaces and recreates one per currently connected
display. Use this after plugging or unplugging a monitor.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := ipc.SendRebuild(); err != nil {
				log.Fatalf("Failed to send 'rebuild' command: %v", err)
			}
			log.Info("Rebuild command sent")
		},
	}
}
