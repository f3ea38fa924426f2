/*
Copyright © 2025 Nathan Ollerenshaw <chrome@stupendous.net>
*/
package cli

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matjam/loopwall"
	"github.com/matjam/loopwall/internal/cli/cmd"
	"github.com/matjam/loopwall/internal/cli/cmd/utils"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "loopwall",
	Short: "A looping video wallpaper daemon",
	Long: `Loopwall renders a single looping video as the desktop background on
every connected display, with an optional text watermark. Playback is
paused automatically while the screen is locked.`,
	Run: func(c *cobra.Command, args []string) {
		if v, err := c.Flags().GetBool("show-config"); err == nil && v {
			log.Infof("Using config file: %v", viper.ConfigFileUsed())
			log.Infof("All settings:")
			utils.PrintJSONColored(viper.AllSettings())
			return
		}

		if v, err := c.Flags().GetBool("installconfig"); err == nil && v {
			utils.InstallDefaultConfig()
			return
		}

		babyBlue := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
		yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
		green := lipgloss.NewStyle().Foreground(lipgloss.Color("76"))
		if v, err := c.Flags().GetBool("version"); err == nil && v {
			log.Infof("%v version %v © 2025 %v",
				babyBlue.Render("loopwall"),
				green.Render(strings.Trim(loopwall.Version, "\n\r ")),
				yellow.Render("Nathan Ollerenshaw"))
			return
		}

		_ = c.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.AddCommand(
		cmd.NewStartCmd(),
		cmd.NewStopCmd(),
		cmd.NewStatusCmd(),
		cmd.NewRestartCmd(),
		cmd.NewVolumeCmd(),
		cmd.NewMuteCmd(),
		cmd.NewRebuildCmd(),
		cmd.NewWatermarkCmd(),
		cmd.NewGenManCmd(rootCmd),
	)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)
	RegisterFlags(rootCmd)
}
