package cmd

import (
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matjam/loopwall/internal/ipc"
	"github.com/matjam/loopwall/internal/overlay"
)

func NewWatermarkCmd() *cobra.Command {
	watermark := &cobra.Command{
		Use:   "watermark",
		Short: "Control the watermark on every display",
	}

	watermark.AddCommand(
		newWatermarkTextCmd(),
		newWatermarkOpacityCmd(),
		newWatermarkShowCmd(),
		newWatermarkHideCmd(),
		newWatermarkSetCmd(),
	)

	return watermark
}

func newWatermarkTextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text [text]",
		Short: "Change the watermark text",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := ipc.SendWatermarkText(args[0]); err != nil {
				log.Fatalf("Failed to send 'watermark text' command: %v", err)
			}
			log.Infof("Watermark text set to %q", args[0])
		},
	}
}

func newWatermarkOpacityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "opacity [0.0-1.0]",
		Short: "Change the watermark opacity",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil || v < 0 || v > 1 {
				log.Fatalf("Opacity must be a number between 0.0 and 1.0, got %q", args[0])
			}

			if err := ipc.SendWatermarkOpacity(v); err != nil {
				log.Fatalf("Failed to send 'watermark opacity' command: %v", err)
			}
			log.Infof("Watermark opacity set to %.2f", v)
		},
	}
}

func newWatermarkShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the watermark",
		Run: func(cmd *cobra.Command, args []string) {
			if err := ipc.SendWatermarkShow(true); err != nil {
				log.Fatalf("Failed to send 'watermark show' command: %v", err)
			}
			log.Info("Watermark shown")
		},
	}
}

func newWatermarkHideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hide",
		Short: "Hide the watermark",
		Run: func(cmd *cobra.Command, args []string) {
			if err := ipc.SendWatermarkShow(false); err != nil {
				log.Fatalf("Failed to send 'watermark hide' command: %v", err)
			}
			log.Info("Watermark hidden")
		},
	}
}

func newWatermarkSetCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "set",
		Short: "Replace the whole watermark config",
		Long: `Replaces the watermark configuration on every display at once. Unset
flags fall back to the defaults, not to the current values.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := overlay.DefaultConfig()

			if v, err := cmd.Flags().GetString("text"); err == nil && v != "" {
				cfg.Text = v
			}
			if v, err := cmd.Flags().GetString("position"); err == nil && v != "" {
				cfg.Position = overlay.ParsePosition(v)
			}
			if v, err := cmd.Flags().GetFloat64("opacity"); err == nil && cmd.Flags().Changed("opacity") {
				cfg.Opacity = v
			}
			if v, err := cmd.Flags().GetFloat64("font-size"); err == nil && cmd.Flags().Changed("font-size") {
				cfg.FontSize = v
			}
			if v, err := cmd.Flags().GetFloat64("padding"); err == nil && cmd.Flags().Changed("padding") {
				cfg.Padding = v
			}
			if v, err := cmd.Flags().GetString("color"); err == nil && v != "" {
				cfg.FontColor = v
			}
			if v, err := cmd.Flags().GetString("background"); err == nil && v != "" {
				cfg.BackgroundColor = v
			}

			if err := ipc.SendWatermarkConfig(cfg); err != nil {
				log.Fatalf("Failed to send 'watermark set' command: %v", err)
			}
			log.Info("Watermark config replaced")
		},
	}

	c.Flags().String("text", "", "Watermark text")
	c.Flags().String("position", "", "Position (topLeft|topRight|bottomLeft|bottomRight|center)")
	c.Flags().Float64("opacity", 0.5, "Opacity, 0.0 to 1.0")
	c.Flags().Float64("font-size", 24, "Font size")
	c.Flags().Float64("padding", 16, "Padding around the text")
	c.Flags().String("color", "", "Text color, #RRGGBB")
	c.Flags().String("background", "", "Background color, #RRGGBB")

	return c
}
