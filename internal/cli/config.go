package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("loopwall")
		viper.SetConfigType("toml")
		if viper.GetString("config") != "" {
			viper.SetConfigFile(viper.GetString("config"))
		} else {
			viper.AddConfigPath("$HOME/.config/loopwall")
			viper.AddConfigPath("/etc/xdg/loopwall")
		}
	}

	viper.SetDefault("video", "")
	viper.SetDefault("frame_output", "")
	viper.SetDefault("audio", false)
	viper.SetDefault("volume", 0.0)
	viper.SetDefault("show_watermark", true)
	viper.SetDefault("watermark_text", "LiveWallpaper")
	viper.SetDefault("watermark_position", "bottomRight")
	viper.SetDefault("watermark_opacity", 0.5)
	viper.SetDefault("watermark_font_size", 24.0)
	viper.SetDefault("watermark_padding", 16.0)
	viper.SetDefault("debug", false)

	viper.AutomaticEnv() // read environment variables that match

	// The config file is optional; everything can come from the command
	// line or the defaults above.
	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}
		cobra.CheckErr(err)
	}
}
