package ipc

import (
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"

	"github.com/matjam/loopwall"
	"github.com/matjam/loopwall/internal/overlay"
	"github.com/matjam/loopwall/internal/wallpaper"
)

// GET /status
func statusHandler(m Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSONPretty(http.StatusOK, StatusResponse{
			Status:  "ok",
			Message: "loopwall is running",
			Version: strings.Trim(loopwall.Version, "\n\r "),
			PID:     os.Getpid(),
			Socket:  SocketPath(),
			Config:  viper.ConfigFileUsed(),
			Daemon:  m.Snapshot(),
		}, "  ")
	}
}

// POST /stop
func stopHandler(m Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		m.Stop()
		return c.JSON(http.StatusOK, Response{Status: "ok"})
	}
}

// POST /restart
func restartHandler(m Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		m.EnqueueCommand(wallpaper.Command{Type: wallpaper.CommandRestart})
		return c.JSON(http.StatusOK, Response{Status: "ok"})
	}
}

// POST /rebuild
func rebuildHandler(m Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		m.EnqueueCommand(wallpaper.Command{Type: wallpaper.CommandRebuild})
		return c.JSON(http.StatusOK, Response{Status: "ok"})
	}
}

// POST /volume
func volumeHandler(m Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req VolumeRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: "invalid volume request"})
		}
		if req.Volume < 0 || req.Volume > 1 {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: "volume must be between 0.0 and 1.0"})
		}
		m.EnqueueCommand(wallpaper.Command{Type: wallpaper.CommandVolume, Value: req.Volume})
		return c.JSON(http.StatusOK, Response{Status: "ok"})
	}
}

// POST /mute
func muteHandler(m Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		m.EnqueueCommand(wallpaper.Command{Type: wallpaper.CommandToggleMute})
		return c.JSON(http.StatusOK, Response{Status: "ok"})
	}
}

// POST /watermark/text
func watermarkTextHandler(m Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req TextRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: "invalid text request"})
		}
		m.EnqueueCommand(wallpaper.Command{Type: wallpaper.CommandWatermarkText, Text: req.Text})
		return c.JSON(http.StatusOK, Response{Status: "ok"})
	}
}

// POST /watermark/opacity
func watermarkOpacityHandler(m Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req OpacityRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: "invalid opacity request"})
		}
		if req.Opacity < 0 || req.Opacity > 1 {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: "opacity must be between 0.0 and 1.0"})
		}
		m.EnqueueCommand(wallpaper.Command{Type: wallpaper.CommandWatermarkOpacity, Value: req.Opacity})
		return c.JSON(http.StatusOK, Response{Status: "ok"})
	}
}

// POST /watermark/show
func watermarkShowHandler(m Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req ShowRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: "invalid show request"})
		}
		m.EnqueueCommand(wallpaper.Command{Type: wallpaper.CommandWatermarkShow, Show: req.Show})
		return c.JSON(http.StatusOK, Response{Status: "ok"})
	}
}

// POST /watermark/config
func watermarkConfigHandler(m Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		var cfg overlay.Config
		if err := c.Bind(&cfg); err != nil {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: "invalid watermark config"})
		}
		m.EnqueueCommand(wallpaper.Command{Type: wallpaper.CommandWatermarkConfig, Config: &cfg})
		return c.JSON(http.StatusOK, Response{Status: "ok"})
	}
}
