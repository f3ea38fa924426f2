package ipc

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, manager Manager) {
	e.GET("/status", statusHandler(manager))
	e.POST("/stop", stopHandler(manager))
	e.POST("/restart", restartHandler(manager))
	e.POST("/rebuild", rebuildHandler(manager))
	e.POST("/volume", volumeHandler(manager))
	e.POST("/mute", muteHandler(manager))
	e.POST("/watermark/text", watermarkTextHandler(manager))
	e.POST("/watermark/opacity", watermarkOpacityHandler(manager))
	e.POST("/watermark/show", watermarkShowHandler(manager))
	e.POST("/watermark/config", watermarkConfigHandler(manager))
}
