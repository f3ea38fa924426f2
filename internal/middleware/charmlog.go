// Package middleware carries the echo middleware shared by the IPC server.
package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

// CharmLog logs each IPC request through charmbracelet/log so the socket
// traffic ends up in the same place as the rest of the daemon's output.
func CharmLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			log.Debugf("%s %s %d %s",
				c.Request().Method,
				c.Request().URL.Path,
				c.Response().Status,
				time.Since(start))

			return err
		}
	}
}
