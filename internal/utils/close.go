package utils

import (
	"io"

	"github.com/MrSnakeDoc/horizon/internal/logger"
)

// CloseLogged closes c and reports a failure at debug level.
// Meant for deferred response bodies and readers.
func CloseLogged(c io.Closer, log logger.Logger, what string) {
	if err := c.Close(); err != nil {
		log.Debug("close failed", logger.String("what", what), logger.Error(err))
	}
}
