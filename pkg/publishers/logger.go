package publishers

import "github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/logger"

// Logger defines the logging surface publishers rely on.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	return logger.Ensure(log)
}
