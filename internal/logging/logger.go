package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init initializes the global logger.
// GUIDE_LOG_LEVEL controls the log level: debug, info, warn, error (default: info).
// debug forces the debug level regardless of GUIDE_LOG_LEVEL.
func Init(debug bool) {
	switch level := os.Getenv("GUIDE_LOG_LEVEL"); {
	case debug || level == "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case level == "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case level == "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Lambda ships stderr to CloudWatch as-is; keep it JSON there.
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
