package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gg"

	"LocalPaint/internal/config"
)

// setupLogging points the standard logger at the configured output. The returned
// closer is non-nil only for file output.
func setupLogging(cfg config.LoggingConfig) (io.Closer, error) {
	var closer io.Closer
	switch cfg.Output {
	case "", "stderr":
		log.SetOutput(os.Stderr)
	case "stdout":
		log.SetOutput(os.Stdout)
	case "none":
		log.SetOutput(io.Discard)
	case "file":
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		log.SetOutput(f)
		closer = f
	default:
		return nil, fmt.Errorf("unknown log output %q", cfg.Output)
	}

	if cfg.Level == "debug" {
		// The default slog handler writes through the standard logger.
		gg.SetLogger(slog.Default())
	}
	return closer, nil
}
