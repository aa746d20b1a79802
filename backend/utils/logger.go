package utils

import (
	"log"
	"os"
)

// LoggerConfig configures the process logger.
type LoggerConfig struct {
	Output *os.File
	Prefix string
}

// InitLogger builds the process logger. UTC timestamps, stdout by default.
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "[skillpath] "
	}
	return log.New(cfg.Output, cfg.Prefix, log.LstdFlags|log.LUTC)
}
