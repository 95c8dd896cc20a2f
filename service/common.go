package service

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"blogapi/app/config"
)

// configPath is set by the --config flag; empty searches the default
// locations.
var configPath string

// Version is stamped at build time with -ldflags "-X blogapi/service.Version=...".
var Version = "dev"

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// newLogger builds the process logger from the log section of the config.
func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("service", "blogapi"), nil
}

// confirm asks a yes/no question on stdout and reads the answer from stdin.
func confirm(question string) bool {
	fmt.Print(question + " [y/N] ")
	var response string
	fmt.Fscanln(os.Stdin, &response)
	return response == "y" || response == "Y"
}
