package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// parseLogLevel maps a level name to a commonlog verbosity.
func parseLogLevel(s string) (int, error) {
	switch strings.ToLower(s) {
	case "none", "off":
		return -4, nil
	case "critical":
		return -3, nil
	case "error":
		return -2, nil
	case "warning", "warn", "":
		return -1, nil
	case "notice":
		return 0, nil
	case "info":
		return 1, nil
	case "debug":
		return 2, nil
	}
	return 0, fmt.Errorf("invalid log level: %q (expected: none|critical|error|warning|notice|info|debug)", s)
}

func setupLogging(cmd *cobra.Command) error {
	levelStr, err := getString(cmd, "log-level")
	if err != nil {
		return err
	}
	verbosity, err := parseLogLevel(levelStr)
	if err != nil {
		return err
	}
	path, err := getString(cmd, "log-file")
	if err != nil {
		return err
	}
	if path == "" {
		commonlog.Configure(verbosity, nil)
	} else {
		commonlog.Configure(verbosity, &path)
	}
	return nil
}
