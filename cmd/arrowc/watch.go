package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"arrowc/internal/driver"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Recompile sources whenever they change",
	Long:  `Watch a directory, or the project root, and check every source after each change until interrupted`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", driver.DefaultDebounce, "quiet period before a rebuild")
}

func runWatch(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	dir := "."
	switch {
	case len(args) == 1:
		dir = args[0]
	case s.manifest != nil:
		dir = s.manifest.Root
	}

	w, err := driver.NewWatcher(dir, s.driverOptions(), debounce)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if !s.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "watching %s\n", dir)
	}
	return w.Run(ctx, func(units []*driver.Unit) {
		if !s.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] rebuilt\n", time.Now().Format(time.TimeOnly))
		}
		if err := report(cmd, s, units); err != nil {
			log.Errorf("report: %s", err)
		}
	})
}
