package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arrowc/internal/prof"
)

// setupProfiling starts the runtime profilers named by the profile flags
// and returns the function that stops them.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	var opts prof.Options
	var err error
	if opts.CPU, err = getString(cmd, "cpu-profile"); err != nil {
		return nil, err
	}
	if opts.Mem, err = getString(cmd, "mem-profile"); err != nil {
		return nil, err
	}
	if opts.Trace, err = getString(cmd, "runtime-trace"); err != nil {
		return nil, err
	}
	if !opts.Enabled() {
		return func() {}, nil
	}
	session, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}
