package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/okian/olympicsnav/internal/probe"
	"github.com/okian/olympicsnav/pkg/logger"
	"github.com/spf13/cobra"
)

var errProbeFailed = errors.New("probe checks failed")

func newProbeCmd(g *globals) *cobra.Command {
	cfg := probe.Config{}
	var verbose bool
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check filter properties against a running server",
		Long: `probe generates random filter states from the server's own option lists,
queries them concurrently and verifies that every row matches its filter,
that narrowing never grows a result and that "All" dominates a multi-select.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg.BaseURL = g.url
			cfg.Timeout = g.timeout

			log := logger.Discard()
			if verbose {
				if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
					return err
				}
				log = logger.Get()
			}

			report, err := probe.Run(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			if err := emit(g.out, g.output, report, func(w *tabwriter.Writer) {
				row(w, "RUN", report.RunID)
				row(w, "SEED", fmt.Sprint(report.Seed))
				row(w, "STATES", fmt.Sprint(report.States))
				row(w, "CHECKS", fmt.Sprint(report.Checks))
				row(w, "PASSED", fmt.Sprint(report.Passed))
				row(w, "DURATION", report.Duration.String())
				for _, f := range report.Failures {
					row(w, "FAIL", f.Check, f.Error)
				}
			}); err != nil {
				return err
			}
			if !report.OK() {
				return fmt.Errorf("%w: %d of %d", errProbeFailed, len(report.Failures), report.Checks)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&cfg.States, "states", probe.DefaultStates, "Random filter states to check")
	f.IntVar(&cfg.Workers, "workers", probe.DefaultWorkers, "Concurrent checks")
	f.IntVar(&cfg.PageSize, "page-size", probe.DefaultPageSize, "Rows fetched per state")
	f.Uint64Var(&cfg.Seed, "seed", 0, "Generator seed (0 picks one)")
	f.BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
	return cmd
}
