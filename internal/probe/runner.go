package probe

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/olympicsnav/internal/domain/types"
	"github.com/okian/olympicsnav/pkg/logger"
	"github.com/okian/olympicsnav/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Run executes a probe against cfg.BaseURL. It returns an error only when the
// run itself could not proceed; failed checks are listed in the Report.
func Run(ctx context.Context, cfg Config, log logger.Logger) (Report, error) {
	cfg.withDefaults()
	if log == nil {
		log = logger.Discard()
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}
	start := time.Now()
	report := Report{RunID: uuid.NewString(), Seed: cfg.Seed, States: cfg.States}
	log = log.Named("probe").With(logger.String("run_id", report.RunID))

	log.Info(ctx, "starting probe",
		logger.String("base_url", cfg.BaseURL),
		logger.Int("states", cfg.States),
		logger.Int("workers", cfg.Workers),
		logger.Any("seed", cfg.Seed))

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return report, fmt.Errorf("service health check failed: %w", err)
	}

	gen := newGenerator(cfg.Seed, client)
	states := make([]types.FilterState, 0, cfg.States)
	for range cfg.States {
		s, err := gen.next(ctx)
		if err != nil {
			return report, fmt.Errorf("state generation failed: %w", err)
		}
		states = append(states, s)
	}

	var mu sync.Mutex
	record := func(check string, state types.FilterState, err error) {
		mu.Lock()
		defer mu.Unlock()
		report.Checks++
		if err == nil {
			report.Passed++
			metrics.RecordProbeCheck("pass")
			return
		}
		metrics.RecordProbeCheck("fail")
		report.Failures = append(report.Failures, Failure{Check: check, State: state, Error: err.Error()})
		log.Warn(ctx, "probe check failed", logger.String("check", check), logger.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, state := range states {
		g.Go(func() error {
			page, err := checkRows(gctx, client, state, cfg.PageSize)
			record(CheckRows, state, err)
			if err != nil {
				return nil
			}
			record(CheckNarrowing, state, checkNarrowing(gctx, client, state, page))
			record(CheckDominance, state, checkDominance(gctx, client, state, page))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("probe interrupted: %w", err)
	}

	report.Duration = time.Since(start)
	log.Info(ctx, "probe finished",
		logger.Int("checks", report.Checks),
		logger.Int("passed", report.Passed),
		logger.Int("failed", len(report.Failures)),
		logger.Duration("duration", report.Duration))
	return report, nil
}
