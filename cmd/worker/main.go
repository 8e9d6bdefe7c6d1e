package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"

	"storefront/internal/adapter/repo"
	"storefront/internal/app"
	"storefront/internal/domain"
	"storefront/internal/infra"
	"storefront/internal/mediahook"
)

// Jobs left RUNNING longer than this belonged to a worker that died.
const staleJobAge = 15 * time.Minute

const maxErrorMessage = 1000

type hookRunner interface {
	OnSaved(ctx context.Context, ref domain.MediaRef) mediahook.Report
}

type jobRecorder interface {
	RecordJob(status string)
}

type jobWorker struct {
	jobs     domain.VariantJobRepository
	hooks    hookRunner
	logger   infra.Logger
	metrics  jobRecorder
	interval time.Duration
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	metrics := infra.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	jobs := repo.NewVariantJobRepository(runner)
	if err := jobs.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("worker: ensure schema failed")
	}
	if n, err := jobs.RequeueStale(ctx, staleJobAge); err != nil {
		logger.Warn().Err(err).Msg("worker: requeue stale jobs failed")
	} else if n > 0 {
		logger.Info().Int64("jobs", n).Msg("worker: requeued stale jobs")
	}

	pipeline, err := app.NewMedia(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to build media pipeline")
	}
	defer pipeline.Close()

	if cfg.WorkerMetricsAddr != "" {
		srv := &http.Server{Addr: cfg.WorkerMetricsAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("worker: metrics server failed")
			}
		}()
		defer srv.Close()
	}

	worker := &jobWorker{
		jobs:     jobs,
		hooks:    pipeline.Hooks,
		logger:   logger,
		metrics:  metrics,
		interval: cfg.WorkerPollInterval,
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

func (w *jobWorker) Run(ctx context.Context) error {
	w.logger.Info().Dur("poll_interval", w.interval).Msg("worker: started")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		j, err := w.jobs.Claim(ctx)
		if err != nil {
			if !errors.Is(err, domain.ErrNoJobAvailable) && ctx.Err() == nil {
				w.logger.Error().Err(err).Msg("worker: failed to claim job")
			}
			if err := w.sleep(ctx); err != nil {
				return err
			}
			continue
		}

		w.handleJob(ctx, j)
	}
}

func (w *jobWorker) sleep(ctx context.Context) error {
	t := time.NewTimer(w.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (w *jobWorker) handleJob(ctx context.Context, j *domain.VariantJob) {
	logger := w.logger.With().Str("job_id", j.ID).Str("ref", j.Ref.String()).Int("attempt", j.Attempts).Logger()
	logger.Info().Msg("worker: picked job")

	status := domain.JobStatusSucceeded
	errMsg := ""
	report := w.hooks.OnSaved(ctx, j.Ref)
	if err := report.Err(); err != nil {
		status = domain.JobStatusFailed
		errMsg = truncate(err.Error(), maxErrorMessage)
		logger.Error().Err(err).Msg("worker: job failed")
	}

	// The job outcome is recorded even when shutdown interrupted the run.
	if err := w.jobs.Complete(context.WithoutCancel(ctx), j.ID, status, errMsg); err != nil {
		logger.Error().Err(err).Msg("worker: update status failed")
	}
	if w.metrics != nil {
		w.metrics.RecordJob(string(status))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
