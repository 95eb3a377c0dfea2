package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"

	"listingforge/internal/domain"
	"listingforge/internal/infra"
	"listingforge/internal/pipeline"
	"listingforge/internal/providers/clip"
	"listingforge/internal/providers/imagegen"
	"listingforge/internal/providers/vision"
	"listingforge/internal/sqlinline"
	"listingforge/internal/storage"
)

const jobPollInterval = 2 * time.Second

type job struct {
	ID     string
	Inputs json.RawMessage
}

type jobWorker struct {
	ctx      context.Context
	runner   *infra.SQLRunner
	logger   infra.Logger
	pipeline *pipeline.Pipeline
	pool     *ants.Pool
}

var errNoJobAvailable = errors.New("no job available")

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	if _, err := runner.Exec(ctx, sqlinline.QEnsureSchema); err != nil {
		logger.Fatal().Err(err).Msg("worker: schema setup failed")
	}

	outputDir := cfg.OutputDir
	if !filepath.IsAbs(outputDir) {
		if abs, err := filepath.Abs(outputDir); err == nil {
			outputDir = abs
		}
	}
	workspaces, err := storage.NewManager(outputDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	pipe := pipeline.New(
		workspaces,
		vision.NewHeuristicDescriber(),
		imagegen.NewBannerAugmenter(cfg.MaxSupplementary),
		clip.NewGIFSynthesizer(cfg.MaxClipFrames),
		logger,
	)

	// Distinct jobs share no mutable state, so they run on independent
	// goroutines bounded only by the pool size.
	pool, err := ants.NewPool(cfg.WorkerConcurrency)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to create pool")
	}
	defer pool.Release()

	worker := &jobWorker{
		ctx:      ctx,
		runner:   runner,
		logger:   logger,
		pipeline: pipe,
		pool:     pool,
	}

	if err := worker.Run(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

func (w *jobWorker) Run() error {
	w.logger.Info().Int("concurrency", w.pool.Cap()).Msg("worker: started")
	for {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		if w.pool.Free() == 0 {
			time.Sleep(jobPollInterval)
			continue
		}

		j, err := w.claimJob()
		if err != nil {
			if errors.Is(err, errNoJobAvailable) {
				time.Sleep(jobPollInterval)
				continue
			}
			w.logger.Error().Err(err).Msg("worker: failed to claim job")
			time.Sleep(jobPollInterval)
			continue
		}

		claimed := j
		if err := w.pool.Submit(func() { w.handleJob(claimed) }); err != nil {
			w.logger.Error().Err(err).Str("job_id", claimed.ID).Msg("worker: submit failed")
			w.markFailed(claimed.ID, "worker pool unavailable")
		}
	}
}

func (w *jobWorker) claimJob() (job, error) {
	row := w.runner.QueryRow(w.ctx, sqlinline.QClaimJob)
	var j job
	if err := row.Scan(&j.ID, &j.Inputs); err != nil {
		if infra.IsNoRows(err) {
			return job{}, errNoJobAvailable
		}
		return job{}, err
	}
	// Ensure inputs bytes are not aliased.
	j.Inputs = append(json.RawMessage(nil), j.Inputs...)
	return j, nil
}

func (w *jobWorker) handleJob(j job) {
	w.logger.Info().Str("job_id", j.ID).Msg("worker: picked job")

	var inputs domain.GenerationInputs
	if err := json.Unmarshal(j.Inputs, &inputs); err != nil {
		w.markFailed(j.ID, fmt.Sprintf("decode inputs: %v", err))
		return
	}

	result, err := w.pipeline.Run(w.ctx, inputs)
	if err != nil {
		w.logger.Error().Err(err).Str("job_id", j.ID).Msg("worker: job failed")
		w.markFailed(j.ID, err.Error())
		return
	}

	w.recordAssets(j.ID, result)

	resultJSON, err := json.Marshal(result)
	if err != nil {
		w.markFailed(j.ID, fmt.Sprintf("encode result: %v", err))
		return
	}
	if _, err := w.runner.Exec(w.ctx, sqlinline.QMarkJobSucceeded, j.ID, resultJSON, result.WorkspaceDir); err != nil {
		w.logger.Error().Err(err).Str("job_id", j.ID).Msg("worker: update status failed")
	}
}

func (w *jobWorker) recordAssets(jobID string, result *domain.GenerationResult) {
	record := func(kind, path string) {
		var size int64
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}
		if _, err := w.runner.Exec(w.ctx, sqlinline.QInsertAsset, jobID, kind, path, 0, 0, size); err != nil {
			w.logger.Error().Err(err).Str("job_id", jobID).Str("path", path).Msg("worker: insert asset failed")
		}
	}
	for _, p := range result.Assets.SupplementaryImages {
		record("image", p)
	}
	if result.Assets.MarketingGIF != "" {
		record("clip", result.Assets.MarketingGIF)
	}
	for _, doc := range []string{pipeline.MetadataDocument, pipeline.AssetsDocument, pipeline.ResultDocument} {
		record("document", filepath.Join(result.WorkspaceDir, "outputs", doc))
	}
}

func (w *jobWorker) markFailed(jobID, message string) {
	if _, err := w.runner.Exec(w.ctx, sqlinline.QMarkJobFailed, jobID, message); err != nil {
		w.logger.Error().Err(err).Str("job_id", jobID).Msg("worker: update status failed")
	}
}
