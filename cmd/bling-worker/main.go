package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"

	"bling/internal/amqp"
	"bling/internal/cli"
	"bling/internal/log"
	"bling/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)

	logger.Info("Starting bling-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the report worker")
		os.Exit(1)
	}

	stores := cli.OpenBackend(logger, cfg)
	defer func() {
		if stores.Cleanup != nil {
			if err := stores.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", log.FieldError, err)
			}
		}
	}()

	gen := worker.NewGenerator(stores.Expenses, stores.Income, stores.Prefs, nil, logger, cfg.ReportOutputDir)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	handler := func(msg *amqp.ReportRequestMessage) error {
		month, err := msg.MonthKey()
		if err != nil {
			// malformed request, not retryable
			logger.Error("Dropping report request with bad month",
				log.FieldError, err,
				log.FieldJobID, msg.JobID.String(),
			)
			return nil
		}

		jobCtx, cancel := context.WithTimeout(ctx, cfg.ReportTimeout)
		defer cancel()

		jobID := msg.JobID
		if jobID == uuid.Nil {
			jobID = uuid.New()
		}

		path, err := gen.Generate(jobCtx, month, jobID)
		if err != nil {
			return err
		}
		logger.Info("Report ready",
			log.FieldJobID, jobID.String(),
			log.FieldReportPath, path,
		)
		return nil
	}

	logger.Info("Consuming report requests",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue,
	)
	if err := amqp.ConsumeWithReconnect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, handler); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer failed", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("bling-worker stopped")
}
