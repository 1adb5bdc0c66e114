package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"bling/internal/amqp"
	"bling/internal/cli"
	apphttp "bling/internal/http"
	"bling/internal/log"
	"bling/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)

	cfg := cli.LoadAndValidateConfig(logger)
	stores := cli.OpenBackend(logger, cfg)
	defer func() {
		if stores.Cleanup != nil {
			if err := stores.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", log.FieldError, err)
			}
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Report scheduling: publish to the worker queue when AMQP is
	// configured, otherwise run an in-process pool.
	var scheduler apphttp.ReportScheduler
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, falling back to in-process reports", log.FieldError, err)
		} else {
			defer client.Close()
			scheduler = client
			logger.Info("Report requests routed via AMQP",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue,
			)
		}
	}
	if scheduler == nil {
		gen := worker.NewGenerator(stores.Expenses, stores.Income, stores.Prefs, nil, logger, cfg.ReportOutputDir)
		pool := worker.NewPool(gen, cfg.ReportMaxJobs, cfg.ReportTimeout, logger)
		go func() {
			if err := pool.Run(ctx); err != nil {
				logger.Error("Report pool stopped", log.FieldError, err)
			}
		}()
		go func() {
			for res := range pool.Results() {
				if res.Err != nil {
					continue
				}
				logger.Info("Report ready",
					log.FieldJobID, res.Job.ID.String(),
					log.FieldReportPath, res.Path,
				)
			}
		}()
		scheduler = pool
	}

	srv := apphttp.NewServer(":"+cfg.Port, stores.Expenses, stores.Income, stores.Prefs, scheduler, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	go func() {
		sigCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Server shutdown error", log.FieldError, err)
			}
		})
		cli.WaitForShutdown(sigCtx, done)
		cancel()
	}()

	logger.Info("Starting bling server",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
}
