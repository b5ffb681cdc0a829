package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"

	"github.com/khaledhikmat/ballspot/mode"
	"github.com/khaledhikmat/ballspot/service/config"
	"github.com/khaledhikmat/ballspot/service/data"
	"github.com/khaledhikmat/ballspot/service/inference"
	"github.com/khaledhikmat/ballspot/service/lgr"
	"github.com/khaledhikmat/ballspot/service/storage"
	"github.com/khaledhikmat/ballspot/service/tracer"
	"github.com/khaledhikmat/ballspot/service/yolo"
)

const traceFlushTime = 2 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	rootCtx := context.Background()
	canxCtx, canxFn := context.WithCancel(rootCtx)
	defer canxFn()

	// Hook up a signal handler to cancel the context
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			lgr.Logger.Info(
				"received kill signal",
				slog.Any("signal", sig),
			)
			canxFn()
		case <-canxCtx.Done():
		}
	}()

	// Load env vars if we are in DEV mode
	if os.Getenv("RUN_TIME_ENV") == "dev" || os.Getenv("RUN_TIME_ENV") == "" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			lgr.Logger.Error("error loading .env file", slog.Any("error", xerrors.New(err)))
			return mode.ExitFailure
		}
	}

	cmd, err := mode.ParseCommand(os.Args)
	if err != nil {
		var usageErr *mode.UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprint(os.Stderr, usageErr.Usage)
		}
		return mode.ExitUsage
	}

	cfgSvc, err := config.NewLayered(cmd.Overrides)
	if err != nil {
		lgr.Logger.Error("error loading configuration", slog.Any("error", xerrors.New(err)))
		return mode.ExitFailure
	}
	lgr.SetLevel(cfgSvc.GetLogLevel())

	shutdownTracer, err := tracer.Setup(cfgSvc, os.Stderr)
	if err != nil {
		lgr.Logger.Error("error setting up tracing", slog.Any("error", xerrors.New(err)))
		return mode.ExitFailure
	}
	defer func() {
		ctx, cancel := context.WithTimeout(rootCtx, traceFlushTime)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			lgr.Logger.Error("error flushing traces", slog.Any("error", err))
		}
	}()

	svcs := mode.ServicesFactory{
		CfgSvc:       cfgSvc,
		DataSvc:      data.NewFilesDB(cfgSvc),
		StorageSvc:   storage.NewFiles(cfgSvc),
		InferenceSvc: inference.NewRoboflow(cfgSvc),
		DetectorSvc:  yolo.New(cfgSvc),
		Out:          os.Stdout,
	}

	waitOnShutdown := time.Duration(cfgSvc.GetModeMaxShutdownTime()) * time.Second
	return mode.Run(canxCtx, cmd.Mode, cmd.Processor, svcs, waitOnShutdown)
}
