package main

import (
	"combat-meter/internal/capture"
	"combat-meter/internal/config"
	"combat-meter/internal/engine"
	"combat-meter/internal/infrastructure/storage"
	"combat-meter/internal/network"
	"combat-meter/internal/server"
	"combat-meter/internal/version"
	"combat-meter/pkg/api"
	"combat-meter/pkg/logger"
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Конфигурация: окружение, затем флаги, проверка один раз
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid configuration")
	}

	logger.Log.Info("Starting combat meter...")
	logger.Log.Info(version.String())

	// 2. Ядро и рассылка
	hub := network.NewBroadcaster()

	engineCfg := engine.NewConfig()
	engineCfg.PublishInterval = cfg.PublishInterval
	meter := engine.NewMeter(engineCfg, hub)

	srv := server.New(hub, meter.Controller(), cfg.Port)

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return runCapture(gctx, cfg, hub, meter) })

	if err := g.Wait(); err != nil {
		logger.Log.WithError(err).Error("Combat meter stopped with error")
		os.Exit(1)
	}
	logger.Log.Info("Done.")
}

// loadConfig читает окружение, накладывает флаги и только потом проверяет результат
func loadConfig(args []string) (config.Config, error) {
	cfg, err := config.Parse()
	if err != nil {
		return config.Config{}, err
	}

	var replayPath, port string
	var raw bool
	fs := flag.NewFlagSet("meter", flag.ContinueOnError)
	fs.StringVar(&replayPath, "replay", "", "Path to .mtrc capture recording to replay")
	fs.StringVar(&port, "port", "", "HTTP/WebSocket port (overrides METER_PORT)")
	fs.BoolVar(&raw, "raw", false, "Use raw socket capture (requires elevated privileges)")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	if replayPath != "" {
		cfg.CaptureMode = config.ModeReplay
		cfg.ReplayPath = replayPath
	}
	if port != "" {
		cfg.Port = port
	}
	if raw {
		cfg.RawSocket = true
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// runCapture открывает источник и крутит цикл диспетчеризации до его закрытия.
// Фатальна только ошибка фаервола, остальные сбои старта логируются.
func runCapture(ctx context.Context, cfg config.Config, hub *network.Broadcaster, meter *engine.Meter) error {
	opts := capture.OptionsFromConfig(cfg)
	opts.OnNotElevated = func() {
		payload := api.AdminPayload{Message: "raw socket capture requires elevated privileges"}
		if err := hub.Emit(api.EventAdmin, payload); err != nil && !errors.Is(err, network.ErrNoSubscribers) {
			logger.Log.WithError(err).Warn("Failed to emit admin warning")
		}
	}

	src, err := capture.Open(ctx, opts)
	switch {
	case errors.Is(err, capture.ErrFirewall):
		return err
	case errors.Is(err, context.Canceled):
		return nil
	case err != nil:
		logger.Log.WithError(err).Warn("Error starting capture")
		return nil
	}

	var recorder *capture.Recorder
	if cfg.RecordDir != "" {
		recorder = capture.NewRecorder(src)
		src = recorder
	}

	go func() {
		<-ctx.Done()
		if err := src.Close(); err != nil {
			logger.Log.WithError(err).Debug("Capture source close failed")
		}
	}()

	meter.Run(src)

	if recorder != nil {
		saveRecording(cfg.RecordDir, recorder.Recording())
	}
	return nil
}

func saveRecording(dir string, rec *storage.Recording) {
	if len(rec.Frames) == 0 {
		return
	}
	svc, err := storage.NewRecordingService(dir)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to prepare recording dir")
		return
	}
	path, err := svc.Save(rec)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to save capture recording")
		return
	}
	logger.Log.WithField("path", path).Infof("Capture recording saved (%d frames)", len(rec.Frames))
}
