package capture

import (
	"combat-meter/internal/config"
	"combat-meter/internal/infrastructure/storage"
	"combat-meter/pkg/logger"
	"context"
	"fmt"
	"time"
)

// Options - выбор и параметры источника захвата
type Options struct {
	Mode        string
	ReplayPath  string
	Realtime    bool
	StreamAddr  string
	RawSocket   bool
	FirewallCmd string

	AdminInterval time.Duration
	// OnNotElevated вызывается каждые AdminInterval, пока нет прав для raw режима
	OnNotElevated func()
	// Elevated подменяет проверку прав (тесты)
	Elevated func() bool
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Mode:          cfg.CaptureMode,
		ReplayPath:    cfg.ReplayPath,
		Realtime:      cfg.ReplayRealtime,
		StreamAddr:    cfg.StreamAddr,
		RawSocket:     cfg.RawSocket,
		FirewallCmd:   cfg.FirewallCmd,
		AdminInterval: cfg.AdminInterval,
	}
}

// Open готовит источник. Ошибка фаервола оборачивает ErrFirewall и фатальна,
// остальные ошибки означают, что захват не стартовал.
func Open(ctx context.Context, opts Options) (Source, error) {
	if opts.Mode == config.ModeReplay {
		rec, err := storage.Load(opts.ReplayPath)
		if err != nil {
			return nil, fmt.Errorf("load recording %s: %w", opts.ReplayPath, err)
		}
		logger.Log.WithField("path", opts.ReplayPath).Info("Mode: replay")
		return NewReplaySource(rec, opts.Realtime), nil
	}

	if opts.RawSocket {
		check := opts.Elevated
		if check == nil {
			check = IsElevated
		}
		notify := opts.OnNotElevated
		if notify == nil {
			notify = func() {}
		}
		interval := opts.AdminInterval
		if interval <= 0 {
			interval = 5 * time.Second
		}

		if err := WaitForElevation(ctx, check, notify, interval); err != nil {
			return nil, err
		}
		if err := ApplyFirewall(ctx, opts.FirewallCmd); err != nil {
			return nil, err
		}
	}

	src, err := DialStream(ctx, opts.StreamAddr)
	if err != nil {
		return nil, err
	}
	logger.Log.WithField("addr", opts.StreamAddr).Info("Mode: stream")
	return src, nil
}
