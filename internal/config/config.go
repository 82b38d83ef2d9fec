package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Режимы источника захвата
const (
	ModeStream = "stream"
	ModeReplay = "replay"
)

// Config - конфигурация процесса. Источник - переменные окружения,
// флаги командной строки перекрывают их в cmd/meter.
type Config struct {
	Port string `env:"METER_PORT" envDefault:"1338"`

	CaptureMode    string `env:"METER_CAPTURE_MODE" envDefault:"stream"`
	ReplayPath     string `env:"METER_REPLAY_PATH"`
	ReplayRealtime bool   `env:"METER_REPLAY_REALTIME"`
	StreamAddr     string `env:"METER_STREAM_ADDR" envDefault:"127.0.0.1:6040"`

	// RawSocket требует повышенных прав и хука фаервола перед стартом захвата
	RawSocket   bool   `env:"METER_RAW_SOCKET"`
	FirewallCmd string `env:"METER_FIREWALL_CMD"`

	// RecordDir - куда сохранять запись захвата при остановке. Пусто - не записывать.
	RecordDir string `env:"METER_RECORD_DIR"`

	PublishInterval time.Duration `env:"METER_PUBLISH_INTERVAL" envDefault:"100ms"`
	AdminInterval   time.Duration `env:"METER_ADMIN_INTERVAL" envDefault:"5s"`
}

// Parse читает конфигурацию из окружения без проверки: флаги еще могут ее дополнить
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Load читает конфигурацию из окружения и проверяет ее
func Load() (Config, error) {
	cfg, err := Parse()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.CaptureMode {
	case ModeStream:
		if c.StreamAddr == "" {
			return fmt.Errorf("stream mode requires METER_STREAM_ADDR")
		}
	case ModeReplay:
		if c.ReplayPath == "" {
			return fmt.Errorf("replay mode requires METER_REPLAY_PATH")
		}
	default:
		return fmt.Errorf("unknown capture mode %q", c.CaptureMode)
	}
	if c.PublishInterval <= 0 {
		return fmt.Errorf("publish interval must be positive, got %s", c.PublishInterval)
	}
	if c.AdminInterval <= 0 {
		return fmt.Errorf("admin interval must be positive, got %s", c.AdminInterval)
	}
	return nil
}
