package main

import (
	"combat-meter/internal/config"
	"testing"
)

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		args      []string
		wantMode  string
		wantPath  string
		wantPort  string
		wantRaw   bool
		wantError bool
	}{
		{
			name:     "replay flag completes replay env",
			env:      map[string]string{"METER_CAPTURE_MODE": "replay"},
			args:     []string{"-replay", "file.mtrc"},
			wantMode: config.ModeReplay,
			wantPath: "file.mtrc",
			wantPort: "1338",
		},
		{
			name:     "port and raw flags",
			env:      map[string]string{"METER_PORT": "9000"},
			args:     []string{"-port", "7000", "-raw"},
			wantMode: config.ModeStream,
			wantPort: "7000",
			wantRaw:  true,
		},
		{
			name:      "replay env without path or flag",
			env:       map[string]string{"METER_CAPTURE_MODE": "replay"},
			wantError: true,
		},
		{
			name:      "unknown flag",
			args:      []string{"-seed", "1"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := loadConfig(tt.args)
			if tt.wantError {
				if err == nil {
					t.Fatalf("Expected error, got config %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if cfg.CaptureMode != tt.wantMode || cfg.ReplayPath != tt.wantPath {
				t.Errorf("Expected mode %s path %q, got %s %q", tt.wantMode, tt.wantPath, cfg.CaptureMode, cfg.ReplayPath)
			}
			if cfg.Port != tt.wantPort || cfg.RawSocket != tt.wantRaw {
				t.Errorf("Expected port %s raw %v, got %s %v", tt.wantPort, tt.wantRaw, cfg.Port, cfg.RawSocket)
			}
		})
	}
}
