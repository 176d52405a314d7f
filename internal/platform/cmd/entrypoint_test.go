package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type entryTestConfig struct {
	DataPath string `env:"TAVERNKEEP_TEST_DATA_PATH" envDefault:"data/tavernkeep.json"`
}

func TestParseConfigFromArgsLayersFlagsOverEnv(t *testing.T) {
	t.Setenv("TAVERNKEEP_TEST_DATA_PATH", "/env/path.json")

	var cfg entryTestConfig
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringVar(&cfg.DataPath, "data", cfg.DataPath, "data file path")

	if err := ParseConfigFromArgs(&cfg, fs, []string{"-data", "/flag/path.json"}); err != nil {
		t.Fatalf("parse config from args: %v", err)
	}
	if cfg.DataPath != "/flag/path.json" {
		t.Fatalf("expected flag to win, got %q", cfg.DataPath)
	}
}

func TestParseConfigFromArgsEnvOnly(t *testing.T) {
	t.Setenv("TAVERNKEEP_TEST_DATA_PATH", "/env/path.json")

	var cfg entryTestConfig
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)

	if err := ParseConfigFromArgs(&cfg, fs, nil); err != nil {
		t.Fatalf("parse config from args: %v", err)
	}
	if cfg.DataPath != "/env/path.json" {
		t.Fatalf("expected env value, got %q", cfg.DataPath)
	}
}

func TestRunWithTelemetryValidation(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "  ", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected error for empty service name")
	}
	if err := RunWithTelemetry(context.Background(), "serve", nil); err == nil {
		t.Fatal("expected error for nil run function")
	}
}

func TestRunWithTelemetryPropagatesRunError(t *testing.T) {
	wantErr := errors.New("boom")
	err := RunWithTelemetry(context.Background(), "serve", func(context.Context) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected run error, got %v", err)
	}
}
