package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "HTTP_ADDR", "RIDE_SEARCH_DELAY", "MATCH_STRATEGY", "RIDE_RETENTION"} {
		t.Setenv(k, "")
	}
	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("defaults should load: %v", err)
	}
	if cfg.HTTPAddr != ":3001" || cfg.RideSearchDelay != 1500*time.Millisecond || cfg.MatchStrategy != StrategyFixed {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.RideRetention != 5*time.Minute {
		t.Fatalf("unexpected ride retention %s", cfg.RideRetention)
	}
}

func TestLoadServerConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "8080")
	t.Setenv("RIDE_SEARCH_DELAY", "250ms")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092 ,")
	t.Setenv("MATCH_STRATEGY", "Nearest")
	t.Setenv("RIDE_RETENTION", "90s")
	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.RideSearchDelay != 250*time.Millisecond || cfg.MatchStrategy != StrategyNearest {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.RideRetention != 90*time.Second {
		t.Fatalf("unexpected ride retention %s", cfg.RideRetention)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "b:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
}

func TestLoadServerConfigJoinsErrors(t *testing.T) {
	t.Setenv("RIDE_SEARCH_DELAY", "soon")
	t.Setenv("MATCHER_TOP_N", "0")
	t.Setenv("MATCH_STRATEGY", "auction")
	_, err := LoadServerConfig()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"RIDE_SEARCH_DELAY", "MATCHER_TOP_N", "MATCH_STRATEGY"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadConsumerConfig(t *testing.T) {
	t.Setenv("KAFKA_BROKER", "k:9092")
	cfg, err := LoadConsumerConfig()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "k:9092" || cfg.RetryAttempts != 3 {
		t.Fatalf("unexpected %+v", cfg)
	}
}
