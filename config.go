package main

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration. Values come from the optional yaml
// file pointed at by COFFEE_CONFIG, with environment variables as the
// fallback for the connection-level settings.
type Config struct {
	Addr        string      `yaml:"addr"`
	DatabaseURL string      `yaml:"database_url"`
	JWTSecret   string      `yaml:"jwt_secret"`
	Matching    MatchConfig `yaml:"matching"`
}

// MatchConfig holds every tunable knob of the matching engine.
type MatchConfig struct {
	Weights           ComponentWeights `yaml:"weights"`
	CooldownWeeks     int              `yaml:"cooldown_weeks"`
	MutualTopN        int              `yaml:"mutual_top_n"`
	WeeklyQuotaFree   int              `yaml:"weekly_quota_free"`
	WeeklyQuotaPro    int              `yaml:"weekly_quota_pro"`
	MinOverlapMinutes int              `yaml:"min_overlap_minutes"`
	MinSlotMinutes    int              `yaml:"min_slot_minutes"`
	MaxProposedSlots  int              `yaml:"max_proposed_slots"`
	DefaultRadiusKm   int              `yaml:"default_radius_km"`
}

func defaultMatchConfig() MatchConfig {
	return MatchConfig{
		Weights:           defaultWeights(),
		CooldownWeeks:     12,
		MutualTopN:        10,
		WeeklyQuotaFree:   1,
		WeeklyQuotaPro:    5,
		MinOverlapMinutes: 60,
		MinSlotMinutes:    15,
		MaxProposedSlots:  5,
		DefaultRadiusKm:   25,
	}
}

// LoadConfig builds the config from defaults, environment variables and,
// when path is non-empty, a yaml file on top.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:        getEnv("COFFEE_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   getEnv("COFFEE_JWT_SECRET", "your_secret_key_please_change_in_production"),
		Matching:    defaultMatchConfig(),
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Matching.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (m MatchConfig) validate() error {
	if diff := math.Abs(m.Weights.sum() - 1.0); diff > 1e-9 {
		return fmt.Errorf("matching weights must sum to 1.0, got %v", m.Weights.sum())
	}
	if m.CooldownWeeks < 0 {
		return fmt.Errorf("cooldown_weeks must not be negative")
	}
	if m.MutualTopN < 1 {
		return fmt.Errorf("mutual_top_n must be at least 1")
	}
	if m.WeeklyQuotaFree < 1 || m.WeeklyQuotaPro < m.WeeklyQuotaFree {
		return fmt.Errorf("weekly quotas must satisfy 1 <= free <= pro")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
