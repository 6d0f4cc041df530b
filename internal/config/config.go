// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

// Package config loads and validates service configuration with
// layered sources: struct defaults, an optional YAML file, and
// environment variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the model trainer.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Training   TrainingConfig   `koanf:"training"`
	Matches    MatchesConfig    `koanf:"matches"`
	OfferCache OfferCacheConfig `koanf:"offercache"`
	Models     ModelsConfig     `koanf:"models"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// TrainingConfig holds the knobs of the training pipeline.
type TrainingConfig struct {
	// MatchesPerShop caps how many matching records are sampled from a
	// single shop.
	MatchesPerShop int `koanf:"matches_per_shop"`

	// MaxMatchesForLearning caps the total pool size across all shops.
	MaxMatchesForLearning int `koanf:"max_matches_for_learning"`

	// TrainingSetFraction is the fraction of the shuffled pool used for
	// training; the remainder is held out for evaluation. Must be in
	// (0, 1).
	TrainingSetFraction float64 `koanf:"training_set_fraction"`

	// BrandLabelThreshold is the minimum similarity score at which a
	// brand prediction counts as labeled during evaluation.
	BrandLabelThreshold float64 `koanf:"brand_label_threshold"`

	// CategoryLabelThreshold is the category counterpart of
	// BrandLabelThreshold.
	CategoryLabelThreshold float64 `koanf:"category_label_threshold"`

	// Seed feeds the partition shuffle and the negative sampling so test
	// runs reproduce exactly. 0 selects the default seed.
	Seed int64 `koanf:"seed"`

	// Workers bounds the worker pool that executes training runs.
	Workers int `koanf:"workers"`
}

// MatchesConfig holds the matches-store client settings.
type MatchesConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// OfferCacheConfig holds the offer-cache client settings.
type OfferCacheConfig struct {
	URL           string        `koanf:"url"`
	OfferRoute    string        `koanf:"offer_route"`
	Timeout       time.Duration `koanf:"timeout"`
	RetryAttempts int           `koanf:"retry_attempts"`
	RetryDelay    time.Duration `koanf:"retry_delay"`
	RatePerSecond float64       `koanf:"rate_per_second"`
	RateBurst     int           `koanf:"rate_burst"`
}

// ModelsConfig holds the model artifact store settings.
type ModelsConfig struct {
	// Path is the badger directory holding persisted model artifacts.
	Path string `koanf:"path"`
}

// defaultConfig returns the built-in defaults, overridden by file and
// environment layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8084,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Training: TrainingConfig{
			MatchesPerShop:         200,
			MaxMatchesForLearning:  10000,
			TrainingSetFraction:    0.8,
			BrandLabelThreshold:    0.5,
			CategoryLabelThreshold: 0.5,
			Seed:                   0,
			Workers:                3,
		},
		Matches: MatchesConfig{
			URL:     "http://localhost:8083",
			Timeout: 30 * time.Second,
		},
		OfferCache: OfferCacheConfig{
			URL:           "http://localhost:8081",
			OfferRoute:    "/offers/",
			Timeout:       30 * time.Second,
			RetryAttempts: 5,
			RetryDelay:    5 * time.Second,
			RatePerSecond: 50,
			RateBurst:     10,
		},
		Models: ModelsConfig{
			Path: "/data/models",
		},
	}
}

// Validate rejects configurations that cannot produce a working
// service.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Training.MatchesPerShop <= 0 {
		return fmt.Errorf("training.matches_per_shop must be positive, got %d", c.Training.MatchesPerShop)
	}
	if c.Training.MaxMatchesForLearning <= 0 {
		return fmt.Errorf("training.max_matches_for_learning must be positive, got %d", c.Training.MaxMatchesForLearning)
	}
	if f := c.Training.TrainingSetFraction; f <= 0 || f >= 1 {
		return fmt.Errorf("training.training_set_fraction must be in (0,1), got %g", f)
	}
	if t := c.Training.BrandLabelThreshold; t < 0 || t > 1 {
		return fmt.Errorf("training.brand_label_threshold must be in [0,1], got %g", t)
	}
	if t := c.Training.CategoryLabelThreshold; t < 0 || t > 1 {
		return fmt.Errorf("training.category_label_threshold must be in [0,1], got %g", t)
	}
	if c.Training.Workers <= 0 {
		return fmt.Errorf("training.workers must be positive, got %d", c.Training.Workers)
	}
	if c.Matches.URL == "" {
		return fmt.Errorf("matches.url is required")
	}
	if c.OfferCache.URL == "" {
		return fmt.Errorf("offercache.url is required")
	}
	if c.OfferCache.RetryAttempts <= 0 {
		return fmt.Errorf("offercache.retry_attempts must be positive, got %d", c.OfferCache.RetryAttempts)
	}
	if c.Models.Path == "" {
		return fmt.Errorf("models.path is required")
	}
	return nil
}
