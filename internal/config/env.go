// Package config loads process settings from the environment and engine
// tuning from a TOML file.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreSQLite = "sqlite"
	StoreBadger = "badger"
)

// Env holds settings read from SHARPEN_* variables.
type Env struct {
	DBPath      string `env:"SHARPEN_DB"`
	Store       string `env:"SHARPEN_STORE" envDefault:"sqlite"`
	BadgerDir   string `env:"SHARPEN_BADGER_DIR"`
	ConfigPath  string `env:"SHARPEN_CONFIG"`
	CatalogPath string `env:"SHARPEN_CATALOG"`
	UserID      string `env:"SHARPEN_USER" envDefault:"default"`
	Premium     *bool  `env:"SHARPEN_PREMIUM"`
	LogLevel    string `env:"SHARPEN_LOG_LEVEL" envDefault:"info"`
	HTTPAddr    string `env:"SHARPEN_HTTP_ADDR" envDefault:"127.0.0.1:8089"`
	Timezone    string `env:"SHARPEN_TIMEZONE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv parses the environment and fills unset paths with XDG defaults.
func LoadEnv() (Env, error) {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return Env{}, err
	}
	if e.DBPath == "" {
		e.DBPath = DefaultDBPath()
	}
	if e.BadgerDir == "" {
		e.BadgerDir = DefaultBadgerDir()
	}
	if e.ConfigPath == "" {
		e.ConfigPath = DefaultConfigPath()
	}
	e.Store = strings.ToLower(e.Store)
	if e.Store != StoreSQLite && e.Store != StoreBadger {
		return Env{}, fmt.Errorf("SHARPEN_STORE must be %q or %q, got %q", StoreSQLite, StoreBadger, e.Store)
	}
	return e, nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (e Env) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Location resolves Timezone, falling back to the local zone.
func (e Env) Location() (*time.Location, error) {
	if e.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", e.Timezone, err)
	}
	return loc, nil
}
