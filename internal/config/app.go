package config

import "log/slog"

type App struct {
	Name     string     `env:"APP_NAME" envDefault:"nexaway"`
	Version  string     `env:"APP_VERSION" envDefault:"dev"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`
}
