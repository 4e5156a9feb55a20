package config

import "time"

type Worker struct {
	RecalcInterval time.Duration `env:"RECALC_INTERVAL" envDefault:"1h"`
	QueueName      string        `env:"QUEUE_NAME" envDefault:"default"`
	Concurrency    int           `env:"QUEUE_CONCURRENCY" envDefault:"2"`
}
