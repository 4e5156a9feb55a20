package config

import "time"

type Registry struct {
	BaseURL  string        `env:"RNE_BASE_URL" envDefault:"https://www.registre-entreprises.tn/rne-public"`
	Timeout  time.Duration `env:"RNE_TIMEOUT" envDefault:"30s"`
	CacheTTL time.Duration `env:"RNE_CACHE_TTL" envDefault:"12h"`
}
