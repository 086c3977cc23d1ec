package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"*"`
	}

	Database struct {
		// The connection string is checked under two names; DATABASE_URL wins.
		URL         string `env:"DATABASE_URL"`
		PostgresURL string `env:"POSTGRES_URL"`
	}
}

func Load() *Config {
	// .env is optional; in production the variables are set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}

// DSN returns the first non-empty connection string. Empty means no database
// was configured; the first query will fail instead of startup.
func (c *Config) DSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return c.Database.PostgresURL
}
