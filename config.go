package main

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is read from the environment at startup. API_URL is the base
// URL the client SDK targets and defaults to a placeholder; the server
// itself needs the port, the token secret and optionally a database
// DSN. Without DATABASE_URL the server runs on seeded in-memory data.
type Config struct {
	APIBaseURL  string `env:"API_URL" envDefault:"https://api.example.com"`
	Port        int    `env:"PORT" envDefault:"8080"`
	Env         string `env:"APP_ENV" envDefault:"dev"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecret   string `env:"JWT_SECRET" envDefault:"secret-random-string"`
	DatabaseURL string `env:"DATABASE_URL"`
}

// IsProd reports whether we're running in production.
func (c Config) IsProd() bool {
	return c.Env == "prod"
}

// LoadConfig reads an optional .env file and parses the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}
