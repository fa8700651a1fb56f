// Package config reads the process configuration from the environment.
package config

import "os"

type Config struct {
	Addr      string
	DBPath    string
	JWTSecret string
}

func Load() *Config {
	return &Config{
		Addr:      getEnv("ADDR", ":8080"),
		DBPath:    getEnv("SADHANA_DB", "sadhana.db"),
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
