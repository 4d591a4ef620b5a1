package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr string

	// DatabaseURL selects the Postgres store; empty runs in-memory.
	DatabaseURL string

	// Patch data
	DDragonBaseURL string
	PatchVersion   string
	MetaRefresh    bool

	AppEnv string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Addr:           envStr("ADDR", ":8080"),
		DatabaseURL:    envStr("DATABASE_URL", ""),
		DDragonBaseURL: envStr("DDRAGON_BASE_URL", "https://ddragon.leagueoflegends.com"),
		PatchVersion:   envStr("PATCH_VERSION", ""),
		MetaRefresh:    envBool("META_REFRESH", true),
		AppEnv:         envStr("APP_ENV", "prod"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
