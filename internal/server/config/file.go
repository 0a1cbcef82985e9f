package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. EDUTRACK_SECRET_KEY.
const EnvPrefix = "EDUTRACK"

// parseFile overlays values from an optional config file (JSON or YAML,
// chosen by extension) and from EDUTRACK_* environment variables onto cfg.
// Keys absent from both sources keep their current value.
func parseFile(cfg *Config, path string) error {
	v := viper.New()

	v.SetDefault("http_addr", cfg.HTTPAddr)
	v.SetDefault("api_prefix", cfg.APIPrefix)
	v.SetDefault("database_dsn", cfg.DatabaseDSN)
	v.SetDefault("secret_key", cfg.SecretKey)
	v.SetDefault("session_validity_duration", cfg.SessionValidityDuration)
	v.SetDefault("bcrypt_cost", cfg.BcryptCost)
	v.SetDefault("enforce_credential_version", cfg.EnforceCredentialVersion)
	v.SetDefault("redis_addr", cfg.RedisAddr)
	v.SetDefault("redis_password", cfg.RedisPassword)
	v.SetDefault("redis_db", cfg.RedisDB)
	v.SetDefault("exercise_cache_ttl", cfg.ExerciseCacheTTL)
	v.SetDefault("cors_allowed_origins", cfg.CORSAllowedOrigins)
	v.SetDefault("shutdown_timeout", cfg.ShutdownTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg.HTTPAddr = v.GetString("http_addr")
	cfg.APIPrefix = v.GetString("api_prefix")
	cfg.DatabaseDSN = v.GetString("database_dsn")
	cfg.SecretKey = v.GetString("secret_key")
	cfg.SessionValidityDuration = v.GetDuration("session_validity_duration")
	cfg.BcryptCost = v.GetInt("bcrypt_cost")
	cfg.EnforceCredentialVersion = v.GetBool("enforce_credential_version")
	cfg.RedisAddr = v.GetString("redis_addr")
	cfg.RedisPassword = v.GetString("redis_password")
	cfg.RedisDB = v.GetInt("redis_db")
	cfg.ExerciseCacheTTL = v.GetDuration("exercise_cache_ttl")
	cfg.CORSAllowedOrigins = stringSlice(v.Get("cors_allowed_origins"))
	cfg.ShutdownTimeout = v.GetDuration("shutdown_timeout")

	return nil
}

// stringSlice accepts either a list (config file) or a comma separated
// string (environment).
func stringSlice(raw any) []string {
	var parts []string
	switch val := raw.(type) {
	case []string:
		parts = val
	case []any:
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
	case string:
		parts = strings.Split(val, ",")
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
