package config

import (
	"fmt"
	"time"
)

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

// Server holds process-level options for `vco serve`.
type Server struct {
	Addr        string
	BasePath    string
	Workspace   string
	Backend     Backend
	RedisURL    string
	JWTSecret   string
	TokenTTL    time.Duration
	WebhookURLs []string
	Env         string
	LogLevel    string
}

func DefaultServer() Server {
	return Server{
		Addr:      "127.0.0.1:8080",
		BasePath:  "/v1",
		Workspace: ".",
		Backend:   BackendSQLite,
		TokenTTL:  24 * time.Hour,
		Env:       "development",
		LogLevel:  "info",
	}
}

func (s Server) Validate() error {
	switch s.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if s.RedisURL == "" {
			return fmt.Errorf("redis backend requires a redis url")
		}
	default:
		return fmt.Errorf("unknown kv backend %q", s.Backend)
	}
	if s.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if s.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}
	return nil
}
