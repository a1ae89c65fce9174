package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr                string
	PostgresURL         string
	Redis               RedisConfig
	KafkaBrokers        []string
	AuditTopic          string
	JWTSigningKey       string
	StrictLegalRep      bool
	ShutdownGracePeriod time.Duration
}

// RedisConfig holds the optional Redis cache settings. An empty URL means
// Redis is not configured and the division cache is skipped.
type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DivisionCacheTTL bounds how long a division-level lookup may be served
// from cache; the hierarchy changes rarely but not never.
var DivisionCacheTTL = time.Hour

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("REGISTRAR_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return Server{
		Addr:         addr,
		PostgresURL:  os.Getenv("POSTGRES_URL"),
		KafkaBrokers: brokers,
		AuditTopic:   os.Getenv("AUDIT_TOPIC"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		},
		JWTSigningKey:       jwtSigningKey,
		StrictLegalRep:      os.Getenv("REQUIRE_LEGAL_REP_FROM_MANAGEMENT") == "true",
		ShutdownGracePeriod: 10 * time.Second,
	}
}
