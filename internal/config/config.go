// Package config loads process configuration from environment variables and
// an optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all settings for the server and the ingest tool.
type Config struct {
	Server ServerConfig
	Neo4j  Neo4jConfig
	Search SearchConfig
	Cache  CacheConfig
	Auth   AuthConfig
	Log    LogConfig
}

type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type Neo4jConfig struct {
	URI          string
	User         string
	Password     string
	Database     string
	QueryTimeout time.Duration
}

type SearchConfig struct {
	Addresses []string
	Index     string
}

type CacheConfig struct {
	Enabled bool
	Addr    string
	TTL     time.Duration
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type LogConfig struct {
	Level string
	JSON  bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	// Missing .env is fine in containerized deployments.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PELICULAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("neo4j.uri", "bolt://localhost:7687")
	v.SetDefault("neo4j.user", "neo4j")
	v.SetDefault("neo4j.database", "neo4j")
	v.SetDefault("neo4j.query_timeout", 15*time.Second)
	v.SetDefault("search.addresses", "http://localhost:9200")
	v.SetDefault("search.index", "movies")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	cfg := &Config{
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Neo4j: Neo4jConfig{
			URI:          v.GetString("neo4j.uri"),
			User:         v.GetString("neo4j.user"),
			Password:     v.GetString("neo4j.password"),
			Database:     v.GetString("neo4j.database"),
			QueryTimeout: v.GetDuration("neo4j.query_timeout"),
		},
		Search: SearchConfig{
			Addresses: splitList(v.GetString("search.addresses")),
			Index:     v.GetString("search.index"),
		},
		Cache: CacheConfig{
			Enabled: v.GetBool("cache.enabled"),
			Addr:    v.GetString("cache.addr"),
			TTL:     v.GetDuration("cache.ttl"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
			TokenTTL:  v.GetDuration("auth.token_ttl"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			JSON:  v.GetBool("log.json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	missing := []string{}
	if c.Neo4j.Password == "" {
		missing = append(missing, "PELICULAS_NEO4J_PASSWORD")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "PELICULAS_AUTH_JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
