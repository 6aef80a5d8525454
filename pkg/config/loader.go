package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const DefaultJWTSecret = "change-me-in-production"

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/scaling-advisor")
	}

	v.SetEnvPrefix("ADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "scaling-advisor")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.shutdown_timeout", "30s")

	v.SetDefault("deployment.cluster", "introspect2-eks")
	v.SetDefault("deployment.namespace", "default")
	v.SetDefault("deployment.name", "claims-service")
	v.SetDefault("deployment.min_replicas", 2)
	v.SetDefault("deployment.max_replicas", 10)

	v.SetDefault("metrics.backend", "cloudwatch")
	v.SetDefault("metrics.window", "30m")
	v.SetDefault("metrics.region", "us-east-1")
	v.SetDefault("metrics.timeout", "20s")
	v.SetDefault("metrics.retry_attempts", 1)
	v.SetDefault("metrics.circuit_breaker.max_failures", 5)
	v.SetDefault("metrics.circuit_breaker.timeout", "30s")

	v.SetDefault("oracle.type", "bedrock")
	v.SetDefault("oracle.model_id", "amazon.nova-lite-v1:0")
	v.SetDefault("oracle.region", "us-east-1")
	v.SetDefault("oracle.temperature", 0.1)
	v.SetDefault("oracle.max_tokens", 500)
	v.SetDefault("oracle.timeout", "30s")
	v.SetDefault("oracle.rules.emergency_cpu", 95.0)
	v.SetDefault("oracle.rules.cpu_high", 80.0)
	v.SetDefault("oracle.rules.cpu_low", 30.0)
	v.SetDefault("oracle.rules.memory_high", 85.0)
	v.SetDefault("oracle.rules.target_cpu", 70.0)
	v.SetDefault("oracle.rules.max_scale_step", 3)

	v.SetDefault("scaler.type", "kubernetes")
	v.SetDefault("scaler.in_cluster", false)
	v.SetDefault("scaler.provision_time", "10s")
	v.SetDefault("scaler.initial_replicas", 2)

	v.SetDefault("schedule.enabled", true)
	v.SetDefault("schedule.interval", "5m")
	v.SetDefault("schedule.cycle_timeout", "2m")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "scaling_advisor")
	v.SetDefault("database.user", "advisor")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.migration_timeout", "1m")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.ttl", "24h")
	v.SetDefault("redis.history", 50)

	v.SetDefault("api.enabled", true)
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "3m")
	v.SetDefault("api.idle_timeout", "60s")
	v.SetDefault("api.rate_limit", 100)
	v.SetDefault("api.jwt_secret", DefaultJWTSecret)
	v.SetDefault("api.jwt_duration", "24h")
	v.SetDefault("api.jwt_issuer", "scaling-advisor")
	v.SetDefault("api.operator.username", "operator")
	v.SetDefault("api.default_limit", 20)
	v.SetDefault("api.max_limit", 200)
	v.SetDefault("api.cors.allowed_origins", []string{"*"})
	v.SetDefault("api.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("api.cors.allowed_headers", []string{"Authorization", "Content-Type", "X-Trace-ID"})

	v.SetDefault("websocket.max_connections", 100)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.write_timeout", "10s")
	v.SetDefault("websocket.pong_timeout", "60s")
	v.SetDefault("websocket.max_message_size", 512)
	v.SetDefault("websocket.read_buffer_size", 1024)
	v.SetDefault("websocket.write_buffer_size", 1024)
	v.SetDefault("websocket.broadcast_buffer", 256)
	v.SetDefault("websocket.client_buffer", 64)

	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.port", 9090)

	v.SetDefault("events.buffer_size", 100)
}
