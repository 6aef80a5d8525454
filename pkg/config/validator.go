package config

import (
	"errors"
	"fmt"

	"github.com/OldStager01/scaling-advisor/pkg/validation"
)

// Validate reports every violation at once rather than stopping at the first.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	if c.Deployment.Cluster == "" || c.Deployment.Namespace == "" || c.Deployment.Name == "" {
		errs = append(errs, errors.New("deployment.cluster, namespace and name are required"))
	}
	if c.Deployment.Namespace != "" {
		if err := validation.ValidateNamespace(c.Deployment.Namespace); err != nil {
			errs = append(errs, fmt.Errorf("deployment.namespace: %w", err))
		}
	}
	if c.Deployment.Name != "" {
		if err := validation.ValidateDeploymentName(c.Deployment.Name); err != nil {
			errs = append(errs, fmt.Errorf("deployment.name: %w", err))
		}
	}
	if err := validation.ValidateReplicaBounds(c.Deployment.MinReplicas, c.Deployment.MaxReplicas); err != nil {
		errs = append(errs, fmt.Errorf("deployment.min_replicas/max_replicas: %w", err))
	}

	validBackends := map[string]bool{"cloudwatch": true, "prometheus": true, "mock": true}
	if !validBackends[c.Metrics.Backend] {
		errs = append(errs, errors.New("metrics.backend must be one of: cloudwatch, prometheus, mock"))
	}
	if c.Metrics.Window <= 0 {
		errs = append(errs, errors.New("metrics.window must be positive"))
	}
	if c.Metrics.Backend == "prometheus" && c.Metrics.Endpoint == "" {
		errs = append(errs, errors.New("metrics.endpoint is required for the prometheus backend"))
	}
	for i, s := range c.Metrics.Series {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("metrics.series[%d].id is required", i))
		}
		if c.Metrics.Backend == "prometheus" && s.Query == "" {
			errs = append(errs, fmt.Errorf("metrics.series[%d].query is required for the prometheus backend", i))
		}
	}

	validOracles := map[string]bool{"bedrock": true, "rules": true, "static": true}
	if !validOracles[c.Oracle.Type] {
		errs = append(errs, errors.New("oracle.type must be one of: bedrock, rules, static"))
	}
	if c.Oracle.Type == "bedrock" && c.Oracle.ModelID == "" {
		errs = append(errs, errors.New("oracle.model_id is required for the bedrock oracle"))
	}
	if c.Oracle.Temperature < 0 || c.Oracle.Temperature > 1 {
		errs = append(errs, errors.New("oracle.temperature must be between 0 and 1"))
	}
	if c.Oracle.MaxTokens <= 0 {
		errs = append(errs, errors.New("oracle.max_tokens must be positive"))
	}
	if c.Oracle.Type == "rules" && c.Oracle.Rules.CPUHigh <= c.Oracle.Rules.CPULow {
		errs = append(errs, errors.New("oracle.rules.cpu_high must be greater than cpu_low"))
	}

	validScalers := map[string]bool{"kubernetes": true, "simulator": true}
	if !validScalers[c.Scaler.Type] {
		errs = append(errs, errors.New("scaler.type must be one of: kubernetes, simulator"))
	}

	if c.Schedule.Enabled && c.Schedule.Interval <= 0 {
		errs = append(errs, errors.New("schedule.interval must be positive"))
	}
	if c.Schedule.CycleTimeout < 0 {
		errs = append(errs, errors.New("schedule.cycle_timeout must not be negative"))
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, errors.New("database.host is required"))
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, errors.New("database.port must be between 1 and 65535"))
		}
		if c.Database.Name == "" {
			errs = append(errs, errors.New("database.name is required"))
		}
		if c.Database.MaxConnections <= 0 {
			errs = append(errs, errors.New("database.max_connections must be positive"))
		}
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required"))
	}

	if c.API.Enabled {
		if c.API.Port <= 0 || c.API.Port > 65535 {
			errs = append(errs, errors.New("api.port must be between 1 and 65535"))
		}
		if c.App.Mode == "production" && c.API.JWTSecret == DefaultJWTSecret {
			errs = append(errs, errors.New("api.jwt_secret must be changed in production"))
		}
	}

	if c.Prometheus.Enabled && c.API.Enabled && c.Prometheus.Port == c.API.Port {
		errs = append(errs, errors.New("prometheus.port must differ from api.port"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %w", errors.Join(errs...))
	}

	return nil
}
