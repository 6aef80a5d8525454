package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"

	"github.com/OldStager01/scaling-advisor/api/handlers"
	"github.com/OldStager01/scaling-advisor/internal/auth"
	"github.com/OldStager01/scaling-advisor/internal/collector"
	"github.com/OldStager01/scaling-advisor/internal/decision"
	"github.com/OldStager01/scaling-advisor/internal/events"
	"github.com/OldStager01/scaling-advisor/internal/logger"
	"github.com/OldStager01/scaling-advisor/internal/metrics"
	"github.com/OldStager01/scaling-advisor/internal/normalizer"
	"github.com/OldStager01/scaling-advisor/internal/oracle"
	"github.com/OldStager01/scaling-advisor/internal/orchestrator"
	"github.com/OldStager01/scaling-advisor/internal/scaler"
	"github.com/OldStager01/scaling-advisor/internal/store"
	"github.com/OldStager01/scaling-advisor/pkg/config"
	"github.com/OldStager01/scaling-advisor/pkg/database"
	"github.com/OldStager01/scaling-advisor/pkg/database/queries"
)

// app is the fully wired advisor. Close releases whatever was opened.
type app struct {
	cfg          *config.Config
	orchestrator *orchestrator.Orchestrator
	metrics      *metrics.Metrics
	registry     *prometheus.Registry
	store        store.Store
	db           *database.DB
	audit        *queries.AuditRepository
	users        auth.UserStore
	backend      collector.Backend
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg, registry: prometheus.NewRegistry()}
	a.metrics = metrics.New(a.registry)

	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	if cfg.Database.Enabled {
		db, err := database.New(ctx, cfg.Database.ToDBConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.db = db
		a.audit = queries.NewAuditRepository(db.DB)
		logger.Info("Database connection established")
	}

	st, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.store = st

	backend, err := buildBackend(ctx, cfg, a.metrics)
	if err != nil {
		return nil, err
	}
	a.backend = backend

	controller, err := buildController(cfg)
	if err != nil {
		return nil, err
	}

	o, err := buildOracle(ctx, cfg, controller)
	if err != nil {
		return nil, err
	}

	series := cfg.Metrics.SeriesFor(cfg.Deployment)
	ref := cfg.Deployment.Ref()

	var auditWriter events.AuditWriter
	if a.audit != nil {
		auditWriter = a.audit
	}

	a.orchestrator = orchestrator.New(orchestrator.Config{
		Pipeline: orchestrator.PipelineConfig{
			Deployment: ref,
			Bounds:     cfg.Deployment.Bounds(),
			Window:     cfg.Metrics.Window,
			Normalizer: normalizer.New(),
			Aggregator: collector.NewAggregator(collector.AggregatorConfig{
				Backend: backend,
				Series:  series,
				Window:  cfg.Metrics.Window,
			}),
			Engine: decision.NewEngine(decision.Config{
				Deployment: ref,
				Window:     cfg.Metrics.Window,
				Inference: oracle.InferenceConfig{
					Temperature: cfg.Oracle.Temperature,
					MaxTokens:   cfg.Oracle.MaxTokens,
				},
				SeriesOrder: lo.Map(series, func(s collector.SeriesSpec, _ int) string { return s.ID }),
			}, o),
			Executor: scaler.NewExecutor(controller),
			Metrics:  a.metrics,
		},
		ScheduleInterval: cfg.Schedule.Interval,
		CycleTimeout:     cfg.Schedule.CycleTimeout,
		EventBuffer:      cfg.Events.BufferSize,
		AuditWriter:      auditWriter,
		Latest:           st,
	})

	users := auth.ChainUsers{}
	if a.db != nil {
		users = append(users, queries.NewUserRepository(a.db.DB))
	}
	users = append(users, auth.NewStaticUsers(cfg.API.Operator.Username, cfg.API.Operator.PasswordHash))
	a.users = users

	logger.WithFields(map[string]interface{}{
		"deployment": ref.String(),
		"backend":    backend.Name(),
		"oracle":     o.Name(),
		"controller": controller.Name(),
		"series":     len(series),
	}).Info("Advisor wired")

	ok = true
	return a, nil
}

func buildStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if !cfg.Redis.Enabled {
		return store.NewMemoryStore(cfg.Redis.TTL, cfg.Redis.History), nil
	}
	rs, err := store.NewRedisStore(ctx, store.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.TTL,
		History:  cfg.Redis.History,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rs, nil
}

// mockBases seeds the mock backend so local runs produce plausible numbers.
var mockBases = map[string]float64{
	"cpu_util":           55,
	"mem_util":           60,
	"api_requests":       1200,
	"api_latency":        180,
	"lambda_invocations": 300,
	"lambda_duration":    850,
}

func buildBackend(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (collector.Backend, error) {
	var backend collector.Backend

	switch cfg.Metrics.Backend {
	case "cloudwatch":
		cw, err := collector.NewCloudWatchBackend(ctx, collector.CloudWatchConfig{
			Region:   cfg.Metrics.Region,
			Endpoint: cfg.Metrics.Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create cloudwatch backend: %w", err)
		}
		backend = cw
	case "prometheus":
		backend = collector.NewPrometheusBackend(collector.PrometheusConfig{
			ServerURL: cfg.Metrics.Endpoint,
			Timeout:   cfg.Metrics.Timeout,
		})
	case "mock":
		mock := collector.NewMockBackend(collector.MockBackendConfig{})
		for _, s := range cfg.Metrics.SeriesFor(cfg.Deployment) {
			base := lo.ValueOr(mockBases, s.ID, 50)
			mock.SetPattern(s.ID, base, collector.ParsePattern("daily"))
		}
		backend = mock
	default:
		return nil, fmt.Errorf("unknown metrics backend %q", cfg.Metrics.Backend)
	}

	return collector.NewResilientBackend(collector.ResilientBackendConfig{
		Backend:       backend,
		MaxFailures:   cfg.Metrics.CircuitBreaker.MaxFailures,
		Timeout:       cfg.Metrics.CircuitBreaker.Timeout,
		RetryAttempts: cfg.Metrics.RetryAttempts,
		OnStateChange: m.BreakerStateChanged,
	}), nil
}

func buildController(cfg *config.Config) (scaler.Controller, error) {
	switch cfg.Scaler.Type {
	case "kubernetes":
		kc, err := scaler.NewKubernetesController(scaler.KubernetesConfig{
			Kubeconfig: cfg.Scaler.Kubeconfig,
			InCluster:  cfg.Scaler.InCluster,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create kubernetes controller: %w", err)
		}
		return kc, nil
	case "simulator":
		return scaler.NewSimulatorController(scaler.SimulatorConfig{
			InitialReplicas: cfg.Scaler.InitialReplicas,
			ProvisionDelay:  cfg.Scaler.ProvisionTime,
		}), nil
	default:
		return nil, fmt.Errorf("unknown scaler type %q", cfg.Scaler.Type)
	}
}

func buildOracle(ctx context.Context, cfg *config.Config, replicas oracle.ReplicaReader) (oracle.Oracle, error) {
	var o oracle.Oracle

	switch cfg.Oracle.Type {
	case "bedrock":
		b, err := oracle.NewBedrockOracle(ctx, oracle.BedrockConfig{
			ModelID:  cfg.Oracle.ModelID,
			Region:   cfg.Oracle.Region,
			Endpoint: cfg.Oracle.Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bedrock oracle: %w", err)
		}
		o = b
	case "rules":
		r := cfg.Oracle.Rules
		o = oracle.NewRulesOracle(oracle.RulesConfig{
			Deployment:            cfg.Deployment.Ref(),
			Replicas:              replicas,
			EmergencyCPUThreshold: r.EmergencyCPU,
			CPUHighThreshold:      r.CPUHigh,
			CPULowThreshold:       r.CPULow,
			MemoryHighThreshold:   r.MemoryHigh,
			TargetCPU:             r.TargetCPU,
			MaxScaleStep:          r.MaxScaleStep,
		})
	case "static":
		o = oracle.NewStaticOracle(cfg.Oracle.StaticReply)
	default:
		return nil, fmt.Errorf("unknown oracle type %q", cfg.Oracle.Type)
	}

	return oracle.WithTimeout(o, cfg.Oracle.Timeout), nil
}

// healthChecks names every external dependency the server should probe.
func (a *app) healthChecks() []handlers.HealthCheck {
	checks := []handlers.HealthCheck{
		{Name: "store", Check: a.store.Ping},
		{Name: "metrics_backend", Check: a.backend.HealthCheck},
	}
	if a.db != nil {
		checks = append(checks, handlers.HealthCheck{Name: "database", Check: a.db.HealthCheck})
	}
	return checks
}

// auditQuerier avoids handing the API a typed nil when no database is set.
func (a *app) auditQuerier() handlers.AuditQuerier {
	if a.audit == nil {
		return nil
	}
	return a.audit
}

func (a *app) Close() error {
	var errs []error
	if a.orchestrator != nil {
		a.orchestrator.Stop()
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
