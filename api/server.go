// Package api serves the trigger webhook, audit queries and the live audit
// stream over HTTP.
//
// @title Scaling Advisor API
// @version 1.0
// @description Metrics-driven replica recommendations with an auditable decision trail.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/OldStager01/scaling-advisor/api/docs"
	"github.com/OldStager01/scaling-advisor/api/handlers"
	"github.com/OldStager01/scaling-advisor/api/middleware"
	"github.com/OldStager01/scaling-advisor/api/websocket"
	"github.com/OldStager01/scaling-advisor/internal/auth"
	"github.com/OldStager01/scaling-advisor/internal/store"
	"github.com/OldStager01/scaling-advisor/pkg/config"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

const (
	maxRequestBytes     = 1 << 20
	triggersPerMinute   = 30
	defaultTokenExpires = 24 * time.Hour
)

// Options carries the collaborators the routes are served from. Audit may
// be nil when no database is configured.
type Options struct {
	Mode       string
	Deployment models.DeploymentRef
	Runner     handlers.CycleRunner
	Events     <-chan *models.Event
	Users      auth.UserStore
	Audit      handlers.AuditQuerier
	Store      store.Store
	Checks     []handlers.HealthCheck
	WebSocket  *config.WebSocketConfig
}

type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	config      config.APIConfig
	opts        Options
	authService *auth.Service
	wsHub       *websocket.Hub
	wsBridge    *websocket.EventBridge
	stopHub     context.CancelFunc
}

func NewServer(cfg config.APIConfig, opts Options) *Server {
	switch opts.Mode {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	if opts.Store == nil {
		opts.Store = store.NewMemoryStore(0, store.DefaultHistory)
	}
	if opts.Users == nil {
		opts.Users = auth.ChainUsers{}
	}

	duration := cfg.JWTDuration
	if duration <= 0 {
		duration = defaultTokenExpires
	}

	hubCtx, stopHub := context.WithCancel(context.Background())

	s := &Server{
		router:      gin.New(),
		config:      cfg,
		opts:        opts,
		authService: auth.NewService(cfg.JWTSecret, duration, auth.WithIssuer(cfg.JWTIssuer)),
		wsHub:       websocket.NewHub(opts.WebSocket),
		stopHub:     stopHub,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go s.wsHub.Run(hubCtx)
	if opts.Events != nil {
		s.wsBridge = websocket.NewEventBridge(s.wsHub, opts.Events)
		s.wsBridge.Start()
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.TraceID())
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.CORS(s.config.CORS))
	s.router.Use(middleware.RequestSizeLimit(maxRequestBytes))
	s.router.Use(middleware.RateLimit(middleware.NewRateLimiter(s.config.RateLimit, time.Minute)))
}

func (s *Server) setupRoutes() {
	limits := handlers.NewQueryLimits(s.config)

	healthHandler := handlers.NewHealthHandler(s.opts.Checks...)
	authHandler := handlers.NewAuthHandler(s.opts.Users, s.authService)
	triggerHandler := handlers.NewTriggerHandler(s.opts.Runner)
	auditHandler := handlers.NewAuditHandler(s.opts.Audit, s.opts.Deployment, limits)
	decisionHandler := handlers.NewDecisionHandler(s.opts.Store, s.opts.Deployment, limits)

	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)

	s.router.POST("/auth/login", middleware.LoginRateLimit(), authHandler.Login)

	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	jwtAuth := middleware.JWTAuth(s.authService)

	s.router.GET("/ws", jwtAuth, websocket.ServeWebSocket(s.wsHub))

	routeLimits := middleware.RouteLimits{
		"/v1/triggers": middleware.NewRateLimiter(triggersPerMinute, time.Minute),
	}

	v1 := s.router.Group("/v1")
	v1.Use(jwtAuth, routeLimits.Middleware())
	{
		if s.opts.Runner != nil {
			v1.POST("/triggers", triggerHandler.Trigger)
		}

		v1.GET("/audit/recent", auditHandler.Recent)
		v1.GET("/audit/stats", auditHandler.Stats)

		v1.GET("/decisions/latest", decisionHandler.Latest)
		v1.GET("/decisions/history", decisionHandler.History)
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}
	defer s.stopHub()

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) AuthService() *auth.Service {
	return s.authService
}

func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}
