package config

import (
	"time"

	"github.com/OldStager01/scaling-advisor/internal/collector"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Oracle     OracleConfig     `mapstructure:"oracle"`
	Scaler     ScalerConfig     `mapstructure:"scaler"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	API        APIConfig        `mapstructure:"api"`
	WebSocket  WebSocketConfig  `mapstructure:"websocket"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Events     EventsConfig     `mapstructure:"events"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Mode            string        `mapstructure:"mode"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DeploymentConfig struct {
	Cluster     string `mapstructure:"cluster"`
	Namespace   string `mapstructure:"namespace"`
	Name        string `mapstructure:"name"`
	MinReplicas int    `mapstructure:"min_replicas"`
	MaxReplicas int    `mapstructure:"max_replicas"`
}

func (d DeploymentConfig) Ref() models.DeploymentRef {
	return models.DeploymentRef{Cluster: d.Cluster, Namespace: d.Namespace, Name: d.Name}
}

func (d DeploymentConfig) Bounds() models.Bounds {
	return models.Bounds{Min: d.MinReplicas, Max: d.MaxReplicas}
}

type MetricsConfig struct {
	// Backend is one of cloudwatch, prometheus, mock.
	Backend        string                 `mapstructure:"backend"`
	Window         time.Duration          `mapstructure:"window"`
	Region         string                 `mapstructure:"region"`
	Endpoint       string                 `mapstructure:"endpoint"`
	Timeout        time.Duration          `mapstructure:"timeout"`
	RetryAttempts  int                    `mapstructure:"retry_attempts"`
	CircuitBreaker CircuitBreakerConfig   `mapstructure:"circuit_breaker"`
	Series         []collector.SeriesSpec `mapstructure:"series"`
}

// SeriesFor returns the configured series, or the defaults for the
// deployment's cluster and namespace when none are configured.
func (m MetricsConfig) SeriesFor(d DeploymentConfig) []collector.SeriesSpec {
	if len(m.Series) > 0 {
		return m.Series
	}
	return collector.DefaultSeries(d.Cluster, d.Namespace)
}

type CircuitBreakerConfig struct {
	MaxFailures int           `mapstructure:"max_failures"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type OracleConfig struct {
	// Type is one of bedrock, rules, static.
	Type        string        `mapstructure:"type"`
	ModelID     string        `mapstructure:"model_id"`
	Region      string        `mapstructure:"region"`
	Endpoint    string        `mapstructure:"endpoint"`
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int32         `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	StaticReply string        `mapstructure:"static_reply"`
	Rules       RulesConfig   `mapstructure:"rules"`
}

type RulesConfig struct {
	EmergencyCPU float64 `mapstructure:"emergency_cpu"`
	CPUHigh      float64 `mapstructure:"cpu_high"`
	CPULow       float64 `mapstructure:"cpu_low"`
	MemoryHigh   float64 `mapstructure:"memory_high"`
	TargetCPU    float64 `mapstructure:"target_cpu"`
	MaxScaleStep int     `mapstructure:"max_scale_step"`
}

type ScalerConfig struct {
	// Type is one of kubernetes, simulator.
	Type            string        `mapstructure:"type"`
	Kubeconfig      string        `mapstructure:"kubeconfig"`
	InCluster       bool          `mapstructure:"in_cluster"`
	ProvisionTime   time.Duration `mapstructure:"provision_time"`
	InitialReplicas int           `mapstructure:"initial_replicas"`
}

type ScheduleConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Interval     time.Duration `mapstructure:"interval"`
	CycleTimeout time.Duration `mapstructure:"cycle_timeout"`
}

type DatabaseConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	Name             string        `mapstructure:"name"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	MaxConnections   int           `mapstructure:"max_connections"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time"`
	PingTimeout      time.Duration `mapstructure:"ping_timeout"`
	MigrationTimeout time.Duration `mapstructure:"migration_timeout"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
	History  int           `mapstructure:"history"`
}

type APIConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	RateLimit    int           `mapstructure:"rate_limit"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTDuration  time.Duration `mapstructure:"jwt_duration"`
	JWTIssuer    string        `mapstructure:"jwt_issuer"`
	// Operator is the single account allowed to log in. PasswordHash is a
	// bcrypt hash.
	Operator     OperatorConfig `mapstructure:"operator"`
	DefaultLimit int            `mapstructure:"default_limit"`
	MaxLimit     int            `mapstructure:"max_limit"`
	CORS         CORSConfig     `mapstructure:"cors"`
}

type OperatorConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type WebSocketConfig struct {
	MaxConnections  int           `mapstructure:"max_connections"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PongTimeout     time.Duration `mapstructure:"pong_timeout"`
	MaxMessageSize  int64         `mapstructure:"max_message_size"`
	ReadBufferSize  int           `mapstructure:"read_buffer_size"`
	WriteBufferSize int           `mapstructure:"write_buffer_size"`
	BroadcastBuffer int           `mapstructure:"broadcast_buffer"`
	ClientBuffer    int           `mapstructure:"client_buffer"`
}

type PrometheusConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

type EventsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}
