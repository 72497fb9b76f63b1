package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Service ServiceConfig
	DB      DBConfig
	Redis   RedisConfig
	Pricing PricingConfig
	GCP     GCPConfig
	PubSub  PubSubConfig
	Outbox  OutboxConfig

	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BAREX_APP_ENV" required:"true"`
	Port         string `envconfig:"BAREX_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BAREX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BAREX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BAREX_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BAREX_DB_DSN"`
	Driver string `envconfig:"BAREX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BAREX_DB_HOST"`
	LegacyPort     int    `envconfig:"BAREX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BAREX_DB_USER"`
	LegacyPassword string `envconfig:"BAREX_DB_PASSWORD"`
	LegacyName     string `envconfig:"BAREX_DB_NAME"`
	LegacySSLMode  string `envconfig:"BAREX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BAREX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BAREX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BAREX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BAREX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BAREX_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BAREX_REDIS_ADDR"`
	Password     string        `envconfig:"BAREX_REDIS_PASSWORD"`
	DB           int           `envconfig:"BAREX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BAREX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BAREX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BAREX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BAREX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BAREX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PricingConfig tunes the exchange rules. The defaults match the launch
// behavior: +1% per unit sold, 5% of the gap back toward base every 2 minutes.
type PricingConfig struct {
	IncreaseRate  string        `envconfig:"BAREX_PRICING_INCREASE_RATE" default:"0.01"`
	DecayFactor   string        `envconfig:"BAREX_PRICING_DECAY_FACTOR" default:"0.05"`
	DecayInterval time.Duration `envconfig:"BAREX_PRICING_DECAY_INTERVAL" default:"2m"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BAREX_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"BAREX_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"BAREX_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"BAREX_PUBSUB_ORDERS_TOPIC" required:"true"`
	OrdersSubscription string `envconfig:"BAREX_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
}

type FeatureFlagsConfig struct {
	// AutoMigrate runs goose up on boot; honored in dev only.
	AutoMigrate bool `envconfig:"BAREX_AUTO_MIGRATE" default:"false"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"BAREX_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"BAREX_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"BAREX_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
