package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "FRESHFOLD_DB_DSN"
	EnvDBHost = "FRESHFOLD_DB_HOST"
	EnvDBUser = "FRESHFOLD_DB_USER"
	EnvDBName = "FRESHFOLD_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Square       SquareConfig
	Orders       OrdersConfig
	Payments     PaymentsConfig
	Cron         CronConfig
	CORS         CORSConfig
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
	Env          string `envconfig:"FRESHFOLD_APP_ENV" required:"true"`
	Port         string `envconfig:"FRESHFOLD_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FRESHFOLD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FRESHFOLD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FRESHFOLD_DB_DSN"`
	Driver string `envconfig:"FRESHFOLD_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FRESHFOLD_DB_HOST"`
	LegacyPort     int    `envconfig:"FRESHFOLD_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FRESHFOLD_DB_USER"`
	LegacyPassword string `envconfig:"FRESHFOLD_DB_PASSWORD"`
	LegacyName     string `envconfig:"FRESHFOLD_DB_NAME"`
	LegacySSLMode  string `envconfig:"FRESHFOLD_DB_SSLMODE" default:"disable"`

	LogQueries bool `envconfig:"FRESHFOLD_DB_LOG_QUERIES" default:"false"`

	MaxOpenConns    int           `envconfig:"FRESHFOLD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FRESHFOLD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FRESHFOLD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FRESHFOLD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FRESHFOLD_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FRESHFOLD_REDIS_ADDR"`
	Password     string        `envconfig:"FRESHFOLD_REDIS_PASSWORD"`
	DB           int           `envconfig:"FRESHFOLD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FRESHFOLD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FRESHFOLD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FRESHFOLD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FRESHFOLD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FRESHFOLD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FRESHFOLD_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FRESHFOLD_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FRESHFOLD_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FRESHFOLD_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FRESHFOLD_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"FRESHFOLD_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON string `envconfig:"FRESHFOLD_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	CatalogTopic        string `envconfig:"FRESHFOLD_PUBSUB_CATALOG_TOPIC" default:"ff-catalog-changes"`
	CatalogSubscription string `envconfig:"FRESHFOLD_PUBSUB_CATALOG_SUBSCRIPTION" required:"true"`
	OrdersTopic         string `envconfig:"FRESHFOLD_PUBSUB_ORDERS_TOPIC" default:"ff-order-events"`
}

type SquareConfig struct {
	AccessToken   string `envconfig:"FRESHFOLD_SQUARE_ACCESS_TOKEN"`
	Env           string `envconfig:"FRESHFOLD_SQUARE_ENV" default:"sandbox"`
	WebhookSecret string `envconfig:"FRESHFOLD_SQUARE_WEBHOOK_SECRET"`
	LocationID    string `envconfig:"FRESHFOLD_SQUARE_LOCATION_ID"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

type OrdersConfig struct {
	NumberPrefix   string        `envconfig:"FRESHFOLD_ORDER_NUMBER_PREFIX" default:"ORD-"`
	NumberAttempts int           `envconfig:"FRESHFOLD_ORDER_NUMBER_ATTEMPTS" default:"10"`
	PendingTTL     time.Duration `envconfig:"FRESHFOLD_ORDER_PENDING_TTL" default:"240h"`
}

type PaymentsConfig struct {
	WebhookURL         string `envconfig:"FRESHFOLD_PAYMENTS_WEBHOOK_URL"`
	DefaultRedirectURL string `envconfig:"FRESHFOLD_PAYMENTS_DEFAULT_REDIRECT_URL"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"FRESHFOLD_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"FRESHFOLD_CRON_LOCK_TTL" default:"55m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FRESHFOLD_CORS_ALLOWED_ORIGINS"`
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
