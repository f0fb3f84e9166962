package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Stripe        StripeConfig
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
	Env          string `envconfig:"ASSETMANAGE_APP_ENV" required:"true"`
	Port         string `envconfig:"ASSETMANAGE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ASSETMANAGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ASSETMANAGE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ASSETMANAGE_DB_DSN"`
	Driver string `envconfig:"ASSETMANAGE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ASSETMANAGE_DB_HOST"`
	LegacyPort     int    `envconfig:"ASSETMANAGE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ASSETMANAGE_DB_USER"`
	LegacyPassword string `envconfig:"ASSETMANAGE_DB_PASSWORD"`
	LegacyName     string `envconfig:"ASSETMANAGE_DB_NAME"`
	LegacySSLMode  string `envconfig:"ASSETMANAGE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ASSETMANAGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ASSETMANAGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ASSETMANAGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ASSETMANAGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ASSETMANAGE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ASSETMANAGE_REDIS_ADDR"`
	Password     string        `envconfig:"ASSETMANAGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ASSETMANAGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ASSETMANAGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ASSETMANAGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ASSETMANAGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ASSETMANAGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ASSETMANAGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ASSETMANAGE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ASSETMANAGE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ASSETMANAGE_JWT_EXPIRATION_MINUTES" required:"true"`
}

// TokenTTL returns the access token lifetime configured in minutes.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	TokenWindow     time.Duration `envconfig:"ASSETMANAGE_AUTH_RATE_LIMIT_TOKEN_WINDOW" default:"1m"`
	TokenEmailLimit int           `envconfig:"ASSETMANAGE_AUTH_RATE_LIMIT_TOKEN_EMAIL_LIMIT" default:"5"`
	TokenIPLimit    int           `envconfig:"ASSETMANAGE_AUTH_RATE_LIMIT_TOKEN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ASSETMANAGE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ASSETMANAGE_AUTO_MIGRATE" default:"false"`
}

type StripeConfig struct {
	APIKey string `envconfig:"ASSETMANAGE_STRIPE_API_KEY"`
	Env    string `envconfig:"ASSETMANAGE_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
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
