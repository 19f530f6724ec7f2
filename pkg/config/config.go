package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App      AppConfig
	Service  ServiceConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Pricing  PricingConfig
	Cart     CartConfig
	Cron     CronConfig
	Features FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VELORA_APP_ENV" required:"true"`
	Port         string `envconfig:"VELORA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VELORA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VELORA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"VELORA_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"VELORA_DB_DSN"`
	Driver string `envconfig:"VELORA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VELORA_DB_HOST"`
	LegacyPort     int    `envconfig:"VELORA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VELORA_DB_USER"`
	LegacyPassword string `envconfig:"VELORA_DB_PASSWORD"`
	LegacyName     string `envconfig:"VELORA_DB_NAME"`
	LegacySSLMode  string `envconfig:"VELORA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VELORA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VELORA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VELORA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VELORA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VELORA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VELORA_REDIS_ADDR"`
	Password     string        `envconfig:"VELORA_REDIS_PASSWORD"`
	DB           int           `envconfig:"VELORA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VELORA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VELORA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VELORA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VELORA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VELORA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"VELORA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"VELORA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"VELORA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"VELORA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VELORA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VELORA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VELORA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VELORA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VELORA_ARGON_KEY_LEN" default:"32"`
}

// PricingConfig carries the shipping rule applied to every quote. The
// amounts are decimal strings so money math never passes through floats.
type PricingConfig struct {
	FreeShippingThreshold decimal.Decimal `envconfig:"VELORA_FREE_SHIPPING_THRESHOLD" default:"2000"`
	BaseShippingCost      decimal.Decimal `envconfig:"VELORA_BASE_SHIPPING_COST" default:"5.99"`
}

func (p PricingConfig) validate() error {
	if p.FreeShippingThreshold.IsNegative() {
		return fmt.Errorf("free shipping threshold must not be negative")
	}
	if p.BaseShippingCost.IsNegative() {
		return fmt.Errorf("base shipping cost must not be negative")
	}
	return nil
}

type CartConfig struct {
	// CouponSessionTTL bounds how long an applied coupon survives in the
	// session slot before Redis expires it.
	CouponSessionTTL time.Duration `envconfig:"VELORA_CART_COUPON_SESSION_TTL" default:"24h"`
}

type CronConfig struct {
	CartPruneInterval time.Duration `envconfig:"VELORA_CRON_CART_PRUNE_INTERVAL" default:"1h"`
	CartMaxIdle       time.Duration `envconfig:"VELORA_CRON_CART_MAX_IDLE" default:"720h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VELORA_AUTO_MIGRATE" default:"false"`
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
