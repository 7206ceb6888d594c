package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Catalog      CatalogConfig
	Listing      ListingConfig
	Cache        CacheConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate enforces requirements that depend on other settings.
func (c *Config) validate() error {
	switch c.Catalog.Source {
	case CatalogSourceHTTP:
		if strings.TrimSpace(c.Catalog.BaseURL) == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvCatalogBaseURL, EnvCatalogSource, CatalogSourceHTTP)
		}
	case CatalogSourceDB:
		if strings.TrimSpace(c.DB.DSN) == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvCatalogSource, CatalogSourceDB)
		}
		switch c.DB.Driver {
		case DBDriverPostgres, DBDriverSQLite:
		default:
			return fmt.Errorf("unsupported %s %q", EnvDBDriver, c.DB.Driver)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvCatalogSource, c.Catalog.Source)
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Redis.URL) == "" && strings.TrimSpace(c.Redis.Address) == "" {
		return fmt.Errorf("either %s or %s is required when %s=true", EnvRedisURL, EnvRedisAddr, EnvCacheEnabled)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`

	CORSAllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CatalogConfig struct {
	Source           string        `envconfig:"STOREFRONT_CATALOG_SOURCE" default:"http"`
	BaseURL          string        `envconfig:"STOREFRONT_CATALOG_BASE_URL"`
	RequestTimeout   time.Duration `envconfig:"STOREFRONT_CATALOG_REQUEST_TIMEOUT" default:"10s"`
	RateLimit        float64       `envconfig:"STOREFRONT_CATALOG_RATE_LIMIT" default:"0"`
	RateBurst        int           `envconfig:"STOREFRONT_CATALOG_RATE_BURST" default:"4"`
	PlaceholderImage string        `envconfig:"STOREFRONT_CATALOG_PLACEHOLDER_IMAGE" default:"/static/images/product-placeholder.png"`
	DefaultLocale    string        `envconfig:"STOREFRONT_DEFAULT_LOCALE" default:"en"`
}

type ListingConfig struct {
	Concurrency  int           `envconfig:"STOREFRONT_LISTING_CONCURRENCY" default:"8"`
	FetchTimeout time.Duration `envconfig:"STOREFRONT_LISTING_FETCH_TIMEOUT" default:"5s"`
}

type CacheConfig struct {
	Enabled   bool          `envconfig:"STOREFRONT_CACHE_ENABLED" default:"false"`
	TTL       time.Duration `envconfig:"STOREFRONT_CACHE_TTL" default:"5m"`
	Namespace string        `envconfig:"STOREFRONT_CACHE_NAMESPACE" default:"storefront"`
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
}
