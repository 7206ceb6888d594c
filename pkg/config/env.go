package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	CatalogSourceHTTP = "http"
	CatalogSourceDB   = "db"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "STOREFRONT_APP_ENV"
	EnvPort     = "STOREFRONT_APP_PORT"
	EnvLogLevel = "STOREFRONT_LOG_LEVEL"
	EnvCORS     = "STOREFRONT_CORS_ALLOWED_ORIGINS"

	EnvCatalogSource      = "STOREFRONT_CATALOG_SOURCE"
	EnvCatalogBaseURL     = "STOREFRONT_CATALOG_BASE_URL"
	EnvCatalogTimeout     = "STOREFRONT_CATALOG_REQUEST_TIMEOUT"
	EnvCatalogRateLimit   = "STOREFRONT_CATALOG_RATE_LIMIT"
	EnvCatalogRateBurst   = "STOREFRONT_CATALOG_RATE_BURST"
	EnvCatalogPlaceholder = "STOREFRONT_CATALOG_PLACEHOLDER_IMAGE"
	EnvDefaultLocale      = "STOREFRONT_DEFAULT_LOCALE"

	EnvListingConcurrency  = "STOREFRONT_LISTING_CONCURRENCY"
	EnvListingFetchTimeout = "STOREFRONT_LISTING_FETCH_TIMEOUT"

	EnvCacheEnabled   = "STOREFRONT_CACHE_ENABLED"
	EnvCacheTTL       = "STOREFRONT_CACHE_TTL"
	EnvCacheNamespace = "STOREFRONT_CACHE_NAMESPACE"

	EnvDBDSN    = "STOREFRONT_DB_DSN"
	EnvDBDriver = "STOREFRONT_DB_DRIVER"

	EnvRedisURL  = "STOREFRONT_REDIS_URL"
	EnvRedisAddr = "STOREFRONT_REDIS_ADDR"

	EnvAutoMigrate = "STOREFRONT_AUTO_MIGRATE"
)
