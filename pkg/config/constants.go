package config

// EnvPrefix is empty because every field carries its full variable name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv             = "STOREFRONT_APP_ENV"
	EnvPort               = "STOREFRONT_APP_PORT"
	EnvDBDSN              = "STOREFRONT_DB_DSN"
	EnvDBDriver           = "STOREFRONT_DB_DRIVER"
	EnvDBHost             = "STOREFRONT_DB_HOST"
	EnvDBUser             = "STOREFRONT_DB_USER"
	EnvDBName             = "STOREFRONT_DB_NAME"
	EnvDBPassword         = "STOREFRONT_DB_PASSWORD"
	EnvUseSQLite          = "STOREFRONT_USE_SQLITE"
	EnvRedisURL           = "STOREFRONT_REDIS_URL"
	EnvCORSOrigins        = "STOREFRONT_CORS_ORIGINS"
	EnvCatalogCacheTTL    = "STOREFRONT_CATALOG_CACHE_TTL"
	EnvStrictItemNotFound = "STOREFRONT_STRICT_ITEM_NOT_FOUND"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
