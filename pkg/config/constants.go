package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "ASSETMANAGE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "ASSETMANAGE_APP_ENV"
	EnvPort       = "ASSETMANAGE_APP_PORT"
	EnvDBDSN      = "ASSETMANAGE_DB_DSN"
	EnvDBHost     = "ASSETMANAGE_DB_HOST"
	EnvDBUser     = "ASSETMANAGE_DB_USER"
	EnvDBName     = "ASSETMANAGE_DB_NAME"
	EnvRedisURL   = "ASSETMANAGE_REDIS_URL"
	EnvJWTSecret  = "ASSETMANAGE_JWT_SECRET"
	EnvJWTIssuer  = "ASSETMANAGE_JWT_ISSUER"
	EnvJWTExpMins = "ASSETMANAGE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
