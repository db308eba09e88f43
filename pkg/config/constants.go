package config

// EnvPrefix is the envconfig prefix; individual fields carry explicit
// EVENTMART_ names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "EVENTMART_APP_ENV"
	EnvPort       = "EVENTMART_APP_PORT"
	EnvDBDSN      = "EVENTMART_DB_DSN"
	EnvDBHost     = "EVENTMART_DB_HOST"
	EnvDBUser     = "EVENTMART_DB_USER"
	EnvDBName     = "EVENTMART_DB_NAME"
	EnvRedisURL   = "EVENTMART_REDIS_URL"
	EnvJWTSecret  = "EVENTMART_JWT_SECRET"
	EnvJWTIssuer  = "EVENTMART_JWT_ISSUER"
	EnvJWTExpMins = "EVENTMART_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
