package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// VELORA_-prefixed tags so the prefix only applies to untagged fields.
const EnvPrefix = "VELORA"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, error
// messages).
const (
	EnvAppEnv   = "VELORA_APP_ENV"
	EnvPort     = "VELORA_APP_PORT"
	EnvDBDSN    = "VELORA_DB_DSN"
	EnvDBHost   = "VELORA_DB_HOST"
	EnvDBUser   = "VELORA_DB_USER"
	EnvDBName   = "VELORA_DB_NAME"
	EnvRedisURL = "VELORA_REDIS_URL"

	EnvJWTSecret              = "VELORA_JWT_SECRET"
	EnvJWTIssuer              = "VELORA_JWT_ISSUER"
	EnvJWTExpMins             = "VELORA_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "VELORA_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
