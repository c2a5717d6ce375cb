package config

// EnvPrefix is handed to envconfig; every field carries an explicit key so the
// prefix only matters for fields without one.
const EnvPrefix = "MYGROUP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	DefaultSQLiteDSN = "file:mygroup.db?cache=shared&_foreign_keys=on"
)

const (
	EnvAppEnv   = "MYGROUP_APP_ENV"
	EnvPort     = "MYGROUP_APP_PORT"
	EnvLogLevel = "MYGROUP_LOG_LEVEL"

	EnvDBDSN    = "MYGROUP_DB_DSN"
	EnvDBDriver = "MYGROUP_DB_DRIVER"
	EnvDBHost   = "MYGROUP_DB_HOST"
	EnvDBUser   = "MYGROUP_DB_USER"
	EnvDBName   = "MYGROUP_DB_NAME"

	EnvRedisURL = "MYGROUP_REDIS_URL"

	EnvJWTSecret  = "MYGROUP_JWT_SECRET"
	EnvJWTIssuer  = "MYGROUP_JWT_ISSUER"
	EnvJWTExpMins = "MYGROUP_JWT_EXPIRATION_MINUTES"

	EnvUseSQLite = "MYGROUP_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
