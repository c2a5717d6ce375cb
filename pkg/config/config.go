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
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MYGROUP_APP_ENV" required:"true"`
	Port         string `envconfig:"MYGROUP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MYGROUP_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"MYGROUP_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"MYGROUP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MYGROUP_DB_DSN"`
	Driver string `envconfig:"MYGROUP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MYGROUP_DB_HOST"`
	LegacyPort     int    `envconfig:"MYGROUP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MYGROUP_DB_USER"`
	LegacyPassword string `envconfig:"MYGROUP_DB_PASSWORD"`
	LegacyName     string `envconfig:"MYGROUP_DB_NAME"`
	LegacySSLMode  string `envconfig:"MYGROUP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MYGROUP_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"MYGROUP_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"MYGROUP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MYGROUP_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"MYGROUP_DB_SLOW_QUERY_THRESHOLD" default:"500ms"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"MYGROUP_REDIS_URL"`
	Address      string        `envconfig:"MYGROUP_REDIS_ADDR"`
	Password     string        `envconfig:"MYGROUP_REDIS_PASSWORD"`
	DB           int           `envconfig:"MYGROUP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MYGROUP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MYGROUP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MYGROUP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MYGROUP_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"MYGROUP_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Enabled reports whether a Redis endpoint has been configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"MYGROUP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MYGROUP_JWT_ISSUER" default:"mygroup"`
	ExpirationMinutes int    `envconfig:"MYGROUP_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MYGROUP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MYGROUP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MYGROUP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MYGROUP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MYGROUP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MYGROUP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MYGROUP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MYGROUP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MYGROUP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MYGROUP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MYGROUP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MYGROUP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MYGROUP_AUTO_MIGRATE" default:"false"`
	LegacyHash  bool `envconfig:"MYGROUP_ACCEPT_LEGACY_BCRYPT" default:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MYGROUP_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = DefaultSQLiteDSN
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
