package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "mp"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "MP_DB_DSN"
	EnvDBHost = "MP_DB_HOST"
	EnvDBUser = "MP_DB_USER"
	EnvDBName = "MP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Activity      ActivityConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"MP_APP_ENV" required:"true"`
	Port         string `envconfig:"MP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MP_DB_DSN"`
	Driver string `envconfig:"MP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MP_DB_HOST"`
	LegacyPort     int    `envconfig:"MP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MP_DB_USER"`
	LegacyPassword string `envconfig:"MP_DB_PASSWORD"`
	LegacyName     string `envconfig:"MP_DB_NAME"`
	LegacySSLMode  string `envconfig:"MP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MP_REDIS_ADDR"`
	Password     string        `envconfig:"MP_REDIS_PASSWORD"`
	DB           int           `envconfig:"MP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"MP_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"MP_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"MP_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"MP_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"MP_BCRYPT_COST" default:"12"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type ActivityConfig struct {
	QueueSize    int           `envconfig:"MP_ACTIVITY_QUEUE_SIZE" default:"256"`
	WriteTimeout time.Duration `envconfig:"MP_ACTIVITY_WRITE_TIMEOUT" default:"5s"`
	DrainTimeout time.Duration `envconfig:"MP_ACTIVITY_DRAIN_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MP_AUTO_MIGRATE" default:"false"`
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
