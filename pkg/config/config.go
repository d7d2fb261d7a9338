package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable read by the backend.
const EnvPrefix = "BENSTORE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "BENSTORE_APP_ENV"
	EnvPort   = "BENSTORE_APP_PORT"
	EnvDBDSN  = "BENSTORE_DB_DSN"
	EnvDBHost = "BENSTORE_DB_HOST"
	EnvDBUser = "BENSTORE_DB_USER"
	EnvDBName = "BENSTORE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Entitlement   EntitlementConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
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
	Env          string `envconfig:"BENSTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"BENSTORE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BENSTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BENSTORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BENSTORE_DB_DSN"`
	Driver string `envconfig:"BENSTORE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BENSTORE_DB_HOST"`
	LegacyPort     int    `envconfig:"BENSTORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BENSTORE_DB_USER"`
	LegacyPassword string `envconfig:"BENSTORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"BENSTORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"BENSTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BENSTORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BENSTORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BENSTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BENSTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BENSTORE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BENSTORE_REDIS_ADDR"`
	Password     string        `envconfig:"BENSTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"BENSTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BENSTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BENSTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BENSTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BENSTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BENSTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BENSTORE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BENSTORE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BENSTORE_JWT_EXPIRATION_MINUTES" default:"1440"`
	RefreshTokenTTLMinutes int    `envconfig:"BENSTORE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BENSTORE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BENSTORE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BENSTORE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BENSTORE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BENSTORE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BENSTORE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BENSTORE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"BENSTORE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BENSTORE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BENSTORE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BENSTORE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BENSTORE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BENSTORE_AUTO_MIGRATE" default:"false"`
}

// Entitlement enforcement modes. Strict blocks checkout when the external
// authority cannot be reached; permissive falls back to the local split.
const (
	EnforcementStrict     = "strict"
	EnforcementPermissive = "permissive"
)

// EntitlementConfig wires the external benefits-entitlement authority.
// The adapter is considered configured only when ValidateURL is set.
type EntitlementConfig struct {
	ValidateURL     string        `envconfig:"BENSTORE_ENTITLEMENT_VALIDATE_URL"`
	APIKey          string        `envconfig:"BENSTORE_ENTITLEMENT_API_KEY"`
	Timeout         time.Duration `envconfig:"BENSTORE_ENTITLEMENT_TIMEOUT" default:"4s"`
	EnforcementMode string        `envconfig:"BENSTORE_ENTITLEMENT_ENFORCEMENT_MODE" default:"strict"`
}

// Configured reports whether the external authority should be consulted.
func (e EntitlementConfig) Configured() bool {
	return strings.TrimSpace(e.ValidateURL) != ""
}

// Mode normalizes the enforcement mode; anything but permissive is strict.
func (e EntitlementConfig) Mode() string {
	if strings.EqualFold(strings.TrimSpace(e.EnforcementMode), EnforcementPermissive) {
		return EnforcementPermissive
	}
	return EnforcementStrict
}

type GCPConfig struct {
	ProjectID string `envconfig:"BENSTORE_GCP_PROJECT_ID"`
}

// PubSubConfig names the topic used for best-effort order events. Empty
// disables eventing.
type PubSubConfig struct {
	OrderTopic string `envconfig:"BENSTORE_PUBSUB_ORDER_TOPIC"`
}

// Enabled reports whether order eventing should be wired at startup.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.OrderTopic) != ""
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, "sqlite") {
		return fmt.Errorf("%s is required when the sqlite driver is selected", EnvDBDSN)
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
