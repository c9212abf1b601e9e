package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "storekeeper"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "STOREKEEPER_APP_ENV"
	EnvDBDSN  = "STOREKEEPER_DB_DSN"
	EnvDBHost = "STOREKEEPER_DB_HOST"
	EnvDBUser = "STOREKEEPER_DB_USER"
	EnvDBName = "STOREKEEPER_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Sync         SyncConfig
	Checkout     CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	// The sqlite dev flag selects the driver and a file DSN, bypassing the
	// postgres DSN requirement.
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = "storekeeper.db"
		}
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREKEEPER_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREKEEPER_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREKEEPER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREKEEPER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STOREKEEPER_DB_DSN"`
	Driver string `envconfig:"STOREKEEPER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOREKEEPER_DB_HOST"`
	LegacyPort     int    `envconfig:"STOREKEEPER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOREKEEPER_DB_USER"`
	LegacyPassword string `envconfig:"STOREKEEPER_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOREKEEPER_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOREKEEPER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREKEEPER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREKEEPER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREKEEPER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREKEEPER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREKEEPER_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"STOREKEEPER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREKEEPER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREKEEPER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREKEEPER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREKEEPER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"STOREKEEPER_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STOREKEEPER_AUTO_MIGRATE" default:"false"`
}

type SyncConfig struct {
	// StoreIDs lists the stores the sync worker reconciles, comma separated.
	StoreIDs []string      `envconfig:"STOREKEEPER_SYNC_STORE_IDS"`
	PageSize int           `envconfig:"STOREKEEPER_SYNC_PAGE_SIZE" default:"100"`
	LockTTL  time.Duration `envconfig:"STOREKEEPER_SYNC_LOCK_TTL" default:"1h"`
}

type CheckoutConfig struct {
	// FinishPageURL is where the remote payment page sends the shopper back.
	FinishPageURL string        `envconfig:"STOREKEEPER_CHECKOUT_FINISH_URL" required:"true"`
	CartURL       string        `envconfig:"STOREKEEPER_CHECKOUT_CART_URL" default:"/checkout/cart"`
	SessionTTL    time.Duration `envconfig:"STOREKEEPER_CHECKOUT_SESSION_TTL" default:"72h"`
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
