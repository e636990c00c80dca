package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	Uploads       UploadsConfig
	Razorpay      RazorpayConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CLOSETLY_APP_ENV" default:"dev"`
	Port         string `envconfig:"CLOSETLY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CLOSETLY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CLOSETLY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"CLOSETLY_DB_DSN"`

	MaxOpenConns    int           `envconfig:"CLOSETLY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CLOSETLY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CLOSETLY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CLOSETLY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CLOSETLY_REDIS_URL"`
	Address      string        `envconfig:"CLOSETLY_REDIS_ADDR"`
	Password     string        `envconfig:"CLOSETLY_REDIS_PASSWORD"`
	DB           int           `envconfig:"CLOSETLY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CLOSETLY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CLOSETLY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CLOSETLY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CLOSETLY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CLOSETLY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret          string `envconfig:"CLOSETLY_JWT_SECRET" required:"true"`
	Issuer          string `envconfig:"CLOSETLY_JWT_ISSUER" default:"closetly"`
	TTLDays         int    `envconfig:"CLOSETLY_JWT_TTL_DAYS" default:"7"`
	RememberTTLDays int    `envconfig:"CLOSETLY_JWT_REMEMBER_TTL_DAYS" default:"30"`
}

// TTL returns the access token lifetime, honoring the remember-me variant.
func (j JWTConfig) TTL(remember bool) time.Duration {
	days := j.TTLDays
	if remember {
		days = j.RememberTTLDays
	}
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CLOSETLY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CLOSETLY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CLOSETLY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CLOSETLY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CLOSETLY_ARGON_KEY_LEN" default:"32"`

	MinLength int `envconfig:"CLOSETLY_PASSWORD_MIN_LENGTH" default:"6"`
}

// DefaultPasswordConfig mirrors the envconfig defaults for callers that do
// not go through Load, such as the lite server.
func DefaultPasswordConfig() PasswordConfig {
	return PasswordConfig{
		ArgonMemoryKB:    65536,
		ArgonTime:        3,
		ArgonParallelism: 2,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
		MinLength:        6,
	}
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CLOSETLY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"15m"`
	LoginIPLimit       int           `envconfig:"CLOSETLY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"5"`
	LoginEmailLimit    int           `envconfig:"CLOSETLY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	RegisterWindow     time.Duration `envconfig:"CLOSETLY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"CLOSETLY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"3"`
	RegisterEmailLimit int           `envconfig:"CLOSETLY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	ResetWindow        time.Duration `envconfig:"CLOSETLY_AUTH_RATE_LIMIT_RESET_WINDOW" default:"15m"`
	ResetIPLimit       int           `envconfig:"CLOSETLY_AUTH_RATE_LIMIT_RESET_IP_LIMIT" default:"5"`
	ResetEmailLimit    int           `envconfig:"CLOSETLY_AUTH_RATE_LIMIT_RESET_EMAIL_LIMIT" default:"5"`
}

type CORSConfig struct {
	ExtraOrigins []string `envconfig:"CLOSETLY_CORS_EXTRA_ORIGINS"`
}

type UploadsConfig struct {
	Dir         string `envconfig:"CLOSETLY_UPLOADS_DIR" default:"uploads"`
	URLPrefix   string `envconfig:"CLOSETLY_UPLOADS_URL_PREFIX" default:"/uploads"`
	MaxUploadMB int    `envconfig:"CLOSETLY_MAX_UPLOAD_MB" default:"5"`
}

// MaxUploadBytes converts the configured megabyte cap into bytes.
func (u UploadsConfig) MaxUploadBytes() int64 {
	mb := u.MaxUploadMB
	if mb <= 0 {
		mb = 5
	}
	return int64(mb) * 1024 * 1024
}

type RazorpayConfig struct {
	KeyID     string `envconfig:"CLOSETLY_RAZORPAY_KEY_ID"`
	KeySecret string `envconfig:"CLOSETLY_RAZORPAY_KEY_SECRET"`
	Env       string `envconfig:"CLOSETLY_RAZORPAY_ENV" default:"test"`
	// PremiumAmount is the upgrade price in paise (Rs. 199.00).
	PremiumAmount int    `envconfig:"CLOSETLY_RAZORPAY_PREMIUM_AMOUNT" default:"19900"`
	Currency      string `envconfig:"CLOSETLY_RAZORPAY_CURRENCY" default:"INR"`
}

// Environment returns the normalized Razorpay environment (test/live).
func (r RazorpayConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(r.Env))
	if env == "" {
		return "test"
	}
	return env
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"CLOSETLY_USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"CLOSETLY_SQLITE_PATH" default:"closetly.db"`
	AutoMigrate bool   `envconfig:"CLOSETLY_AUTO_MIGRATE" default:"false"`
}

// LiteConfig drives the file-backed companion server.
type LiteConfig struct {
	Port        string        `envconfig:"CLOSETLY_LITE_PORT" default:"3000"`
	DataDir     string        `envconfig:"CLOSETLY_LITE_DATA_DIR" default:"data"`
	UploadsDir  string        `envconfig:"CLOSETLY_LITE_UPLOADS_DIR" default:"uploads"`
	JWTSecret   string        `envconfig:"CLOSETLY_JWT_SECRET" required:"true"`
	JWTIssuer   string        `envconfig:"CLOSETLY_JWT_ISSUER" default:"closetly"`
	TokenTTL    time.Duration `envconfig:"CLOSETLY_LITE_TOKEN_TTL" default:"1h"`
	MaxUploadMB int           `envconfig:"CLOSETLY_MAX_UPLOAD_MB" default:"5"`
}

// LoadLite reads the configuration used by cmd/lite.
func LoadLite() (*LiteConfig, error) {
	var cfg LiteConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing lite config: %w", err)
	}
	return &cfg, nil
}
