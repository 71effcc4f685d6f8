package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/DhavalSuthar-24/arena/pkg/logger"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Config struct {
	App struct {
		Env         string `env:"APP_ENV" envDefault:"development"`
		Port        string `env:"PORT"    envDefault:"8088"`
		FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
		UploadDir   string `env:"UPLOAD_DIR"   envDefault:"./public/uploads"`
		LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`
	}
	DB struct {
		Driver   string `env:"DB_DRIVER"   envDefault:"postgres"`
		Host     string `env:"DB_HOST"     envDefault:"localhost"`
		Port     string `env:"DB_PORT"     envDefault:"5432"`
		User     string `env:"DB_USER"     envDefault:"postgres"`
		Password string `env:"DB_PASSWORD" envDefault:"password"`
		Name     string `env:"DB_NAME"     envDefault:"arena_db"`
		SSLMode  string `env:"DB_SSLMODE"  envDefault:"disable"`
		Path     string `env:"DB_PATH"     envDefault:"./arena.db"`
	}
	JWT struct {
		AccessTokenSecret        string `env:"JWT_ACCESS_TOKEN_SECRET"  envDefault:"supersecret"`
		AccessTokenExpiryMinutes int    `env:"JWT_ACCESS_TOKEN_EXPIRY_MINUTES" envDefault:"60"`
		RefreshTokenSecret       string `env:"JWT_REFRESH_TOKEN_SECRET" envDefault:"supersecretrefresh"`
		RefreshTokenExpiryDays   int    `env:"JWT_REFRESH_TOKEN_EXPIRY_DAYS"   envDefault:"7"`
	}
	Redis struct {
		URL string `env:"REDIS_URL"`
	}
	Matchmaking struct {
		WorkerEnabled   bool `env:"MATCHMAKING_WORKER_ENABLED"    envDefault:"true"`
		IntervalSeconds int  `env:"MATCHMAKING_INTERVAL_SECONDS"  envDefault:"5"`
		QueueTTLMinutes int  `env:"MATCHMAKING_QUEUE_TTL_MINUTES" envDefault:"10"`
		TimerSeconds    int  `env:"MATCH_TIMER_SECONDS"           envDefault:"300"`
	}
	Betting struct {
		MinAmount        int64 `env:"BET_MIN" envDefault:"10"`
		MaxAmount        int64 `env:"BET_MAX" envDefault:"10000"`
		PayoutMultiplier int64 `env:"BET_PAYOUT_MULTIPLIER" envDefault:"2"`
	}
	Wallet struct {
		MinDeposit      int64 `env:"WALLET_MIN_DEPOSIT"  envDefault:"10"`
		MaxDeposit      int64 `env:"WALLET_MAX_DEPOSIT"  envDefault:"100000"`
		MinWithdraw     int64 `env:"WALLET_MIN_WITHDRAW" envDefault:"50"`
		StartingBalance int64 `env:"STARTING_BALANCE"    envDefault:"0"`
	}
}

// Global DB instance, accessible after ConnectDB() is called via Initialize.
var DB *gorm.DB

// Global AppConfig instance, accessible after LoadConfig() is called via Initialize.
var appConfig *Config
var once sync.Once

// LoadConfig loads configuration from environment variables into the Config struct.
func LoadConfig() (*Config, error) {
	// It's okay if .env doesn't exist, production sets env vars directly.
	if err := godotenv.Load(); err != nil {
		logger.Get().Info().Msg("no .env file loaded, relying on system environment variables")
	}

	cfg := Default()

	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Port = getEnv("PORT", cfg.App.Port)
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", cfg.App.FrontendURL)
	cfg.App.UploadDir = getEnv("UPLOAD_DIR", cfg.App.UploadDir)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)

	cfg.DB.Driver = strings.ToLower(getEnv("DB_DRIVER", cfg.DB.Driver))
	cfg.DB.Host = getEnv("DB_HOST", cfg.DB.Host)
	cfg.DB.Port = getEnv("DB_PORT", cfg.DB.Port)
	cfg.DB.User = getEnv("DB_USER", cfg.DB.User)
	cfg.DB.Password = getEnv("DB_PASSWORD", cfg.DB.Password)
	cfg.DB.Name = getEnv("DB_NAME", cfg.DB.Name)
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", cfg.DB.SSLMode)
	cfg.DB.Path = getEnv("DB_PATH", cfg.DB.Path)

	cfg.JWT.AccessTokenSecret = getEnv("JWT_ACCESS_TOKEN_SECRET", "your-very-strong-access-secret")
	cfg.JWT.RefreshTokenSecret = getEnv("JWT_REFRESH_TOKEN_SECRET", "your-very-strong-refresh-secret")

	cfg.Redis.URL = getEnv("REDIS_URL", "")

	var err error
	if cfg.JWT.AccessTokenExpiryMinutes, err = getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY_MINUTES", cfg.JWT.AccessTokenExpiryMinutes); err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_EXPIRY_MINUTES: %w", err)
	}
	if cfg.JWT.RefreshTokenExpiryDays, err = getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRY_DAYS", cfg.JWT.RefreshTokenExpiryDays); err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_TOKEN_EXPIRY_DAYS: %w", err)
	}
	if cfg.Matchmaking.WorkerEnabled, err = getEnvAsBool("MATCHMAKING_WORKER_ENABLED", cfg.Matchmaking.WorkerEnabled); err != nil {
		return nil, fmt.Errorf("invalid MATCHMAKING_WORKER_ENABLED: %w", err)
	}
	if cfg.Matchmaking.IntervalSeconds, err = getEnvAsInt("MATCHMAKING_INTERVAL_SECONDS", cfg.Matchmaking.IntervalSeconds); err != nil {
		return nil, fmt.Errorf("invalid MATCHMAKING_INTERVAL_SECONDS: %w", err)
	}
	if cfg.Matchmaking.QueueTTLMinutes, err = getEnvAsInt("MATCHMAKING_QUEUE_TTL_MINUTES", cfg.Matchmaking.QueueTTLMinutes); err != nil {
		return nil, fmt.Errorf("invalid MATCHMAKING_QUEUE_TTL_MINUTES: %w", err)
	}
	if cfg.Matchmaking.TimerSeconds, err = getEnvAsInt("MATCH_TIMER_SECONDS", cfg.Matchmaking.TimerSeconds); err != nil {
		return nil, fmt.Errorf("invalid MATCH_TIMER_SECONDS: %w", err)
	}
	if cfg.Betting.MinAmount, err = getEnvAsInt64("BET_MIN", cfg.Betting.MinAmount); err != nil {
		return nil, fmt.Errorf("invalid BET_MIN: %w", err)
	}
	if cfg.Betting.MaxAmount, err = getEnvAsInt64("BET_MAX", cfg.Betting.MaxAmount); err != nil {
		return nil, fmt.Errorf("invalid BET_MAX: %w", err)
	}
	if cfg.Betting.PayoutMultiplier, err = getEnvAsInt64("BET_PAYOUT_MULTIPLIER", cfg.Betting.PayoutMultiplier); err != nil {
		return nil, fmt.Errorf("invalid BET_PAYOUT_MULTIPLIER: %w", err)
	}
	if cfg.Wallet.MinDeposit, err = getEnvAsInt64("WALLET_MIN_DEPOSIT", cfg.Wallet.MinDeposit); err != nil {
		return nil, fmt.Errorf("invalid WALLET_MIN_DEPOSIT: %w", err)
	}
	if cfg.Wallet.MaxDeposit, err = getEnvAsInt64("WALLET_MAX_DEPOSIT", cfg.Wallet.MaxDeposit); err != nil {
		return nil, fmt.Errorf("invalid WALLET_MAX_DEPOSIT: %w", err)
	}
	if cfg.Wallet.MinWithdraw, err = getEnvAsInt64("WALLET_MIN_WITHDRAW", cfg.Wallet.MinWithdraw); err != nil {
		return nil, fmt.Errorf("invalid WALLET_MIN_WITHDRAW: %w", err)
	}
	if cfg.Wallet.StartingBalance, err = getEnvAsInt64("STARTING_BALANCE", cfg.Wallet.StartingBalance); err != nil {
		return nil, fmt.Errorf("invalid STARTING_BALANCE: %w", err)
	}

	if cfg.Matchmaking.IntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid MATCHMAKING_INTERVAL_SECONDS: must be positive, got %d", cfg.Matchmaking.IntervalSeconds)
	}
	if cfg.Matchmaking.QueueTTLMinutes <= 0 {
		return nil, fmt.Errorf("invalid MATCHMAKING_QUEUE_TTL_MINUTES: must be positive, got %d", cfg.Matchmaking.QueueTTLMinutes)
	}

	if cfg.JWT.AccessTokenSecret == "your-very-strong-access-secret" || cfg.JWT.RefreshTokenSecret == "your-very-strong-refresh-secret" {
		logger.Get().Warn().Msg("using default JWT secrets; set JWT_ACCESS_TOKEN_SECRET and JWT_REFRESH_TOKEN_SECRET for production")
	}
	if cfg.DB.Password == "password" && cfg.App.Env == "production" {
		logger.Get().Warn().Msg("using default DB password in production; set DB_PASSWORD")
	}

	appConfig = cfg
	return cfg, nil
}

// Default returns a Config populated with the built-in defaults, without
// reading the environment. Tests build on it.
func Default() *Config {
	cfg := &Config{}
	cfg.App.Env = "development"
	cfg.App.Port = "8088"
	cfg.App.FrontendURL = "http://localhost:3000"
	cfg.App.UploadDir = "./public/uploads"
	cfg.App.LogLevel = "info"

	cfg.DB.Driver = "postgres"
	cfg.DB.Host = "localhost"
	cfg.DB.Port = "5432"
	cfg.DB.User = "postgres"
	cfg.DB.Password = "password"
	cfg.DB.Name = "arena_db"
	cfg.DB.SSLMode = "disable"
	cfg.DB.Path = "./arena.db"

	cfg.JWT.AccessTokenSecret = "supersecret"
	cfg.JWT.AccessTokenExpiryMinutes = 60
	cfg.JWT.RefreshTokenSecret = "supersecretrefresh"
	cfg.JWT.RefreshTokenExpiryDays = 7

	cfg.Matchmaking.WorkerEnabled = true
	cfg.Matchmaking.IntervalSeconds = 5
	cfg.Matchmaking.QueueTTLMinutes = 10
	cfg.Matchmaking.TimerSeconds = 300

	cfg.Betting.MinAmount = 10
	cfg.Betting.MaxAmount = 10000
	cfg.Betting.PayoutMultiplier = 2

	cfg.Wallet.MinDeposit = 10
	cfg.Wallet.MaxDeposit = 100000
	cfg.Wallet.MinWithdraw = 50
	return cfg
}

// MatchTimer is the fixed duration of a started match room timer.
func (c *Config) MatchTimer() time.Duration {
	return time.Duration(c.Matchmaking.TimerSeconds) * time.Second
}

// QueueTTL is how long an unpaired queue entry stays eligible.
func (c *Config) QueueTTL() time.Duration {
	return time.Duration(c.Matchmaking.QueueTTLMinutes) * time.Minute
}

// Dialector picks the gorm dialector for the configured driver.
func Dialector(dbCfg Config) (gorm.Dialector, error) {
	switch dbCfg.DB.Driver {
	case "", "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			dbCfg.DB.Host,
			dbCfg.DB.User,
			dbCfg.DB.Password,
			dbCfg.DB.Name,
			dbCfg.DB.Port,
			dbCfg.DB.SSLMode,
		)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			dbCfg.DB.User,
			dbCfg.DB.Password,
			dbCfg.DB.Host,
			dbCfg.DB.Port,
			dbCfg.DB.Name,
		)
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(SQLiteDSN(dbCfg.DB.Path)), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (expected postgres, mysql or sqlite)", dbCfg.DB.Driver)
	}
}

// SQLiteDSN takes write locks at BEGIN so concurrent transactions queue on the
// busy timeout instead of failing on snapshot upgrades.
func SQLiteDSN(path string) string {
	return path + "?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
}

// GormConfig turns on driver error translation so unique violations surface
// as gorm.ErrDuplicatedKey.
func GormConfig(env string) *gorm.Config {
	gormConfig := &gorm.Config{TranslateError: true}
	if env == "development" {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	} else {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}
	return gormConfig
}

// ConnectDB establishes a connection to the database using the provided configuration.
// It sets the global DB variable.
func ConnectDB(dbCfg Config) (*gorm.DB, error) {
	dialector, err := Dialector(dbCfg)
	if err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(dialector, GormConfig(dbCfg.App.Env))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = gormDB
	logger.Get().Info().Str("driver", dialector.Name()).Msg("connected to database")
	return gormDB, nil
}

// Initialize loads all configurations and connects to the database.
// This should be called once at the start of the application.
func Initialize() error {
	var loadErr error
	once.Do(func() {
		loadedCfg, err := LoadConfig()
		if err != nil {
			loadErr = fmt.Errorf("failed to load configuration: %w", err)
			return
		}
		appConfig = loadedCfg

		if _, err = ConnectDB(*appConfig); err != nil {
			loadErr = fmt.Errorf("failed to connect to database during initialization: %w", err)
			return
		}
	})
	return loadErr
}

// GetConfig returns the loaded application configuration.
func GetConfig() *Config {
	if appConfig == nil {
		logger.Get().Fatal().Msg("configuration not loaded, call config.Initialize first")
	}
	return appConfig
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected integer, got '%s'", key, valueStr)
	}
	return value, nil
}

func getEnvAsInt64(key string, fallback int64) (int64, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected integer, got '%s'", key, valueStr)
	}
	return value, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected boolean, got '%s'", key, valueStr)
	}
	return value, nil
}
