package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Env         string
	Port        int
	APIPrefix   string
	StoreDriver string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Privacy   PrivacyConfig
	Risk      RiskConfig
	Cohort    CohortConfig
	Trend     TrendConfig
	Analytics AnalyticsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level        string
	Format       string
	PseudonymKey string
}

// PrivacyConfig holds the anonymity floor shared by every aggregation entry point.
type PrivacyConfig struct {
	MinCohortSize int
}

// RiskConfig tunes submission-time classification.
type RiskConfig struct {
	ClassifierVersion      string
	AcademicYearStartMonth time.Month
}

// CohortConfig governs the snapshot aggregator.
type CohortConfig struct {
	WindowDays             int
	HighDistressSharePct   float64
	SupportEligibleMinimum int
}

// TrendConfig governs the trend engine.
type TrendConfig struct {
	MaxAcademicWeeks int
}

// AnalyticsConfig governs caching of aggregate payloads.
type AnalyticsConfig struct {
	CacheEnabled       bool
	CacheTTL           time.Duration
	InvalidationWorker int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.StoreDriver = strings.ToLower(v.GetString("STORE_DRIVER"))

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:        v.GetString("LOG_LEVEL"),
		Format:       v.GetString("LOG_FORMAT"),
		PseudonymKey: v.GetString("LOG_PSEUDONYM_KEY"),
	}

	cfg.Privacy = PrivacyConfig{MinCohortSize: v.GetInt("PRIVACY_MIN_COHORT_SIZE")}

	startMonth := v.GetInt("ACADEMIC_YEAR_START_MONTH")
	if startMonth < 1 || startMonth > 12 {
		startMonth = int(time.September)
	}
	cfg.Risk = RiskConfig{
		ClassifierVersion:      v.GetString("RISK_CLASSIFIER_VERSION"),
		AcademicYearStartMonth: time.Month(startMonth),
	}

	cfg.Cohort = CohortConfig{
		WindowDays:             v.GetInt("COHORT_WINDOW_DAYS"),
		HighDistressSharePct:   v.GetFloat64("COHORT_HIGH_DISTRESS_SHARE"),
		SupportEligibleMinimum: v.GetInt("COHORT_SUPPORT_ELIGIBLE_MIN"),
	}

	cfg.Trend = TrendConfig{MaxAcademicWeeks: v.GetInt("TREND_MAX_ACADEMIC_WEEKS")}

	cfg.Analytics = AnalyticsConfig{
		CacheEnabled:       v.GetBool("ENABLE_ANALYTICS_CACHE"),
		CacheTTL:           parseDuration(v.GetString("ANALYTICS_CACHE_TTL"), 5*time.Minute),
		InvalidationWorker: v.GetInt("CACHE_INVALIDATION_WORKERS"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "wellbeing")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_PSEUDONYM_KEY", "dev_pseudonym_key")

	v.SetDefault("PRIVACY_MIN_COHORT_SIZE", 10)
	v.SetDefault("RISK_CLASSIFIER_VERSION", "rules-v1")
	v.SetDefault("ACADEMIC_YEAR_START_MONTH", 9)

	v.SetDefault("COHORT_WINDOW_DAYS", 7)
	v.SetDefault("COHORT_HIGH_DISTRESS_SHARE", 30)
	v.SetDefault("COHORT_SUPPORT_ELIGIBLE_MIN", 3)
	v.SetDefault("TREND_MAX_ACADEMIC_WEEKS", 12)

	v.SetDefault("ENABLE_ANALYTICS_CACHE", false)
	v.SetDefault("ANALYTICS_CACHE_TTL", "5m")
	v.SetDefault("CACHE_INVALIDATION_WORKERS", 1)
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
