package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Oracle    OracleConfig
	JWT       JWTConfig
	Admission AdmissionPolicy
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type OracleConfig struct {
	BaseURL string
	Timeout time.Duration
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

// AdmissionPolicy holds every tunable of the apply pipeline. Defaults match
// current product policy; all of them are overridable via environment.
type AdmissionPolicy struct {
	AttemptLimit  int
	AttemptWindow time.Duration

	SuccessLimit  int
	SuccessWindow time.Duration

	ResumeUploadLimit  int
	ResumeUploadWindow time.Duration

	AdmissionThreshold float64
	QualifiedThreshold float64

	CooldownDuration time.Duration
	VerdictTTL       time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
	}

	cfg.Oracle = OracleConfig{
		BaseURL: req("ORACLE_BASE_URL"),
		Timeout: optDuration("ORACLE_TIMEOUT", 30*time.Second),
	}

	cfg.JWT = JWTConfig{
		Secret:    req("JWT_SECRET"),
		ExpiresIn: optDuration("JWT_EXPIRES_IN", 24*time.Hour),
	}

	cfg.Admission = AdmissionPolicy{
		AttemptLimit:       optInt("APPLY_ATTEMPT_LIMIT", 10),
		AttemptWindow:      optDuration("APPLY_ATTEMPT_WINDOW", time.Hour),
		SuccessLimit:       optInt("APPLY_SUCCESS_LIMIT", 10),
		SuccessWindow:      optDuration("APPLY_SUCCESS_WINDOW", time.Hour),
		ResumeUploadLimit:  optInt("RESUME_UPLOAD_LIMIT", 3),
		ResumeUploadWindow: optDuration("RESUME_UPLOAD_WINDOW", 24*time.Hour),
		AdmissionThreshold: optFloat("ADMISSION_THRESHOLD", 75),
		QualifiedThreshold: optFloat("QUALIFIED_THRESHOLD", 60),
		CooldownDuration:   optDuration("APPLY_COOLDOWN", 5*time.Hour),
		VerdictTTL:         optDuration("VERDICT_TTL", 24*time.Hour),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func optInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func optFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func optDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if v, err := time.ParseDuration(raw); err == nil && v > 0 {
		return v
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}
