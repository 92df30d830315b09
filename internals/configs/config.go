package configs

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	JWTSecret      string
	JWTTTL         time.Duration
	GoogleClientID string

	// Conf holds every key with its default; env vars override.
	Conf *viper.Viper
)

func init() {
	Conf = newViper()
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("port", "3000")
	v.SetDefault("app_env", "development")
	v.SetDefault("app_name", "SchoolHub")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("jwt_ttl_hours", 24)
	v.SetDefault("mail_from", "noreply@schoolhub.local")
	v.SetDefault("scheduler_enabled", true)
	v.SetDefault("seed_on_start", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("midtrans_use_prod", false)
	v.AutomaticEnv()
	return v
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	log := Logger("config")
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("[CONFIG] .env not found, using system environment")
	} else {
		log.Info().Msg("[CONFIG] .env loaded")
	}

	Conf = newViper()
	SetLogLevel(Conf.GetString("log_level"))

	JWTSecret = GetEnv("JWT_SECRET")
	JWTTTL = time.Duration(Conf.GetInt("jwt_ttl_hours")) * time.Hour
	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")

	if JWTSecret == "" {
		log.Warn().Msg("[CONFIG] JWT_SECRET is not set")
	}
	if GoogleClientID == "" {
		log.Info().Msg("[CONFIG] GOOGLE_CLIENT_ID is not set, Google sign-in disabled")
	}
}

// GetEnv reads key from the environment, then viper defaults, then the optional fallback.
func GetEnv(key string, defaultValue ...string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if Conf != nil {
		if v := Conf.GetString(strings.ToLower(key)); v != "" {
			return v
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func GetBool(key string) bool {
	if Conf == nil {
		return false
	}
	return Conf.GetBool(strings.ToLower(key))
}

func IsProduction() bool {
	return strings.EqualFold(GetEnv("APP_ENV"), "production")
}
