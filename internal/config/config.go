// Package config assembles the daemon's settings from environment
// variables, with an optional .env file for development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaretd/internal/prayer"
)

const (
	SourceMOI     = "qatar_moi"
	SourceAladhan = "aladhan"
)

// Methods enumerates the AlAdhan calculation methods by id.
var Methods = map[int]string{
	0:  "Shia Ithna-Ashari",
	1:  "University of Islamic Sciences, Karachi",
	2:  "Islamic Society of North America",
	3:  "Muslim World League",
	4:  "Umm Al-Qura University, Makkah",
	5:  "Egyptian General Authority of Survey",
	7:  "Institute of Geophysics, University of Tehran",
	8:  "Gulf Region",
	9:  "Kuwait",
	10: "Qatar",
	11: "Majlis Ugama Islam Singapura",
	12: "Union Organization Islamic de France",
	13: "Diyanet Isleri Baskanligi, Turkey",
	14: "Spiritual Administration of Muslims of Russia",
	15: "Moonsighting Committee Worldwide",
}

// Config holds all daemon settings.
type Config struct {
	ServerAddress string `validate:"required"`
	AdminSecret   string `validate:"required"`

	Source  string `validate:"oneof=qatar_moi aladhan"`
	City    string `validate:"required_if=Source aladhan"`
	Country string `validate:"required_if=Source aladhan"`
	Method  int    `validate:"min=0,max=15"`

	Toggles prayer.Toggles
	Suhoor  prayer.SuhoorConfig

	// Optional integrations: empty means disabled.
	MQTTBroker     string
	RedisAddress   string
	RedisUsername  string
	RedisPassword  string
	DatabaseURL    string
	MigrationsPath string
}

// Load reads settings from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env file")
	}

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		AdminSecret:   os.Getenv("ADMIN_SECRET"),

		Source:  getEnv("PRAYER_SOURCE", SourceMOI),
		City:    getEnv("CITY", "Doha"),
		Country: getEnv("COUNTRY", "Qatar"),
		Method:  getEnvInt("CALC_METHOD", 10),

		Toggles: prayer.Toggles{
			prayer.Fajr:    getEnvBool("PRAYER_FAJR", true),
			prayer.Sunrise: getEnvBool("PRAYER_SUNRISE", false),
			prayer.Dhuhr:   getEnvBool("PRAYER_DHUHR", true),
			prayer.Asr:     getEnvBool("PRAYER_ASR", true),
			prayer.Maghrib: getEnvBool("PRAYER_MAGHRIB", true),
			prayer.Isha:    getEnvBool("PRAYER_ISHA", true),
		},
		Suhoor: prayer.SuhoorConfig{
			Enabled:       getEnvBool("SUHOOR_ENABLED", false),
			OffsetMinutes: getEnvInt("SUHOOR_OFFSET_MINUTES", 60),
			RamadanOnly:   getEnvBool("SUHOOR_RAMADAN_ONLY", true),
		},

		MQTTBroker:     os.Getenv("MQTT_BROKER"),
		RedisAddress:   os.Getenv("REDIS_ADDRESS"),
		RedisUsername:  os.Getenv("REDIS_USERNAME"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and the suhoor offset range.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, ok := Methods[c.Method]; !ok {
		return fmt.Errorf("invalid configuration: unknown calculation method %d", c.Method)
	}
	if c.Suhoor.Enabled && (c.Suhoor.OffsetMinutes < 15 || c.Suhoor.OffsetMinutes > 120) {
		return fmt.Errorf("invalid configuration: suhoor offset %d outside 15-120 minutes", c.Suhoor.OffsetMinutes)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring non-integer env value")
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring non-boolean env value")
		return fallback
	}
	return b
}
