package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"golang.org/x/crypto/bcrypt"
)

const (
	StoreGorm  = "gorm"
	StoreMongo = "mongo"

	EventsNone  = "none"
	EventsKafka = "kafka"
	EventsNATS  = "nats"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string
	CORSOrigins []string

	Store       string
	DBDriver    string
	DatabaseURL string

	MongoURI      string
	MongoDatabase string

	JWTSecret  []byte
	JWTTTL     time.Duration
	BcryptCost int

	EventsBackend string
	KafkaBrokers  []string
	NATSURL       string

	APIURL   string
	APIToken string
}

// LoadDotEnv reads .env into the environment when the file exists.
func LoadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		slog.Debug("notice: .env file not loaded, using system environment variables", "path", path, "error", err)
	}
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "quickkart"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),
		CORSOrigins: CSV(os.Getenv("CORS_ALLOW_ORIGINS")),

		Store:       strings.ToLower(EnvDefault("STORE", StoreGorm)),
		DBDriver:    strings.ToLower(EnvDefault("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: EnvDefault("MONGO_DATABASE", "quickkart"),

		JWTSecret:  []byte(os.Getenv("JWT_SECRET")),
		JWTTTL:     EnvDurationDefault("JWT_TTL", time.Hour),
		BcryptCost: EnvIntDefault("BCRYPT_COST", bcrypt.DefaultCost),

		EventsBackend: strings.ToLower(EnvDefault("EVENTS_BACKEND", EventsNone)),
		KafkaBrokers:  CSV(os.Getenv("KAFKA_BROKERS")),
		NATSURL:       EnvDefault("NATS_URL", nats.DefaultURL),

		APIURL:   EnvDefault("QUICKKART_API_URL", "http://localhost:8080"),
		APIToken: os.Getenv("QUICKKART_TOKEN"),
	}
}

// ValidateServer reports every setting the server cannot start without.
func (c Config) ValidateServer() error {
	var errs []error
	if len(c.JWTSecret) == 0 {
		errs = append(errs, errors.New("missing required env JWT_SECRET"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if err := c.ValidateStore(); err != nil {
		errs = append(errs, err)
	}
	switch c.EventsBackend {
	case EventsNone, EventsNATS:
	case EventsKafka:
		if len(c.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("missing required env KAFKA_BROKERS"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EVENTS_BACKEND %q", c.EventsBackend))
	}
	return errors.Join(errs...)
}

func (c Config) ValidateStore() error {
	switch c.Store {
	case StoreGorm:
		if c.DatabaseURL == "" {
			return errors.New("missing required env DATABASE_URL")
		}
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("missing required env MONGO_URI")
		}
	default:
		return fmt.Errorf("unknown STORE %q", c.Store)
	}
	return nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
