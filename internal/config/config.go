package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	DriverMongo  = "mongo"
	DriverMemory = "memory"

	devJWTSecret = "insecure-development-secret"
)

type Config struct {
	Env             string        `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTPAddr        string        `yaml:"http_addr" env:"HTTP_ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"15s"`
	CORSOrigins     []string      `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000" env-separator:","`

	Store   `yaml:"store"`
	Session `yaml:"session"`
	Forms   `yaml:"forms"`
	Redis   `yaml:"redis"`
	Content `yaml:"content"`
	Metrics `yaml:"metrics"`
}

type Store struct {
	Driver         string        `yaml:"driver" env:"STORE_DRIVER" env-default:"mongo"`
	MongoURI       string        `yaml:"mongo_uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	MongoDatabase  string        `yaml:"mongo_database" env:"MONGO_DATABASE" env-default:"portal"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`
}

type Session struct {
	JWTSecret    string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	JWTIssuer    string        `yaml:"jwt_issuer" env:"JWT_ISSUER" env-default:"mtd-portal"`
	TTL          time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"72h"`
	CookieName   string        `yaml:"cookie_name" env:"SESSION_COOKIE" env-default:"portal_session"`
	CookieSecure bool          `yaml:"cookie_secure" env:"COOKIE_SECURE" env-default:"false"`
}

type Forms struct {
	BaseURL      string        `yaml:"base_url" env:"FORMS_BASE_URL" env-default:"https://formspree.io"`
	ContactID    string        `yaml:"contact_id" env:"FORMS_CONTACT_ID"`
	VolunteerID  string        `yaml:"volunteer_id" env:"FORMS_VOLUNTEER_ID"`
	NewsletterID string        `yaml:"newsletter_id" env:"FORMS_NEWSLETTER_ID"`
	Timeout      time.Duration `yaml:"timeout" env:"FORMS_TIMEOUT" env-default:"10s"`
	RateLimit    int           `yaml:"rate_limit" env:"FORMS_RATE_LIMIT" env-default:"5"`
	RateWindow   time.Duration `yaml:"rate_window" env:"FORMS_RATE_WINDOW" env-default:"1m"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
}

type Content struct {
	Dir          string `yaml:"dir" env:"CONTENT_DIR" env-default:"content"`
	RedirectsCSV string `yaml:"redirects_csv" env:"REDIRECTS_CSV" env-default:"docs/migration/urls.csv"`
}

type Metrics struct {
	StreamInterval time.Duration `yaml:"stream_interval" env:"METRICS_STREAM_INTERVAL" env-default:"5s"`
}

// Load reads an optional .env file, then an optional YAML file named by CONFIG_PATH,
// then the environment. Environment variables win.
func Load() (Config, error) {
	var cfg Config

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARNING: could not load .env file: %v", err)
	}

	var err error
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is not set. Using an insecure development secret.")
		cfg.JWTSecret = devJWTSecret
	}
	return cfg, nil
}

func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	return cfg
}

func (c Config) validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.JWTSecret == "" && c.Env == EnvProd {
		return fmt.Errorf("JWT_SECRET is required in %s", EnvProd)
	}
	if c.StreamInterval <= 0 {
		return fmt.Errorf("METRICS_STREAM_INTERVAL must be positive")
	}
	return nil
}

// FormID returns the configured id for a named form, or "" when unset.
func (f Forms) FormID(name string) string {
	switch name {
	case "contact":
		return f.ContactID
	case "volunteer":
		return f.VolunteerID
	case "newsletter":
		return f.NewsletterID
	}
	return ""
}
