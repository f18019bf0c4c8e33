package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server    ServerConfig
	App       AppConfig
	Store     StoreConfig
	UsersDB   UsersDBConfig
	Cache     CacheConfig
	Reminders ReminderConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"wastenot-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// StoreConfig holds document-store settings for inventories, items,
// invitations and users.
type StoreConfig struct {
	Type string `envconfig:"STORE_TYPE" default:"sqlite"` // sqlite, mongodb, or memory
	Path string `envconfig:"STORE_SQLITE_PATH" default:"./data/wastenot.db"`

	MongoURI          string `envconfig:"MONGODB_URI" default:""`
	MongoDatabase     string `envconfig:"MONGODB_DATABASE" default:"wastenot"`
	InventoryTable    string `envconfig:"DYNAMODB_TABLE" default:"inventories"`
	UsersTable        string `envconfig:"USERS_TABLE" default:"users"`
	ItemsCollection   string `envconfig:"MONGODB_ITEMS_COLLECTION" default:"inventory_items"`
	InvitesCollection string `envconfig:"MONGODB_INVITATIONS_COLLECTION" default:"invitations"`
}

// UsersDBConfig holds optional MySQL settings for the user-profile table.
// When unset or unreachable, profiles live in the document store instead.
type UsersDBConfig struct {
	Enabled  bool   `envconfig:"USERS_DB_ENABLED" default:"false"`
	Host     string `envconfig:"USERS_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"USERS_DB_PORT" default:"3306"`
	Name     string `envconfig:"USERS_DB_NAME" default:"wastenot"`
	User     string `envconfig:"USERS_DB_USER" default:"root"`
	Password string `envconfig:"USERS_DB_PASS" default:""`
}

// CacheConfig holds Redis settings for sessions, profile caching and the
// reminder queue.
type CacheConfig struct {
	RedisHost     string        `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int           `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	ProfileTTL    time.Duration `envconfig:"PROFILE_CACHE_TTL" default:"5m"`
}

// ReminderConfig holds reminder and expiry-summary scheduler settings.
type ReminderConfig struct {
	// CancelOnDelete controls whether a pending reminder is cancelled when
	// its item is deleted.
	CancelOnDelete  bool          `envconfig:"REMINDER_CANCEL_ON_DELETE" default:"true"`
	PollInterval    time.Duration `envconfig:"REMINDER_POLL_INTERVAL" default:"30s"`
	SummaryEnabled  bool          `envconfig:"SUMMARY_ENABLED" default:"true"`
	SummaryInterval time.Duration `envconfig:"SUMMARY_INTERVAL" default:"24h"`
}

// DSN returns the MySQL data source name for the users table.
func (u *UsersDBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		u.User, u.Password, u.Host, u.Port, u.Name)
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
