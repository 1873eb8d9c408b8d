package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Admin      AdminConfig      `yaml:"admin"`
	Booking    BookingConfig    `yaml:"booking"`
	Database   DatabaseConfig   `yaml:"database"`
	Mail       MailConfig       `yaml:"mail"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Rooms      []RoomSeed       `yaml:"rooms"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	CacheTTLSeconds int      `yaml:"cache_ttl_seconds"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// AdminConfig identifies the single administrator. The email gates booking
// visibility; the whatsapp contact is quoted in deferral notices.
type AdminConfig struct {
	Email    string `yaml:"email"`
	Whatsapp string `yaml:"whatsapp"`
}

// BookingConfig holds the booking policy knobs.
type BookingConfig struct {
	AuditoriumCapacity int    `yaml:"auditorium_capacity"`
	DefaultTitle       string `yaml:"default_title"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                       string `yaml:"dsn"`
	Driver                    string `yaml:"driver"`
	MaxOpenConns              int    `yaml:"max_open_conns"`
	MaxIdleConns              int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes    int    `yaml:"conn_max_lifetime_minutes"`
	EnableExclusionConstraint bool   `yaml:"enable_exclusion_constraint"`
}

// MailConfig holds the SMTP settings for the admin notification sink.
type MailConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// RoomSeed is one catalog entry to upsert at boot.
type RoomSeed struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Block    string   `yaml:"block"`
	Capacity int      `yaml:"capacity"`
	Features []string `yaml:"features"`
}

// DefaultRooms is the built-in catalog, used when the config file does not
// override the rooms list.
var DefaultRooms = []RoomSeed{
	{ID: "alfa", Name: "Sala Alfa", Block: "Bloco A", Capacity: 6, Features: []string{"TV", "Whiteboard"}},
	{ID: "beta", Name: "Sala Beta", Block: "Bloco A", Capacity: 10, Features: []string{"Projetor", "TV"}},
	{ID: "gama", Name: "Sala Gama", Block: "Bloco B", Capacity: 20, Features: []string{"Projetor", "Som", "Mic"}},
	{ID: "delta", Name: "Sala Delta", Block: "Bloco C", Capacity: 4, Features: []string{"Whiteboard"}},
	{ID: "magna", Name: "Auditório Magna", Block: "Bloco D", Capacity: 120, Features: []string{"Projetor", "Som", "Mic", "Palco"}},
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 3001
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Booking.AuditoriumCapacity <= 0 {
		cfg.Booking.AuditoriumCapacity = 50
	}
	if cfg.Booking.DefaultTitle == "" {
		cfg.Booking.DefaultTitle = "Reserva"
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}

	if cfg.Mail.Port <= 0 {
		cfg.Mail.Port = 587
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if len(cfg.Rooms) == 0 {
		cfg.Rooms = DefaultRooms
	}

	return &cfg, nil
}
