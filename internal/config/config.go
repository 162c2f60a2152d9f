package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile store modes
const (
	ProfileStoreLocal  = "local"
	ProfileStoreRemote = "remote"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Logger       LoggerConfig       `yaml:"logger"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	S3           S3Config           `yaml:"s3"`
	JWT          JWTConfig          `yaml:"jwt"`
	GeneratorAPI GeneratorAPIConfig `yaml:"generator_api"`
	ProfileStore ProfileStoreConfig `yaml:"profile_store"`
	Session      SessionConfig      `yaml:"session"`
	CORS         CORSConfig         `yaml:"cors"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"`
	BasePath        string        `yaml:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	URL             string        `yaml:"url"`
	Path            string        `yaml:"path"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// GetDSN returns the connection string for the configured driver.
// DATABASE_URL wins over the discrete postgres settings.
func (c DatabaseConfig) GetDSN() string {
	if c.Driver == "sqlite" {
		return c.Path
	}
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// Enabled reports whether a redis endpoint is configured
func (c RedisConfig) Enabled() bool {
	return c.URL != "" || c.Host != ""
}

type S3Config struct {
	Bucket     string        `yaml:"bucket"`
	Region     string        `yaml:"region"`
	Endpoint   string        `yaml:"endpoint"`
	AccessKey  string        `yaml:"access_key"`
	SecretKey  string        `yaml:"secret_key"`
	PresignTTL time.Duration `yaml:"presign_ttl"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type GeneratorAPIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type ProfileStoreConfig struct {
	Mode    string        `yaml:"mode"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	AutosaveDebounce time.Duration `yaml:"autosave_debounce"`
	SaveTimeout      time.Duration `yaml:"save_timeout"`
	IdleTTL          time.Duration `yaml:"idle_ttl"`
	CleanupSchedule  string        `yaml:"cleanup_schedule"`
}

type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins"`
}

// Origins splits the comma separated origin list
func (c CORSConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Default returns the configuration used when neither file nor env set a value
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Mode:            "debug",
			BasePath:        "/api/wizard",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxUploadBytes:  32 << 20,
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			DBName:          "synthdata_wizard",
			SSLMode:         "disable",
			Path:            "synthdata_wizard.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			TTL: 10 * time.Minute,
		},
		S3: S3Config{
			PresignTTL: 15 * time.Minute,
		},
		GeneratorAPI: GeneratorAPIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 60 * time.Second,
		},
		ProfileStore: ProfileStoreConfig{
			Mode:    ProfileStoreLocal,
			Timeout: 10 * time.Second,
		},
		Session: SessionConfig{
			AutosaveDebounce: time.Second,
			SaveTimeout:      10 * time.Second,
			IdleTTL:          30 * time.Minute,
			CleanupSchedule:  "@every 1m",
		},
		CORS: CORSConfig{
			AllowedOrigins: "*",
		},
	}
}

// Load reads defaults, then the yaml file at path if it exists, then
// environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail at first use
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	switch c.ProfileStore.Mode {
	case ProfileStoreLocal:
	case ProfileStoreRemote:
		if c.ProfileStore.BaseURL == "" {
			return fmt.Errorf("profile_store.base_url is required in remote mode")
		}
	default:
		return fmt.Errorf("unsupported profile store mode %q", c.ProfileStore.Mode)
	}

	if c.Session.AutosaveDebounce <= 0 {
		return fmt.Errorf("session.autosave_debounce must be positive")
	}

	return nil
}

func applyEnv(cfg *Config) error {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if basePath := os.Getenv("SERVER_BASE_PATH"); basePath != "" {
		cfg.Server.BasePath = basePath
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		cfg.Server.Mode = mode
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.Logger.Level = logLevel
	}

	// Database configuration
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		cfg.Database.Driver = driver
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		cfg.Database.Port = port
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.DBName = name
	}
	if sslMode := os.Getenv("DB_SSLMODE"); sslMode != "" {
		cfg.Database.SSLMode = sslMode
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}

	// Redis configuration
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Redis.URL = redisURL
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}

	// Collaborators
	if generatorURL := os.Getenv("GENERATOR_API_URL"); generatorURL != "" {
		cfg.GeneratorAPI.BaseURL = generatorURL
	}
	if storeMode := os.Getenv("PROFILE_STORE_MODE"); storeMode != "" {
		cfg.ProfileStore.Mode = storeMode
	}
	if profileURL := os.Getenv("PROFILE_API_URL"); profileURL != "" {
		cfg.ProfileStore.BaseURL = profileURL
	}

	// S3 configuration
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		cfg.S3.Bucket = bucket
	}
	if region := os.Getenv("S3_REGION"); region != "" {
		cfg.S3.Region = region
	}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		cfg.S3.Endpoint = endpoint
	}
	if accessKey := os.Getenv("S3_ACCESS_KEY"); accessKey != "" {
		cfg.S3.AccessKey = accessKey
	}
	if secretKey := os.Getenv("S3_SECRET_KEY"); secretKey != "" {
		cfg.S3.SecretKey = secretKey
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if corsOrigins := os.Getenv("CORS_ORIGINS"); corsOrigins != "" {
		cfg.CORS.AllowedOrigins = corsOrigins
	}

	// Session timing
	if debounce := os.Getenv("AUTOSAVE_DEBOUNCE"); debounce != "" {
		d, err := parseDuration(debounce)
		if err != nil {
			return fmt.Errorf("invalid AUTOSAVE_DEBOUNCE: %w", err)
		}
		cfg.Session.AutosaveDebounce = d
	}
	if ttl := os.Getenv("SESSION_IDLE_TTL"); ttl != "" {
		d, err := parseDuration(ttl)
		if err != nil {
			return fmt.Errorf("invalid SESSION_IDLE_TTL: %w", err)
		}
		cfg.Session.IdleTTL = d
	}

	return nil
}

// parseDuration accepts Go durations and bare integers as milliseconds
func parseDuration(v string) (time.Duration, error) {
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(v)
}
