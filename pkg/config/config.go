package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Storage    StorageConfig
	JWT        JWTConfig
	LLM        LLMConfig
	Cerebras   ProviderConfig
	OpenAI     ProviderConfig
	Groq       ProviderConfig
	Anthropic  ProviderConfig
	Gemini     ProviderConfig
	Ollama     ProviderConfig
	AssemblyAI AssemblyAIConfig
	OCR        OCRConfig
	Pipeline   PipelineConfig
	Telemetry  TelemetryConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
	ShutdownTimeout int           `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	MaxUploadMB     int64         `envconfig:"MAX_UPLOAD_MB" default:"50"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"5m"`
}

// DatabaseConfig holds database configuration.
// Driver is one of postgres, sqlite or memory.
type DatabaseConfig struct {
	Driver      string `envconfig:"DB_DRIVER" default:"postgres"`
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"meeting_summarizer"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	SQLitePath  string `envconfig:"DB_SQLITE_PATH" default:"data/meetings.db"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Enabled         bool   `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"meeting-summarizer"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// JWTConfig holds API auth configuration
type JWTConfig struct {
	Enabled bool          `envconfig:"AUTH_ENABLED" default:"false"`
	Secret  string        `envconfig:"JWT_SECRET"`
	Expiry  time.Duration `envconfig:"JWT_EXPIRY" default:"720h"`
	Issuer  string        `envconfig:"JWT_ISSUER" default:"meeting-summarizer"`
}

// LLMConfig holds settings shared by every generation backend
type LLMConfig struct {
	Provider    string        `envconfig:"LLM_PROVIDER" default:"cerebras"`
	Temperature float64       `envconfig:"LLM_TEMPERATURE" default:"0.3"`
	MaxTokens   int           `envconfig:"LLM_MAX_TOKENS" default:"600"`
	Timeout     time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
	MaxRetries  uint64        `envconfig:"LLM_MAX_RETRIES" default:"1"`
	CacheTTL    time.Duration `envconfig:"LLM_CACHE_TTL" default:"0"`
}

// ProviderConfig is read per backend with the backend name as prefix,
// e.g. CEREBRAS_API_KEY, CEREBRAS_API_BASE, CEREBRAS_MODEL.
type ProviderConfig struct {
	APIKey  string `envconfig:"API_KEY"`
	APIBase string `envconfig:"API_BASE"`
	Model   string `envconfig:"MODEL"`
}

// AssemblyAIConfig holds speech-to-text configuration
type AssemblyAIConfig struct {
	APIKey       string        `envconfig:"ASSEMBLYAI_API_KEY"`
	LanguageCode string        `envconfig:"ASSEMBLYAI_LANGUAGE_CODE"`
	Timeout      time.Duration `envconfig:"ASSEMBLYAI_TIMEOUT" default:"10m"`
	SpeakerGap   time.Duration `envconfig:"INGEST_SPEAKER_GAP" default:"1500ms"`
}

// OCRConfig holds the external OCR toolchain used for scanned documents
type OCRConfig struct {
	Enabled       bool          `envconfig:"OCR_ENABLED" default:"true"`
	PdftoppmPath  string        `envconfig:"OCR_PDFTOPPM_PATH" default:"pdftoppm"`
	TesseractPath string        `envconfig:"OCR_TESSERACT_PATH" default:"tesseract"`
	Language      string        `envconfig:"OCR_LANGUAGE" default:"eng"`
	DPI           int           `envconfig:"OCR_DPI" default:"300"`
	Timeout       time.Duration `envconfig:"OCR_TIMEOUT" default:"2m"`
}

// PipelineConfig holds the summarization heuristics
type PipelineConfig struct {
	ChunkSize        int `envconfig:"PIPELINE_CHUNK_SIZE" default:"4000"`
	TwoPassThreshold int `envconfig:"PIPELINE_TWO_PASS_THRESHOLD" default:"4000"`
	ChunkConcurrency int `envconfig:"PIPELINE_CHUNK_CONCURRENCY" default:"4"`
	FallbackChars    int `envconfig:"PIPELINE_FALLBACK_CHARS" default:"500"`
	MaxScanBytes     int `envconfig:"PIPELINE_MAX_SCAN_BYTES" default:"1048576"`
	ListLimit        int `envconfig:"PIPELINE_LIST_LIMIT" default:"50"`
}

// TelemetryConfig holds OpenTelemetry settings
type TelemetryConfig struct {
	ServiceName    string `envconfig:"OTEL_SERVICE_NAME" default:"meeting-summarizer"`
	ServiceVersion string `envconfig:"OTEL_SERVICE_VERSION" default:"dev"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromEnv decodes every section from the process environment without
// touching .env files or validating.
func FromEnv() (*Config, error) {
	cfg := &Config{}

	sections := []struct {
		prefix string
		target interface{}
	}{
		{"", &cfg.Server},
		{"", &cfg.Database},
		{"", &cfg.Redis},
		{"", &cfg.Storage},
		{"", &cfg.JWT},
		{"", &cfg.LLM},
		{"CEREBRAS", &cfg.Cerebras},
		{"OPENAI", &cfg.OpenAI},
		{"GROQ", &cfg.Groq},
		{"ANTHROPIC", &cfg.Anthropic},
		{"GEMINI", &cfg.Gemini},
		{"OLLAMA", &cfg.Ollama},
		{"", &cfg.AssemblyAI},
		{"", &cfg.OCR},
		{"", &cfg.Pipeline},
		{"", &cfg.Telemetry},
	}
	for _, s := range sections {
		if err := envconfig.Process(s.prefix, s.target); err != nil {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("DB_DRIVER must be one of postgres, sqlite, memory (got %q)", c.Database.Driver)
	}
	if c.Pipeline.ChunkSize <= 0 {
		return fmt.Errorf("PIPELINE_CHUNK_SIZE must be positive")
	}
	if c.Pipeline.TwoPassThreshold <= 0 {
		return fmt.Errorf("PIPELINE_TWO_PASS_THRESHOLD must be positive")
	}
	if c.Pipeline.ChunkConcurrency <= 0 {
		return fmt.Errorf("PIPELINE_CHUNK_CONCURRENCY must be positive")
	}
	if c.Pipeline.ListLimit <= 0 {
		return fmt.Errorf("PIPELINE_LIST_LIMIT must be positive")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}
	if c.JWT.Enabled && c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED is true")
	}
	return nil
}

// Provider returns the backend section selected by LLM_PROVIDER.
// The boolean is false for providers without a configuration section.
func (c *Config) Provider() (ProviderConfig, bool) {
	switch c.LLM.Provider {
	case "cerebras":
		return c.Cerebras, true
	case "openai":
		return c.OpenAI, true
	case "groq":
		return c.Groq, true
	case "anthropic":
		return c.Anthropic, true
	case "gemini":
		return c.Gemini, true
	case "ollama":
		return c.Ollama, true
	}
	return ProviderConfig{}, false
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
