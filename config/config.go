package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Scheduler SchedulerConfig
	Metrics   MetricsConfig
	Reports   ReportsConfig
	DBURL     string
	OpsDBPath string
	LogLevel  string
	Sources   map[string]*SourceConfig
}

// ReportsConfig points at the S3-compatible bucket where PMS report exports
// land. Empty Bucket disables report processing.
type ReportsConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	InboxPrefix     string
}

type SchedulerConfig struct {
	Interval time.Duration
	Cron     string
}

type MetricsConfig struct {
	// Timeframes recomputed on each metrics pass.
	Timeframes []string
	CacheTTL   time.Duration
}

// SourceConfig describes one PMS connection: which wire client to use,
// where it lives, and which properties to pull from it.
type SourceConfig struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	System      string   `yaml:"system"` // yardi, realpage
	Endpoint    string   `yaml:"endpoint"`
	UsernameEnv string   `yaml:"username_env"`
	PasswordEnv string   `yaml:"password_env"`
	Database    string   `yaml:"database"`
	Platform    string   `yaml:"platform"`
	Properties  []string `yaml:"properties"`
	RateLimitMS int      `yaml:"rate_limit_ms"`
}

func (s *SourceConfig) Username() string { return os.Getenv(s.UsernameEnv) }
func (s *SourceConfig) Password() string { return os.Getenv(s.PasswordEnv) }

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Scheduler: SchedulerConfig{
			Cron: os.Getenv("SYNC_CRON"),
		},
		Metrics: MetricsConfig{
			Timeframes: []string{"CM", "PM", "YTD", "L7", "L30"},
			CacheTTL:   time.Duration(getEnvInt("CACHE_TTL_SEC", 300)) * time.Second,
		},
		Reports: ReportsConfig{
			Bucket:          os.Getenv("REPORTS_S3_BUCKET"),
			Region:          getEnv("REPORTS_S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("REPORTS_S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("REPORTS_S3_ACCESS_KEY"),
			SecretAccessKey: os.Getenv("REPORTS_S3_SECRET_KEY"),
			InboxPrefix:     getEnv("REPORTS_S3_PREFIX", "inbox/"),
		},
		DBURL:     os.Getenv("DATABASE_URL"),
		OpsDBPath: getEnv("OPS_DB_PATH", "metrics_ops.db"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		Sources:   make(map[string]*SourceConfig),
	}

	if interval := os.Getenv("SYNC_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	if err := cfg.loadSourceConfigs(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadSourceConfigs() error {
	configDir := "config/sources"
	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		path := filepath.Join(configDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var source SourceConfig
		if err := yaml.Unmarshal(data, &source); err != nil {
			return err
		}

		c.Sources[source.ID] = &source
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
