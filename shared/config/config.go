package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	YouTube    YouTubeConfig    `yaml:"youtube"`
	Channels   []Channel        `yaml:"channels"`
	WindowDays int              `yaml:"window_days"`
	Output     OutputConfig     `yaml:"output"`
	Email      EmailConfig      `yaml:"email"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Schedule   string           `yaml:"schedule"`
}

type YouTubeConfig struct {
	APIKey       string `yaml:"api_key" env:"YT_API"`
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	TokenFile    string `yaml:"token_file"`
}

// Channel pairs a user-chosen alias with the platform-assigned channel ID.
type Channel struct {
	Alias string `yaml:"alias"`
	ID    string `yaml:"id"`
}

type OutputConfig struct {
	AnalyticsFile string `yaml:"analytics_file"`
	AllVideosFile string `yaml:"all_videos_file"`
	TopVideosFile string `yaml:"top_videos_file"`
	ReportFile    string `yaml:"report_file"`
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

// Configured reports whether email delivery has enough settings to attempt.
func (e *EmailConfig) Configured() bool {
	return e.SMTPServer != "" && e.Username != "" && e.ToEmail != ""
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	// The config file is optional; env vars alone are a complete configuration.
	data, err := os.ReadFile(configFile)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if v := os.Getenv("YT_API"); v != "" {
		cfg.YouTube.APIKey = v
	}
	if cfg.YouTube.ClientID == "" {
		cfg.YouTube.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if cfg.YouTube.ClientSecret == "" {
		cfg.YouTube.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if cfg.YouTube.TokenFile == "" {
		cfg.YouTube.TokenFile = "youtube_token.json"
	}
	if cfg.Email.Username == "" {
		cfg.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if cfg.Email.Password == "" {
		cfg.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}

	if v := os.Getenv("YT_CHANNEL_MAP"); v != "" {
		channels, err := ParseChannelMap(v)
		if err != nil {
			return nil, fmt.Errorf("invalid YT_CHANNEL_MAP: %w", err)
		}
		cfg.Channels = channels
	}

	cfg.WindowDays = windowDays(cfg.WindowDays)

	if cfg.Output.AnalyticsFile == "" {
		cfg.Output.AnalyticsFile = "youtube_analytics.csv"
	}
	if cfg.Output.AllVideosFile == "" {
		cfg.Output.AllVideosFile = "all_videos_report.csv"
	}
	if cfg.Output.TopVideosFile == "" {
		cfg.Output.TopVideosFile = "top_videos_report.csv"
	}
	if cfg.Output.ReportFile == "" {
		cfg.Output.ReportFile = "youtube_analytics_report.html"
	}
	if cfg.Monitoring.HealthPort == 0 {
		cfg.Monitoring.HealthPort = 8080
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "0 0 9 * * *" // Daily at 9 AM
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// ParseChannelMap parses the "alias:id,alias:id" form used by YT_CHANNEL_MAP.
// Order is preserved. Any entry without exactly one separator, or with an
// empty alias or ID, is a configuration error.
func ParseChannelMap(s string) ([]Channel, error) {
	var channels []Channel
	for _, entry := range strings.Split(s, ",") {
		alias, id, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("channel entry %q is missing the ':' separator", entry)
		}
		alias = strings.TrimSpace(alias)
		id = strings.TrimSpace(id)
		if alias == "" || id == "" {
			return nil, fmt.Errorf("channel entry %q has an empty alias or ID", entry)
		}
		channels = append(channels, Channel{Alias: alias, ID: id})
	}
	return channels, nil
}

// windowDays resolves the lookback window, defaulting to 1 day when the
// environment value is absent or not a positive integer.
func windowDays(fromFile int) int {
	if v := os.Getenv("YT_DAYS_TO_ANALYZE"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			return days
		}
		return 1
	}
	if fromFile > 0 {
		return fromFile
	}
	return 1
}

func (c *Config) validate() error {
	if c.YouTube.APIKey == "" && (c.YouTube.ClientID == "" || c.YouTube.ClientSecret == "") {
		return fmt.Errorf("YouTube credentials are required (set YT_API, or GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET)")
	}
	if len(c.Channels) == 0 {
		return fmt.Errorf("at least one channel is required (set YT_CHANNEL_MAP or channels in the config file)")
	}
	for _, ch := range c.Channels {
		if ch.Alias == "" || ch.ID == "" {
			return fmt.Errorf("channel entries need both an alias and an ID (got alias=%q id=%q)", ch.Alias, ch.ID)
		}
	}
	return nil
}
