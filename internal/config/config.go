package config

import (
	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	DocURL string `mapstructure:"DOC_URL"`

	TrackerBackend string `mapstructure:"TRACKER_BACKEND"` // "file", "redis" or "postgres"
	TrackerPath    string `mapstructure:"TRACKER_PATH"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisKey       string `mapstructure:"REDIS_KEY"`
	PostgresURL    string `mapstructure:"POSTGRES_URL"`

	OpenAIAPIKey     string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel      string `mapstructure:"OPENAI_MODEL"`
	SummaryMaxTokens int    `mapstructure:"SUMMARY_MAX_TOKENS"`

	EmailTo      string `mapstructure:"EMAIL_TO"`
	EmailFrom    string `mapstructure:"EMAIL_FROM"`
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	ScrapeTimeout int    `mapstructure:"SCRAPE_TIMEOUT"` // in seconds
	RenderJS      bool   `mapstructure:"RENDER_JS"`
	ServerPort    string `mapstructure:"SERVER_PORT"`
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present
	// This allows configuration purely through environment variables in production
	_ = viper.ReadInConfig()

	// Set default values
	viper.SetDefault("TRACKER_BACKEND", "file")
	viper.SetDefault("TRACKER_PATH", "sent_links.json")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.SetDefault("SUMMARY_MAX_TOKENS", 800)
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SCRAPE_TIMEOUT", 30)
	viper.SetDefault("RENDER_JS", false)
	viper.SetDefault("SERVER_PORT", "8080")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
