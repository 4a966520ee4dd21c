package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        App        `mapstructure:"app"`
	AI         AI         `mapstructure:"ai"`
	Scrape     Scrape     `mapstructure:"scrape"`
	Search     Search     `mapstructure:"search"`
	Generation Generation `mapstructure:"generation"`
	Logging    Logging    `mapstructure:"logging"`
	CLI        CLI        `mapstructure:"cli"`
}

// App holds general application configuration
type App struct {
	DataDir    string `mapstructure:"data_dir"`
	ConfigFile string `mapstructure:"config_file"`
}

// AI holds AI/LLM configuration
type AI struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     string  `mapstructure:"timeout"`
	MaxTokens   int32   `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
}

// Scrape holds account scraper configuration
type Scrape struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
	Timeout   string `mapstructure:"timeout"`
	MaxPosts  int    `mapstructure:"max_posts"`
}

// Search holds web search tool configuration
type Search struct {
	Enabled    bool   `mapstructure:"enabled"`
	MaxResults int    `mapstructure:"max_results"`
	Timeout    string `mapstructure:"timeout"`
	RateLimit  string `mapstructure:"rate_limit"`
}

// Generation holds draft generation configuration
type Generation struct {
	DefaultCount int `mapstructure:"default_count"`
	MinPostChars int `mapstructure:"min_post_chars"`
	MaxPostChars int `mapstructure:"max_post_chars"`
	StylePosts   int `mapstructure:"style_posts"`
}

// Logging holds logging configuration
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// CLI holds CLI-specific configuration
type CLI struct {
	Interactive bool `mapstructure:"interactive"`
}

var globalConfig *Config

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	// Configure viper
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".drafty")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	config.App.ConfigFile = viper.ConfigFileUsed()

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// Reset clears the cached configuration. Used by tests.
func Reset() {
	globalConfig = nil
	viper.Reset()
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.data_dir", ".drafty-cache")

	// AI defaults
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash-preview-05-20")
	viper.SetDefault("ai.gemini.timeout", "60s")
	viper.SetDefault("ai.gemini.max_tokens", 8192)
	viper.SetDefault("ai.gemini.temperature", 0.7)

	// Scrape defaults
	viper.SetDefault("scrape.base_url", "https://nitter.net")
	viper.SetDefault("scrape.user_agent", "Drafty/1.0")
	viper.SetDefault("scrape.timeout", "30s")
	viper.SetDefault("scrape.max_posts", 100)

	// Search defaults
	viper.SetDefault("search.enabled", false)
	viper.SetDefault("search.max_results", 5)
	viper.SetDefault("search.timeout", "15s")
	viper.SetDefault("search.rate_limit", "2s")

	// Generation defaults
	viper.SetDefault("generation.default_count", 5)
	viper.SetDefault("generation.min_post_chars", 20)
	viper.SetDefault("generation.max_post_chars", 280)
	viper.SetDefault("generation.style_posts", 30)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")

	// CLI defaults
	viper.SetDefault("cli.interactive", false)
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	// Gemini API key - support multiple formats
	bindEnvKeys("ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	bindEnvKeys("scrape.base_url", []string{
		"DRAFTY_SCRAPE_BASE_URL",
	})
}

// bindEnvKeys binds a config key to multiple environment variable names
func bindEnvKeys(configKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(configKey, value)
			return
		}
	}
}

// validateConfig performs basic sanity checks on loaded values
func validateConfig(config *Config) error {
	if config.Generation.MinPostChars <= 0 || config.Generation.MaxPostChars <= config.Generation.MinPostChars {
		return fmt.Errorf("invalid generation length window: min=%d max=%d",
			config.Generation.MinPostChars, config.Generation.MaxPostChars)
	}
	if config.Generation.DefaultCount < 1 || config.Generation.DefaultCount > 20 {
		return fmt.Errorf("generation.default_count must be in [1,20], got %d", config.Generation.DefaultCount)
	}
	return nil
}
