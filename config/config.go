package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string       `mapstructure:"port"`
	Environment    string       `mapstructure:"environment"`
	AllowedOrigins []string     `mapstructure:"allowed_origins"`
	Twilio         TwilioConfig `mapstructure:"twilio"`
	Room           RoomConfig   `mapstructure:"room"`
	Stream         StreamConfig `mapstructure:"stream"`
	Redis          RedisConfig  `mapstructure:"redis"`
	Log            LogConfig    `mapstructure:"log"`
}

// TwilioConfig holds the account credentials used for both the REST API
// and access token signing.
type TwilioConfig struct {
	AccountSID string        `mapstructure:"account_sid"`
	APIKey     string        `mapstructure:"api_key"`
	APISecret  string        `mapstructure:"api_secret"`
	VideoURL   string        `mapstructure:"video_url"`
	MediaURL   string        `mapstructure:"media_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type RoomConfig struct {
	Name            string `mapstructure:"name"`
	MaxParticipants int    `mapstructure:"max_participants"`
}

// StreamConfig controls the composer pipeline. With LockEnabled set,
// start-stream calls are serialised through a Redis lock.
type StreamConfig struct {
	ComposerIdentity string        `mapstructure:"composer_identity"`
	LockEnabled      bool          `mapstructure:"lock_enabled"`
	LockTTL          time.Duration `mapstructure:"lock_ttl"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load reads an optional config.yaml from configPath and overlays
// environment variables on top of it.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	setDefaults(v)
	bindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("environment", "development")
	v.SetDefault("allowed_origins", []string{"http://localhost:5000"})
	v.SetDefault("twilio.video_url", "https://video.twilio.com")
	v.SetDefault("twilio.media_url", "https://media.twilio.com")
	v.SetDefault("twilio.timeout", 30*time.Second)
	v.SetDefault("twilio.token_ttl", time.Hour)
	v.SetDefault("room.name", "Superclass!")
	v.SetDefault("room.max_participants", 6)
	v.SetDefault("stream.composer_identity", "livestreamer")
	v.SetDefault("stream.lock_enabled", false)
	v.SetDefault("stream.lock_ttl", 30*time.Second)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("environment", "ENVIRONMENT")
	_ = v.BindEnv("allowed_origins", "ALLOWED_ORIGINS")
	_ = v.BindEnv("twilio.account_sid", "TWILIO_ACCOUNT_SID")
	_ = v.BindEnv("twilio.api_key", "TWILIO_API_KEY")
	_ = v.BindEnv("twilio.api_secret", "TWILIO_API_SECRET")
	_ = v.BindEnv("room.name", "ROOM_NAME")
	_ = v.BindEnv("room.max_participants", "MAX_PARTICIPANTS")
	_ = v.BindEnv("stream.lock_enabled", "STREAM_LOCK_ENABLED")
	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

// Validate reports missing credentials and nonsensical room settings.
func (c *Config) Validate() error {
	var missing []string
	if c.Twilio.AccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if c.Twilio.APIKey == "" {
		missing = append(missing, "TWILIO_API_KEY")
	}
	if c.Twilio.APISecret == "" {
		missing = append(missing, "TWILIO_API_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	if c.Room.Name == "" {
		return errors.New("room name must not be empty")
	}
	if c.Room.MaxParticipants <= 0 {
		return fmt.Errorf("max participants must be positive, got %d", c.Room.MaxParticipants)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
