// Package config loads process configuration from defaults, an optional
// YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Run modes.
const (
	ModeLambda    = "lambda"
	ModeHTTP      = "http"
	ModeDiscord   = "discord"
	ModeChampions = "champions"
)

// Image backends.
const (
	ProviderBedrock = "bedrock"
	ProviderOpenAI  = "openai"
)

// Config contains process configuration.
type Config struct {
	// RiotAPIKey is sent as X-Riot-Token on every Riot request.
	RiotAPIKey string `koanf:"riot_api_key"`
	// RiotRegion selects the regional host (account, match).
	RiotRegion string `koanf:"riot_region"`
	// RiotPlatform selects the platform host (summoner, mastery, league).
	RiotPlatform string `koanf:"riot_platform"`

	// MatchCount bounds how many recent matches are aggregated.
	MatchCount int `koanf:"match_count"`
	// MatchConcurrency bounds concurrent match detail fetches.
	MatchConcurrency int `koanf:"match_concurrency"`

	// ModelID names the image model, e.g. amazon.titan-image-generator-v2:0.
	ModelID       string `koanf:"model_id"`
	ImageProvider string `koanf:"image_provider"`
	OpenAIAPIKey  string `koanf:"openai_api_key"`
	OpenAIBaseURL string `koanf:"openai_base_url"`

	AWSRegion          string `koanf:"aws_region"`
	AWSAccessKeyID     string `koanf:"aws_access_key_id"`
	AWSSecretAccessKey string `koanf:"aws_secret_access_key"`
	AWSSessionToken    string `koanf:"aws_session_token"`

	ImageWidth  int     `koanf:"image_width"`
	ImageHeight int     `koanf:"image_height"`
	CFGScale    float64 `koanf:"cfg_scale"`
	OutputWidth int     `koanf:"output_width"`
	JPEGQuality int     `koanf:"jpeg_quality"`

	HTTPAddr    string        `koanf:"http_addr"`
	HTTPTimeout time.Duration `koanf:"http_timeout"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `koanf:"log_level"`
	// Mode is one of lambda, http, discord, champions. Empty picks lambda
	// inside AWS Lambda and http elsewhere.
	Mode string `koanf:"mode"`
	// LambdaFunctionName is set by the Lambda runtime.
	LambdaFunctionName string `koanf:"aws_lambda_function_name"`

	DiscordToken string `koanf:"discord_token"`
	GuildID      string `koanf:"guild_id"`

	// ChampionOut is where MODE=champions writes the refreshed dataset.
	ChampionOut string `koanf:"champion_out"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		RiotRegion:       "americas",
		RiotPlatform:     "na1",
		MatchCount:       16,
		MatchConcurrency: 4,
		ImageProvider:    ProviderBedrock,
		AWSRegion:        "us-east-1",
		ImageWidth:       1024,
		ImageHeight:      1024,
		CFGScale:         8.0,
		OutputWidth:      512,
		JPEGQuality:      80,
		HTTPAddr:         ":8080",
		HTTPTimeout:      10 * time.Second,
		LogLevel:         "info",
		ChampionOut:      "internal/champion/champion.json",
	}
}

// RunMode resolves an empty Mode from the runtime environment.
func (c *Config) RunMode() string {
	if c.Mode != "" {
		return c.Mode
	}
	if c.LambdaFunctionName != "" {
		return ModeLambda
	}
	return ModeHTTP
}

// Validate checks the settings the selected mode depends on.
func (c *Config) Validate() error {
	mode := c.RunMode()
	switch mode {
	case ModeLambda, ModeHTTP, ModeDiscord:
	case ModeChampions:
		// Only talks to Data Dragon.
		return nil
	default:
		return invalid("mode", "unknown mode %q", mode)
	}

	if c.RiotAPIKey == "" {
		return invalid("riot_api_key", "must be set")
	}
	if c.ModelID == "" {
		return invalid("model_id", "must be set")
	}

	switch c.ImageProvider {
	case ProviderBedrock:
		if c.AWSRegion == "" {
			return invalid("aws_region", "must be set for the bedrock provider")
		}
		if (c.AWSAccessKeyID == "") != (c.AWSSecretAccessKey == "") {
			return invalid("aws_access_key_id", "access key id and secret must be set together")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return invalid("openai_api_key", "must be set for the openai provider")
		}
	default:
		return invalid("image_provider", "unknown provider %q", c.ImageProvider)
	}

	if c.MatchCount < 1 || c.MatchCount > 100 {
		return invalid("match_count", "must be between 1 and 100, got %d", c.MatchCount)
	}
	if c.MatchConcurrency < 1 {
		return invalid("match_concurrency", "must be positive, got %d", c.MatchConcurrency)
	}
	if c.ImageWidth <= 0 || c.ImageHeight <= 0 {
		return invalid("image_width", "image size must be positive, got %dx%d", c.ImageWidth, c.ImageHeight)
	}
	if c.CFGScale <= 0 {
		return invalid("cfg_scale", "must be positive, got %g", c.CFGScale)
	}
	if c.OutputWidth <= 0 {
		return invalid("output_width", "must be positive, got %d", c.OutputWidth)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return invalid("jpeg_quality", "must be between 1 and 100, got %d", c.JPEGQuality)
	}

	if mode == ModeHTTP && c.HTTPAddr == "" {
		return invalid("http_addr", "must not be empty")
	}
	if mode == ModeDiscord && c.DiscordToken == "" {
		return invalid("discord_token", "must be set in discord mode")
	}
	return nil
}

func invalid(key, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, key, fmt.Sprintf(format, args...))
}
