package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileEnv names the environment variable holding an optional YAML config path.
const FileEnv = "LEAGUECARD_CONFIG"

// DotEnvFile is read into the environment before loading, if it exists.
// Variables already set in the environment win.
var DotEnvFile = ".env"

// Load builds a Config by layering, from lowest to highest precedence:
//  1. defaults (New)
//  2. YAML file, if LEAGUECARD_CONFIG is set
//  3. environment variables, named after the upper-cased koanf keys
//     (RIOT_API_KEY, MODEL_ID, MATCH_COUNT, ...)
//
// The result is validated before it is returned.
func Load(_ context.Context) (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	base := New()
	k := koanf.New(".")

	if path := os.Getenv(FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	known := keys()
	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(key)
		if _, ok := known[key]; !ok || value == "" {
			return "", nil
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// keys lists the koanf keys of Config, so unrelated environment variables
// never reach the decoder.
func keys() map[string]struct{} {
	t := reflect.TypeOf(Config{})
	out := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("koanf"); tag != "" {
			out[tag] = struct{}{}
		}
	}
	return out
}
