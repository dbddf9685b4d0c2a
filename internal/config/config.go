// Package config resolves runtime settings from flags, environment, an
// optional .env file and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAPIBaseURL is the local development address of the content service.
const DefaultAPIBaseURL = "http://localhost:8000"

const (
	envPrefix      = "EDUASSIST"
	configName     = "eduassist"
	defaultTimeout = 2 * time.Minute
	defaultImageTO = 60 * time.Second
)

// Keys shared by flags, env and the config file.
const (
	KeyAPIBaseURL   = "api_base_url"
	KeyTimeout      = "timeout"
	KeyImageTimeout = "image_timeout"
	KeyLogFile      = "log_file"
	KeyLogLevel     = "log_level"
	KeyLessons      = "lessons"
	KeyCacheDir     = "cache_dir"
	KeyNoAltScreen  = "no_alt_screen"
	KeyNoImages     = "no_images"
)

// fallbackBaseURLEnv are consulted, in order, when api_base_url is unset.
// NEXT_PUBLIC_API_BASE_URL keeps existing front-end .env files working.
var fallbackBaseURLEnv = []string{"NEXT_PUBLIC_API_BASE_URL", "API_BASE_URL"}

// Config holds every setting the program needs.
type Config struct {
	APIBaseURL     string        `mapstructure:"api_base_url" validate:"required,url,startswith=http"`
	RequestTimeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	ImageTimeout   time.Duration `mapstructure:"image_timeout" validate:"gt=0"`
	LogFile        string        `mapstructure:"log_file" validate:"required"`
	LogLevel       string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LessonsPath    string        `mapstructure:"lessons" validate:"required"`
	CacheDir       string        `mapstructure:"cache_dir"`
	NoAltScreen    bool          `mapstructure:"no_alt_screen"`
	NoImages       bool          `mapstructure:"no_images"`
}

var validate = validator.New()

// LoadDotEnv loads path into the process environment when the file exists.
// Variables already set win over the file.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ReadConfigFile points v at an explicit file, or searches ./eduassist.yaml
// and ~/.config/eduassist/eduassist.yaml. A missing search hit is not an error.
func ReadConfigFile(v *viper.Viper, explicit string) error {
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// SetDefaults registers defaults and env bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyTimeout, defaultTimeout)
	v.SetDefault(KeyImageTimeout, defaultImageTO)
	v.SetDefault(KeyLogFile, defaultLogFile())
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLessons, filepath.Join(".", "lessons.json"))
	v.SetDefault(KeyCacheDir, "")
	v.SetDefault(KeyNoAltScreen, false)
	v.SetDefault(KeyNoImages, false)
}

// Load builds and validates a Config from v.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.APIBaseURL = resolveBaseURL(v.GetString(KeyAPIBaseURL))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func resolveBaseURL(configured string) string {
	value := strings.TrimSpace(configured)
	if value == "" {
		for _, key := range fallbackBaseURLEnv {
			if env := strings.TrimSpace(os.Getenv(key)); env != "" {
				value = env
				break
			}
		}
	}
	if value == "" {
		value = DefaultAPIBaseURL
	}
	return strings.TrimRight(value, "/")
}

func defaultLogFile() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, configName, configName+".log")
}
