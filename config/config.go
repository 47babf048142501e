package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Api struct {
		Email          string        `mapstructure:"email"`
		Token          string        `mapstructure:"token"`
		Endpoint       string        `mapstructure:"endpoint"`
		RequestTimeout time.Duration `mapstructure:"request_timeout"`
	} `mapstructure:"api"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// LoadConfig reads config.yaml from path. Keys can be overridden
// with PDFKIWI_ prefixed variables, e.g. PDFKIWI_API_TOKEN.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("pdfkiwi")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.email", "")
	v.SetDefault("api.token", "")
	v.SetDefault("api.endpoint", "")
	v.SetDefault("api.request_timeout", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Logger builds a logger from the log section.
func (c *Config) Logger() (*log.Logger, error) {
	logger := log.New()
	logger.SetOutput(os.Stderr)

	level := c.Log.Level
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(lvl)

	switch strings.ToLower(c.Log.Format) {
	case "", "text":
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format: %s", c.Log.Format)
	}

	return logger, nil
}
