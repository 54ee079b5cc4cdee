package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const defaultPath = "config/local.yaml"

// Config is read from YAML first, environment variables take priority.
// Empty endpoints disable the matching component.
type Config struct {
	HTTP struct {
		Addr string `yaml:"addr" env:"HTTP_ADDR"`
	} `yaml:"http"`

	Postgres struct {
		DSN string `yaml:"dsn" env:"DATABASE_DSN"`
	} `yaml:"postgres"`

	Minio struct {
		Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
		AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
		SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
		Bucket    string `yaml:"bucket" env:"MINIO_BUCKET"`
		Secure    bool   `yaml:"secure" env:"MINIO_SECURE"`
	} `yaml:"minio"`

	Kafka struct {
		Brokers      []string `yaml:"brokers" env:"KAFKA_BROKERS" envSeparator:","`
		GroupID      string   `yaml:"group_id" env:"KAFKA_GROUP_ID"`
		CommandTopic string   `yaml:"command_topic" env:"COMMAND_TOPIC"`
		DisplayTopic string   `yaml:"display_topic" env:"DISPLAY_TOPIC"`
		DisplayKey   string   `yaml:"display_key" env:"DISPLAY_KEY"`
		DisplayQueue int      `yaml:"display_queue" env:"DISPLAY_QUEUE"`
	} `yaml:"kafka"`

	Display struct {
		Terminal  bool `yaml:"terminal" env:"DISPLAY_TERMINAL"`
		ShowTicks bool `yaml:"show_ticks" env:"DISPLAY_SHOW_TICKS"`
	} `yaml:"display"`

	Demo struct {
		AutoStart bool `yaml:"auto_start" env:"DEMO_AUTO_START"`
		AutoCycle bool `yaml:"auto_cycle" env:"DEMO_AUTO_CYCLE"`
	} `yaml:"demo"`
}

func defaults() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = ":8003"
	cfg.Minio.Bucket = "proctor-sessions"
	cfg.Kafka.GroupID = "proctor-demo-group"
	cfg.Kafka.CommandTopic = "proctor-commands"
	cfg.Kafka.DisplayTopic = "proctor-display"
	cfg.Kafka.DisplayKey = "board"
	cfg.Kafka.DisplayQueue = 256
	cfg.Display.Terminal = true
	return cfg
}

// LoadConfig reads path (config/local.yaml when empty). A missing file
// is not an error; defaults and environment are used instead.
func LoadConfig(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
