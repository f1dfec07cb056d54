package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort          string   `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SQLiteStoragePath string   `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH" env-default:"tictactoe.db"`
	Realtime          Realtime `yaml:"realtime"`
	Cleanup           Cleanup  `yaml:"cleanup"`
}

type Realtime struct {
	Driver string `yaml:"driver" env:"REALTIME_DRIVER" env-default:"memory"`
	Redis  Redis  `yaml:"redis"`
	NATS   NATS   `yaml:"nats"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type NATS struct {
	URL string `yaml:"url" env:"NATS_URL" env-default:"nats://localhost:4222"`
}

// Cleanup thresholds are Go duration strings ("2m", "24h"); MustLoad
// rejects values time.ParseDuration can't read.
type Cleanup struct {
	SweepInterval     string `yaml:"sweep-interval" env-default:"2m"`
	WaitingTimeout    string `yaml:"waiting-timeout" env-default:"30m"`
	FinishedRetention string `yaml:"finished-retention" env-default:"5m"`
	MaxAge            string `yaml:"max-age" env-default:"24h"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	for name, value := range map[string]string{
		"sweep-interval":     config.Cleanup.SweepInterval,
		"waiting-timeout":    config.Cleanup.WaitingTimeout,
		"finished-retention": config.Cleanup.FinishedRetention,
		"max-age":            config.Cleanup.MaxAge,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			panic(fmt.Errorf("invalid cleanup duration %s=%q: %w", name, value, err))
		}
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Cleanup) GetSweepInterval() time.Duration {
	return mustDuration(that.SweepInterval)
}

func (that *Cleanup) GetWaitingTimeout() time.Duration {
	return mustDuration(that.WaitingTimeout)
}

func (that *Cleanup) GetFinishedRetention() time.Duration {
	return mustDuration(that.FinishedRetention)
}

func (that *Cleanup) GetMaxAge() time.Duration {
	return mustDuration(that.MaxAge)
}

func mustDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		panic(fmt.Errorf("invalid duration %q: %w", value, err))
	}

	return duration
}
