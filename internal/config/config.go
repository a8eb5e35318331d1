package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"go-aws-clients/internal/awsconf"
)

type EnvReader interface {
	Getenv(key string) string
}

// OSEnv reads from the actual operating system environment
type OSEnv struct{}

func (OSEnv) Getenv(key string) string {
	return os.Getenv(key)
}

// ViperEnv reads keys through viper: environment first, then any loaded config file.
type ViperEnv struct {
	v *viper.Viper
}

// NewViperEnv returns a ViperEnv. A non-empty path is read as a config file
// (any format viper understands) whose top-level keys match the env var names.
func NewViperEnv(path string) (ViperEnv, error) {
	v := viper.New()
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return ViperEnv{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return ViperEnv{v: v}, nil
}

func (e ViperEnv) Getenv(key string) string {
	return e.v.GetString(key)
}

type Config struct {
	AWSRegion    string
	AWSEndpoint  string
	AWSAccessKey string
	AWSSecretKey string
	LogLevel     string

	Concurrency int
	MaxInFlight int
	WaitSeconds int
	RedisAddr   string
	LeaseTTL    time.Duration
}

// Credentials returns the explicit credentials handed to every service client.
func (c Config) Credentials() awsconf.Credentials {
	return awsconf.Credentials{
		AccessKey: c.AWSAccessKey,
		SecretKey: c.AWSSecretKey,
		Region:    c.AWSRegion,
		Endpoint:  c.AWSEndpoint,
	}
}

func Load(env EnvReader) (Config, error) {
	concurrency, err := getenvInt(env, "WORKER_CONCURRENCY", 4)
	if err != nil {
		return Config{}, err
	}
	if concurrency <= 0 {
		return Config{}, errors.New("WORKER_CONCURRENCY must be > 0")
	}

	maxInFlight, err := getenvInt(env, "WORKER_MAX_IN_FLIGHT", 10)
	if err != nil {
		return Config{}, err
	}
	if maxInFlight < concurrency {
		return Config{}, errors.New("WORKER_MAX_IN_FLIGHT must be >= WORKER_CONCURRENCY")
	}

	wait, err := getenvInt(env, "WORKER_WAIT_SECONDS", 15)
	if err != nil {
		return Config{}, err
	}
	if wait < 0 || wait > 20 {
		return Config{}, errors.New("WORKER_WAIT_SECONDS must be in range 0-20")
	}

	leaseTTL, err := getenvInt(env, "LEASE_TTL_SECONDS", 60)
	if err != nil {
		return Config{}, err
	}
	if leaseTTL <= 0 {
		return Config{}, errors.New("LEASE_TTL_SECONDS must be > 0")
	}

	return Config{
		AWSRegion:    getenv(env, "AWS_REGION", "us-east-1"),
		AWSEndpoint:  env.Getenv("AWS_ENDPOINT_URL"),
		AWSAccessKey: env.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey: env.Getenv("AWS_SECRET_ACCESS_KEY"),
		LogLevel:     getenv(env, "LOG_LEVEL", "info"),
		Concurrency:  concurrency,
		MaxInFlight:  maxInFlight,
		WaitSeconds:  wait,
		RedisAddr:    env.Getenv("REDIS_ADDR"),
		LeaseTTL:     time.Duration(leaseTTL) * time.Second,
	}, nil
}

func getenv(env EnvReader, key, def string) string {
	v := env.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(env EnvReader, key string, def int) (int, error) {
	v := getenv(env, key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
