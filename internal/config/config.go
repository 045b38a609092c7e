// Package config loads CLI settings from ~/.funpay/config.toml and FP_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Halone228/funpay-api/internal/session"
	"github.com/Halone228/funpay-api/internal/updater"
)

const (
	EnvPrefix = "FP"

	configDir  = ".funpay"
	configName = "config"
	configType = "toml"
)

const (
	KeyPollInterval       = "runner.poll_interval"
	KeyStalenessThreshold = "runner.staleness_threshold"
	KeyPageCap            = "runner.page_cap"
	KeyEmitInitial        = "runner.emit_initial"

	KeyBaseURL        = "session.base_url"
	KeyUserAgent      = "session.user_agent"
	KeyLocale         = "session.locale"
	KeyProxy          = "session.proxy"
	KeyMaxAttempts    = "session.max_attempts"
	KeyBackoffBase    = "session.backoff_base"
	KeyBackoffCap     = "session.backoff_cap"
	KeyRequestTimeout = "session.request_timeout"
	KeyRateLimit      = "session.rate_limit"

	KeyLogLevel  = "log.level"
	KeyLogFormat = "log.format"

	KeyRedisAddr       = "sink.redis.addr"
	KeyRedisChannel    = "sink.redis.channel"
	KeyWebsocketListen = "sink.websocket.listen"

	KeyAccountsPath = "accounts.path"
	KeySecretsDir   = "secrets.dir"
)

type Config struct {
	Runner  updater.Config
	Session session.Config
	Log     Log
	Sink    Sink
	// Dir is the directory holding config.toml, accounts.toml and secrets.
	Dir string
}

type Log struct {
	Level  string
	Format string
}

type Sink struct {
	RedisAddr       string
	RedisChannel    string
	WebsocketListen string
}

// New returns a viper instance with defaults, env binding and, when present,
// the config file loaded. A missing config file is not an error.
func New() (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	return load(viper.New(), filepath.Join(homeDir, configDir))
}

func load(v *viper.Viper, dir string) (*viper.Viper, error) {
	setDefaults(v, dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault(KeyPollInterval, updater.DefaultPollInterval)
	v.SetDefault(KeyStalenessThreshold, updater.DefaultStalenessThreshold)
	v.SetDefault(KeyPageCap, updater.DefaultPageCap)
	v.SetDefault(KeyEmitInitial, false)

	v.SetDefault(KeyBaseURL, session.DefaultBaseURL)
	v.SetDefault(KeyUserAgent, "")
	v.SetDefault(KeyLocale, "")
	v.SetDefault(KeyProxy, "")
	v.SetDefault(KeyMaxAttempts, session.DefaultMaxAttempts)
	v.SetDefault(KeyBackoffBase, session.DefaultBackoffBase)
	v.SetDefault(KeyBackoffCap, session.DefaultBackoffCap)
	v.SetDefault(KeyRequestTimeout, session.DefaultRequestTimeout)
	v.SetDefault(KeyRateLimit, 0.0)

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")

	v.SetDefault(KeyRedisAddr, "127.0.0.1:6379")
	v.SetDefault(KeyRedisChannel, "funpay:events")
	v.SetDefault(KeyWebsocketListen, "127.0.0.1:8765")

	v.SetDefault(KeyAccountsPath, filepath.Join(dir, "accounts.toml"))
	v.SetDefault(KeySecretsDir, filepath.Join(dir, "secrets"))
}

// Decode reads the typed settings out of v. The golden key is never part of
// the config; callers fill Session.GoldenKey from the secret store.
func Decode(v *viper.Viper) (Config, error) {
	cfg := Config{
		Runner: updater.Config{
			PollInterval:       v.GetDuration(KeyPollInterval),
			StalenessThreshold: v.GetDuration(KeyStalenessThreshold),
			PageCap:            v.GetInt(KeyPageCap),
			EmitInitial:        v.GetBool(KeyEmitInitial),
		},
		Session: session.Config{
			BaseURL:        v.GetString(KeyBaseURL),
			UserAgent:      v.GetString(KeyUserAgent),
			Locale:         v.GetString(KeyLocale),
			Proxy:          v.GetString(KeyProxy),
			RequestTimeout: v.GetDuration(KeyRequestTimeout),
			MaxAttempts:    v.GetInt(KeyMaxAttempts),
			BackoffBase:    v.GetDuration(KeyBackoffBase),
			BackoffCap:     v.GetDuration(KeyBackoffCap),
			RateLimit:      v.GetFloat64(KeyRateLimit),
		},
		Log: Log{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
		Sink: Sink{
			RedisAddr:       v.GetString(KeyRedisAddr),
			RedisChannel:    v.GetString(KeyRedisChannel),
			WebsocketListen: v.GetString(KeyWebsocketListen),
		},
		Dir: filepath.Dir(v.GetString(KeyAccountsPath)),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.Runner.PollInterval < time.Second {
		errs = append(errs, fmt.Errorf("%s must be at least 1s, got %s", KeyPollInterval, c.Runner.PollInterval))
	}
	if c.Runner.PageCap < 1 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", KeyPageCap, c.Runner.PageCap))
	}
	if c.Session.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", KeyMaxAttempts, c.Session.MaxAttempts))
	}
	if c.Session.BackoffCap < c.Session.BackoffBase {
		errs = append(errs, fmt.Errorf("%s must not be below %s", KeyBackoffCap, KeyBackoffBase))
	}
	if c.Session.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyRateLimit))
	}
	return errors.Join(errs...)
}
