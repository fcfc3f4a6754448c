package main

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/theme-clash/internal/errors"
)

const envPrefix = "THEMECLASH_"

// Config is the resolved server configuration. Sources apply in order:
// defaults, the YAML file, THEMECLASH_* environment variables, then flags
// set on the command line.
type Config struct {
	HTTPPort    int           `yaml:"http_port"`
	GRPCPort    int           `yaml:"grpc_port"`
	RedisAddr   string        `yaml:"redis_addr"`
	StateTTL    time.Duration `yaml:"state_ttl"`
	HistoryURL  string        `yaml:"history_url"`
	NATSURL     string        `yaml:"nats_url"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	LogLevel    string        `yaml:"log_level"`
	LogFormat   string        `yaml:"log_format"`
}

func defaultConfig() *Config {
	return &Config{
		HTTPPort:    8080,
		GRPCPort:    50051,
		StateTTL:    24 * time.Hour,
		IdleTimeout: 30 * time.Minute,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Validate checks ranges and enums
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("http_port", c.HTTPPort, 1, 65535, vb)
	errors.ValidateRange("grpc_port", c.GRPCPort, 1, 65535, vb)
	if c.HTTPPort == c.GRPCPort {
		vb.InvalidField("grpc_port", "must differ from http_port")
	}
	if c.StateTTL < 0 {
		vb.InvalidField("state_ttl", "must not be negative")
	}
	if c.IdleTimeout < 0 {
		vb.InvalidField("idle_timeout", "must not be negative")
	}
	errors.ValidateEnum("log_level", c.LogLevel, []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("log_format", c.LogFormat, []string{"text", "json"}, vb)
	return vb.Build()
}

type configBinding struct {
	flag string
	env  string
	set  func(c *Config, value string) error
}

var configBindings = []configBinding{
	{flag: "http-port", env: "HTTP_PORT", set: intSetter(func(c *Config) *int { return &c.HTTPPort })},
	{flag: "grpc-port", env: "GRPC_PORT", set: intSetter(func(c *Config) *int { return &c.GRPCPort })},
	{flag: "redis-addr", env: "REDIS_ADDR", set: stringSetter(func(c *Config) *string { return &c.RedisAddr })},
	{flag: "state-ttl", env: "STATE_TTL", set: durationSetter(func(c *Config) *time.Duration { return &c.StateTTL })},
	{flag: "history-url", env: "HISTORY_URL", set: stringSetter(func(c *Config) *string { return &c.HistoryURL })},
	{flag: "nats-url", env: "NATS_URL", set: stringSetter(func(c *Config) *string { return &c.NATSURL })},
	{flag: "idle-timeout", env: "IDLE_TIMEOUT", set: durationSetter(func(c *Config) *time.Duration { return &c.IdleTimeout })},
	{flag: "log-level", env: "LOG_LEVEL", set: stringSetter(func(c *Config) *string { return &c.LogLevel })},
	{flag: "log-format", env: "LOG_FORMAT", set: stringSetter(func(c *Config) *string { return &c.LogFormat })},
}

// registerConfigFlags adds one flag per config field plus --config
func registerConfigFlags(flags *pflag.FlagSet) {
	d := defaultConfig()
	flags.String("config", "", "path to a YAML config file")
	flags.Int("http-port", d.HTTPPort, "HTTP and websocket port")
	flags.Int("grpc-port", d.GRPCPort, "gRPC admin port")
	flags.String("redis-addr", d.RedisAddr, "Redis address or URL; empty keeps rooms in memory")
	flags.Duration("state-ttl", d.StateTTL, "expiry of persisted room snapshots, 0 keeps them forever")
	flags.String("history-url", d.HistoryURL, "match history endpoint")
	flags.String("nats-url", d.NATSURL, "NATS server for match history events")
	flags.Duration("idle-timeout", d.IdleTimeout, "unload rooms without connections after this long")
	flags.String("log-level", d.LogLevel, "debug, info, warn or error")
	flags.String("log-format", d.LogFormat, "text or json")
}

// loadConfig resolves the configuration from every source
func loadConfig(flags *pflag.FlagSet, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := defaultConfig()

	path, _ := flags.GetString("config")
	if path == "" {
		path, _ = lookupEnv(envPrefix + "CONFIG")
	}
	if path != "" {
		if err := loadConfigFile(path, cfg); err != nil {
			return nil, err
		}
	}

	for _, b := range configBindings {
		if value, ok := lookupEnv(envPrefix + b.env); ok && value != "" {
			if err := b.set(cfg, value); err != nil {
				return nil, errors.InvalidArgumentf("%s%s: %v", envPrefix, b.env, err)
			}
		}
	}

	for _, b := range configBindings {
		if !flags.Changed(b.flag) {
			continue
		}
		if err := b.set(cfg, flags.Lookup(b.flag).Value.String()); err != nil {
			return nil, errors.InvalidArgumentf("--%s: %v", b.flag, err)
		}
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to open config file")
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse config file")
	}
	return nil
}

func intSetter(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func stringSetter(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, value string) error {
		*field(c) = value
		return nil
	}
}

func durationSetter(field func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, value string) error {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

// newLogger builds the process logger
func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
