package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix   = "SOCIAL_DASHBOARD"
	DotEnvFile  = ".env"
	MinInterval = time.Second
)

// KnownDashboards lists the dashboard variants the service can host.
var KnownDashboards = []string{"facebook", "instagram"}

type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	GRPC    GRPCConfig    `mapstructure:"grpc"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Hub     HubConfig     `mapstructure:"hub"`
	History HistoryConfig `mapstructure:"history"`
	Broker  BrokerConfig  `mapstructure:"broker"`

	v        *viper.Viper
	watchMux sync.Mutex
	watching bool
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | text | otel
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PollTimeout  time.Duration `mapstructure:"poll_timeout"`
}

type GRPCConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type FeedConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	Seed        int64         `mapstructure:"seed"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	Dashboards  []string      `mapstructure:"dashboards"`
}

type HubConfig struct {
	MailboxSize      int           `mapstructure:"mailbox_size"`
	SessionBuffer    int           `mapstructure:"session_buffer"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	EvictionInterval time.Duration `mapstructure:"eviction_interval"`
	SendTimeout      time.Duration `mapstructure:"send_timeout"`
}

type HistoryConfig struct {
	Size int `mapstructure:"size"`
}

type BrokerConfig struct {
	AMQPURL        string        `mapstructure:"amqp_url"`
	BreakerTimeout time.Duration `mapstructure:"breaker_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("http.addr", ":8050")
	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "0s")
	v.SetDefault("http.poll_timeout", "30s")

	v.SetDefault("grpc.enabled", true)
	v.SetDefault("grpc.addr", ":8051")

	v.SetDefault("feed.interval", "1s")
	v.SetDefault("feed.seed", 0)
	v.SetDefault("feed.max_attempts", 64)
	v.SetDefault("feed.dashboards", KnownDashboards)

	v.SetDefault("hub.mailbox_size", 256)
	v.SetDefault("hub.session_buffer", 64)
	v.SetDefault("hub.idle_timeout", "30m")
	v.SetDefault("hub.eviction_interval", "15m")
	v.SetDefault("hub.send_timeout", "500ms")

	v.SetDefault("history.size", 120)

	v.SetDefault("broker.amqp_url", "")
	v.SetDefault("broker.breaker_timeout", "30s")
}

// Flags returns the command-line overrides understood by LoadConfig.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("social-dashboard", pflag.ContinueOnError)
	fs.String("log.level", "info", "log level (debug, info, warn, error)")
	fs.String("log.format", "json", "log format (json, text, otel)")
	fs.String("http.addr", ":8050", "HTTP listen address")
	fs.String("grpc.addr", ":8051", "gRPC listen address")
	fs.Bool("grpc.enabled", true, "serve the gRPC feed stream")
	fs.Duration("feed.interval", time.Second, "tick period of every dashboard")
	fs.Int64("feed.seed", 0, "random seed (0 picks a random one)")
	fs.StringSlice("feed.dashboards", KnownDashboards, "dashboards to host")
	fs.String("broker.amqp_url", "", "AMQP URL frames are exported to (empty disables export)")
	return fs
}

// LoadConfig resolves configuration from, in increasing precedence: defaults, the YAML file
// (explicit path or ./config.yaml), SOCIAL_DASHBOARD_* environment (a .env file is loaded
// first when present) and the pflag overrides in args.
func LoadConfig(path string, args []string) (*Config, error) {
	if _, err := os.Stat(DotEnvFile); err == nil {
		if err := godotenv.Load(DotEnvFile); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", DotEnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fs := Flags()
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: parse flags: %w", err)
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("config: bind flags: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.v = v
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Feed.Interval < MinInterval {
		errs = append(errs, fmt.Errorf("feed.interval %s is below %s", c.Feed.Interval, MinInterval))
	}
	if len(c.Feed.Dashboards) == 0 {
		errs = append(errs, errors.New("feed.dashboards is empty"))
	}
	seen := make(map[string]bool, len(c.Feed.Dashboards))
	for _, name := range c.Feed.Dashboards {
		if !slices.Contains(KnownDashboards, name) {
			errs = append(errs, fmt.Errorf("feed.dashboards: unknown dashboard %q", name))
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("feed.dashboards: duplicate dashboard %q", name))
		}
		seen[name] = true
	}
	if c.History.Size < 1 {
		errs = append(errs, fmt.Errorf("history.size must be positive, got %d", c.History.Size))
	}
	if c.Hub.MailboxSize < 1 || c.Hub.SessionBuffer < 1 {
		errs = append(errs, errors.New("hub.mailbox_size and hub.session_buffer must be positive"))
	}
	switch c.Log.Format {
	case "json", "text", "otel":
	default:
		errs = append(errs, fmt.Errorf("log.format: unsupported %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// OnChange watches the config file and calls fn with every valid reloaded configuration.
// It is a no-op when no config file was read.
func (c *Config) OnChange(fn func(*Config)) {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return
	}

	c.v.OnConfigChange(func(fsnotify.Event) {
		next, err := decode(c.v)
		if err != nil {
			return
		}
		fn(next)
	})

	c.watchMux.Lock()
	defer c.watchMux.Unlock()
	if !c.watching {
		c.watching = true
		c.v.WatchConfig()
	}
}

// FileUsed reports the config file that was read, if any.
func (c *Config) FileUsed() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}
