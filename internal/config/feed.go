package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// FeedConfig tunes the client feed: page sizing and background refresh.
type FeedConfig struct {
	PageSize        int           `mapstructure:"pageSize"`
	MaxPageSize     int           `mapstructure:"maxPageSize"`
	RefreshInterval time.Duration `mapstructure:"refreshInterval"`
	RequestTimeout  time.Duration `mapstructure:"requestTimeout"`
}

func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		PageSize:        20,
		MaxPageSize:     100,
		RefreshInterval: 30 * time.Second,
		RequestTimeout:  10 * time.Second,
	}
}

// FeedConfigHolder serves the current feed config and hot-reloads feed.yml.
type FeedConfigHolder struct {
	current atomic.Value // holds FeedConfig
}

func NewFeedConfigHolder() (*FeedConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("feed")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/pulsetrail/config") // Volume-mounted config
	v.AddConfigPath("/etc/pulsetrail")            // System config
	v.AddConfigPath(".")                          // Current directory (dev mode)

	v.SetEnvPrefix("PULSETRAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultFeedConfig()
		v.SetDefault("feed.pageSize", defaults.PageSize)
		v.SetDefault("feed.maxPageSize", defaults.MaxPageSize)
		v.SetDefault("feed.refreshInterval", defaults.RefreshInterval)
		v.SetDefault("feed.requestTimeout", defaults.RequestTimeout)
	}

	var cfg FeedConfig
	if err := v.UnmarshalKey("feed", &cfg); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	if err := validateFeedConfig(cfg); err != nil {
		return nil, err
	}

	holder := &FeedConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated FeedConfig
		if err := v.UnmarshalKey("feed", &updated); err != nil {
			log.Printf("[feed-config] reload failed: %v", err)
			return
		}
		updated = updated.withDefaults()
		if err := validateFeedConfig(updated); err != nil {
			log.Printf("[feed-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[feed-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// Current returns the active feed configuration.
func (h *FeedConfigHolder) Current() FeedConfig {
	if h == nil {
		return DefaultFeedConfig()
	}
	cfg, ok := h.current.Load().(FeedConfig)
	if !ok {
		return DefaultFeedConfig()
	}
	return cfg
}

func (c FeedConfig) withDefaults() FeedConfig {
	defaults := DefaultFeedConfig()
	if c.PageSize <= 0 {
		c.PageSize = defaults.PageSize
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = defaults.MaxPageSize
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = defaults.RefreshInterval
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaults.RequestTimeout
	}
	return c
}

func validateFeedConfig(cfg FeedConfig) error {
	if cfg.PageSize > cfg.MaxPageSize {
		return errors.New("feed.pageSize must not exceed feed.maxPageSize")
	}
	return nil
}
