package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"francoggm/pagseguro-transparente/internal/app/gateway"
	"francoggm/pagseguro-transparente/internal/models"

	"github.com/spf13/viper"
)

type Config struct {
	App     App     `mapstructure:"app"`
	Gateway Gateway `mapstructure:"gateway"`
	Cache   Cache   `mapstructure:"cache"`
	Workers Workers `mapstructure:"workers"`
	Server  Server  `mapstructure:"server"`
	Sync    Sync    `mapstructure:"sync"`
}

type App struct {
	Environment string `mapstructure:"environment"`
	StoreID     int    `mapstructure:"store_id"`
	PublicURL   string `mapstructure:"public_url"`
	LogLevel    string `mapstructure:"log_level"`
	// RedirectHosts are extra hosts the buyer may return to after checkout.
	RedirectHosts []string `mapstructure:"redirect_hosts"`
}

type Gateway struct {
	Application       string                        `mapstructure:"application"`
	AuthorizationCode string                        `mapstructure:"authorization_code"`
	Timeout           time.Duration                 `mapstructure:"timeout"`
	WSBaseURL         string                        `mapstructure:"ws_base_url"`
	SiteBaseURL       string                        `mapstructure:"site_base_url"`
	StaticBaseURL     string                        `mapstructure:"static_base_url"`
	Applications      map[string]models.Credentials `mapstructure:"applications"`
}

type Cache struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	PoolSize int    `mapstructure:"pool_size"`
}

type Workers struct {
	PaymentCount      int `mapstructure:"payment_count"`
	PaymentBufferSize int `mapstructure:"payment_buffer_size"`
	MaxRetries        int `mapstructure:"max_retries"`
}

type Server struct {
	Port string `mapstructure:"port"`
}

// Sync drives the periodic transaction search.
type Sync struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	Window   time.Duration `mapstructure:"window"`
}

var defaults = map[string]any{
	"app.environment":             "production",
	"app.public_url":              "http://localhost:8080",
	"app.log_level":               "info",
	"gateway.application":         gateway.ApplicationDefault,
	"gateway.timeout":             "10s",
	"cache.host":                  "localhost",
	"cache.port":                  "6379",
	"cache.pool_size":             20,
	"workers.payment_count":       5,
	"workers.payment_buffer_size": 100,
	"workers.max_retries":         5,
	"server.port":                 "8080",
	"sync.enabled":                true,
	"sync.interval":               "5m",
	"sync.window":                 "24h",
}

var envs = map[string]string{
	"app.environment":                                    "ENVIRONMENT",
	"app.store_id":                                       "STORE_ID",
	"app.public_url":                                     "PUBLIC_URL",
	"app.log_level":                                      "LOG_LEVEL",
	"app.redirect_hosts":                                 "REDIRECT_HOSTS",
	"gateway.application":                                "PAGSEGURO_APPLICATION",
	"gateway.authorization_code":                         "PAGSEGURO_AUTHORIZATION_CODE",
	"gateway.timeout":                                    "PAGSEGURO_TIMEOUT",
	"gateway.ws_base_url":                                "PAGSEGURO_WS_URL",
	"gateway.site_base_url":                              "PAGSEGURO_SITE_URL",
	"gateway.static_base_url":                            "PAGSEGURO_STATIC_URL",
	"gateway.applications.pagseguro.app_id":              "PAGSEGURO_APP_ID",
	"gateway.applications.pagseguro.app_key":             "PAGSEGURO_APP_KEY",
	"gateway.applications.pagseguro-alternativo.app_id":  "PAGSEGURO_ALT_APP_ID",
	"gateway.applications.pagseguro-alternativo.app_key": "PAGSEGURO_ALT_APP_KEY",
	"cache.host":                                         "CACHE_HOST",
	"cache.port":                                         "CACHE_PORT",
	"cache.password":                                     "CACHE_PASSWORD",
	"cache.pool_size":                                    "CACHE_POOL_SIZE",
	"workers.payment_count":                              "PAYMENT_WORKERS_COUNT",
	"workers.payment_buffer_size":                        "PAYMENT_WORKERS_EVENTS_BUFFER_SIZE",
	"workers.max_retries":                                "PAYMENT_WORKERS_MAX_RETRIES",
	"server.port":                                        "SERVER_PORT",
	"sync.enabled":                                       "SYNC_ENABLED",
	"sync.interval":                                      "SYNC_INTERVAL",
	"sync.window":                                        "SYNC_WINDOW",
}

// Load reads the optional YAML file at path, then applies environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, env := range envs {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	cfg.App.PublicURL = strings.TrimRight(cfg.App.PublicURL, "/")

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.App.StoreID <= 0 {
		errs = append(errs, errors.New("app.store_id is required"))
	}
	if c.App.PublicURL == "" {
		errs = append(errs, errors.New("app.public_url is required"))
	}
	if c.Gateway.Application != gateway.ApplicationDefault && c.Gateway.Application != gateway.ApplicationAlternative {
		errs = append(errs, fmt.Errorf("gateway.application %q is not supported", c.Gateway.Application))
	} else if _, err := c.Credentials(); err != nil {
		errs = append(errs, err)
	}
	if c.Gateway.Timeout <= 0 {
		errs = append(errs, errors.New("gateway.timeout must be positive"))
	}
	if c.Workers.PaymentCount <= 0 {
		errs = append(errs, errors.New("workers.payment_count must be positive"))
	}
	if c.Workers.MaxRetries <= 0 {
		errs = append(errs, errors.New("workers.max_retries must be positive"))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Sync.Enabled && (c.Sync.Interval <= 0 || c.Sync.Window <= 0) {
		errs = append(errs, errors.New("sync.interval and sync.window must be positive"))
	}
	return errors.Join(errs...)
}

// Alternative reports whether the store runs under the alternative gateway application.
func (c *Config) Alternative() bool {
	return c.Gateway.Application == gateway.ApplicationAlternative
}

// Credentials returns the application credentials for the configured application.
func (c *Config) Credentials() (models.Credentials, error) {
	creds, ok := c.Gateway.Applications[c.Gateway.Application]
	if !ok || creds.AppID == "" || creds.AppKey == "" {
		return models.Credentials{}, fmt.Errorf("credentials for application %q are not configured", c.Gateway.Application)
	}
	return creds, nil
}

// Endpoints resolves the gateway hosts for the environment, applying overrides.
func (c *Config) Endpoints() gateway.Endpoints {
	endpoints := gateway.NewEndpoints(c.App.Environment)
	if c.Gateway.WSBaseURL != "" {
		endpoints.WSBaseURL = strings.TrimRight(c.Gateway.WSBaseURL, "/")
	}
	if c.Gateway.SiteBaseURL != "" {
		endpoints.SiteBaseURL = strings.TrimRight(c.Gateway.SiteBaseURL, "/")
	}
	if c.Gateway.StaticBaseURL != "" {
		endpoints.StaticBaseURL = strings.TrimRight(c.Gateway.StaticBaseURL, "/")
	}
	return endpoints
}

// RedirectHosts returns the public URL host followed by the configured redirect hosts.
func (c *Config) RedirectHosts() []string {
	var hosts []string
	if u, err := url.Parse(c.App.PublicURL); err == nil && u.Hostname() != "" {
		hosts = append(hosts, u.Hostname())
	}
	for _, host := range c.App.RedirectHosts {
		for _, h := range strings.Split(host, ",") {
			if h = strings.TrimSpace(h); h != "" {
				hosts = append(hosts, h)
			}
		}
	}
	return hosts
}

func (c *Cache) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}
