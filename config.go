package storefront

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// RedisConfig enables the Redis-backed cart snapshot store when Addr is
// set; server-rendered deployments use it instead of a local file.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Key      string        `yaml:"key"`
	TTL      time.Duration `yaml:"ttl"`
}

type Config struct {
	// BaseURL is the backend API root, e.g. "https://shop.example/api".
	BaseURL string `yaml:"base_url"`

	// AuthTransport selects the credential carrier: "cookie" (httpOnly
	// session cookie) or "bearer" (Authorization header token).
	AuthTransport string `yaml:"auth_transport"`

	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Debounce is the quiet period before a city typeahead lookup fires.
	Debounce  time.Duration `yaml:"debounce"`
	CityLimit int           `yaml:"city_limit"`

	// CartPath is the cart snapshot file. Empty with no Redis configured
	// means the cart lives in memory only.
	CartPath string      `yaml:"cart_path"`
	Redis    RedisConfig `yaml:"redis"`

	LoginRoute    string `yaml:"login_route"`
	CartRoute     string `yaml:"cart_route"`
	CheckoutRoute string `yaml:"checkout_route"`
	SuccessRoute  string `yaml:"success_route"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:8000/api",
		AuthTransport:  "cookie",
		RequestTimeout: 30 * time.Second,
		Debounce:       300 * time.Millisecond,
		CityLimit:      20,
		LoginRoute:     "/login",
		CartRoute:      "/cart",
		CheckoutRoute:  "/checkout",
		SuccessRoute:   "/dashboard",
	}
}

// LoadConfig reads a YAML file over the defaults, then applies environment
// overrides. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.BaseURL = getEnv("STOREFRONT_BASE_URL", cfg.BaseURL)
	cfg.AuthTransport = getEnv("STOREFRONT_AUTH_TRANSPORT", cfg.AuthTransport)
	cfg.CartPath = getEnv("STOREFRONT_CART_PATH", cfg.CartPath)
	cfg.Redis.Addr = getEnv("STOREFRONT_REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("STOREFRONT_REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.Key = getEnv("STOREFRONT_REDIS_KEY", cfg.Redis.Key)
	cfg.Redis.DB = getEnvInt("STOREFRONT_REDIS_DB", cfg.Redis.DB)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	switch c.AuthTransport {
	case "cookie", "bearer":
	default:
		return fmt.Errorf("auth_transport must be cookie or bearer, got %q", c.AuthTransport)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
