package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the configuration for all three fulfillment services,
// loadable from environment variables (FULFILL_ prefix), flags, or a YAML
// config file. Each binary reads the same structure and uses its slice of it,
// so one config file can drive the whole stack.
type Config struct {
	Order     OrderConfig
	Directory ServiceConfig
	Catalog   CatalogConfig
	Graceful  GracefulConfig
}

// OrderConfig configures the order service and its remote collaborators.
type OrderConfig struct {
	Addr           string        `default:"0.0.0.0:8080" usage:"order service listen address"`
	DirectoryURL   string        `default:"http://localhost:8081" usage:"user directory service base URL" flag:"directory-url"`
	CatalogURL     string        `default:"http://localhost:8082" usage:"product catalog service base URL" flag:"catalog-url"`
	ClientTimeout  time.Duration `default:"5s" usage:"timeout for calls to remote collaborators" flag:"client-timeout"`
	LedgerCapacity int           `default:"0" usage:"max orders held by the ledger (0 = unbounded)" flag:"ledger-capacity"`
}

// ServiceConfig configures the user directory service.
type ServiceConfig struct {
	Addr string `default:"0.0.0.0:8081" usage:"directory service listen address"`
}

// CatalogConfig configures the product catalog service.
type CatalogConfig struct {
	Addr string `default:"0.0.0.0:8082" usage:"catalog service listen address"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, flags, and YAML
// config files, then applies platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "FULFILL",
		Files:     []string{"config.yaml", "/etc/fulfillment/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()
	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables that use
// standard names like PORT to the FULFILL_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Order.Addr == "0.0.0.0:8080" {
		c.Order.Addr = "0.0.0.0:" + port
	}
}
