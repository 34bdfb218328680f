// Package config resolves runtime configuration from environment variables
// (SHOP_WEB_*) with an optional YAML endpoints file layered on top.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gildedlane/storefront-web/internal/catalog"
)

const (
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 15 * time.Second
	defaultIdleTimeout  = 60 * time.Second

	defaultFolder = "/content/shop/goods"
)

// Defaults for the four base URLs per fetch kind.
var defaultEndpoints = catalog.Endpoints{
	CurrentProduct: catalog.EndpointPair{
		Author:  "https://author.cms.gildedlane.com/graphql/execute.json/shop/product-by-sku",
		Publish: "https://cdn.cms.gildedlane.com/graphql/execute.json/shop/product-by-sku",
	},
	CurrentFolder: catalog.EndpointPair{
		Author:  "https://author.cms.gildedlane.com/graphql/execute.json/shop/products-by-folder",
		Publish: "https://cdn.cms.gildedlane.com/graphql/execute.json/shop/products-by-folder",
	},
	LegacyProduct: catalog.EndpointPair{
		Author:  "https://author.cms.gildedlane.com/graphql/execute.json/shop-legacy/product-by-sku",
		Publish: "https://cdn.cms.gildedlane.com/graphql/execute.json/shop-legacy/product-by-sku",
	},
	LegacyFolder: catalog.EndpointPair{
		Author:  "https://author.cms.gildedlane.com/graphql/execute.json/shop-legacy/products-by-folder",
		Publish: "https://cdn.cms.gildedlane.com/graphql/execute.json/shop-legacy/products-by-folder",
	},
	LegacyMarker: "/legacy/",
}

// Config captures runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Dev     bool
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// CatalogConfig selects the CMS environment and endpoint table.
type CatalogConfig struct {
	Environment   catalog.Environment
	Endpoints     catalog.Endpoints
	DefaultFolder string
}

type endpointsFile struct {
	Environment   string            `yaml:"environment"`
	DefaultFolder string            `yaml:"defaultFolder"`
	Endpoints     catalog.Endpoints `yaml:"endpoints"`
}

// Load resolves configuration. Precedence: defaults, then the YAML file named
// by SHOP_WEB_ENDPOINTS_FILE (or the endpointsFile argument when non-empty),
// then individual environment variables.
func Load(endpointsPath string) (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Port:         defaultPort,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
			IdleTimeout:  defaultIdleTimeout,
		},
		Catalog: CatalogConfig{
			Environment:   catalog.EnvPublish,
			Endpoints:     defaultEndpoints,
			DefaultFolder: defaultFolder,
		},
	}

	if endpointsPath == "" {
		endpointsPath = os.Getenv("SHOP_WEB_ENDPOINTS_FILE")
	}
	if endpointsPath != "" {
		if err := cfg.applyFile(endpointsPath); err != nil {
			return Config{}, err
		}
	}

	if port := firstEnv("SHOP_WEB_PORT", "PORT"); port != "" {
		cfg.Server.Port = port
	}
	if env := strings.ToLower(os.Getenv("SHOP_WEB_CMS_ENVIRONMENT")); env != "" {
		cfg.Catalog.Environment = parseEnvironment(env)
	}
	if folder := os.Getenv("SHOP_WEB_DEFAULT_FOLDER"); folder != "" {
		cfg.Catalog.DefaultFolder = folder
	}
	if marker := os.Getenv("SHOP_WEB_LEGACY_MARKER"); marker != "" {
		cfg.Catalog.Endpoints.LegacyMarker = marker
	}
	cfg.Dev = os.Getenv("SHOP_WEB_DEV") != "" || os.Getenv("DEV") != ""

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read endpoints file: %w", err)
	}
	var file endpointsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("config: parse endpoints file %s: %w", path, err)
	}
	if file.Environment != "" {
		c.Catalog.Environment = parseEnvironment(file.Environment)
	}
	if file.DefaultFolder != "" {
		c.Catalog.DefaultFolder = file.DefaultFolder
	}
	overlayPair(&c.Catalog.Endpoints.CurrentProduct, file.Endpoints.CurrentProduct)
	overlayPair(&c.Catalog.Endpoints.CurrentFolder, file.Endpoints.CurrentFolder)
	overlayPair(&c.Catalog.Endpoints.LegacyProduct, file.Endpoints.LegacyProduct)
	overlayPair(&c.Catalog.Endpoints.LegacyFolder, file.Endpoints.LegacyFolder)
	if file.Endpoints.LegacyMarker != "" {
		c.Catalog.Endpoints.LegacyMarker = file.Endpoints.LegacyMarker
	}
	return nil
}

func overlayPair(dst *catalog.EndpointPair, src catalog.EndpointPair) {
	if src.Author != "" {
		dst.Author = src.Author
	}
	if src.Publish != "" {
		dst.Publish = src.Publish
	}
}

func parseEnvironment(v string) catalog.Environment {
	if strings.ToLower(strings.TrimSpace(v)) == string(catalog.EnvAuthor) {
		return catalog.EnvAuthor
	}
	return catalog.EnvPublish
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
