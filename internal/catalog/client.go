package catalog

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Environment selects which delivery tier the client reads from.
type Environment string

const (
	EnvAuthor  Environment = "author"
	EnvPublish Environment = "publish"
)

const (
	defaultTimeout     = 8 * time.Second
	defaultLegacyMark  = "/legacy/"
	currentEnvelope    = "data.productsContentFragmentModelList.items"
	legacyEnvelope     = "data.productsModelList.items"
	maxResponsePreview = 256
)

// EndpointPair holds the author and publish base URLs for one fetch kind.
type EndpointPair struct {
	Author  string `yaml:"author"`
	Publish string `yaml:"publish"`
}

// For returns the base URL for the given environment.
func (p EndpointPair) For(env Environment) string {
	if env == EnvAuthor {
		return p.Author
	}
	return p.Publish
}

// Endpoints is the 2x2 base-URL table per fetch kind: schema family crossed
// with environment. Selection is a pure lookup, no retry or backoff.
type Endpoints struct {
	CurrentProduct EndpointPair `yaml:"currentProduct"`
	CurrentFolder  EndpointPair `yaml:"currentFolder"`
	LegacyProduct  EndpointPair `yaml:"legacyProduct"`
	LegacyFolder   EndpointPair `yaml:"legacyFolder"`

	// LegacyMarker is the namespace substring that routes a content path to
	// the legacy schema family.
	LegacyMarker string `yaml:"legacyMarker"`
}

func (e Endpoints) marker() string {
	if strings.TrimSpace(e.LegacyMarker) == "" {
		return defaultLegacyMark
	}
	return e.LegacyMarker
}

// Client fetches catalog records. All failures are absorbed: network and
// parse errors are logged and collapse into nil / empty results, which
// callers treat as "not found".
type Client struct {
	endpoints Endpoints
	env       Environment
	http      *http.Client
	log       *zap.Logger
}

// NewClient builds a client for the given endpoint table and environment.
func NewClient(endpoints Endpoints, env Environment, logger *zap.Logger) *Client {
	if env != EnvAuthor {
		env = EnvPublish
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoints: endpoints,
		env:       env,
		http:      &http.Client{Timeout: defaultTimeout},
		log:       logger,
	}
}

// Environment returns the delivery tier this client reads from.
func (c *Client) Environment() Environment { return c.env }

// IsLegacyPath reports whether the content path belongs to the legacy
// namespace.
func (c *Client) IsLegacyPath(folder string) bool {
	return strings.Contains(folder, c.endpoints.marker())
}

// Product looks up a single product by sku within the folder's schema family.
// It returns nil when the product cannot be found for any reason.
func (c *Client) Product(ctx context.Context, folder, sku string) *Product {
	if strings.TrimSpace(sku) == "" {
		return nil
	}
	legacy := c.IsLegacyPath(folder)
	base := c.endpoints.CurrentProduct.For(c.env)
	if legacy {
		base = c.endpoints.LegacyProduct.For(c.env)
	}
	items := c.fetchItems(ctx, base, folder, sku, legacy)
	for _, item := range items {
		p := decodeProduct(item, legacy)
		if p.Key() != "" {
			return &p
		}
	}
	return nil
}

// Folder lists every product in the folder, dropping records that carry
// neither a sku nor an id. Failures yield an empty list.
func (c *Client) Folder(ctx context.Context, folder string) []Product {
	legacy := c.IsLegacyPath(folder)
	base := c.endpoints.CurrentFolder.For(c.env)
	if legacy {
		base = c.endpoints.LegacyFolder.For(c.env)
	}
	items := c.fetchItems(ctx, base, folder, "", legacy)
	products := make([]Product, 0, len(items))
	for _, item := range items {
		p := decodeProduct(item, legacy)
		if p.Key() == "" {
			continue
		}
		products = append(products, p)
	}
	return products
}

func (c *Client) fetchItems(ctx context.Context, base, folder, sku string, legacy bool) []gjson.Result {
	if strings.TrimSpace(base) == "" {
		c.log.Warn("catalog endpoint not configured",
			zap.String("folder", folder),
			zap.Bool("legacy", legacy))
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base, nil)
	if err != nil {
		c.log.Warn("catalog request build failed", zap.String("base", base), zap.Error(err))
		return nil
	}
	q := req.URL.Query()
	q.Set("path", folder)
	if sku != "" {
		q.Set("sku", sku)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("catalog fetch failed", zap.String("url", req.URL.String()), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		c.log.Warn("catalog fetch status",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode))
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Warn("catalog read failed", zap.String("url", req.URL.String()), zap.Error(err))
		return nil
	}
	if !gjson.ValidBytes(body) {
		preview := string(body)
		if len(preview) > maxResponsePreview {
			preview = preview[:maxResponsePreview]
		}
		c.log.Warn("catalog response is not JSON",
			zap.String("url", req.URL.String()),
			zap.String("body", preview))
		return nil
	}
	envelope := currentEnvelope
	if legacy {
		envelope = legacyEnvelope
	}
	items := gjson.GetBytes(body, envelope)
	if !items.IsArray() {
		c.log.Warn("catalog envelope missing",
			zap.String("url", req.URL.String()),
			zap.String("envelope", envelope))
		return nil
	}
	return items.Array()
}
