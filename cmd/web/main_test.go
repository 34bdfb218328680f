package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/gildedlane/storefront-web/internal/catalog"
	"github.com/gildedlane/storefront-web/internal/config"
	"github.com/gildedlane/storefront-web/internal/i18n"
)

// newTestRouter builds a router similar to main(), pointed at a fake CMS.
func newTestRouter(t *testing.T, cms *httptest.Server) http.Handler {
	t.Helper()
	// ensure templates reparse each request and set correct paths
	devMode = true
	templatesDir = "../../templates"
	localesDir = "../../locales"
	publicDir = "../../public"
	logger = zap.NewNop()

	var err error
	i18nBundle, err = i18n.Load(localesDir, "en", []string{"en", "ja"})
	if err != nil {
		t.Fatalf("load i18n: %v", err)
	}
	if _, err := parseTemplates(); err != nil {
		t.Fatalf("parseTemplates failed: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cms != nil {
		cfg.Catalog.Endpoints = catalog.Endpoints{
			CurrentProduct: catalog.EndpointPair{Publish: cms.URL + "/current/product"},
			CurrentFolder:  catalog.EndpointPair{Publish: cms.URL + "/current/folder"},
			LegacyProduct:  catalog.EndpointPair{Publish: cms.URL + "/old/product"},
			LegacyFolder:   catalog.EndpointPair{Publish: cms.URL + "/old/folder"},
		}
	}
	appConfig = cfg
	catalogClient = catalog.NewClient(cfg.Catalog.Endpoints, catalog.EnvPublish, logger)
	sessions = newStoreRegistry()

	return newRouter()
}

// newTestCMS serves a three-product catalog in the current schema. Requests
// with a sku query select one record; folder requests return everything plus
// one keyless ghost record that clients must drop.
func newTestCMS(t *testing.T) *httptest.Server {
	t.Helper()
	items := map[string]string{
		"sku-1": `{"sku":"sku-1","name":"Aurora Lamp, vintage brass","price":129.5,"categories":["goods:lighting","goods:decor"],"externalImage":"https://images.example.com/aurora.jpg","description":{"html":"<p>Warm brass glow.</p>"}}`,
		"sku-2": `{"sku":"sku-2","name":"Nimbus Lamp","price":89,"categories":["goods:lighting"],"image":{"_authorUrl":"/content/dam/nimbus-author.jpg","_publishUrl":"/content/dam/nimbus.jpg"},"description":{"markdown":"A *soft* pendant."}}`,
		"sku-3": `{"sku":"sku-3","name":"Field Satchel","price":210,"categories":["goods:bags"],"description":"Waxed canvas."}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		var selected []string
		if sku := r.URL.Query().Get("sku"); sku != "" {
			if item, ok := items[sku]; ok {
				selected = append(selected, item)
			}
		} else {
			for _, k := range []string{"sku-1", "sku-2", "sku-3"} {
				selected = append(selected, items[k])
			}
			selected = append(selected, `{}`)
		}
		fmt.Fprintf(w, `{"data":{"productsContentFragmentModelList":{"items":[%s]}}}`, strings.Join(selected, ","))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// bootSession performs an initial GET to obtain session and CSRF cookies.
func bootSession(t *testing.T, srv http.Handler) (csrfToken, sessionCookie string) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Accept-Language", "en")
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("boot GET /cart expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		switch c.Name {
		case "csrf_token":
			csrfToken = c.Value
		case "SHOP_WEB_SESSION":
			sessionCookie = c.Value
		}
	}
	if csrfToken == "" || sessionCookie == "" {
		t.Fatalf("expected csrf and session cookies, got csrf=%q session=%q", csrfToken, sessionCookie)
	}
	return csrfToken, sessionCookie
}

func authedRequest(method, target string, body string, csrfToken, sessionCookie string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("HX-Request", "true")
	req.Header.Set("X-CSRF-Token", csrfToken)
	req.Header.Set("Cookie", "csrf_token="+csrfToken+"; SHOP_WEB_SESSION="+sessionCookie)
	return req
}

// countAttr parses the document and counts elements carrying the attribute.
func countAttr(t *testing.T, body, attr string) int {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	count := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key == attr {
					count++
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return count
}

func TestHealthzOK(t *testing.T) {
	srv := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "ok" {
		t.Fatalf("expected body 'ok', got %q", got)
	}
}

func TestHomeLocalizedNav_EN(t *testing.T) {
	srv := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, ">Shop<") {
		t.Fatalf("expected localized nav label 'Shop' in body; body=%s", body)
	}
	if !strings.Contains(body, "Goods with a past") {
		t.Fatalf("expected hero heading in body; body=%s", body)
	}
}

func TestHomeLocalizedNav_JA(t *testing.T) {
	srv := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ja")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "カート") {
		t.Fatalf("expected Japanese cart label in body; body=%s", rec.Body.String())
	}
}

func TestPostRequiresCSRF(t *testing.T) {
	srv := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart/checkout", nil)
	req.Header.Set("HX-Request", "true")
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for missing CSRF, got %d; body=%s", rec.Code, rec.Body.String())
	}
}

func TestSessionMiddlewareSetsCookie(t *testing.T) {
	srv := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.ServeHTTP(rec, req)
	var seen bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "SHOP_WEB_SESSION" {
			seen = true
			break
		}
	}
	if !seen {
		t.Fatalf("expected SHOP_WEB_SESSION cookie to be set, got %v", rec.Result().Header["Set-Cookie"])
	}
}
