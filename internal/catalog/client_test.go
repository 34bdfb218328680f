package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const currentFolderBody = `{
  "data": {
    "productsContentFragmentModelList": {
      "items": [
        {
          "sku": "sku-1",
          "name": "Oak Stool, 3-leg",
          "price": 34.99,
          "categories": ["demo:Seating"],
          "description": {"markdown": "A **stool**."},
          "externalImage": "https://cdn.example.com/stool.jpg"
        },
        {
          "name": "Ghost record without identity",
          "price": 1
        },
        {
          "sku": "sku-2",
          "name": "Brass Lamp",
          "price": 18.5,
          "categories": ["demo:Lighting"],
          "externalImage": {"plaintext": "https://cdn.example.com/lamp.jpg"},
          "image": {"_authorUrl": "/content/dam/lamp.png", "_publishUrl": "/content/dam/lamp.png"}
        }
      ]
    }
  }
}`

const legacyProductBody = `{
  "data": {
    "productsModelList": {
      "items": [
        {
          "id": "legacy-9",
          "name": "Tin Jug, vintage",
          "price": 12,
          "category": ["old:Kitchen"],
          "description": "Plain text only.",
          "image": {"_authorUrl": "https://author.example.com/jug.png", "_publishUrl": "https://cdn.example.com/jug.png"}
        }
      ]
    }
  }
}`

func newFakeCMS(t *testing.T, body string, wantPath, wantSku string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cc := r.Header.Get("Cache-Control"); cc != "no-cache" {
			t.Errorf("expected no-cache header, got %q", cc)
		}
		if got := r.URL.Query().Get("path"); wantPath != "" && got != wantPath {
			t.Errorf("path query = %q, want %q", got, wantPath)
		}
		if got := r.URL.Query().Get("sku"); wantSku != "" && got != wantSku {
			t.Errorf("sku query = %q, want %q", got, wantSku)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestFolderListsCurrentSchemaAndDropsIdentityless(t *testing.T) {
	srv := newFakeCMS(t, currentFolderBody, "/content/shop/goods", "")
	defer srv.Close()

	c := NewClient(Endpoints{CurrentFolder: EndpointPair{Publish: srv.URL}}, EnvPublish, nil)
	products := c.Folder(context.Background(), "/content/shop/goods")
	if len(products) != 2 {
		t.Fatalf("expected 2 products (ghost dropped), got %d: %v", len(products), products)
	}
	first := products[0]
	if first.SKU != "sku-1" || first.Price != 34.99 {
		t.Fatalf("unexpected first product: %+v", first)
	}
	if first.Description.Markdown != "A **stool**." {
		t.Fatalf("description lost: %+v", first.Description)
	}
	if first.ExternalImage != "https://cdn.example.com/stool.jpg" {
		t.Fatalf("external image lost: %+v", first)
	}
	second := products[1]
	if second.ExternalImage != "https://cdn.example.com/lamp.jpg" {
		t.Fatalf("wrapped plaintext external image not unwrapped: %+v", second)
	}
	if second.DAMImage == nil || second.DAMImage.PublishURL != "/content/dam/lamp.png" {
		t.Fatalf("DAM image lost: %+v", second)
	}
}

func TestProductLegacySchemaSelection(t *testing.T) {
	srv := newFakeCMS(t, legacyProductBody, "/content/legacy/goods", "legacy-9")
	defer srv.Close()

	endpoints := Endpoints{
		LegacyProduct: EndpointPair{Publish: srv.URL},
		// CurrentProduct deliberately unset: hitting it would fail the test.
	}
	c := NewClient(endpoints, EnvPublish, nil)
	if !c.IsLegacyPath("/content/legacy/goods") {
		t.Fatal("path with legacy marker should select the legacy family")
	}
	p := c.Product(context.Background(), "/content/legacy/goods", "legacy-9")
	if p == nil {
		t.Fatal("expected legacy product, got nil")
	}
	if !p.Legacy || p.ID != "legacy-9" || p.Key() != "legacy-9" {
		t.Fatalf("unexpected product: %+v", p)
	}
	if p.Description.Plaintext != "Plain text only." {
		t.Fatalf("legacy string description not mapped to plaintext: %+v", p.Description)
	}
	if p.LegacyImage == nil || p.LegacyImage.PublishURL != "https://cdn.example.com/jug.png" {
		t.Fatalf("legacy image lost: %+v", p)
	}
}

func TestProductEmptySkuReturnsNil(t *testing.T) {
	c := NewClient(Endpoints{}, EnvPublish, nil)
	if p := c.Product(context.Background(), "/content/shop", ""); p != nil {
		t.Fatalf("expected nil for empty sku, got %+v", p)
	}
}

func TestFailuresCollapseToEmptyResults(t *testing.T) {
	boom := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer boom.Close()
	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer garbage.Close()

	for _, base := range []string{boom.URL, garbage.URL, ""} {
		c := NewClient(Endpoints{
			CurrentProduct: EndpointPair{Publish: base},
			CurrentFolder:  EndpointPair{Publish: base},
		}, EnvPublish, nil)
		if p := c.Product(context.Background(), "/content/shop", "sku-1"); p != nil {
			t.Fatalf("base %q: expected nil product, got %+v", base, p)
		}
		if list := c.Folder(context.Background(), "/content/shop"); len(list) != 0 {
			t.Fatalf("base %q: expected empty folder, got %v", base, list)
		}
	}
}

func TestEnvironmentSelectsBaseURL(t *testing.T) {
	author := newFakeCMS(t, legacyProductBody, "", "")
	defer author.Close()

	endpoints := Endpoints{LegacyProduct: EndpointPair{Author: author.URL, Publish: "http://127.0.0.1:1"}}
	c := NewClient(endpoints, EnvAuthor, nil)
	if p := c.Product(context.Background(), "/content/legacy/goods", "legacy-9"); p == nil {
		t.Fatal("author environment should use the author base URL")
	}
}
